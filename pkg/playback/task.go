package playback

import (
	"sync"
	"time"
)

// repeatingTask runs fn on a fixed cadence in its own goroutine. It starts
// lazily on the first Start and is torn down exactly once by Stop, so an
// abandoned session never leaks a free-running timer. Suspend parks the
// ticker without losing the goroutine; Start resumes it.
type repeatingTask struct {
	interval time.Duration
	fn       func()

	mu        sync.Mutex
	started   bool
	suspended bool
	wake      chan struct{}
	done      chan struct{}
}

func newRepeatingTask(interval time.Duration, fn func()) *repeatingTask {
	return &repeatingTask{
		interval: interval,
		fn:       fn,
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Start launches the goroutine on first call and resumes a suspended task;
// other calls are no-ops.
func (t *repeatingTask) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.started {
		t.started = true
		go t.run()
		return
	}
	if t.suspended {
		t.suspended = false
		select {
		case t.wake <- struct{}{}:
		default:
		}
	}
}

// Suspend parks the ticker until the next Start. The goroutine stays alive;
// ticks stop firing entirely rather than no-opping in the background.
func (t *repeatingTask) Suspend() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.suspended = true
}

func (t *repeatingTask) isSuspended() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.suspended
}

func (t *repeatingTask) run() {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		if t.isSuspended() {
			ticker.Stop()
			select {
			case <-t.done:
				return
			case <-t.wake:
				ticker.Reset(t.interval)
			}
			continue
		}
		select {
		case <-t.done:
			return
		case <-t.wake:
			// Stale wakeup from a resume that raced a tick; ignore.
		case <-ticker.C:
			t.fn()
		}
	}
}

// Stop cancels the task. Safe to call multiple times and before Start.
func (t *repeatingTask) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.started {
		t.started = true // Prevent a Start after Stop from launching.
		close(t.done)
		return
	}
	select {
	case <-t.done:
	default:
		close(t.done)
	}
}
