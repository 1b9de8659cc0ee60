// Package playback drives simulation progress over wall-clock time: a state
// machine with play/pause/seek/speed plus an owned repeating tick task.
package playback

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// State is the playback state machine position.
type State string

const (
	StateStopped   State = "stopped"
	StatePlaying   State = "playing"
	StatePaused    State = "paused"
	StateCompleted State = "completed"
)

// Default tick cadence and per-tick advance at 1x speed.
const (
	DefaultTickInterval = 100 * time.Millisecond
	DefaultStepPercent  = 0.25
)

// speedMultipliers are the only accepted playback speeds.
var speedMultipliers = map[float64]bool{0.5: true, 1: true, 2: true}

// Status is a consistent snapshot of the playback state.
type Status struct {
	State           State   `json:"state"`
	ProgressPercent float64 `json:"progress_percent"`
	SpeedMultiplier float64 `json:"speed_multiplier"`
}

// Controller owns the playback state and the ticker goroutine that advances
// it. All methods are safe for concurrent use; mutations serialize on one
// mutex, so a seek and an in-flight tick cannot interleave — whichever
// commits last wins the progress value. The tick callback fires outside the
// lock with the status it produced.
type Controller struct {
	mu       sync.Mutex
	state    State
	progress float64
	speed    float64

	interval    time.Duration
	stepPercent float64

	onTick func(Status)

	task *repeatingTask
}

// NewController creates a Controller in the stopped state. onTick (optional)
// is invoked after every committed tick, including the final transition to
// completed. Zero interval/step select the defaults.
func NewController(interval time.Duration, stepPercent float64, onTick func(Status)) *Controller {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	if stepPercent <= 0 {
		stepPercent = DefaultStepPercent
	}
	c := &Controller{
		state:       StateStopped,
		speed:       1,
		interval:    interval,
		stepPercent: stepPercent,
		onTick:      onTick,
	}
	c.task = newRepeatingTask(interval, c.tick)
	return c
}

// Play starts or resumes playback. Playing from completed restarts from 0.
func (c *Controller) Play() {
	c.mu.Lock()
	if c.state == StateCompleted {
		c.progress = 0
	}
	c.state = StatePlaying
	c.mu.Unlock()

	c.task.Start()
}

// Pause suspends a running playback; a no-op in any other state. The ticker
// parks with it, so a paused session burns no timer wakeups.
func (c *Controller) Pause() {
	c.mu.Lock()
	if c.state == StatePlaying {
		c.state = StatePaused
	}
	c.mu.Unlock()

	c.task.Suspend()
}

// Seek jumps to the given progress, clamped to [0,100], without changing
// the state machine position. Because progress mutates under the lock, a
// tick already scheduled cannot overwrite the seeked value; it will advance
// from it on the next interval.
func (c *Controller) Seek(progressPercent float64) {
	if progressPercent < 0 {
		progressPercent = 0
	}
	if progressPercent > 100 {
		progressPercent = 100
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.progress = progressPercent
}

// Reset returns to stopped at progress 0 from any state and parks the ticker.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.state = StateStopped
	c.progress = 0
	c.mu.Unlock()

	c.task.Suspend()
}

// SetSpeed changes the playback speed; only 0.5, 1 and 2 are accepted.
func (c *Controller) SetSpeed(multiplier float64) error {
	if !speedMultipliers[multiplier] {
		return fmt.Errorf("unsupported speed multiplier %v (want 0.5, 1 or 2)", multiplier)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.speed = multiplier
	return nil
}

// Status returns a consistent snapshot.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

// Close tears down the ticker goroutine. The controller must not be used
// afterwards.
func (c *Controller) Close() {
	c.task.Stop()
}

func (c *Controller) statusLocked() Status {
	return Status{State: c.state, ProgressPercent: c.progress, SpeedMultiplier: c.speed}
}

// tick advances progress by one interval's worth. Only the playing state
// advances; reaching 100 transitions to completed and stops the ticker.
func (c *Controller) tick() {
	c.mu.Lock()
	if c.state != StatePlaying {
		c.mu.Unlock()
		return
	}

	completed := false
	c.progress += c.speed * c.stepPercent
	if c.progress >= 100 {
		c.progress = 100
		c.state = StateCompleted
		completed = true
		slog.Debug("playback completed")
	}
	st := c.statusLocked()
	onTick := c.onTick
	c.mu.Unlock()

	if completed {
		c.task.Suspend()
	}
	if onTick != nil {
		onTick(st)
	}
}
