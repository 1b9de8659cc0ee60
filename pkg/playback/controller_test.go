package playback

import (
	"sync"
	"testing"
	"time"
)

// newTestController returns a controller whose ticker never fires on its
// own; tests drive ticks by calling tick() directly.
func newTestController(step float64) *Controller {
	return NewController(time.Hour, step, nil)
}

func TestInitialState(t *testing.T) {
	c := newTestController(1)
	defer c.Close()

	st := c.Status()
	if st.State != StateStopped || st.ProgressPercent != 0 || st.SpeedMultiplier != 1 {
		t.Errorf("initial status = %+v", st)
	}
}

func TestTickAdvancesOnlyWhenPlaying(t *testing.T) {
	c := newTestController(1)
	defer c.Close()

	c.tick()
	if got := c.Status().ProgressPercent; got != 0 {
		t.Errorf("stopped tick advanced progress to %v", got)
	}

	c.Play()
	c.tick()
	if got := c.Status(); got.State != StatePlaying || got.ProgressPercent != 1 {
		t.Errorf("after playing tick: %+v", got)
	}

	c.Pause()
	c.tick()
	if got := c.Status(); got.State != StatePaused || got.ProgressPercent != 1 {
		t.Errorf("paused tick advanced: %+v", got)
	}
}

func TestTickToCompletion(t *testing.T) {
	c := newTestController(10)
	defer c.Close()

	c.Play()
	for i := 0; i < 12; i++ {
		c.tick()
	}

	st := c.Status()
	if st.State != StateCompleted || st.ProgressPercent != 100 {
		t.Errorf("after running out: %+v", st)
	}

	// Completed does not advance further.
	c.tick()
	if got := c.Status().ProgressPercent; got != 100 {
		t.Errorf("completed tick moved progress to %v", got)
	}
}

func TestPlayFromCompletedRestarts(t *testing.T) {
	c := newTestController(50)
	defer c.Close()

	c.Play()
	c.tick()
	c.tick()
	if st := c.Status().State; st != StateCompleted {
		t.Fatalf("state = %v, want completed", st)
	}

	c.Play()
	st := c.Status()
	if st.State != StatePlaying || st.ProgressPercent != 0 {
		t.Errorf("play from completed: %+v", st)
	}
}

func TestSeekClampsAndKeepsState(t *testing.T) {
	c := newTestController(1)
	defer c.Close()

	c.Seek(50)
	if st := c.Status(); st.ProgressPercent != 50 || st.State != StateStopped {
		t.Errorf("seek in stopped: %+v", st)
	}

	c.Seek(-10)
	if got := c.Status().ProgressPercent; got != 0 {
		t.Errorf("seek below range: %v", got)
	}

	c.Seek(250)
	if got := c.Status().ProgressPercent; got != 100 {
		t.Errorf("seek above range: %v", got)
	}

	c.Play()
	c.Seek(30)
	if st := c.Status(); st.ProgressPercent != 30 || st.State != StatePlaying {
		t.Errorf("seek while playing: %+v", st)
	}
}

func TestSeekSupersedesTick(t *testing.T) {
	c := newTestController(1)
	defer c.Close()

	c.Play()
	c.tick()
	c.Seek(80)

	// The seek is the last writer; a subsequent tick advances from it
	// rather than from the pre-seek value.
	c.tick()
	if got := c.Status().ProgressPercent; got != 81 {
		t.Errorf("progress after seek+tick = %v, want 81", got)
	}
}

func TestReset(t *testing.T) {
	c := newTestController(10)
	defer c.Close()

	c.Play()
	c.tick()
	c.Reset()

	st := c.Status()
	if st.State != StateStopped || st.ProgressPercent != 0 {
		t.Errorf("after reset: %+v", st)
	}
}

func TestSetSpeed(t *testing.T) {
	c := newTestController(1)
	defer c.Close()

	for _, m := range []float64{0.5, 1, 2} {
		if err := c.SetSpeed(m); err != nil {
			t.Errorf("SetSpeed(%v): %v", m, err)
		}
	}
	for _, m := range []float64{0, -1, 1.5, 3} {
		if err := c.SetSpeed(m); err == nil {
			t.Errorf("SetSpeed(%v) accepted", m)
		}
	}

	c.SetSpeed(2)
	c.Play()
	c.tick()
	if got := c.Status().ProgressPercent; got != 2 {
		t.Errorf("progress at 2x = %v, want 2", got)
	}
}

func TestOnTickCallback(t *testing.T) {
	var got []Status
	c := NewController(time.Hour, 60, func(s Status) { got = append(got, s) })
	defer c.Close()

	c.Play()
	c.tick()
	c.tick()

	if len(got) != 2 {
		t.Fatalf("onTick fired %d times, want 2", len(got))
	}
	if got[0].ProgressPercent != 60 || got[0].State != StatePlaying {
		t.Errorf("first tick status: %+v", got[0])
	}
	if got[1].ProgressPercent != 100 || got[1].State != StateCompleted {
		t.Errorf("final tick status: %+v", got[1])
	}
}

func TestTickerParksWhenNotPlaying(t *testing.T) {
	c := newTestController(10)
	defer c.Close()

	c.Play()
	if c.task.isSuspended() {
		t.Fatal("ticker suspended while playing")
	}

	c.Pause()
	if !c.task.isSuspended() {
		t.Error("ticker still running while paused")
	}

	c.Play()
	if c.task.isSuspended() {
		t.Error("ticker not resumed by play")
	}

	c.Reset()
	if !c.task.isSuspended() {
		t.Error("ticker still running after reset")
	}
}

func TestTickerStopsOnCompletion(t *testing.T) {
	c := newTestController(50)
	defer c.Close()

	c.Play()
	c.tick()
	c.tick()
	if st := c.Status().State; st != StateCompleted {
		t.Fatalf("state = %v, want completed", st)
	}
	if !c.task.isSuspended() {
		t.Error("ticker still running after completion")
	}

	// Replaying from completed wakes the ticker back up.
	c.Play()
	if c.task.isSuspended() {
		t.Error("ticker not resumed by replay")
	}
}

func TestRepeatingTaskSuspendResume(t *testing.T) {
	var mu sync.Mutex
	count := 0
	task := newRepeatingTask(time.Millisecond, func() {
		mu.Lock()
		count++
		mu.Unlock()
	})
	defer task.Stop()

	task.Start()
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count > 0
	})

	task.Suspend()
	// Let any in-flight tick drain, then check the count holds still.
	time.Sleep(10 * time.Millisecond)
	mu.Lock()
	frozen := count
	mu.Unlock()
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	after := count
	mu.Unlock()
	if after > frozen+1 {
		t.Errorf("suspended task kept ticking: %d -> %d", frozen, after)
	}

	task.Start()
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count > after
	})
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatal("condition never met")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestTickerDrivesProgress(t *testing.T) {
	c := NewController(5*time.Millisecond, 1, nil)
	defer c.Close()

	c.Play()
	deadline := time.After(2 * time.Second)
	for c.Status().ProgressPercent == 0 {
		select {
		case <-deadline:
			t.Fatal("ticker never advanced progress")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
