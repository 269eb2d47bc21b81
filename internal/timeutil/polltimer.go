package timeutil

import "time"

// PollTimer is a non-blocking one-shot interval timer. It never fires on
// its own; callers poll IsTimeout from the main loop. A zero duration
// makes the timer expire on the first poll.
type PollTimer struct {
	clock    Clock
	started  time.Time
	duration time.Duration
	running  bool
}

// NewPollTimer creates a stopped timer on the given clock.
func NewPollTimer(clock Clock) *PollTimer {
	return &PollTimer{clock: clock}
}

// Start arms the timer for the given duration from now.
func (t *PollTimer) Start(d time.Duration) {
	t.started = t.clock.Now()
	t.duration = d
	t.running = true
}

// Restart re-arms the timer with its previous duration from now.
func (t *PollTimer) Restart() {
	t.started = t.clock.Now()
	t.running = true
}

// Stop disarms the timer. IsTimeout reports false until the next Start.
func (t *PollTimer) Stop() {
	t.running = false
}

// IsRunning reports whether the timer is armed.
func (t *PollTimer) IsRunning() bool {
	return t.running
}

// IsTimeout reports whether the armed duration has elapsed. A stopped
// timer never times out.
func (t *PollTimer) IsTimeout() bool {
	if !t.running {
		return false
	}
	return t.clock.Since(t.started) >= t.duration
}

// Elapsed returns the time since the timer was last started or restarted.
func (t *PollTimer) Elapsed() time.Duration {
	if !t.running {
		return 0
	}
	return t.clock.Since(t.started)
}
