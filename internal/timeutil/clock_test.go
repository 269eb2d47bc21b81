package timeutil

import (
	"testing"
	"time"
)

func TestMockClock_Advance(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewMockClock(start)

	if got := clock.Now(); !got.Equal(start) {
		t.Errorf("Now() = %v, want %v", got, start)
	}

	clock.Advance(5 * time.Second)
	if got := clock.Since(start); got != 5*time.Second {
		t.Errorf("Since(start) = %v, want 5s", got)
	}
}

func TestMockClock_SleepRecordsWithoutBlocking(t *testing.T) {
	clock := NewMockClock(time.Now())

	done := make(chan struct{})
	go func() {
		clock.Sleep(time.Hour)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("MockClock.Sleep blocked")
	}

	sleeps := clock.Sleeps()
	if len(sleeps) != 1 || sleeps[0] != time.Hour {
		t.Errorf("Sleeps() = %v, want [1h]", sleeps)
	}
}

func TestPollTimer_StoppedNeverTimesOut(t *testing.T) {
	clock := NewMockClock(time.Now())
	timer := NewPollTimer(clock)

	if timer.IsTimeout() {
		t.Error("unstarted timer reported timeout")
	}

	timer.Start(time.Millisecond)
	timer.Stop()
	clock.Advance(time.Second)
	if timer.IsTimeout() {
		t.Error("stopped timer reported timeout")
	}
}

func TestPollTimer_ZeroDurationFiresImmediately(t *testing.T) {
	clock := NewMockClock(time.Now())
	timer := NewPollTimer(clock)

	timer.Start(0)
	if !timer.IsTimeout() {
		t.Error("zero-duration timer did not fire on first poll")
	}
}

func TestPollTimer_StartAndRestart(t *testing.T) {
	clock := NewMockClock(time.Now())
	timer := NewPollTimer(clock)

	timer.Start(10 * time.Millisecond)
	clock.Advance(9 * time.Millisecond)
	if timer.IsTimeout() {
		t.Error("timer fired before duration elapsed")
	}
	clock.Advance(1 * time.Millisecond)
	if !timer.IsTimeout() {
		t.Error("timer did not fire at duration")
	}

	// Restart keeps the previous duration.
	timer.Restart()
	if timer.IsTimeout() {
		t.Error("timer fired immediately after restart")
	}
	clock.Advance(10 * time.Millisecond)
	if !timer.IsTimeout() {
		t.Error("restarted timer did not fire after duration")
	}
}
