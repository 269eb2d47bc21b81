package app

import (
	"github.com/banshee-data/trackbot/internal/fsm"
	"github.com/banshee-data/trackbot/internal/timeutil"
)

// ReleaseState is the short pause between the operator arming a run and
// the control law taking over, so the releasing hand is clear of the
// robot before it moves. Motors stay stopped here.
type ReleaseState struct {
	ctx          *Context
	releaseTimer *timeutil.PollTimer
}

func newReleaseState(ctx *Context) *ReleaseState {
	return &ReleaseState{
		ctx:          ctx,
		releaseTimer: timeutil.NewPollTimer(ctx.Clock),
	}
}

func (s *ReleaseState) Entry() {
	s.ctx.Drive.SetLinearSpeed(0, 0)
	s.ctx.Board.Buzzer.Beep()
	s.releaseTimer.Start(s.ctx.Timing.ReleaseDuration)
}

func (s *ReleaseState) Process(m *fsm.Machine) {
	if s.releaseTimer.IsTimeout() {
		m.SetState(s.ctx.States.Driving)
	}
}

func (s *ReleaseState) Exit() {
	s.releaseTimer.Stop()
}
