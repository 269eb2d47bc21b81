package app

import (
	"log"
	"time"

	"github.com/banshee-data/trackbot/internal/fsm"
)

// ArmHoldDuration is how long the operator must hold the button in
// ready to arm a run. A shorter press cycles the driving profile
// instead.
const ArmHoldDuration = 500 * time.Millisecond

// ReadyState is the idle state between maneuvers and the effective
// terminal point of one: Driving hands the lap time over here. A short
// operator button press cycles the parameter set; holding the button
// arms the next run via Release.
type ReadyState struct {
	ctx        *Context
	lapTime    time.Duration
	hasLapTime bool
	lastButton bool
	pressedAt  time.Time
}

func newReadyState(ctx *Context) *ReadyState {
	return &ReadyState{ctx: ctx}
}

// SetLapTime records the duration of the lap just driven. Called by
// Driving before it requests the transition here.
func (s *ReadyState) SetLapTime(d time.Duration) {
	s.lapTime = d
	s.hasLapTime = true
}

// LapTime returns the last recorded lap time, if any.
func (s *ReadyState) LapTime() (time.Duration, bool) {
	return s.lapTime, s.hasLapTime
}

func (s *ReadyState) Entry() {
	s.ctx.Drive.SetLinearSpeed(0, 0)
	s.lastButton = s.ctx.Board.Button.IsPressed()
	s.pressedAt = time.Time{}
	if s.hasLapTime {
		log.Printf("ready: lap time %v, parameter set %q", s.lapTime, s.ctx.Params.Current().Name)
	} else {
		log.Printf("ready: parameter set %q", s.ctx.Params.Current().Name)
	}
}

func (s *ReadyState) Process(m *fsm.Machine) {
	pressed := s.ctx.Board.Button.IsPressed()
	switch {
	case pressed && !s.lastButton:
		s.pressedAt = s.ctx.Clock.Now()

	case pressed && s.lastButton:
		// A button held down through state entry carries no press
		// timestamp and never arms.
		if !s.pressedAt.IsZero() && s.ctx.Clock.Since(s.pressedAt) >= ArmHoldDuration {
			m.SetState(s.ctx.States.Release)
		}

	case !pressed && s.lastButton:
		if !s.pressedAt.IsZero() {
			set := s.ctx.Params.Next()
			s.ctx.Board.Buzzer.Beep()
			log.Printf("ready: parameter set %q", set.Name)
		}
		s.pressedAt = time.Time{}
	}
	s.lastButton = pressed
}

func (s *ReadyState) Exit() {}
