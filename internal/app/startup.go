package app

import (
	"log"

	"github.com/banshee-data/trackbot/internal/fsm"
)

// StartupState is the initial state: motors stopped, a greeting beep,
// then waiting for the operator button before handing over to Ready.
type StartupState struct {
	ctx        *Context
	lastButton bool
}

func newStartupState(ctx *Context) *StartupState {
	return &StartupState{ctx: ctx}
}

func (s *StartupState) Entry() {
	s.ctx.Drive.SetLinearSpeed(0, 0)
	s.ctx.Board.Buzzer.Beep()
	s.lastButton = s.ctx.Board.Button.IsPressed()
	log.Printf("startup: %d line sensors, max motor speed %d steps/s",
		s.ctx.Board.LineSensors.SensorCount(), s.ctx.Drive.MaxMotorSpeed())
}

func (s *StartupState) Process(m *fsm.Machine) {
	pressed := s.ctx.Board.Button.IsPressed()
	if pressed && !s.lastButton {
		m.SetState(s.ctx.States.Ready)
	}
	s.lastButton = pressed
}

func (s *StartupState) Exit() {}
