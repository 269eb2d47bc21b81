// Package app ties the motion-control core together: the application
// states (startup, ready, release, driving), the parameter sets, and the
// cooperative main loop that sequences speedometer, drive, odometry,
// telemetry and the state machine.
package app

import (
	"time"

	"github.com/banshee-data/trackbot/internal/drive"
	"github.com/banshee-data/trackbot/internal/hal"
	"github.com/banshee-data/trackbot/internal/timeutil"
)

// Timing collects the loop cadences and maneuver bounds. Values come
// from DefaultTiming, optionally overridden by the tuning file.
type Timing struct {
	// ControlPeriod is the drive/odometry control period.
	ControlPeriod time.Duration

	// PIDPeriod is the steering recompute period inside driving.
	PIDPeriod time.Duration

	// ReportPeriod is the telemetry publication period.
	ReportPeriod time.Duration

	// ObservationTimeout is the hard ceiling on one maneuver.
	ObservationTimeout time.Duration

	// ReleaseDuration is the pause between operator release and driving.
	ReleaseDuration time.Duration

	// MaxGapDistanceMM bounds blind search driving after track loss.
	MaxGapDistanceMM uint32
}

// DefaultTiming returns the standard cadences.
func DefaultTiming() Timing {
	return Timing{
		ControlPeriod:      5 * time.Millisecond,
		PIDPeriod:          10 * time.Millisecond,
		ReportPeriod:       100 * time.Millisecond,
		ObservationTimeout: 3 * time.Minute,
		ReleaseDuration:    time.Second,
		MaxGapDistanceMM:   200,
	}
}

// States is the arena of application state singletons. All states are
// created once at startup; the state machine only ever references them.
type States struct {
	Startup *StartupState
	Ready   *ReadyState
	Release *ReleaseState
	Driving *DrivingState
}

// Context is the explicit dependency bundle handed to every state. It
// replaces any form of global lookup: the board, the drive train and the
// parameter selection are all reached through it.
type Context struct {
	Board *hal.Board
	Clock timeutil.Clock

	Speedometer *drive.Speedometer
	Drive       *drive.DifferentialDrive
	Odometry    *drive.Odometry

	Params *ParameterSets
	Timing Timing

	States *States
}

// NewContext wires the drive train over the board and constructs the
// state arena.
func NewContext(board *hal.Board, clock timeutil.Clock, params *ParameterSets, timing Timing) *Context {
	speedometer := drive.NewSpeedometer(clock, board.Encoders)
	ctx := &Context{
		Board:       board,
		Clock:       clock,
		Speedometer: speedometer,
		Drive:       drive.NewDifferentialDrive(board.Motors, speedometer),
		Odometry:    drive.NewOdometry(board.Encoders),
		Params:      params,
		Timing:      timing,
	}
	ctx.States = &States{
		Startup: newStartupState(ctx),
		Ready:   newReadyState(ctx),
		Release: newReleaseState(ctx),
		Driving: newDrivingState(ctx),
	}
	return ctx
}
