// Package drive contains the wheel-level motion components: speed
// measurement from the encoders, dead-reckoning odometry and the
// differential drive that issues bounded motor commands.
//
// Loop ordering is a correctness invariant: Speedometer.Process must run
// before DifferentialDrive.Process and Odometry.Process each tick so
// both consume current-cycle speed rather than stale data.
package drive

import (
	"time"

	"github.com/banshee-data/trackbot/internal/hal"
	"github.com/banshee-data/trackbot/internal/timeutil"
)

// Speedometer derives per-wheel linear speed in steps/s from encoder
// deltas over the elapsed interval since the previous Process call.
type Speedometer struct {
	clock    timeutil.Clock
	encoders hal.Encoders

	lastLeft  int32
	lastRight int32
	lastTime  time.Time
	primed    bool

	speedLeft  int32 // steps/s
	speedRight int32 // steps/s
}

// NewSpeedometer creates a speedometer over the given encoders.
func NewSpeedometer(clock timeutil.Clock, encoders hal.Encoders) *Speedometer {
	return &Speedometer{clock: clock, encoders: encoders}
}

// Process samples the encoders and updates the wheel speeds. A zero
// elapsed interval retains the previous speeds instead of dividing by
// zero.
func (s *Speedometer) Process() {
	left := s.encoders.StepsLeft()
	right := s.encoders.StepsRight()
	now := s.clock.Now()

	if !s.primed {
		s.lastLeft = left
		s.lastRight = right
		s.lastTime = now
		s.primed = true
		return
	}

	elapsed := now.Sub(s.lastTime).Milliseconds()
	if elapsed == 0 {
		return
	}

	s.speedLeft = int32(int64(left-s.lastLeft) * 1000 / elapsed)
	s.speedRight = int32(int64(right-s.lastRight) * 1000 / elapsed)

	s.lastLeft = left
	s.lastRight = right
	s.lastTime = now
}

// LinearSpeedLeft returns the left wheel speed in steps/s.
func (s *Speedometer) LinearSpeedLeft() int16 {
	return clampSpeed(s.speedLeft)
}

// LinearSpeedRight returns the right wheel speed in steps/s.
func (s *Speedometer) LinearSpeedRight() int16 {
	return clampSpeed(s.speedRight)
}

// LinearSpeedCenter returns the robot centre speed in steps/s.
func (s *Speedometer) LinearSpeedCenter() int16 {
	return clampSpeed((s.speedLeft + s.speedRight) / 2)
}

func clampSpeed(v int32) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}
