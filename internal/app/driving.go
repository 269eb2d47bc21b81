package app

import (
	"github.com/banshee-data/trackbot/internal/control"
	"github.com/banshee-data/trackbot/internal/fsm"
	"github.com/banshee-data/trackbot/internal/timeutil"
)

// TrackStatus is the driving state's view of the track.
type TrackStatus uint8

const (
	TrackStatusOnTrack TrackStatus = iota
	TrackStatusLost
	TrackStatusFinished
)

// LineStatus tracks the start/end marker progression. It only ever
// advances; FindEndLine never reverts.
type LineStatus uint8

const (
	LineStatusFindStartLine LineStatus = iota
	LineStatusStartLineDetected
	LineStatusFindEndLine
)

const (
	// sensorOffTrackValue is the raw intensity above which a sensor is
	// considered saturated by a transverse marker.
	sensorOffTrackValue = 200

	// startEndLineDebounceCount is how many consecutive cycles the
	// marker signature must hold before a detection counts. Absorbs
	// single-cycle sensor noise, which otherwise registers spurious
	// start/end events at low speed.
	startEndLineDebounceCount = 3

	// positionAverageDepth is the moving-average depth over the line
	// position. The averaged value feeds only the loss/recovery
	// decisions, never the steering law.
	positionAverageDepth = 5
)

// DrivingState runs the line-following control law and the track-loss
// recovery protocol. One instance lives for the program's lifetime; all
// run-local state is re-initialised in Entry.
type DrivingState struct {
	ctx *Context

	observationTimer *timeutil.PollTimer
	pidTimer         *timeutil.PollTimer
	lapTimer         *timeutil.PollTimer

	pid       *control.PIDController[int16]
	posMovAvg *control.MovingAverage[int32]

	topSpeed             int16
	trackStatus          TrackStatus
	lineStatus           LineStatus
	startEndLineDebounce uint8
}

func newDrivingState(ctx *Context) *DrivingState {
	return &DrivingState{
		ctx:              ctx,
		observationTimer: timeutil.NewPollTimer(ctx.Clock),
		pidTimer:         timeutil.NewPollTimer(ctx.Clock),
		lapTimer:         timeutil.NewPollTimer(ctx.Clock),
		pid:              control.NewPIDController[int16](),
		posMovAvg:        control.NewMovingAverage[int32](positionAverageDepth),
	}
}

// TrackStatusValue returns the current track status, for telemetry and
// tests.
func (s *DrivingState) TrackStatusValue() TrackStatus {
	return s.trackStatus
}

// LineStatusValue returns the current marker progression.
func (s *DrivingState) LineStatusValue() LineStatus {
	return s.lineStatus
}

func (s *DrivingState) Entry() {
	parSet := s.ctx.Params.Current()
	maxSpeed := s.ctx.Drive.MaxMotorSpeed()

	s.observationTimer.Start(s.ctx.Timing.ObservationTimeout)
	s.pidTimer.Start(0) // first steering correction on the first cycle
	s.lineStatus = LineStatusFindStartLine
	s.trackStatus = TrackStatusOnTrack // the robot is placed on track
	s.startEndLineDebounce = 0
	s.posMovAvg.Clear()

	s.topSpeed = parSet.TopSpeed
	s.pid.Clear()
	s.pid.SetPFactor(parSet.KPNum, parSet.KPDen)
	s.pid.SetIFactor(parSet.KINum, parSet.KIDen)
	s.pid.SetDFactor(parSet.KDNum, parSet.KDDen)
	s.pid.SetSampleTime(uint32(s.ctx.Timing.PIDPeriod.Milliseconds()))
	s.pid.SetLimits(-maxSpeed, maxSpeed)
	s.pid.SetDerivativeOnMeasurement(true)
}

func (s *DrivingState) Process(m *fsm.Machine) {
	sensors := s.ctx.Board.LineSensors

	position := sensors.ReadLine()
	s.posMovAvg.Write(position)

	switch s.trackStatus {
	case TrackStatusOnTrack:
		s.processOnTrack(position, sensors.SensorValues())

	case TrackStatusLost:
		s.processTrackLost(position, sensors.SensorValues())

	case TrackStatusFinished:
		m.SetState(s.ctx.States.Ready)

	default:
		// Unreachable track status: fail safe.
		s.ctx.Drive.SetLinearSpeed(0, 0)
		s.ctx.Board.Buzzer.Alarm()
		m.SetState(s.ctx.States.Ready)
	}

	// Hard ceiling on the maneuver duration.
	if s.trackStatus != TrackStatusFinished && s.observationTimer.IsTimeout() {
		s.trackStatus = TrackStatusFinished

		// Stop motors immediately. Anything done before the stop would
		// extend the driven length.
		s.ctx.Drive.SetLinearSpeed(0, 0)

		s.ctx.Board.Buzzer.Alarm()
	}
}

func (s *DrivingState) Exit() {
	s.observationTimer.Stop()
	s.ctx.Board.YellowLed.Enable(false)
}

// processOnTrack handles one cycle of normal line following. Gap
// detection runs on the averaged position; marker detection runs on the
// raw sensor values.
func (s *DrivingState) processOnTrack(position int32, lineSensorValues []uint16) {
	if lineSensorValues == nil {
		return
	}

	// Track lost just in this moment?
	if s.isTrackGapDetected(s.posMovAvg.Result()) {
		s.trackStatus = TrackStatusLost

		// Mileage to 0 establishes the search-distance budget until the
		// track must be found again.
		s.ctx.Odometry.ClearMileage()

		s.ctx.Board.YellowLed.Enable(true)
		return
	}

	if s.isStartEndLineDetected(lineSensorValues) {
		switch s.lineStatus {
		case LineStatusFindStartLine:
			s.lineStatus = LineStatusStartLineDetected
			s.ctx.Board.Buzzer.Beep()

			// The lap is measured from the detected start line.
			s.lapTimer.Start(0)

		case LineStatusFindEndLine:
			// Stop motors immediately. Anything done before the stop
			// would extend the driven length.
			s.ctx.Drive.SetLinearSpeed(0, 0)

			s.ctx.Board.Buzzer.Beep()
			s.trackStatus = TrackStatusFinished
			s.ctx.States.Ready.SetLapTime(s.lapTimer.Elapsed())
		}
	} else if s.lineStatus == LineStatusStartLineDetected {
		// The marker has passed under the robot.
		s.lineStatus = LineStatusFindEndLine
	}

	if s.trackStatus != TrackStatusFinished && s.pidTimer.IsTimeout() {
		s.adaptDriving(position)
		s.pidTimer.Start(s.ctx.Timing.PIDPeriod)
	}
}

// processTrackLost handles one cycle of blind searching. Gap detection
// runs on the instantaneous position so recovery is not delayed by the
// filter.
func (s *DrivingState) processTrackLost(position int32, lineSensorValues []uint16) {
	if lineSensorValues == nil {
		return
	}

	if !s.isTrackGapDetected(position) {
		// Back on track.
		s.trackStatus = TrackStatusOnTrack

		// Drop the controller's derivative memory so the next
		// correction is not computed against the pre-loss measurement.
		s.pid.Resync()

		s.ctx.Board.YellowLed.Enable(false)
		return
	}

	if s.ctx.Odometry.MileageCenter() > s.ctx.Timing.MaxGapDistanceMM {
		// Search distance exhausted without regaining the track.
		s.ctx.Drive.SetLinearSpeed(0, 0)
		s.ctx.Board.Buzzer.Alarm()
		s.trackStatus = TrackStatusFinished
		return
	}

	// Drive straight on, open loop.
	s.ctx.Drive.SetLinearSpeed(s.topSpeed, s.topSpeed)
}

// isStartEndLineDetected recognises the transverse marker: the left
// edge sensor, the averaged middle sensors and the right edge sensor
// all saturated for startEndLineDebounceCount consecutive cycles. The
// middle sensors are combined so different line widths do not upset the
// detection.
func (s *DrivingState) isStartEndLineDetected(lineSensorValues []uint16) bool {
	n := len(lineSensorValues)
	if n < 3 {
		return false
	}

	left := lineSensorValues[0]
	right := lineSensorValues[n-1]
	var middleSum uint32
	for _, v := range lineSensorValues[1 : n-1] {
		middleSum += uint32(v)
	}
	middle := uint16(middleSum / uint32(n-2))

	if left < sensorOffTrackValue || middle < sensorOffTrackValue || right < sensorOffTrackValue {
		s.startEndLineDebounce = 0
		return false
	}

	if s.startEndLineDebounce < startEndLineDebounceCount {
		s.startEndLineDebounce++
	}
	return s.startEndLineDebounce >= startEndLineDebounceCount
}

// isTrackGapDetected reports whether the position is at either extreme
// of the measurable range, meaning only the outermost sensor still saw
// the line. No debouncing here; callers decide whether to filter.
func (s *DrivingState) isTrackGapDetected(position int32) bool {
	posMax := int32(s.ctx.Board.LineSensors.SensorCount()-1) * 1000
	return position <= 0 || position >= posMax
}

// adaptDriving recomputes the steering correction from the raw position
// and commands both wheels.
func (s *DrivingState) adaptDriving(position int32) {
	sensors := s.ctx.Board.LineSensors

	// The error is the distance from the track centre, which is the
	// max sensor value times the centre sensor index.
	setpoint := int16(sensors.SensorValueMax()) * 2
	speedDifference := s.pid.Calculate(setpoint, int16(position))

	leftSpeed := s.topSpeed - speedDifference
	rightSpeed := s.topSpeed + speedDifference

	// Both wheels stay in [0, topSpeed]: one wheel may slow to a stop
	// in a tight corner, but never reverses under this control law.
	leftSpeed = constrain(leftSpeed, 0, s.topSpeed)
	rightSpeed = constrain(rightSpeed, 0, s.topSpeed)

	s.ctx.Drive.SetLinearSpeed(leftSpeed, rightSpeed)
}

func constrain(v, min, max int16) int16 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
