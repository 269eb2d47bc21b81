package hal

import (
	"math"

	"github.com/banshee-data/trackbot/internal/units"
)

// Track simulator used by dev mode and the offline chart tool. The track
// is a circle with a transverse start/end marker and one gap segment. The
// simulator integrates the true robot pose from the commanded wheel
// speeds and synthesises encoder counts and line sensor readings from it.

// SimConfig describes the simulated track and sensor geometry.
type SimConfig struct {
	TrackRadiusMM   float64 // centerline radius
	LineHalfWidthMM float64 // guide line half width
	SensorPitchMM   float64 // lateral spacing between sensors
	SensorCount     int
	MaxMotorSpeed   int16   // steps/s
	MarkerArcMM     float64 // arc length of the start/end marker band
	GapStartArcMM   float64 // arc position where the gap begins
	GapLengthMM     float64 // arc length of the gap; zero disables it
}

// DefaultSimConfig returns the track used by dev mode: a 750 mm radius
// circle with a 40 mm marker at the start and a 120 mm gap on the far
// side.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		TrackRadiusMM:   750,
		LineHalfWidthMM: 6,
		SensorPitchMM:   9.5,
		SensorCount:     5,
		MaxMotorSpeed:   2000,
		MarkerArcMM:     40,
		GapStartArcMM:   2000,
		GapLengthMM:     120,
	}
}

// SimBoard implements every Board device against a simulated robot on a
// circular track. Pose integration happens in Step; all device reads are
// pure functions of the current pose.
type SimBoard struct {
	cfg SimConfig

	// True pose, mm / rad. The track circle is centred at (0, R) so the
	// robot starts on the line at the origin, heading +x.
	x, y    float64
	heading float64

	cmdLeft  int16 // steps/s
	cmdRight int16

	encLeft  float64 // fractional step accumulators
	encRight float64

	lastValues []uint16
	lastRead   int32

	led    MockLed
	buzzer MockBuzzer
	button MockButton
}

// NewSimBoard creates a simulator and the Board wired to it.
func NewSimBoard(cfg SimConfig) (*Board, *SimBoard) {
	s := &SimBoard{cfg: cfg, heading: 0}
	board := &Board{
		LineSensors: s,
		Motors:      s,
		Encoders:    s,
		YellowLed:   &s.led,
		Buzzer:      &s.buzzer,
		Button:      &s.button,
	}
	return board, s
}

// Step advances the simulation by dt milliseconds.
func (s *SimBoard) Step(dtMillis int) {
	dt := float64(dtMillis) / 1000.0
	vl := float64(s.cmdLeft) / units.StepsPerMM  // mm/s
	vr := float64(s.cmdRight) / units.StepsPerMM // mm/s

	v := (vl + vr) / 2.0
	w := (vr - vl) / units.WheelBaseMM

	mid := s.heading + w*dt/2.0
	s.x += v * math.Cos(mid) * dt
	s.y += v * math.Sin(mid) * dt
	s.heading += w * dt

	s.encLeft += vl * units.StepsPerMM * dt
	s.encRight += vr * units.StepsPerMM * dt
}

// PressButton sets the simulated operator button state.
func (s *SimBoard) PressButton(pressed bool) {
	s.button.Pressed = pressed
}

// Pose returns the true simulated pose (mm, mm, rad) for comparison with
// the dead-reckoned one.
func (s *SimBoard) Pose() (x, y, heading float64) {
	return s.x, s.y, s.heading
}

// LedOn reports the simulated indicator state.
func (s *SimBoard) LedOn() bool { return s.led.On }

// Beeps returns the number of confirmation tones played so far.
func (s *SimBoard) Beeps() int { return s.buzzer.Beeps }

// Alarms returns the number of alarm tones played so far.
func (s *SimBoard) Alarms() int { return s.buzzer.Alarms }

// --- Motors ---

func (s *SimBoard) SetSpeeds(left, right int16) {
	max := s.cfg.MaxMotorSpeed
	if left > max {
		left = max
	} else if left < -max {
		left = -max
	}
	if right > max {
		right = max
	} else if right < -max {
		right = -max
	}
	s.cmdLeft = left
	s.cmdRight = right
}

func (s *SimBoard) MaxMotorSpeed() int16 { return s.cfg.MaxMotorSpeed }

// --- Encoders ---

func (s *SimBoard) StepsLeft() int32  { return int32(s.encLeft) }
func (s *SimBoard) StepsRight() int32 { return int32(s.encRight) }

// --- LineSensors ---

func (s *SimBoard) SensorCount() int       { return s.cfg.SensorCount }
func (s *SimBoard) SensorValueMax() uint16 { return 1000 }

func (s *SimBoard) SensorValues() []uint16 { return s.lastValues }

// ReadLine synthesises the sensor array from the pose and returns the
// interpolated line position, mirroring the reflectance array's weighted
// average readout.
func (s *SimBoard) ReadLine() int32 {
	n := s.cfg.SensorCount
	values := make([]uint16, n)

	arc := s.arcPosition()
	inMarker := arc >= 0 && arc < s.cfg.MarkerArcMM
	inGap := s.cfg.GapLengthMM > 0 &&
		arc >= s.cfg.GapStartArcMM && arc < s.cfg.GapStartArcMM+s.cfg.GapLengthMM

	for i := 0; i < n; i++ {
		switch {
		case inMarker:
			// Transverse band: every sensor sees line.
			values[i] = 1000
		case inGap:
			values[i] = 0
		default:
			values[i] = s.sensorValue(i)
		}
	}
	s.lastValues = values

	// Weighted average over sensors that see the line.
	var sum, weighted int64
	onLine := false
	for i, v := range values {
		if v > 50 {
			onLine = true
		}
		sum += int64(v)
		weighted += int64(v) * int64(i) * 1000
	}
	if !onLine || sum == 0 {
		// Line left the array: saturate towards the side it was last
		// seen on.
		if s.lastRead < int32((n-1)*1000/2) {
			s.lastRead = 0
		} else {
			s.lastRead = int32((n - 1) * 1000)
		}
		return s.lastRead
	}
	s.lastRead = int32(weighted / sum)
	return s.lastRead
}

// sensorValue computes one sensor's intensity from its lateral distance
// to the track centerline.
func (s *SimBoard) sensorValue(i int) uint16 {
	// Sensor i sits (i - (n-1)/2) * pitch to the right of the robot
	// centre, slightly ahead of the axle. The forward offset does not
	// matter on a circle of this radius, so it is ignored.
	offset := (float64(i) - float64(s.cfg.SensorCount-1)/2.0) * s.cfg.SensorPitchMM
	rightX := math.Sin(s.heading)
	rightY := -math.Cos(s.heading)
	sx := s.x + rightX*offset
	sy := s.y + rightY*offset

	// Signed distance from the track centerline circle centred at (0, R).
	d := math.Hypot(sx, sy-s.cfg.TrackRadiusMM) - s.cfg.TrackRadiusMM
	ad := math.Abs(d)
	if ad >= s.cfg.LineHalfWidthMM {
		return 0
	}
	return uint16(1000 * (1 - ad/s.cfg.LineHalfWidthMM))
}

// arcPosition returns the robot centre's position along the track
// centerline in mm, measured from the start marker.
func (s *SimBoard) arcPosition() float64 {
	angle := math.Atan2(s.x, s.cfg.TrackRadiusMM-s.y) // 0 at origin, increasing with +x travel
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle * s.cfg.TrackRadiusMM
}
