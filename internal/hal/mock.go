package hal

// Mock devices for testing. Fields are exported so tests script inputs
// and inspect outputs directly.

// MockLineSensors implements LineSensors with scripted positions and raw
// values. Each ReadLine call consumes the next scripted entry; the last
// entry repeats once the script is exhausted.
type MockLineSensors struct {
	Positions []int32    // scripted ReadLine results
	Values    [][]uint16 // scripted raw values, parallel to Positions
	ReadCount int

	Count int    // sensor count; defaults to 5 when zero
	Max   uint16 // per-sensor max; defaults to 1000 when zero

	lastValues []uint16
}

func (m *MockLineSensors) ReadLine() int32 {
	idx := m.ReadCount
	if idx >= len(m.Positions) {
		idx = len(m.Positions) - 1
	}
	m.ReadCount++
	if idx < 0 {
		return 0
	}
	if idx < len(m.Values) {
		m.lastValues = m.Values[idx]
	}
	return m.Positions[idx]
}

func (m *MockLineSensors) SensorValues() []uint16 {
	return m.lastValues
}

func (m *MockLineSensors) SensorCount() int {
	if m.Count == 0 {
		return 5
	}
	return m.Count
}

func (m *MockLineSensors) SensorValueMax() uint16 {
	if m.Max == 0 {
		return 1000
	}
	return m.Max
}

// MockMotors records every commanded speed pair.
type MockMotors struct {
	Left     int16
	Right    int16
	Max      int16 // defaults to 2000 steps/s when zero
	Commands [][2]int16
}

func (m *MockMotors) SetSpeeds(left, right int16) {
	max := m.MaxMotorSpeed()
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
	m.Left = left
	m.Right = right
	m.Commands = append(m.Commands, [2]int16{left, right})
}

func (m *MockMotors) MaxMotorSpeed() int16 {
	if m.Max == 0 {
		return 2000
	}
	return m.Max
}

// Stopped reports whether the most recent command was a full stop.
func (m *MockMotors) Stopped() bool {
	return m.Left == 0 && m.Right == 0
}

// MockEncoders exposes settable cumulative step counts.
type MockEncoders struct {
	Left  int32
	Right int32
}

func (m *MockEncoders) StepsLeft() int32  { return m.Left }
func (m *MockEncoders) StepsRight() int32 { return m.Right }

// Add advances both encoder counts.
func (m *MockEncoders) Add(left, right int32) {
	m.Left += left
	m.Right += right
}

// MockLed records its current state and the number of transitions.
type MockLed struct {
	On      bool
	Toggles int
}

func (m *MockLed) Enable(on bool) {
	if m.On != on {
		m.Toggles++
	}
	m.On = on
}

// MockBuzzer counts beeps and alarms.
type MockBuzzer struct {
	Beeps  int
	Alarms int
}

func (m *MockBuzzer) Beep()  { m.Beeps++ }
func (m *MockBuzzer) Alarm() { m.Alarms++ }

// MockButton reports a scripted press state.
type MockButton struct {
	Pressed bool
}

func (m *MockButton) IsPressed() bool { return m.Pressed }

// NewMockBoard assembles a Board from fresh mocks and returns both the
// board and the mock set for scripting.
func NewMockBoard() (*Board, *MockDevices) {
	d := &MockDevices{
		LineSensors: &MockLineSensors{},
		Motors:      &MockMotors{},
		Encoders:    &MockEncoders{},
		YellowLed:   &MockLed{},
		Buzzer:      &MockBuzzer{},
		Button:      &MockButton{},
	}
	board := &Board{
		LineSensors: d.LineSensors,
		Motors:      d.Motors,
		Encoders:    d.Encoders,
		YellowLed:   d.YellowLed,
		Buzzer:      d.Buzzer,
		Button:      d.Button,
	}
	return board, d
}

// MockDevices holds the concrete mocks behind a mock Board.
type MockDevices struct {
	LineSensors *MockLineSensors
	Motors      *MockMotors
	Encoders    *MockEncoders
	YellowLed   *MockLed
	Buzzer      *MockBuzzer
	Button      *MockButton
}
