package hal

import "testing"

func TestMockLineSensorsScriptRepeatsLastEntry(t *testing.T) {
	m := &MockLineSensors{
		Positions: []int32{1000, 2000},
		Values:    [][]uint16{{1, 2, 3}, {4, 5, 6}},
	}

	if got := m.ReadLine(); got != 1000 {
		t.Errorf("first read = %d, want 1000", got)
	}
	if got := m.ReadLine(); got != 2000 {
		t.Errorf("second read = %d, want 2000", got)
	}
	// Script exhausted: the last entry repeats.
	if got := m.ReadLine(); got != 2000 {
		t.Errorf("third read = %d, want 2000", got)
	}
	if got := m.SensorValues(); got[0] != 4 {
		t.Errorf("values after exhaustion = %v, want the last scripted set", got)
	}
}

func TestMockLineSensorsDefaults(t *testing.T) {
	m := &MockLineSensors{}
	if got := m.SensorCount(); got != 5 {
		t.Errorf("default sensor count = %d, want 5", got)
	}
	if got := m.SensorValueMax(); got != 1000 {
		t.Errorf("default sensor max = %d, want 1000", got)
	}
}

func TestMockMotorsClampAndLog(t *testing.T) {
	m := &MockMotors{}

	m.SetSpeeds(30000, -30000)
	if m.Left != 2000 || m.Right != -2000 {
		t.Errorf("clamped speeds = (%d, %d), want (2000, -2000)", m.Left, m.Right)
	}

	m.SetSpeeds(0, 0)
	if !m.Stopped() {
		t.Errorf("Stopped() = false after a stop command")
	}
	if len(m.Commands) != 2 {
		t.Errorf("logged %d commands, want 2", len(m.Commands))
	}
}

func TestMockLedCountsToggles(t *testing.T) {
	m := &MockLed{}

	m.Enable(true)
	m.Enable(true) // no transition
	m.Enable(false)

	if m.On {
		t.Errorf("led on after Enable(false)")
	}
	if m.Toggles != 2 {
		t.Errorf("toggles = %d, want 2", m.Toggles)
	}
}
