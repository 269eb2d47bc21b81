package fsm

import "testing"

// recordingState logs its lifecycle calls into a shared trace.
type recordingState struct {
	name  string
	trace *[]string
	next  State
}

func (s *recordingState) Entry() {
	*s.trace = append(*s.trace, s.name+".entry")
}

func (s *recordingState) Process(m *Machine) {
	*s.trace = append(*s.trace, s.name+".process")
	if s.next != nil {
		m.SetState(s.next)
	}
}

func (s *recordingState) Exit() {
	*s.trace = append(*s.trace, s.name+".exit")
}

func TestMachine_InitialSetStateRunsEntryOnly(t *testing.T) {
	var trace []string
	a := &recordingState{name: "a", trace: &trace}

	m := New()
	m.SetState(a)

	if len(trace) != 1 || trace[0] != "a.entry" {
		t.Errorf("trace = %v, want [a.entry]", trace)
	}
}

func TestMachine_SetSameStateIsNoOp(t *testing.T) {
	var trace []string
	a := &recordingState{name: "a", trace: &trace}

	m := New()
	m.SetState(a)
	trace = trace[:0]

	m.SetState(a)
	if len(trace) != 0 {
		t.Errorf("trace = %v, want no lifecycle calls", trace)
	}
}

func TestMachine_TransitionOrderExitThenEntry(t *testing.T) {
	var trace []string
	a := &recordingState{name: "a", trace: &trace}
	b := &recordingState{name: "b", trace: &trace}

	m := New()
	m.SetState(a)
	trace = trace[:0]

	m.SetState(b)
	want := []string{"a.exit", "b.entry"}
	if len(trace) != 2 || trace[0] != want[0] || trace[1] != want[1] {
		t.Errorf("trace = %v, want %v", trace, want)
	}
	if m.Active() != b {
		t.Error("active state is not b")
	}
}

func TestMachine_TransitionFromProcessAppliesBeforeReturn(t *testing.T) {
	var trace []string
	b := &recordingState{name: "b", trace: &trace}
	a := &recordingState{name: "a", trace: &trace, next: b}

	m := New()
	m.SetState(a)
	m.Process()

	// Transition requested inside a.Process is applied synchronously.
	if m.Active() != b {
		t.Fatal("transition requested in Process not applied")
	}
	want := []string{"a.entry", "a.process", "a.exit", "b.entry"}
	for i, w := range want {
		if i >= len(trace) || trace[i] != w {
			t.Fatalf("trace = %v, want %v", trace, want)
		}
	}
}

func TestMachine_ProcessWithoutActiveStateIsSafe(t *testing.T) {
	m := New()
	m.Process() // must not panic
}
