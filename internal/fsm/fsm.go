// Package fsm implements the generic finite-state driver of the
// application: states expose an entry/process/exit lifecycle and the
// machine applies transitions synchronously. States are long-lived
// objects owned by the program; the machine only ever holds a reference
// to the active one.
package fsm

// State is one state of the machine. Process receives the machine so the
// state can request a transition; transitions requested from inside
// Process take effect before Process returns to the caller.
type State interface {
	Entry()
	Process(m *Machine)
	Exit()
}

// Machine drives exactly one active state. The zero value is a machine
// with no active state; the caller selects the initial state with
// SetState. There is no terminal state — the machine runs for the
// program's lifetime.
type Machine struct {
	active State
}

// New returns a machine with no active state.
func New() *Machine {
	return &Machine{}
}

// SetState transitions to target. Setting the already-active state is a
// no-op. Otherwise the outgoing state's Exit runs (if any state is
// active), the reference is swapped, and the incoming state's Entry runs
// — all synchronously before SetState returns.
func (m *Machine) SetState(target State) {
	if target == m.active {
		return
	}
	if m.active != nil {
		m.active.Exit()
	}
	m.active = target
	if m.active != nil {
		m.active.Entry()
	}
}

// Active returns the currently active state, or nil.
func (m *Machine) Active() State {
	return m.active
}

// Process delegates exactly one call to the active state. A machine
// without an active state does nothing.
func (m *Machine) Process() {
	if m.active != nil {
		m.active.Process(m)
	}
}
