package spritefsm

// MachineBuilder provides a fluent API for constructing state machines.
// States keep the order they were declared in, so States() and anything
// derived from it is deterministic.
type MachineBuilder[K comparable, P any] struct {
	start       K
	params      P
	keys        []K
	states      []State
	transitions []Transition[K, P]
}

// NewMachineBuilder creates a builder for a machine starting in start with
// the given initial parameters.
func NewMachineBuilder[K comparable, P any](start K, params P) *MachineBuilder[K, P] {
	return &MachineBuilder[K, P]{
		start:  start,
		params: params,
	}
}

// State declares a state. Declaring the same key twice makes Build fail with
// ErrDuplicateState.
func (b *MachineBuilder[K, P]) State(key K, duration float64, repeat bool) *MachineBuilder[K, P] {
	b.keys = append(b.keys, key)
	b.states = append(b.states, State{Duration: duration, Repeat: repeat})
	return b
}

// Transition appends a rule as-is.
func (b *MachineBuilder[K, P]) Transition(t Transition[K, P]) *MachineBuilder[K, P] {
	b.transitions = append(b.transitions, t)
	return b
}

// OnEnd adds a transition from -> to taken when from completes.
func (b *MachineBuilder[K, P]) OnEnd(from, to K) *MachineBuilder[K, P] {
	return b.Transition(Transition[K, P]{Start: From(from), End: to, Trigger: OnEnd[P]()})
}

// When adds a transition from -> to taken when cond holds.
func (b *MachineBuilder[K, P]) When(from, to K, cond func(P) bool) *MachineBuilder[K, P] {
	return b.Transition(Transition[K, P]{Start: From(from), End: to, Trigger: When(cond)})
}

// AnyOnEnd adds a transition from any state to to, taken when a state completes.
func (b *MachineBuilder[K, P]) AnyOnEnd(to K) *MachineBuilder[K, P] {
	return b.Transition(Transition[K, P]{Start: Any[K](), End: to, Trigger: OnEnd[P]()})
}

// AnyWhen adds a transition from any state to to, taken when cond holds.
func (b *MachineBuilder[K, P]) AnyWhen(to K, cond func(P) bool) *MachineBuilder[K, P] {
	return b.Transition(Transition[K, P]{Start: Any[K](), End: to, Trigger: When(cond)})
}

// Build validates the configuration and constructs the machine.
// Returns the same errors as NewStateMachine.
func (b *MachineBuilder[K, P]) Build() (*StateMachine[K, P], error) {
	keys := append([]K(nil), b.keys...)
	states := append([]State(nil), b.states...)
	transitions := append([]Transition[K, P](nil), b.transitions...)
	return newStateMachine(b.start, keys, states, transitions, b.params)
}
