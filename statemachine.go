package spritefsm

import (
	"fmt"
	"math"
)

// State describes a named phase of an animation.
type State struct {
	Duration float64 // seconds
	Repeat   bool
}

// CurrentState is a snapshot of the state the machine is in.
type CurrentState[K comparable] struct {
	Key      K
	Duration float64 // copied from the State on entry
	Elapsed  float64 // 0 <= Elapsed <= Duration
	Repeat   bool    // copied from the State on entry
}

// Progress returns Elapsed/Duration in [0, 1]. Zero-duration states are
// always complete and report 1.
func (c CurrentState[K]) Progress() float64 {
	if c.Duration <= 0 {
		return 1
	}
	return c.Elapsed / c.Duration
}

// Finished reports whether the state has run its full duration.
func (c CurrentState[K]) Finished() bool {
	return c.Elapsed >= c.Duration
}

// StartState selects which states a transition may leave from.
type StartState[K comparable] struct {
	Key K
	Any bool // matches every state; Key is ignored
}

// Any returns the wildcard start state.
func Any[K comparable]() StartState[K] {
	return StartState[K]{Any: true}
}

// From returns a start state matching only key.
func From[K comparable](key K) StartState[K] {
	return StartState[K]{Key: key}
}

func (s StartState[K]) String() string {
	if s.Any {
		return "*"
	}
	return fmt.Sprint(s.Key)
}

type triggerKind uint8

const (
	triggerInvalid triggerKind = iota
	triggerEnd
	triggerCondition
)

// Trigger is what makes a transition fire: either the end of the current
// state or a predicate over the machine parameters. The zero Trigger is
// invalid and rejected by NewStateMachine.
type Trigger[P any] struct {
	kind triggerKind
	cond func(P) bool
}

// OnEnd fires when the current state reaches its duration.
func OnEnd[P any]() Trigger[P] {
	return Trigger[P]{kind: triggerEnd}
}

// When fires when cond holds for the current parameters.
func When[P any](cond func(P) bool) Trigger[P] {
	return Trigger[P]{kind: triggerCondition, cond: cond}
}

// IsOnEnd reports whether t was built with OnEnd.
func (t Trigger[P]) IsOnEnd() bool { return t.kind == triggerEnd }

// IsCondition reports whether t was built with When.
func (t Trigger[P]) IsCondition() bool { return t.kind == triggerCondition }

func (t Trigger[P]) valid() bool {
	switch t.kind {
	case triggerEnd:
		return true
	case triggerCondition:
		return t.cond != nil
	}
	return false
}

func (t Trigger[P]) String() string {
	switch t.kind {
	case triggerEnd:
		return "end"
	case triggerCondition:
		return "condition"
	}
	return "invalid"
}

// Transition is a directed rule between states. Rules are evaluated in the
// order they are supplied; the first matching rule wins.
type Transition[K comparable, P any] struct {
	Start   StartState[K]
	End     K
	Trigger Trigger[P]
}

// Cause tells a transition hook which operation moved the machine.
type Cause uint8

const (
	CauseTime       Cause = iota + 1 // Update
	CauseParameters                  // UpdateParameters / SetParameters
)

func (c Cause) String() string {
	switch c {
	case CauseTime:
		return "time"
	case CauseParameters:
		return "parameters"
	}
	return "unknown"
}

// Transitioned is passed to hooks once per state entered.
type Transitioned[K comparable] struct {
	From    K
	To      K
	Cause   Cause
	Chained bool // entered during chain resolution rather than as the first hop
}

const anyState = -1

type rule[P any] struct {
	start   int // state index or anyState
	end     int
	trigger Trigger[P]
}

type current struct {
	index    int
	duration float64
	elapsed  float64
	repeat   bool
}

// StateMachine is a timed state machine for one animated entity.
//
// It is not safe for concurrent use; Update and UpdateParameters must be
// called from one goroutine at a time.
type StateMachine[K comparable, P any] struct {
	keys    []K
	states  []State
	index   map[K]int
	rules   []rule[P]
	current current
	params  P
	hooks   []func(Transitioned[K])
}

// NewStateMachine validates the states and transitions and returns a machine
// in start with zero elapsed time. Validation checks the starting key, then
// every state duration, then each transition in order.
//
// States are taken in map iteration order, so States() is not stable across
// machines, and when several states fail validation the reported key may
// differ between calls. Use MachineBuilder for declaration order.
func NewStateMachine[K comparable, P any](start K, states map[K]State, transitions []Transition[K, P], params P) (*StateMachine[K, P], error) {
	keys := make([]K, 0, len(states))
	defs := make([]State, 0, len(states))
	for k, s := range states {
		keys = append(keys, k)
		defs = append(defs, s)
	}
	return newStateMachine(start, keys, defs, transitions, params)
}

// newStateMachine keeps the caller's key order, which the builder relies on
// for deterministic States().
func newStateMachine[K comparable, P any](start K, keys []K, defs []State, transitions []Transition[K, P], params P) (*StateMachine[K, P], error) {
	index := make(map[K]int, len(keys))
	for i, k := range keys {
		if _, dup := index[k]; dup {
			return nil, &StateMachineError[K]{Err: ErrDuplicateState, Key: k, Transition: -1}
		}
		index[k] = i
	}

	startIndex, ok := index[start]
	if !ok {
		return nil, &StateMachineError[K]{Err: ErrInvalidStartingState, Key: start, Transition: -1}
	}

	for i, s := range defs {
		if math.IsNaN(s.Duration) || math.IsInf(s.Duration, 0) || s.Duration < 0 {
			return nil, &StateMachineError[K]{Err: ErrInvalidStateDuration, Key: keys[i], Transition: -1}
		}
	}

	rules := make([]rule[P], 0, len(transitions))
	for i, t := range transitions {
		r := rule[P]{start: anyState, trigger: t.Trigger}
		if !t.Start.Any {
			s, ok := index[t.Start.Key]
			if !ok {
				return nil, &StateMachineError[K]{Err: ErrInvalidTransitionStartState, Key: t.Start.Key, Transition: i}
			}
			r.start = s
		}
		e, ok := index[t.End]
		if !ok {
			return nil, &StateMachineError[K]{Err: ErrInvalidTransitionEndState, Key: t.End, Transition: i}
		}
		r.end = e
		if !t.Trigger.valid() {
			return nil, &StateMachineError[K]{Err: ErrInvalidTransitionTrigger, Key: t.End, Transition: i}
		}
		rules = append(rules, r)
	}

	m := &StateMachine[K, P]{
		keys:   keys,
		states: defs,
		index:  index,
		rules:  rules,
		params: params,
	}
	m.current = m.entry(startIndex)
	return m, nil
}

//
// Public API
//

// State returns a snapshot of the current state.
func (m *StateMachine[K, P]) State() CurrentState[K] {
	return CurrentState[K]{
		Key:      m.keys[m.current.index],
		Duration: m.current.duration,
		Elapsed:  m.current.elapsed,
		Repeat:   m.current.repeat,
	}
}

// Parameters returns the current parameter value.
func (m *StateMachine[K, P]) Parameters() P {
	return m.params
}

// States returns every state key known to the machine.
func (m *StateMachine[K, P]) States() []K {
	keys := make([]K, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// HasState reports whether key is one of the machine's states.
func (m *StateMachine[K, P]) HasState(key K) bool {
	_, ok := m.index[key]
	return ok
}

// OnTransition registers a hook called synchronously for every state entered.
func (m *StateMachine[K, P]) OnTransition(hook func(Transitioned[K])) {
	if hook != nil {
		m.hooks = append(m.hooks, hook)
	}
}

// Update advances elapsed time by dt seconds. Non-positive and non-finite
// values are ignored.
//
// A state that reaches its duration wraps (Repeat) or clamps, and only on
// that call are OnEnd transitions considered. A finished non-repeating state
// does not re-check OnEnd rules on later calls.
func (m *StateMachine[K, P]) Update(dt float64) {
	if !(dt > 0) || math.IsInf(dt, 1) {
		return
	}
	c := &m.current
	if c.elapsed >= c.duration {
		return
	}
	c.elapsed += dt
	if c.elapsed < c.duration {
		return
	}
	if c.repeat {
		c.elapsed = math.Mod(c.elapsed, c.duration)
	} else {
		c.elapsed = c.duration
	}

	if next, ok := m.pick(passTime); ok {
		m.enter(next, CauseTime, false)
		m.resolve(next, CauseTime)
	}
}

// UpdateParameters mutates the parameters in place and evaluates condition
// transitions against the result. Elapsed time is not re-evaluated, so OnEnd
// rules are not considered for the first hop.
func (m *StateMachine[K, P]) UpdateParameters(update func(*P)) {
	update(&m.params)

	if next, ok := m.pick(passParameters); ok {
		m.enter(next, CauseParameters, false)
		m.resolve(next, CauseParameters)
	}
}

// SetParameters replaces the parameters; see UpdateParameters.
func (m *StateMachine[K, P]) SetParameters(params P) {
	m.UpdateParameters(func(p *P) { *p = params })
}

//
// Helper Functions (internal API)
//

type pass uint8

const (
	passTime       pass = iota // OnEnd rules; the state has just completed
	passParameters             // Condition rules only
	passChain                  // both; OnEnd needs the entered state to be finished
)

// pick returns the end of the _first_ rule that applies to the current state.
// Rules ending in the current state are never taken.
func (m *StateMachine[K, P]) pick(p pass) (int, bool) {
	cur := m.current.index
	finished := m.current.elapsed >= m.current.duration
	for _, r := range m.rules {
		if r.start != anyState && r.start != cur {
			continue
		}
		if r.end == cur {
			continue
		}
		switch r.trigger.kind {
		case triggerEnd:
			if p == passParameters || (p == passChain && !finished) {
				continue
			}
		case triggerCondition:
			if p == passTime || !r.trigger.cond(m.params) {
				continue
			}
		default:
			continue
		}
		return r.end, true
	}
	return 0, false
}

// resolve follows further transitions from the state just entered until none
// apply or the next target was already entered during this call.
func (m *StateMachine[K, P]) resolve(first int, cause Cause) {
	visited := make([]bool, len(m.states))
	visited[first] = true
	for {
		next, ok := m.pick(passChain)
		if !ok || visited[next] {
			return
		}
		m.enter(next, cause, true)
		visited[next] = true
	}
}

func (m *StateMachine[K, P]) entry(index int) current {
	s := m.states[index]
	return current{
		index:    index,
		duration: s.Duration,
		repeat:   s.Repeat,
	}
}

func (m *StateMachine[K, P]) enter(index int, cause Cause, chained bool) {
	from := m.current.index
	m.current = m.entry(index)
	for _, hook := range m.hooks {
		hook(Transitioned[K]{
			From:    m.keys[from],
			To:      m.keys[index],
			Cause:   cause,
			Chained: chained,
		})
	}
}
