package testutil

import (
	"fmt"
	"strings"
)

// Observation is what the animator showed after one scripted step.
type Observation[K comparable, F any] struct {
	Time     float64
	State    K
	Progress float64
	Frame    F
}

func (o Observation[K, F]) String() string {
	return fmt.Sprintf("t=%.3f %v %.3f %v", o.Time, o.State, o.Progress, o.Frame)
}

// Script steps a Driver and keeps a trace of observations.
type Script[K comparable, P any, F any] struct {
	driver Driver[K, P, F]
	clock  float64
	trace  []Observation[K, F]
}

// NewScript starts a script at time zero and records the initial observation.
func NewScript[K comparable, P any, F any](d Driver[K, P, F]) *Script[K, P, F] {
	s := &Script[K, P, F]{driver: d}
	s.observe()
	return s
}

// Step advances once by dt.
func (s *Script[K, P, F]) Step(dt float64) Observation[K, F] {
	s.driver.Advance(dt)
	if dt > 0 {
		s.clock += dt
	}
	return s.observe()
}

// Steps advances n times by dt.
func (s *Script[K, P, F]) Steps(dt float64, n int) Observation[K, F] {
	var o Observation[K, F]
	for i := 0; i < n; i++ {
		o = s.Step(dt)
	}
	return o
}

// Mutate applies update and records the result. It panics if the driver
// rejects the mutation, which only happens on a misconfigured runtime.
func (s *Script[K, P, F]) Mutate(update func(*P)) Observation[K, F] {
	if err := s.driver.Mutate(update); err != nil {
		panic(fmt.Sprintf("testutil: mutate: %v", err))
	}
	return s.observe()
}

// StepUntil advances by dt until the state is key, at most limit times. It
// reports whether key was reached.
func (s *Script[K, P, F]) StepUntil(key K, dt float64, limit int) (Observation[K, F], bool) {
	o := s.last()
	for i := 0; i < limit && o.State != key; i++ {
		o = s.Step(dt)
	}
	return o, o.State == key
}

// Trace returns every observation so far.
func (s *Script[K, P, F]) Trace() []Observation[K, F] {
	return append([]Observation[K, F](nil), s.trace...)
}

// States returns the state of each observation with consecutive repeats
// collapsed.
func (s *Script[K, P, F]) States() []K {
	var out []K
	for _, o := range s.trace {
		if len(out) == 0 || out[len(out)-1] != o.State {
			out = append(out, o.State)
		}
	}
	return out
}

// String renders the trace one observation per line.
func (s *Script[K, P, F]) String() string {
	var b strings.Builder
	for _, o := range s.trace {
		b.WriteString(o.String())
		b.WriteByte('\n')
	}
	return b.String()
}

func (s *Script[K, P, F]) last() Observation[K, F] {
	return s.trace[len(s.trace)-1]
}

func (s *Script[K, P, F]) observe() Observation[K, F] {
	anim := s.driver.Animator()
	st := anim.State()
	o := Observation[K, F]{
		Time:     s.clock,
		State:    st.Key,
		Progress: st.Progress(),
		Frame:    anim.Frame(),
	}
	s.trace = append(s.trace, o)
	return o
}
