package spritefsm

import (
	"fmt"
	"math"
)

// Frame is shown once the state's progress reaches Progress.
type Frame[F any] struct {
	Progress float64 // in [0, 1)
	Value    F
}

// FrameTable maps each state to an ordered list of frames.
type FrameTable[K comparable, F any] struct {
	frames map[K][]Frame[F]
}

// NewFrameTable validates frames for every key in keys, in the given order.
// Each list must be present, non-empty, sorted by Progress and within [0, 1).
// Frames for keys not listed are ignored.
func NewFrameTable[K comparable, F any](keys []K, frames map[K][]Frame[F]) (*FrameTable[K, F], error) {
	table := &FrameTable[K, F]{frames: make(map[K][]Frame[F], len(keys))}
	for _, key := range keys {
		list, ok := frames[key]
		if !ok {
			return nil, &AnimatorError[K]{Err: ErrMissingStateFrames, Key: key}
		}
		if len(list) == 0 {
			return nil, &AnimatorError[K]{Err: ErrEmptyStateFrames, Key: key}
		}
		last := math.Inf(-1)
		for _, f := range list {
			if f.Progress < last {
				return nil, &AnimatorError[K]{Err: ErrUnsortedStateFrames, Key: key}
			}
			if math.IsNaN(f.Progress) || f.Progress < 0 || f.Progress >= 1 {
				return nil, &AnimatorError[K]{Err: ErrInvalidStateFrameProgress, Key: key, Progress: f.Progress}
			}
			last = f.Progress
		}
		owned := make([]Frame[F], len(list))
		copy(owned, list)
		table.frames[key] = owned
	}
	return table, nil
}

// FrameFor returns the frame with the greatest threshold not exceeding
// progress, or the first frame when progress is below every threshold. The
// boolean is false only when key has no frames.
func (t *FrameTable[K, F]) FrameFor(key K, progress float64) (F, bool) {
	list, ok := t.frames[key]
	if !ok {
		var zero F
		return zero, false
	}
	held := list[0]
	for _, f := range list {
		if f.Progress > progress {
			return held.Value, true
		}
		held = f
	}
	return held.Value, true
}

// Frames returns a copy of the frame list for key.
func (t *FrameTable[K, F]) Frames(key K) []Frame[F] {
	list := t.frames[key]
	out := make([]Frame[F], len(list))
	copy(out, list)
	return out
}

// Animator pairs a StateMachine with the frames for each of its states.
type Animator[K comparable, P any, F any] struct {
	machine *StateMachine[K, P]
	table   *FrameTable[K, F]
}

// NewAnimator validates frames against every state of machine.
func NewAnimator[K comparable, P any, F any](machine *StateMachine[K, P], frames map[K][]Frame[F]) (*Animator[K, P, F], error) {
	table, err := NewFrameTable(machine.keys, frames)
	if err != nil {
		return nil, err
	}
	return &Animator[K, P, F]{machine: machine, table: table}, nil
}

// Update advances the underlying machine; see StateMachine.Update.
func (a *Animator[K, P, F]) Update(dt float64) {
	a.machine.Update(dt)
}

// UpdateParameters mutates the parameters; see StateMachine.UpdateParameters.
func (a *Animator[K, P, F]) UpdateParameters(update func(*P)) {
	a.machine.UpdateParameters(update)
}

// SetParameters replaces the parameters; see StateMachine.SetParameters.
func (a *Animator[K, P, F]) SetParameters(params P) {
	a.machine.SetParameters(params)
}

// State returns a snapshot of the current state.
func (a *Animator[K, P, F]) State() CurrentState[K] {
	return a.machine.State()
}

// Parameters returns the current parameter value.
func (a *Animator[K, P, F]) Parameters() P {
	return a.machine.Parameters()
}

// OnTransition registers a hook on the underlying machine.
func (a *Animator[K, P, F]) OnTransition(hook func(Transitioned[K])) {
	a.machine.OnTransition(hook)
}

// Frame returns the value of the frame to display for the current state.
func (a *Animator[K, P, F]) Frame() F {
	s := a.machine.State()
	v, ok := a.table.FrameFor(s.Key, s.Progress())
	if !ok {
		panic(fmt.Sprintf("spritefsm: no frames for state %v", s.Key))
	}
	return v
}

// StateMachine returns the underlying machine.
func (a *Animator[K, P, F]) StateMachine() *StateMachine[K, P] {
	return a.machine
}

// Frames returns the animator's frame table.
func (a *Animator[K, P, F]) Frames() *FrameTable[K, F] {
	return a.table
}
