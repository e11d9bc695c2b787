package spritefsm

import (
	"errors"
	"fmt"
)

// Construction errors for StateMachine. Each is wrapped by a *StateMachineError
// carrying the offending key.
var (
	ErrInvalidStartingState        = errors.New("invalid starting state")
	ErrInvalidStateDuration        = errors.New("invalid state duration")
	ErrInvalidTransitionStartState = errors.New("invalid transition start state")
	ErrInvalidTransitionEndState   = errors.New("invalid transition end state")
	ErrInvalidTransitionTrigger    = errors.New("invalid transition trigger")
	ErrDuplicateState              = errors.New("duplicate state")
)

// Construction errors for FrameTable. Each is wrapped by an *AnimatorError
// carrying the offending key.
var (
	ErrMissingStateFrames        = errors.New("missing state frames")
	ErrEmptyStateFrames          = errors.New("empty state frames")
	ErrUnsortedStateFrames       = errors.New("unsorted state frames")
	ErrInvalidStateFrameProgress = errors.New("invalid state frame progress")
)

// StateMachineError reports a structural problem found by NewStateMachine.
type StateMachineError[K comparable] struct {
	Err error
	Key K
	// Transition is the index of the offending rule, or -1 when the error
	// is not about a rule.
	Transition int
}

func (e *StateMachineError[K]) Error() string {
	if e.Transition >= 0 {
		return fmt.Sprintf("%v %v (transition %d)", e.Err, e.Key, e.Transition)
	}
	return fmt.Sprintf("%v %v", e.Err, e.Key)
}

func (e *StateMachineError[K]) Unwrap() error {
	return e.Err
}

// AnimatorError reports a structural problem found while validating frames.
type AnimatorError[K comparable] struct {
	Err      error
	Key      K
	Progress float64 // only meaningful for ErrInvalidStateFrameProgress
}

func (e *AnimatorError[K]) Error() string {
	if errors.Is(e.Err, ErrInvalidStateFrameProgress) {
		return fmt.Sprintf("%v %v: %g", e.Err, e.Key, e.Progress)
	}
	return fmt.Sprintf("%v %v", e.Err, e.Key)
}

func (e *AnimatorError[K]) Unwrap() error {
	return e.Err
}
