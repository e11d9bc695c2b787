package builder

import (
	"github.com/comalice/spritefsm" // the core package
)

// OnEnd returns a transition from -> to taken when from completes.
func OnEnd[K comparable, P any](from, to K) spritefsm.Transition[K, P] {
	return spritefsm.Transition[K, P]{
		Start:   spritefsm.From(from),
		End:     to,
		Trigger: spritefsm.OnEnd[P](),
	}
}

// When returns a transition from -> to taken when cond holds.
func When[K comparable, P any](from, to K, cond func(P) bool) spritefsm.Transition[K, P] {
	return spritefsm.Transition[K, P]{
		Start:   spritefsm.From(from),
		End:     to,
		Trigger: spritefsm.When(cond),
	}
}

// AnyOnEnd returns a transition from any state to to, taken when a state completes.
func AnyOnEnd[K comparable, P any](to K) spritefsm.Transition[K, P] {
	return spritefsm.Transition[K, P]{
		Start:   spritefsm.Any[K](),
		End:     to,
		Trigger: spritefsm.OnEnd[P](),
	}
}

// AnyWhen returns a transition from any state to to, taken when cond holds.
func AnyWhen[K comparable, P any](to K, cond func(P) bool) spritefsm.Transition[K, P] {
	return spritefsm.Transition[K, P]{
		Start:   spritefsm.Any[K](),
		End:     to,
		Trigger: spritefsm.When(cond),
	}
}

// EvenFrames spreads values over [0, 1) at equal steps: the i-th of n values
// starts at i/n.
func EvenFrames[F any](values ...F) []spritefsm.Frame[F] {
	frames := make([]spritefsm.Frame[F], len(values))
	n := float64(len(values))
	for i, v := range values {
		frames[i] = spritefsm.Frame[F]{Progress: float64(i) / n, Value: v}
	}
	return frames
}

// Frames builds a frame list from alternating (progress, value) arguments.
// It panics on an odd argument count or mistyped arguments; intended for
// literal tables in setup code.
func Frames[F any](pairs ...any) []spritefsm.Frame[F] {
	if len(pairs)%2 != 0 {
		panic("builder.Frames: odd number of arguments")
	}
	frames := make([]spritefsm.Frame[F], 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		frames = append(frames, spritefsm.Frame[F]{
			Progress: toFloat(pairs[i]),
			Value:    pairs[i+1].(F),
		})
	}
	return frames
}

// SpriteRange returns count frames with values first, first+1, ... spread
// evenly, matching a sprite-sheet row.
func SpriteRange(first, count int) []spritefsm.Frame[int] {
	values := make([]int, count)
	for i := range values {
		values[i] = first + i
	}
	return EvenFrames(values...)
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	}
	panic("builder.Frames: progress must be a number")
}
