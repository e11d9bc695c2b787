package config

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/comalice/spritefsm"
)

// Animator is the animator type built from definitions: string state keys,
// Params parameters and int sprite indices.
type Animator = spritefsm.Animator[string, Params, int]

// Option configures Build and Watch.
type Option func(*options)

type options struct {
	guards   map[string]func(Params) bool
	logger   zerolog.Logger
	debounce time.Duration
}

func newOptions(opts []Option) *options {
	o := &options{
		guards:   make(map[string]func(Params) bool),
		logger:   zerolog.Nop(),
		debounce: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithGuard registers a Go predicate referenced by "guard: name".
func WithGuard(name string, fn func(Params) bool) Option {
	return func(o *options) {
		o.guards[name] = fn
	}
}

// WithLogger sets the logger for condition failures and reloads.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithDebounce sets how long Watch waits for writes to settle.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}

// Build validates def and returns a new animator in its initial state.
// Each call gets its own copy of the initial parameters. Errors from the
// state machine and frame table keep their types for errors.Is and errors.As.
func Build(def *Definition, opts ...Option) (*Animator, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	o := newOptions(opts)
	logger := o.logger.With().Str("animation", def.ID).Logger()

	b := spritefsm.NewMachineBuilder[string, Params](def.Initial, def.Parameters.Clone())
	for _, s := range def.States {
		b.State(s.Name, s.Duration, s.Repeat)
	}

	for i, t := range def.Transitions {
		start := spritefsm.From(t.From)
		if t.From == AnyState {
			start = spritefsm.Any[string]()
		}

		var trigger spritefsm.Trigger[Params]
		switch {
		case t.On != "":
			trigger = spritefsm.OnEnd[Params]()
		case t.When != "":
			cond, err := CompileCondition(t.When, def.Parameters, logger.With().Int("transition", i).Logger())
			if err != nil {
				return nil, fmt.Errorf("transitions[%d]: %w", i, err)
			}
			trigger = spritefsm.When(cond.Predicate())
		case t.Guard != "":
			fn, ok := o.guards[t.Guard]
			if !ok || fn == nil {
				return nil, fmt.Errorf("transitions[%d]: %w %q", i, ErrUnknownGuard, t.Guard)
			}
			trigger = spritefsm.When(fn)
		}

		b.Transition(spritefsm.Transition[string, Params]{Start: start, End: t.To, Trigger: trigger})
	}

	sm, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", def.ID, err)
	}

	frames := make(map[string][]spritefsm.Frame[int], len(def.States))
	for _, s := range def.States {
		if s.Frames == nil {
			continue
		}
		list := make([]spritefsm.Frame[int], len(s.Frames))
		for i, f := range s.Frames {
			list[i] = spritefsm.Frame[int]{Progress: f.Progress, Value: f.Value}
		}
		frames[s.Name] = list
	}

	anim, err := spritefsm.NewAnimator(sm, frames)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", def.ID, err)
	}
	return anim, nil
}
