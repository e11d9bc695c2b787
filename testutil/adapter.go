// Package testutil drives animators through scripted steps in tests, either
// directly or through the realtime runtime, and records what was shown.
package testutil

import (
	"github.com/google/uuid"

	"github.com/comalice/spritefsm"
	"github.com/comalice/spritefsm/realtime"
)

// Driver provides a common interface for stepping an animator directly and
// through a realtime.Runtime. This allows running the same scenario on both.
type Driver[K comparable, P any, F any] interface {
	// Advance moves time forward by dt seconds.
	Advance(dt float64)
	// Mutate changes the parameters. Runtime drivers apply it on a zero
	// length tick so it takes effect before Mutate returns.
	Mutate(update func(*P)) error
	Animator() *spritefsm.Animator[K, P, F]
}

// DirectDriver calls the animator itself.
type DirectDriver[K comparable, P any, F any] struct {
	anim *spritefsm.Animator[K, P, F]
}

// NewDirectDriver wraps anim.
func NewDirectDriver[K comparable, P any, F any](anim *spritefsm.Animator[K, P, F]) *DirectDriver[K, P, F] {
	return &DirectDriver[K, P, F]{anim: anim}
}

func (d *DirectDriver[K, P, F]) Advance(dt float64) {
	d.anim.Update(dt)
}

func (d *DirectDriver[K, P, F]) Mutate(update func(*P)) error {
	d.anim.UpdateParameters(update)
	return nil
}

func (d *DirectDriver[K, P, F]) Animator() *spritefsm.Animator[K, P, F] {
	return d.anim
}

// RuntimeDriver registers the animator with a runtime and steps it manually.
type RuntimeDriver[K comparable, P any, F any] struct {
	rt *realtime.Runtime[K, P, F]
	id uuid.UUID
}

// NewRuntimeDriver registers anim with rt. rt must not be running.
func NewRuntimeDriver[K comparable, P any, F any](rt *realtime.Runtime[K, P, F], anim *spritefsm.Animator[K, P, F]) *RuntimeDriver[K, P, F] {
	return &RuntimeDriver[K, P, F]{rt: rt, id: rt.Register(anim)}
}

func (d *RuntimeDriver[K, P, F]) Advance(dt float64) {
	d.rt.Step(dt)
}

func (d *RuntimeDriver[K, P, F]) Mutate(update func(*P)) error {
	if err := d.rt.UpdateParameters(d.id, update); err != nil {
		return err
	}
	d.rt.Step(0)
	return nil
}

func (d *RuntimeDriver[K, P, F]) Animator() *spritefsm.Animator[K, P, F] {
	anim, _ := d.rt.Animator(d.id)
	return anim
}

// ID returns the entity handle in the runtime.
func (d *RuntimeDriver[K, P, F]) ID() uuid.UUID {
	return d.id
}
