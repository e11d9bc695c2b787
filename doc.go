// Package spritefsm provides a per-entity timed state machine for driving
// sprite animation state ("idle", "walk", "jump", ...) and mapping the
// machine's elapsed time to a displayed frame.
//
// # Model
//
// A StateMachine owns a fixed set of states, each with a duration and a
// repeat flag, an ordered list of transitions, and an opaque parameter value.
// Transitions leave from a specific state or from any state (Any) and fire
// either when the current state completes (OnEnd) or when a predicate over
// the parameters holds (When).
//
// Two operations move the machine:
//   - Update(dt) advances time. When the current state reaches its duration
//     it wraps or clamps, and OnEnd transitions are considered once.
//   - UpdateParameters(fn) mutates the parameters and considers condition
//     transitions.
//
// After the first hop the machine keeps following applicable transitions
// from each newly entered state until none apply or a state would be entered
// twice in the same call. A transition never targets the state it leaves.
//
// An Animator adds a FrameTable: per-state lists of (progress, value) pairs
// resolved as a step function of the current progress.
//
// # Example Usage
//
//	sm, err := spritefsm.NewMachineBuilder[string, Params]("idle", Params{}).
//		State("idle", 0.5, true).
//		State("walk", 1.0, true).
//		When("idle", "walk", func(p Params) bool { return p.Speed > 0 }).
//		When("walk", "idle", func(p Params) bool { return p.Speed <= 0 }).
//		Build()
//	anim, err := spritefsm.NewAnimator(sm, map[string][]spritefsm.Frame[int]{
//		"idle": builder.EvenFrames(0, 1, 2),
//		"walk": builder.EvenFrames(3, 4, 5, 6),
//	})
//	anim.UpdateParameters(func(p *Params) { p.Speed = 1 })
//	anim.Update(1.0 / 60)
//	draw(anim.Frame())
//
// # Concurrency
//
// Machines are not internally synchronized. Each instance must be driven by
// one goroutine at a time; the realtime package shards many instances across
// a worker pool under that rule.
package spritefsm
