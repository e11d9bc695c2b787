// Package realtime provides a tick-based deterministic runtime for many
// spritefsm animators.
//
// Each tick runs in three phases:
//  1. The queued parameter mutations are collected atomically.
//  2. They are applied in order: priority (higher first), then submission
//     order. Stable sorting keeps equal keys in submission order.
//  3. Every registered entity advances by the tick period.
//
// Given the same sequence of UpdateParameters calls between ticks, every
// entity ends each tick in the same state regardless of timing.
//
// # Example Usage
//
//	rt := realtime.NewRuntime[string, config.Params, int](realtime.Config{
//		TickRate: 16667 * time.Microsecond, // 60 FPS
//		Workers:  4,
//	})
//	id := rt.Register(anim)
//	rt.Start(ctx)
//	rt.UpdateParameters(id, func(p *config.Params) { (*p)["speed"] = 1.0 })
//
// # Workers
//
// With Workers > 1 phase 3 is split into contiguous shards run on a pond
// worker pool. Each animator is still updated by exactly one goroutine per
// tick, so the per-entity result is identical to sequential stepping. Only
// the interleaving of transition events across entities differs; the
// Publisher must tolerate concurrent calls.
//
// # Observability
//
// Transitions of registered entities are counted in Metrics and forwarded
// to the Publisher as TransitionEvent values. A panicking mutation is
// recovered, logged and counted as "panicked"; the rest of the batch and the
// time advance still run. Other panics inside a tick started by the tick
// loop are recovered and logged.
package realtime
