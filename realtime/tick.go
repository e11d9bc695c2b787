package realtime

import (
	"time"
)

// Step processes one complete tick of dt seconds. It is safe to call while
// the tick loop is stopped; concurrent calls are serialized.
func (r *Runtime[K, P, F]) Step(dt float64) {
	r.stepMu.Lock()
	defer r.stepMu.Unlock()

	start := time.Now()
	tick := r.tick.Add(1)

	// Phase 1: Collect mutations and entities atomically
	batch, targets, entities := r.collect()

	// Phase 2: Apply mutations in order
	r.applyMutations(batch, targets)

	// Phase 3: Advance time
	r.advance(entities, dt)

	r.metrics.Ticks.Inc()
	r.metrics.TickDuration.Observe(time.Since(start).Seconds())
	r.logger.Trace().
		Uint64("tick", tick).
		Int("mutations", len(batch)).
		Int("entities", len(entities)).
		Msg("Tick processed")
}

// collect retrieves and clears the mutation batch, sorted for deterministic
// order, with the entity each mutation targets (nil if it has gone).
func (r *Runtime[K, P, F]) collect() ([]mutation[P], []*entity[K, P, F], []*entity[K, P, F]) {
	r.mu.Lock()
	defer r.mu.Unlock()

	batch := r.batch
	r.batch = make([]mutation[P], 0, r.maxBatch)
	sortMutations(batch)

	targets := make([]*entity[K, P, F], len(batch))
	for i, m := range batch {
		targets[i] = r.entities[m.entity]
	}

	entities := make([]*entity[K, P, F], len(r.order))
	copy(entities, r.order)
	return batch, targets, entities
}

func (r *Runtime[K, P, F]) applyMutations(batch []mutation[P], targets []*entity[K, P, F]) {
	applied, dropped, panicked := 0, 0, 0
	for i, m := range batch {
		e := targets[i]
		if e == nil || e.removed.Load() {
			dropped++
			continue
		}
		if r.applyMutation(e, m) {
			applied++
		} else {
			panicked++
		}
	}
	if applied > 0 {
		r.metrics.Mutations.WithLabelValues("applied").Add(float64(applied))
	}
	if dropped > 0 {
		r.metrics.Mutations.WithLabelValues("dropped").Add(float64(dropped))
	}
	if panicked > 0 {
		r.metrics.Mutations.WithLabelValues("panicked").Add(float64(panicked))
	}
}

// applyMutation runs one mutation, confining a panic to its own entity.
func (r *Runtime[K, P, F]) applyMutation(e *entity[K, P, F], m mutation[P]) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error().
				Interface("panic", rec).
				Str("entity", e.id.String()).
				Uint64("tick", r.tick.Load()).
				Msg("Mutation panicked")
			ok = false
		}
	}()
	e.anim.UpdateParameters(m.update)
	return true
}

// advance updates every entity once. With a worker pool the entities are
// split into contiguous shards, one task per shard, so no animator is
// touched by two goroutines in the same tick.
func (r *Runtime[K, P, F]) advance(entities []*entity[K, P, F], dt float64) {
	if r.pool == nil || len(entities) < 2 {
		for _, e := range entities {
			e.anim.Update(dt)
		}
		return
	}

	shards := min(r.workers, len(entities))
	size := (len(entities) + shards - 1) / shards

	group := r.pool.NewGroup()
	for lo := 0; lo < len(entities); lo += size {
		shard := entities[lo:min(lo+size, len(entities))]
		group.Submit(func() {
			for _, e := range shard {
				e.anim.Update(dt)
			}
		})
	}
	if err := group.Wait(); err != nil {
		r.logger.Error().Err(err).Uint64("tick", r.tick.Load()).Msg("Entity update failed")
	}
}
