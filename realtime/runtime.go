package realtime

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"

	"github.com/comalice/spritefsm"
)

var (
	ErrQueueFull      = errors.New("mutation queue full")
	ErrUnknownEntity  = errors.New("unknown entity")
	ErrAlreadyRunning = errors.New("runtime already running")
	ErrPublisherFull  = errors.New("publisher channel full")
)

// Config configures the real-time runtime
type Config struct {
	TickRate            time.Duration // Fixed tick rate (default: 16.667ms, 60 FPS)
	MaxMutationsPerTick int           // Mutation queue capacity (default: 1000)
	Workers             int           // >1 steps entities on a worker pool
	Logger              *zerolog.Logger
	Metrics             *Metrics
}

type entity[K comparable, P any, F any] struct {
	id      uuid.UUID
	anim    *spritefsm.Animator[K, P, F]
	removed atomic.Bool
}

// Runtime advances many animators on a fixed tick. Parameter mutations are
// queued between ticks and applied at the start of the next one in a
// deterministic order; time is then advanced for every entity.
type Runtime[K comparable, P any, F any] struct {
	tickRate time.Duration
	workers  int
	logger   zerolog.Logger
	metrics  *Metrics
	pool     pond.Pool

	// Entities and the mutation batch
	mu       sync.Mutex
	entities map[uuid.UUID]*entity[K, P, F]
	order    []*entity[K, P, F]
	batch    []mutation[P]
	maxBatch int
	seq      uint64

	stepMu sync.Mutex
	tick   atomic.Uint64

	pubMu     sync.RWMutex
	publisher Publisher[K]

	// Control
	runMu   sync.Mutex
	cancel  context.CancelFunc
	stopped chan struct{}
}

// NewRuntime creates a stopped runtime with no entities.
func NewRuntime[K comparable, P any, F any](cfg Config) *Runtime[K, P, F] {
	if cfg.MaxMutationsPerTick <= 0 {
		cfg.MaxMutationsPerTick = 1000
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 16667 * time.Microsecond
	}
	if cfg.Metrics == nil {
		cfg.Metrics = NewMetrics("", nil)
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = cfg.Logger.With().Str("component", "realtime").Logger()
	}

	r := &Runtime[K, P, F]{
		tickRate: cfg.TickRate,
		workers:  cfg.Workers,
		logger:   logger,
		metrics:  cfg.Metrics,
		entities: make(map[uuid.UUID]*entity[K, P, F]),
		batch:    make([]mutation[P], 0, cfg.MaxMutationsPerTick),
		maxBatch: cfg.MaxMutationsPerTick,
	}
	if cfg.Workers > 1 {
		r.pool = pond.NewPool(cfg.Workers)
	}
	return r
}

// Register adds an animator and returns its handle. The runtime owns the
// animator from now on: mutate it only through UpdateParameters.
func (r *Runtime[K, P, F]) Register(anim *spritefsm.Animator[K, P, F]) uuid.UUID {
	e := &entity[K, P, F]{id: uuid.Must(uuid.NewV7()), anim: anim}
	anim.OnTransition(func(tr spritefsm.Transitioned[K]) {
		if !e.removed.Load() {
			r.observe(e.id, tr)
		}
	})

	r.mu.Lock()
	r.entities[e.id] = e
	r.order = append(r.order, e)
	n := len(r.order)
	r.mu.Unlock()

	r.metrics.Entities.Set(float64(n))
	r.logger.Debug().Str("entity", e.id.String()).Msg("Entity registered")
	return e.id
}

// Unregister removes an entity. Mutations still queued for it are dropped.
func (r *Runtime[K, P, F]) Unregister(id uuid.UUID) bool {
	r.mu.Lock()
	e, ok := r.entities[id]
	if ok {
		delete(r.entities, id)
		r.order = slices.DeleteFunc(r.order, func(x *entity[K, P, F]) bool { return x == e })
		e.removed.Store(true)
	}
	n := len(r.order)
	r.mu.Unlock()

	if ok {
		r.metrics.Entities.Set(float64(n))
		r.logger.Debug().Str("entity", id.String()).Msg("Entity unregistered")
	}
	return ok
}

// Animator returns the animator registered under id.
func (r *Runtime[K, P, F]) Animator(id uuid.UUID) (*spritefsm.Animator[K, P, F], bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entities[id]
	if !ok {
		return nil, false
	}
	return e.anim, true
}

// Len returns the number of registered entities.
func (r *Runtime[K, P, F]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// Range calls fn for each entity in registration order until fn returns
// false. Call it between ticks, e.g. to render.
func (r *Runtime[K, P, F]) Range(fn func(id uuid.UUID, anim *spritefsm.Animator[K, P, F]) bool) {
	r.mu.Lock()
	order := slices.Clone(r.order)
	r.mu.Unlock()

	for _, e := range order {
		if !fn(e.id, e.anim) {
			return
		}
	}
}

// SetPublisher sets where transition events go. nil disables publishing.
func (r *Runtime[K, P, F]) SetPublisher(p Publisher[K]) {
	r.pubMu.Lock()
	r.publisher = p
	r.pubMu.Unlock()
}

// UpdateParameters queues a mutation for the next tick (thread-safe).
func (r *Runtime[K, P, F]) UpdateParameters(id uuid.UUID, update func(*P)) error {
	return r.UpdateParametersWithPriority(id, update, 0)
}

// UpdateParametersWithPriority queues a mutation with priority. Within a tick
// higher priorities are applied first; equal priorities keep submission order.
func (r *Runtime[K, P, F]) UpdateParametersWithPriority(id uuid.UUID, update func(*P), priority int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entities[id]; !ok {
		return ErrUnknownEntity
	}
	if len(r.batch) >= r.maxBatch {
		r.metrics.Mutations.WithLabelValues("rejected").Inc()
		return ErrQueueFull
	}

	r.batch = append(r.batch, mutation[P]{
		entity:   id,
		update:   update,
		seq:      r.seq,
		priority: priority,
	})
	r.seq++

	return nil
}

// TickNumber returns the number of ticks started so far.
func (r *Runtime[K, P, F]) TickNumber() uint64 {
	return r.tick.Load()
}

// Start begins tick-based execution. Each tick calls Step with the tick
// period in seconds.
func (r *Runtime[K, P, F]) Start(ctx context.Context) error {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	if r.cancel != nil {
		select {
		case <-r.stopped:
			// The loop ended with its parent context.
			r.cancel()
		default:
			return ErrAlreadyRunning
		}
	}

	tickCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.stopped = make(chan struct{})

	go r.tickLoop(tickCtx, time.NewTicker(r.tickRate), r.stopped)

	r.logger.Info().Dur("tick_rate", r.tickRate).Int("workers", r.workers).Msg("Runtime started")
	return nil
}

// Stop halts the tick loop and waits for the current tick to finish. Step
// may still be called manually afterwards.
func (r *Runtime[K, P, F]) Stop() error {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	if r.cancel == nil {
		return nil
	}
	r.cancel()
	<-r.stopped
	r.cancel = nil

	r.logger.Info().Uint64("ticks", r.tick.Load()).Msg("Runtime stopped")
	return nil
}

// Close stops the runtime and releases the worker pool.
func (r *Runtime[K, P, F]) Close() error {
	err := r.Stop()
	if r.pool != nil {
		r.pool.StopAndWait()
	}
	return err
}

// tickLoop is the main tick execution loop
func (r *Runtime[K, P, F]) tickLoop(ctx context.Context, ticker *time.Ticker, stopped chan struct{}) {
	defer close(stopped)
	defer ticker.Stop()

	dt := r.tickRate.Seconds()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.safeStep(dt)
		}
	}
}

func (r *Runtime[K, P, F]) safeStep(dt float64) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error().
				Interface("panic", rec).
				Uint64("tick", r.tick.Load()).
				Msg("Tick panicked")
		}
	}()
	r.Step(dt)
}

func (r *Runtime[K, P, F]) observe(id uuid.UUID, tr spritefsm.Transitioned[K]) {
	r.metrics.Transitions.WithLabelValues(tr.Cause.String(), strconv.FormatBool(tr.Chained)).Inc()

	r.pubMu.RLock()
	pub := r.publisher
	r.pubMu.RUnlock()
	if pub == nil {
		return
	}

	event := TransitionEvent[K]{Entity: id, Tick: r.tick.Load(), Transition: tr}
	if err := pub.Publish(context.Background(), event); err != nil {
		r.logger.Debug().Err(err).Str("entity", id.String()).Msg("Transition event not published")
	}
}
