package realtime

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/comalice/spritefsm"
)

// mutation is a queued parameter update with sequencing metadata for
// deterministic ordering.
type mutation[P any] struct {
	entity   uuid.UUID
	update   func(*P)
	seq      uint64
	priority int
}

// sortMutations orders a batch by priority (higher first), then by
// submission order. The sort is stable, so equal keys keep their order.
func sortMutations[P any](batch []mutation[P]) {
	sort.SliceStable(batch, func(i, j int) bool {
		if batch[i].priority != batch[j].priority {
			return batch[i].priority > batch[j].priority
		}
		return batch[i].seq < batch[j].seq
	})
}

// TransitionEvent reports a state change of a registered entity.
type TransitionEvent[K comparable] struct {
	Entity     uuid.UUID
	Tick       uint64
	Transition spritefsm.Transitioned[K]
}

// Publisher receives transition events. Publish may be called from several
// goroutines at once when the runtime steps entities in parallel.
type Publisher[K comparable] interface {
	Publish(ctx context.Context, event TransitionEvent[K]) error
	Close() error
}

// ChannelPublisher forwards events to a Go channel. Publish never blocks:
// events are dropped when the channel is full.
type ChannelPublisher[K comparable] struct {
	ch chan<- TransitionEvent[K]
}

// NewChannelPublisher creates a ChannelPublisher writing to ch.
func NewChannelPublisher[K comparable](ch chan<- TransitionEvent[K]) *ChannelPublisher[K] {
	return &ChannelPublisher[K]{ch: ch}
}

func (p *ChannelPublisher[K]) Publish(ctx context.Context, event TransitionEvent[K]) error {
	select {
	case p.ch <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrPublisherFull
	}
}

func (p *ChannelPublisher[K]) Close() error {
	close(p.ch)
	return nil
}
