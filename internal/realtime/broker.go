// Package realtime delivers change notifications for couple-shared state
// (matches, joint watchlist) so both partners' sessions update without
// polling. Delivery is at-least-once and coalesced: an event means "re-fetch
// now", never a diff, so dropping an event while one is already queued loses
// nothing.
package realtime

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type EventKind string

const (
	EventMatch     EventKind = "match"
	EventWatchlist EventKind = "watchlist"
)

type Event struct {
	CoupleID uuid.UUID `json:"couple_id"`
	Kind     EventKind `json:"kind"`
	MovieID  int64     `json:"movie_id,omitempty"`
}

// Subscription is one consumer's feed of events for a couple.
// Close is idempotent and must be called on teardown.
type Subscription struct {
	C      <-chan Event
	cancel func()
	once   sync.Once
}

func (s *Subscription) Close() {
	s.once.Do(s.cancel)
}

// Broker is the publish/subscribe abstraction the rest of the code depends
// on; the transport behind it is interchangeable.
type Broker interface {
	Publish(ctx context.Context, ev Event) error
	Subscribe(ctx context.Context, coupleID uuid.UUID) (*Subscription, error)
}

// MemoryBroker is a single-process Broker for tests and redis-less deployments.
type MemoryBroker struct {
	mu     sync.Mutex
	nextID int
	subs   map[uuid.UUID]map[int]chan Event
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subs: make(map[uuid.UUID]map[int]chan Event)}
}

func (b *MemoryBroker) Publish(_ context.Context, ev Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs[ev.CoupleID] {
		select {
		case ch <- ev:
		default: // subscriber already has a pending event; coalesce
		}
	}
	return nil
}

func (b *MemoryBroker) Subscribe(_ context.Context, coupleID uuid.UUID) (*Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	ch := make(chan Event, 1)
	if b.subs[coupleID] == nil {
		b.subs[coupleID] = make(map[int]chan Event)
	}
	b.subs[coupleID][id] = ch

	return &Subscription{
		C: ch,
		cancel: func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if subs, ok := b.subs[coupleID]; ok {
				if _, ok := subs[id]; ok {
					delete(subs, id)
					close(ch)
				}
				if len(subs) == 0 {
					delete(b.subs, coupleID)
				}
			}
		},
	}, nil
}
