// Package events notifies other services about changes to the stored data.
//
// Consumers use the events to know when to aggregate again. Publishing is
// best effort: a failure is logged and never fails the change itself.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Name string

const (
	TransactionCreated Name = "transaction.created"
	TransactionUpdated Name = "transaction.updated"
	TransactionDeleted Name = "transaction.deleted"
	BudgetCreated      Name = "budget.created"
	BudgetUpdated      Name = "budget.updated"
	BudgetDeleted      Name = "budget.deleted"
	BudgetsRecomputed  Name = "budget.recomputed"
	SeriesCreated      Name = "series.created"
	SeriesUpdated      Name = "series.updated"
	SeriesTruncated    Name = "series.truncated"
	SeriesDeleted      Name = "series.deleted"
	SeriesToppedUp     Name = "series.toppedup"
	CategoryDeleted    Name = "category.deleted"
	AccountDeleted     Name = "account.deleted"
	AccountPruned      Name = "account.pruned"
)

// Event is the body of a published message. The routing key is the name.
type Event struct {
	Name       Name      `json:"name"`
	AccountID  uuid.UUID `json:"accountId"`
	ResourceID uuid.UUID `json:"resourceId"`
	Time       time.Time `json:"time"`
}

func New(name Name, accountID, resourceID uuid.UUID) Event {
	return Event{
		Name:       name,
		AccountID:  accountID,
		ResourceID: resourceID,
		Time:       time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Noop discards all events.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }

var (
	mu        sync.RWMutex
	publisher Publisher = Noop{}
)

// SetPublisher replaces the publisher used by Publish and returns the
// previous one.
func SetPublisher(p Publisher) Publisher {
	mu.Lock()
	defer mu.Unlock()

	if p == nil {
		p = Noop{}
	}

	previous := publisher
	publisher = p
	return previous
}

// Publish sends an event with the current publisher.
func Publish(ctx context.Context, name Name, accountID, resourceID uuid.UUID) {
	mu.RLock()
	p := publisher
	mu.RUnlock()

	e := New(name, accountID, resourceID)
	if err := p.Publish(ctx, e); err != nil {
		log.Error().Err(err).Str("event", string(name)).Str("resource", resourceID.String()).Msg("publishing event")
	}
}

// Recorder keeps all events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Event(nil), r.events...)
}

// Names returns the names of the recorded events in order.
func (r *Recorder) Names() []Name {
	events := r.Events()
	names := make([]Name, 0, len(events))
	for _, e := range events {
		names = append(names, e.Name)
	}
	return names
}
