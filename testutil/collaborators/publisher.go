package collaborators

import (
	"context"
	"sync"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
)

// PublisherSpy records published transition events.
type PublisherSpy struct {
	mu     sync.Mutex
	events []core.TransitionEvent
	Err    error
}

func NewPublisherSpy() *PublisherSpy {
	return &PublisherSpy{}
}

func (p *PublisherSpy) Publish(_ context.Context, event core.TransitionEvent) error {
	if p.Err != nil {
		return p.Err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event)

	return nil
}

// Events returns a copy of the published events.
func (p *PublisherSpy) Events() []core.TransitionEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]core.TransitionEvent(nil), p.events...)
}

// EventsFor returns the published events of one reservation.
func (p *PublisherSpy) EventsFor(reservationID string) []core.TransitionEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	found := make([]core.TransitionEvent, 0)
	for _, e := range p.events {
		if e.ReservationID == reservationID {
			found = append(found, e)
		}
	}

	return found
}
