// Package shared holds building blocks used by several aggregates
package shared

import "time"

// DomainEvent represents something that happened to an aggregate
type DomainEvent interface {
	EventName() string
	OccurredAt() time.Time
}

// AggregateRoot buffers domain events until the application layer
// has persisted the aggregate and drains them.
type AggregateRoot struct {
	events []DomainEvent
}

// AddEvent records a pending domain event
func (a *AggregateRoot) AddEvent(event DomainEvent) {
	a.events = append(a.events, event)
}

// Events returns and clears pending domain events
func (a *AggregateRoot) Events() []DomainEvent {
	events := a.events
	a.events = nil
	return events
}
