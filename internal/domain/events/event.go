package events

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// keySeparator joins the parts of a natural aggregate key. Neither
// environment nor variable names may contain it.
const keySeparator = "/"

// DomainEvent represents a change to an environment or one of its variables.
//
// Aggregates have no surrogate ids, so AggregateID is the natural key built
// by AggregateKey: the environment name for environment events ("dev") and
// environment/variable for variable events ("dev/DB_URL"). A rename is
// raised under the new key.
type DomainEvent interface {
	EventID() string
	EventType() string
	OccurredAt() time.Time
	AggregateID() string
}

// AggregateKey builds a natural aggregate key from an environment name and,
// for variables, the variable name.
func AggregateKey(environment string, names ...string) string {
	return strings.Join(append([]string{environment}, names...), keySeparator)
}

// EnvironmentOf returns the environment an event belongs to: the first
// segment of its aggregate key.
func EnvironmentOf(e DomainEvent) string {
	env, _, _ := strings.Cut(e.AggregateID(), keySeparator)
	return env
}

// BaseEvent carries the fields shared by every domain event. Embed it and
// construct with NewBaseEvent.
type BaseEvent struct {
	eventID     string
	eventType   string
	occurredAt  time.Time
	aggregateID string
}

// NewBaseEvent stamps a fresh event id and the current UTC time.
// aggregateID should come from AggregateKey.
func NewBaseEvent(eventType, aggregateID string) BaseEvent {
	return BaseEvent{
		eventID:     uuid.NewString(),
		eventType:   eventType,
		occurredAt:  time.Now().UTC(),
		aggregateID: aggregateID,
	}
}

func (e BaseEvent) EventID() string       { return e.eventID }
func (e BaseEvent) EventType() string     { return e.eventType }
func (e BaseEvent) OccurredAt() time.Time { return e.occurredAt }
func (e BaseEvent) AggregateID() string   { return e.aggregateID }
