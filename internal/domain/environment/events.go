package environment

import (
	"confighub-core/internal/domain/events"
)

// Event types
const (
	EventTypeEnvironmentCreated = "environment.created"
	EventTypeEnvironmentUpdated = "environment.updated"
	EventTypeEnvironmentDeleted = "environment.deleted"
)

// EventTypes lists every event type of the aggregate
var EventTypes = []string{
	EventTypeEnvironmentCreated,
	EventTypeEnvironmentUpdated,
	EventTypeEnvironmentDeleted,
}

// EnvironmentCreatedEvent is raised when a new environment is created
type EnvironmentCreatedEvent struct {
	events.BaseEvent
	Name string
}

// NewEnvironmentCreatedEvent creates a new EnvironmentCreatedEvent
func NewEnvironmentCreatedEvent(name string) *EnvironmentCreatedEvent {
	return &EnvironmentCreatedEvent{
		BaseEvent: events.NewBaseEvent(EventTypeEnvironmentCreated, events.AggregateKey(name)),
		Name:      name,
	}
}

// EnvironmentUpdatedEvent is raised when an environment is updated or renamed
type EnvironmentUpdatedEvent struct {
	events.BaseEvent
	PreviousName string
	Name         string
}

// NewEnvironmentUpdatedEvent creates a new EnvironmentUpdatedEvent
func NewEnvironmentUpdatedEvent(previousName, name string) *EnvironmentUpdatedEvent {
	return &EnvironmentUpdatedEvent{
		BaseEvent:    events.NewBaseEvent(EventTypeEnvironmentUpdated, events.AggregateKey(name)),
		PreviousName: previousName,
		Name:         name,
	}
}

// Renamed reports whether the update changed the environment name
func (e *EnvironmentUpdatedEvent) Renamed() bool {
	return e.PreviousName != e.Name
}

// EnvironmentDeletedEvent is raised when an environment and its variables are deleted
type EnvironmentDeletedEvent struct {
	events.BaseEvent
	Name string
}

// NewEnvironmentDeletedEvent creates a new EnvironmentDeletedEvent
func NewEnvironmentDeletedEvent(name string) *EnvironmentDeletedEvent {
	return &EnvironmentDeletedEvent{
		BaseEvent: events.NewBaseEvent(EventTypeEnvironmentDeleted, events.AggregateKey(name)),
		Name:      name,
	}
}
