package variable

import (
	"confighub-core/internal/domain/events"
)

// Event types
const (
	EventTypeVariableCreated = "variable.created"
	EventTypeVariableUpdated = "variable.updated"
	EventTypeVariableDeleted = "variable.deleted"
)

// EventTypes lists every event type of the aggregate
var EventTypes = []string{
	EventTypeVariableCreated,
	EventTypeVariableUpdated,
	EventTypeVariableDeleted,
}

// VariableChangedEvent is raised whenever a variable is created, updated or deleted.
// The event type tells which.
type VariableChangedEvent struct {
	events.BaseEvent
	EnvironmentName string
	Name            string
	PreviousName    string
}

func newVariableChangedEvent(eventType, envName, name, previousName string) *VariableChangedEvent {
	return &VariableChangedEvent{
		BaseEvent:       events.NewBaseEvent(eventType, events.AggregateKey(envName, name)),
		EnvironmentName: envName,
		Name:            name,
		PreviousName:    previousName,
	}
}

// NewVariableCreatedEvent creates a variable.created event
func NewVariableCreatedEvent(envName, name string) *VariableChangedEvent {
	return newVariableChangedEvent(EventTypeVariableCreated, envName, name, name)
}

// NewVariableUpdatedEvent creates a variable.updated event
func NewVariableUpdatedEvent(envName, previousName, name string) *VariableChangedEvent {
	return newVariableChangedEvent(EventTypeVariableUpdated, envName, name, previousName)
}

// NewVariableDeletedEvent creates a variable.deleted event
func NewVariableDeletedEvent(envName, name string) *VariableChangedEvent {
	return newVariableChangedEvent(EventTypeVariableDeleted, envName, name, name)
}
