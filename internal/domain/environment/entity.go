package environment

import (
	"fmt"
	"time"

	"confighub-core/internal/domain/shared"
)

// Environment is the aggregate root for a named configuration namespace
type Environment struct {
	name        Name
	description shared.Description
	createdAt   time.Time
	updatedAt   time.Time
}

// NewEnvironment creates a new Environment entity with validation
func NewEnvironment(name string, description *string) (*Environment, error) {
	nameVO, err := NewName(name)
	if err != nil {
		return nil, ErrInvalidEnvironmentData("name", err)
	}

	now := time.Now().UTC()
	return &Environment{
		name:        nameVO,
		description: shared.NewDescription(description),
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstitute recreates an Environment entity from persistence
func Reconstitute(name string, description *string, createdAt, updatedAt time.Time) (*Environment, error) {
	nameVO, err := NewName(name)
	if err != nil {
		return nil, fmt.Errorf("invalid environment name: %w", err)
	}

	return &Environment{
		name:        nameVO,
		description: shared.NewDescription(description),
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

// Rename changes the environment name. Uniqueness is checked by the caller and the store.
func (e *Environment) Rename(newName string) error {
	nameVO, err := NewName(newName)
	if err != nil {
		return ErrInvalidEnvironmentData("name", err)
	}

	e.name = nameVO
	e.touch()
	return nil
}

// UpdateDescription replaces the description
func (e *Environment) UpdateDescription(description *string) {
	e.description = shared.NewDescription(description)
	e.touch()
}

// Touch refreshes updated_at without changing any field
func (e *Environment) Touch() {
	e.touch()
}

func (e *Environment) touch() {
	now := time.Now().UTC()
	// keep updated_at strictly monotonic for back-to-back mutations
	if !now.After(e.updatedAt) {
		now = e.updatedAt.Add(time.Microsecond)
	}
	e.updatedAt = now
}

// Getters

func (e *Environment) Name() Name {
	return e.name
}

func (e *Environment) Description() shared.Description {
	return e.description
}

func (e *Environment) CreatedAt() time.Time {
	return e.createdAt
}

func (e *Environment) UpdatedAt() time.Time {
	return e.updatedAt
}

// Clone returns a deep copy so stores can hand out entities without sharing state
func (e *Environment) Clone() *Environment {
	c := *e
	c.description = shared.NewDescription(e.description.Ptr())
	return &c
}

// String returns string representation (for debugging)
func (e *Environment) String() string {
	return fmt.Sprintf("Environment{name: %s}", e.name.String())
}
