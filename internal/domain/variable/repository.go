package variable

import (
	"context"

	"confighub-core/internal/domain/environment"
)

// Repository defines the interface for variable persistence.
// Every method is scoped to a single environment.
type Repository interface {
	// Create inserts a new variable.
	// Returns ErrVariableAlreadyExists when (environment, name) is taken.
	Create(ctx context.Context, v *Variable) error

	// FindByName retrieves a variable by environment and name
	FindByName(ctx context.Context, envName environment.Name, name Name) (*Variable, error)

	// ListByEnvironment retrieves a page of variables, newest first
	ListByEnvironment(ctx context.Context, envName environment.Name, limit, offset int64) ([]*Variable, error)

	// FindAllByEnvironment retrieves every variable of an environment in creation order
	FindAllByEnvironment(ctx context.Context, envName environment.Name) ([]*Variable, error)

	// CountByEnvironment returns the number of variables in an environment
	CountByEnvironment(ctx context.Context, envName environment.Name) (int64, error)

	// Update persists v, replacing the row stored as currentName in the same environment.
	// Returns ErrVariableAlreadyExists on a rename clash.
	Update(ctx context.Context, currentName Name, v *Variable) error

	// Delete removes a variable
	Delete(ctx context.Context, envName environment.Name, name Name) error
}
