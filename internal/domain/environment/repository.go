package environment

import (
	"context"
)

// Repository defines the interface for environment persistence
// This is defined in the domain layer, but implemented in infrastructure
type Repository interface {
	// Create inserts a new environment.
	// Returns ErrEnvironmentAlreadyExists when the name is taken, enforced by the store itself.
	Create(ctx context.Context, env *Environment) error

	// FindByName retrieves an environment by its name
	FindByName(ctx context.Context, name Name) (*Environment, error)

	// List retrieves environments ordered by creation time, newest first
	List(ctx context.Context, limit, offset int64) ([]*Environment, error)

	// Count returns the total number of environments
	Count(ctx context.Context) (int64, error)

	// Update persists env under its (possibly new) name, replacing the row stored as currentName.
	// Variables follow a rename. Returns ErrEnvironmentAlreadyExists on a name clash.
	Update(ctx context.Context, currentName Name, env *Environment) error

	// Delete removes an environment and all of its variables in one transaction
	Delete(ctx context.Context, name Name) error

	// ExistsByName checks if an environment with the given name exists
	ExistsByName(ctx context.Context, name Name) (bool, error)
}
