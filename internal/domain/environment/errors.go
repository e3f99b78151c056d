package environment

import (
	"fmt"

	"confighub-core/internal/domain/shared"
)

// Predefined domain errors

func ErrEnvironmentNotFound(name string) *shared.DomainError {
	return shared.NewNotFound(
		"ENVIRONMENT_NOT_FOUND",
		fmt.Sprintf("environment '%s' not found", name),
	)
}

func ErrEnvironmentAlreadyExists(name string) *shared.DomainError {
	return shared.NewConflict(
		"ENVIRONMENT_ALREADY_EXISTS",
		fmt.Sprintf("environment '%s' already exists", name),
	)
}

func ErrInvalidEnvironmentData(field string, err error) *shared.DomainError {
	return shared.NewInvalidInput("INVALID_ENVIRONMENT_DATA", field, err)
}
