package variable

import (
	"fmt"

	"confighub-core/internal/domain/shared"
)

func ErrVariableNotFound(envName, name string) *shared.DomainError {
	return shared.NewNotFound(
		"VARIABLE_NOT_FOUND",
		fmt.Sprintf("variable '%s' not found in environment '%s'", name, envName),
	)
}

func ErrVariableAlreadyExists(envName, name string) *shared.DomainError {
	return shared.NewConflict(
		"VARIABLE_ALREADY_EXISTS",
		fmt.Sprintf("variable '%s' already exists in environment '%s'", name, envName),
	)
}

func ErrInvalidVariableData(field string, err error) *shared.DomainError {
	return shared.NewInvalidInput("INVALID_VARIABLE_DATA", field, err)
}
