package variable

import (
	"fmt"
	"time"

	"confighub-core/internal/domain/environment"
	"confighub-core/internal/domain/shared"
)

// Variable is a key/value configuration entry scoped to exactly one environment.
// Its identity is the pair (environment name, name).
type Variable struct {
	environmentName environment.Name
	name            Name
	value           Value
	description     shared.Description
	isSensitive     bool
	createdAt       time.Time
	updatedAt       time.Time
}

// NewVariable creates a new Variable entity with validation
func NewVariable(
	environmentName environment.Name,
	name, value string,
	description *string,
	isSensitive bool,
) (*Variable, error) {
	nameVO, err := NewName(name)
	if err != nil {
		return nil, ErrInvalidVariableData("name", err)
	}

	now := time.Now().UTC()
	return &Variable{
		environmentName: environmentName,
		name:            nameVO,
		value:           NewValue(value),
		description:     shared.NewDescription(description),
		isSensitive:     isSensitive,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// Reconstitute recreates a Variable entity from persistence
func Reconstitute(
	environmentName, name, value string,
	description *string,
	isSensitive bool,
	createdAt, updatedAt time.Time,
) (*Variable, error) {
	envName, err := environment.NewName(environmentName)
	if err != nil {
		return nil, fmt.Errorf("invalid environment name: %w", err)
	}

	nameVO, err := NewName(name)
	if err != nil {
		return nil, fmt.Errorf("invalid variable name: %w", err)
	}

	return &Variable{
		environmentName: envName,
		name:            nameVO,
		value:           NewValue(value),
		description:     shared.NewDescription(description),
		isSensitive:     isSensitive,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}, nil
}

// Rename changes the variable name inside its environment
func (v *Variable) Rename(newName string) error {
	nameVO, err := NewName(newName)
	if err != nil {
		return ErrInvalidVariableData("name", err)
	}

	v.name = nameVO
	v.touch()
	return nil
}

// UpdateValue replaces the value
func (v *Variable) UpdateValue(value string) {
	v.value = NewValue(value)
	v.touch()
}

// UpdateDescription replaces the description
func (v *Variable) UpdateDescription(description *string) {
	v.description = shared.NewDescription(description)
	v.touch()
}

// MarkSensitive sets the is_sensitive flag
func (v *Variable) MarkSensitive(sensitive bool) {
	v.isSensitive = sensitive
	v.touch()
}

// Touch refreshes updated_at without changing any field
func (v *Variable) Touch() {
	v.touch()
}

func (v *Variable) touch() {
	now := time.Now().UTC()
	if !now.After(v.updatedAt) {
		now = v.updatedAt.Add(time.Microsecond)
	}
	v.updatedAt = now
}

// Getters

func (v *Variable) EnvironmentName() environment.Name {
	return v.environmentName
}

func (v *Variable) Name() Name {
	return v.name
}

func (v *Variable) Value() Value {
	return v.value
}

func (v *Variable) Description() shared.Description {
	return v.description
}

func (v *Variable) IsSensitive() bool {
	return v.isSensitive
}

func (v *Variable) CreatedAt() time.Time {
	return v.createdAt
}

func (v *Variable) UpdatedAt() time.Time {
	return v.updatedAt
}

// Clone returns a deep copy
func (v *Variable) Clone() *Variable {
	c := *v
	c.description = shared.NewDescription(v.description.Ptr())
	return &c
}

func (v *Variable) String() string {
	return fmt.Sprintf("Variable{environment: %s, name: %s}", v.environmentName.String(), v.name.String())
}
