package environment

import (
	"fmt"
	"regexp"
)

// MaxNameLength matches the width of the environments.name column
const MaxNameLength = 100

var (
	nameRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// Name is a value object for an environment name.
// It is the sole identifier of an environment: lowercase slug such as dev, staging, prod-01.
type Name struct {
	value string
}

// NewName creates a new Name with validation
func NewName(name string) (Name, error) {
	if name == "" {
		return Name{}, fmt.Errorf("environment name cannot be empty")
	}

	if len(name) > MaxNameLength {
		return Name{}, fmt.Errorf("environment name too long (max %d characters)", MaxNameLength)
	}

	if !nameRegex.MatchString(name) {
		return Name{}, fmt.Errorf("environment name must be a lowercase slug (e.g. dev, staging, prod-01)")
	}

	return Name{value: name}, nil
}

// IsValidName reports whether name is an acceptable environment name
func IsValidName(name string) bool {
	_, err := NewName(name)
	return err == nil
}

func (n Name) String() string {
	return n.value
}

func (n Name) Equals(other Name) bool {
	return n.value == other.value
}

func (n Name) IsZero() bool {
	return n.value == ""
}
