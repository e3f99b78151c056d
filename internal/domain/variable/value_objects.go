package variable

import (
	"fmt"
	"regexp"
)

// MaxNameLength matches the width of the variables.name column
const MaxNameLength = 100

var (
	nameRegex = regexp.MustCompile(`^[A-Z0-9_]+$`)
)

// Name is a value object for a variable name (DB_URL, API_KEY, ...).
// Unique only within its environment.
type Name struct {
	value string
}

// NewName creates a new Name with validation
func NewName(name string) (Name, error) {
	if name == "" {
		return Name{}, fmt.Errorf("variable name cannot be empty")
	}

	if len(name) > MaxNameLength {
		return Name{}, fmt.Errorf("variable name too long (max %d characters)", MaxNameLength)
	}

	if !nameRegex.MatchString(name) {
		return Name{}, fmt.Errorf("variable name must contain only uppercase letters, digits and underscores (e.g. DB_URL)")
	}

	return Name{value: name}, nil
}

// IsValidName reports whether name is an acceptable variable name
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

// Value is a value object for the variable value. Any text is allowed.
// Values flagged sensitive are stored as-is; the flag is metadata only.
type Value struct {
	value string
}

func NewValue(value string) Value {
	return Value{value: value}
}

func (v Value) String() string {
	return v.value
}

func (v Value) IsEmpty() bool {
	return v.value == ""
}
