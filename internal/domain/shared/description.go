package shared

// Description is a value object for an optional free-text description.
// Absent and empty are different: nil means the field was never set.
type Description struct {
	value *string
}

// NewDescription wraps an optional description
func NewDescription(description *string) Description {
	if description == nil {
		return Description{}
	}
	d := *description
	return Description{value: &d}
}

// Ptr returns a copy of the description, nil when absent
func (d Description) Ptr() *string {
	if d.value == nil {
		return nil
	}
	v := *d.value
	return &v
}

func (d Description) String() string {
	if d.value == nil {
		return ""
	}
	return *d.value
}

func (d Description) IsEmpty() bool {
	return d.value == nil
}
