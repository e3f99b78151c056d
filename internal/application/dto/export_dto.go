package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FlatVariables is the bulk export body: {"NAME": "value", ...}.
// Keys keep insertion order when marshalled, unlike a Go map.
type FlatVariables struct {
	keys   []string
	values map[string]string
}

// NewFlatVariables creates an empty export
func NewFlatVariables() *FlatVariables {
	return &FlatVariables{values: make(map[string]string)}
}

// Set adds or replaces a key. A new key is appended at the end.
func (f *FlatVariables) Set(key, value string) {
	if f.values == nil {
		f.values = make(map[string]string)
	}
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// Get returns the value for key
func (f *FlatVariables) Get(key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

// Keys returns the keys in order
func (f *FlatVariables) Keys() []string {
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

func (f *FlatVariables) Len() int {
	return len(f.keys)
}

// Map returns an unordered copy
func (f *FlatVariables) Map() map[string]string {
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// MarshalJSON implements json.Marshaler
func (f *FlatVariables) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range f.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(f.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler, keeping document order
func (f *FlatVariables) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("flat variables: expected object, got %v", tok)
	}

	f.keys = nil
	f.values = make(map[string]string)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("flat variables: expected string key, got %v", tok)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("flat variables: value of %s: %w", key, err)
		}
		f.Set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
