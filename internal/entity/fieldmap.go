package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FieldMap is an insertion-ordered mapping from field name to extracted value.
// A field that was not found is absent; callers never store empty values.
// The zero value is an empty map ready for use.
type FieldMap struct {
	keys   []string
	values map[string]string
}

// NewFieldMap builds a FieldMap from alternating name, value pairs.
func NewFieldMap(pairs ...string) FieldMap {
	var m FieldMap
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i], pairs[i+1])
	}
	return m
}

// Set stores value under name. Re-setting an existing name keeps its position.
func (m *FieldMap) Set(name, value string) {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if _, exists := m.values[name]; !exists {
		m.keys = append(m.keys, name)
	}
	m.values[name] = value
}

func (m FieldMap) Get(name string) (string, bool) {
	v, ok := m.values[name]
	return v, ok
}

func (m FieldMap) Has(name string) bool {
	_, ok := m.values[name]
	return ok
}

func (m FieldMap) Len() int { return len(m.keys) }

// Keys returns field names in insertion order.
func (m FieldMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Each calls fn for every field in insertion order.
func (m FieldMap) Each(fn func(name, value string)) {
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}

// ToMap returns an unordered copy, convenient for schema validation and comparisons.
func (m FieldMap) ToMap() map[string]string {
	out := make(map[string]string, len(m.keys))
	for _, k := range m.keys {
		out[k] = m.values[k]
	}
	return out
}

// Equal reports whether both maps hold the same fields in the same order.
func (m FieldMap) Equal(other FieldMap) bool {
	if len(m.keys) != len(other.keys) {
		return false
	}
	for i, k := range m.keys {
		if other.keys[i] != k || other.values[k] != m.values[k] {
			return false
		}
	}
	return true
}

func (m FieldMap) String() string {
	b, err := m.MarshalJSON()
	if err != nil {
		return "{}"
	}
	return string(b)
}

// MarshalJSON encodes the map as a JSON object whose key order is insertion order.
func (m FieldMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(m.values[k])
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

// UnmarshalJSON decodes a JSON object of string values, keeping document key order.
func (m *FieldMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode field map: %w", err)
	}
	if tok == nil {
		*m = FieldMap{}
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("decode field map: expected object, got %v", tok)
	}

	var out FieldMap
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode field map: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("decode field map: unexpected key %v", tok)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("decode field map: value for %q: %w", key, err)
		}
		out.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode field map: %w", err)
	}

	*m = out
	return nil
}
