// Package record holds the CSV interchange unit and the helpers that read
// records from delimited text and format them back into CSV lines.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Value is an optional field value. The zero Value is absent.
type Value struct {
	s  string
	ok bool
}

// Some returns a present value.
func Some(s string) Value { return Value{s: s, ok: true} }

// None returns an absent value.
func None() Value { return Value{} }

// Get returns the value and whether it is present.
func (v Value) Get() (string, bool) { return v.s, v.ok }

// String returns the value, or "" when absent.
func (v Value) String() string { return v.s }

// MarshalJSON encodes an absent value as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.ok {
		return []byte("null"), nil
	}
	return json.Marshal(v.s)
}

// UnmarshalJSON decodes null as absent.
func (v *Value) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = None()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*v = Some(s)
	return nil
}

// Record maps field names to optional values, keeping the order in which
// names were first set.
type Record struct {
	keys   []string
	values map[string]Value
}

// New returns an empty record with room for n fields.
func New(n int) Record {
	return Record{keys: make([]string, 0, n), values: make(map[string]Value, n)}
}

// Set assigns v to name. A repeated name keeps its original position.
func (r *Record) Set(name string, v Value) {
	if r.values == nil {
		r.values = make(map[string]Value)
	}
	if _, exists := r.values[name]; !exists {
		r.keys = append(r.keys, name)
	}
	r.values[name] = v
}

// Get returns the value stored under name. Unknown names are absent.
func (r Record) Get(name string) Value { return r.values[name] }

// Has reports whether name is one of the record's fields.
func (r Record) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// Keys returns the field names in order.
func (r Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Values returns the field values in key order.
func (r Record) Values() []Value {
	out := make([]Value, len(r.keys))
	for i, k := range r.keys {
		out[i] = r.values[k]
	}
	return out
}

// Len returns the number of fields.
func (r Record) Len() int { return len(r.keys) }

// MarshalJSON writes the record as an object with keys in field order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := r.values[k].MarshalJSON()
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

// UnmarshalJSON reads an object, keeping keys in document order.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("record: expected object, got %v", tok)
	}
	out := New(0)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("record: expected field name, got %v", tok)
		}
		var v Value
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("record: field %q: %w", key, err)
		}
		out.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = out
	return nil
}
