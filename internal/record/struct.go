package record

import (
	"encoding/json"
	"fmt"
	"time"
)

// Struct is a typed field container bound to a schema. Absent fields stay
// absent; a field is present only after a successful Put. Struct is not
// safe for concurrent mutation, but records are built by a single goroutine
// and never touched again after enqueue.
type Struct struct {
	schema *Schema
	values map[string]interface{}
}

// NewStruct creates an empty struct bound to the given schema.
func NewStruct(schema *Schema) *Struct {
	return &Struct{
		schema: schema,
		values: make(map[string]interface{}),
	}
}

// Schema returns the schema this struct is bound to.
func (s *Struct) Schema() *Schema { return s.schema }

// Put sets a field value. It rejects fields outside the schema and values
// whose Go type does not match the declared field type.
func (s *Struct) Put(name string, value interface{}) error {
	field, ok := s.schema.Field(name)
	if !ok {
		return fmt.Errorf("record: field %q not in schema %s", name, s.schema.Name())
	}
	switch field.Type {
	case TypeString:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("record: field %q wants string, got %T", name, value)
		}
	case TypeInt32:
		if _, ok := value.(int32); !ok {
			return fmt.Errorf("record: field %q wants int32, got %T", name, value)
		}
	case TypeTimestamp:
		if _, ok := value.(time.Time); !ok {
			return fmt.Errorf("record: field %q wants time.Time, got %T", name, value)
		}
	}
	s.values[name] = value
	return nil
}

// Has reports whether the field is present.
func (s *Struct) Has(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Get returns the raw value of a field and whether it is present.
func (s *Struct) Get(name string) (interface{}, bool) {
	v, ok := s.values[name]
	return v, ok
}

// GetString returns a string field, or "" if absent.
func (s *Struct) GetString(name string) (string, bool) {
	v, ok := s.values[name]
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// GetInt32 returns an int32 field, or 0 if absent.
func (s *Struct) GetInt32(name string) (int32, bool) {
	v, ok := s.values[name]
	if !ok {
		return 0, false
	}
	n, ok := v.(int32)
	return n, ok
}

// GetTime returns a timestamp field, or the zero time if absent.
func (s *Struct) GetTime(name string) (time.Time, bool) {
	v, ok := s.values[name]
	if !ok {
		return time.Time{}, false
	}
	ts, ok := v.(time.Time)
	return ts, ok
}

// Validate checks that every non-optional schema field is present.
func (s *Struct) Validate() error {
	for _, f := range s.schema.fields {
		if f.Optional {
			continue
		}
		if _, ok := s.values[f.Name]; !ok {
			return fmt.Errorf("record: required field %q missing from %s", f.Name, s.schema.Name())
		}
	}
	return nil
}

// MarshalJSON emits only present fields. Absent optional fields do not
// appear as nulls or zero values.
func (s *Struct) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.values)
}
