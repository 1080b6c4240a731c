package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// Field is one named value in an output record. Records keep their fields
// ordered so every output format renders columns in the same sequence.
type Field struct {
	Name  string
	Value any
}

// Record represents one remote resource (object, table, job, stack, state
// machine, execution) shaped for output. Stages of the discovery pipeline
// never mutate a record another stage already holds; Clone before modifying.
type Record struct {
	fields []Field
}

// NewRecord builds a record from fields in display order.
func NewRecord(fields ...Field) Record {
	return Record{fields: fields}
}

// Get returns the value for a field name.
func (r Record) Get(name string) (any, bool) {
	for _, f := range r.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// GetString returns the field value as a string, or "" if absent or not a string.
func (r Record) GetString(name string) string {
	v, ok := r.Get(name)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetInt returns the field value as an int64, or 0 if absent.
func (r Record) GetInt(name string) int64 {
	v, ok := r.Get(name)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}

// GetTime returns the field value as a time.Time, or the zero time if absent.
func (r Record) GetTime(name string) time.Time {
	v, ok := r.Get(name)
	if !ok {
		return time.Time{}
	}
	t, _ := v.(time.Time)
	return t
}

// Set replaces an existing field in place or appends a new one at the end.
func (r *Record) Set(name string, value any) {
	for i, f := range r.fields {
		if f.Name == name {
			r.fields[i].Value = value
			return
		}
	}
	r.fields = append(r.fields, Field{Name: name, Value: value})
}

// Clone returns an independent copy so later stages can enrich a record
// without mutating the one an earlier stage produced.
func (r Record) Clone() Record {
	fields := make([]Field, len(r.fields))
	copy(fields, r.fields)
	return Record{fields: fields}
}

// Fields returns the record's fields in display order.
func (r Record) Fields() []Field {
	return r.fields
}

// Names returns the field names in display order.
func (r Record) Names() []string {
	names := make([]string, len(r.fields))
	for i, f := range r.fields {
		names[i] = f.Name
	}
	return names
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r.fields)
}

// MarshalJSON renders the record as a JSON object preserving field order.
// Timestamps are rendered as ISO-8601 in UTC.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value := f.Value
		if t, ok := value.(time.Time); ok {
			value = t.UTC().Format(time.RFC3339)
		}
		data, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
