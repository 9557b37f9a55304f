// internal/content/record/record.go
package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var ErrInvalidJSON = errors.New("INVALID_JSON")

// Field is a single named entry of a Record.
type Field struct {
	Name  string
	Value Value
}

// Record is a string-keyed map that remembers insertion order. The zero
// Record is empty and ready to use.
type Record struct {
	fields []Field
	index  map[string]int
}

// New builds a Record from fields in the given order. Later duplicates
// overwrite earlier values in place.
func New(fields ...Field) Record {
	var r Record
	for _, f := range fields {
		r.Set(f.Name, f.Value)
	}
	return r
}

// Set stores v under name. An existing key keeps its position.
func (r *Record) Set(name string, v Value) {
	if r.index == nil {
		r.index = make(map[string]int, len(r.fields)+1)
		for i, f := range r.fields {
			r.index[f.Name] = i
		}
	}
	if i, ok := r.index[name]; ok {
		r.fields[i].Value = v
		return
	}
	r.index[name] = len(r.fields)
	r.fields = append(r.fields, Field{Name: name, Value: v})
}

func (r Record) Get(name string) (Value, bool) {
	if r.index != nil {
		i, ok := r.index[name]
		if !ok {
			return Value{}, false
		}
		return r.fields[i].Value, true
	}
	for _, f := range r.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

func (r Record) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// GetString returns the string stored under name, if any.
func (r Record) GetString(name string) (string, bool) {
	v, ok := r.Get(name)
	if !ok {
		return "", false
	}
	return v.AsString()
}

func (r Record) Len() int { return len(r.fields) }

// Keys returns field names in insertion order.
func (r Record) Keys() []string {
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.Name
	}
	return keys
}

// Fields returns a copy of the fields in insertion order.
func (r Record) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Clone returns a deep copy that shares no storage with r.
func (r Record) Clone() Record {
	c := Record{
		fields: make([]Field, len(r.fields)),
		index:  make(map[string]int, len(r.fields)),
	}
	for i, f := range r.fields {
		c.fields[i] = Field{Name: f.Name, Value: f.Value.clone()}
		c.index[f.Name] = i
	}
	return c
}

func (r Record) ToMap() map[string]interface{} {
	out := make(map[string]interface{}, len(r.fields))
	for _, f := range r.fields {
		out[f.Name] = f.Value.Interface()
	}
	return out
}

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
		val, err := f.Value.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *Record) UnmarshalJSON(data []byte) error {
	v, err := Parse(data)
	if err != nil {
		return err
	}
	rec, ok := v.AsRecord()
	if !ok {
		return fmt.Errorf("%w: expected object, got %s", ErrInvalidJSON, v.Kind())
	}
	*r = rec
	return nil
}

// Parse decodes a single JSON document, preserving object key order.
// Trailing non-whitespace content is an error.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := parseValue(dec)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, fmt.Errorf("%w: trailing data after document", ErrInvalidJSON)
	}
	return v, nil
}

// ParseString is Parse for text input.
func ParseString(s string) (Value, error) {
	return Parse([]byte(s))
}

func parseValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		default:
			return Value{}, fmt.Errorf("unexpected delimiter %q", t)
		}
	case string:
		return String(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, err
		}
		return Number(f), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null(), nil
	default:
		return Value{}, fmt.Errorf("unexpected token %v", tok)
	}
}

func parseObject(dec *json.Decoder) (Value, error) {
	var r Record
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return Value{}, fmt.Errorf("object key must be a string, got %v", tok)
		}
		v, err := parseValue(dec)
		if err != nil {
			return Value{}, err
		}
		r.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return Value{kind: KindRecord, rec: &r}, nil
}

func parseArray(dec *json.Decoder) (Value, error) {
	items := []Value{}
	for dec.More() {
		v, err := parseValue(dec)
		if err != nil {
			return Value{}, err
		}
		items = append(items, v)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return Value{kind: KindList, list: items}, nil
}
