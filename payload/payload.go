// Package payload provides the ordered key/value request payload passed to
// every CardPointe action.
package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

var ErrUnsupportedValue = errors.New("unsupported payload value")

type Field struct {
	Key   string
	Value any
}

// F is shorthand for Field{Key: key, Value: value}.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Payload is an ordered set of fields. The zero value is empty and ready to
// use. Set mutates the receiver; With returns a copy and never touches the
// original, so it can be chained off New(). Copies made by assignment may be
// mutated independently: every mutation writes to a fresh field list.
//
// Fields whose value is nil are left out of the JSON body and the query
// string.
type Payload struct {
	fields []Field
}

func New(fields ...Field) Payload {
	var p Payload
	for _, f := range fields {
		p.Set(f.Key, f.Value)
	}
	return p
}

// FromMap builds a payload with keys in sorted order.
func FromMap(m map[string]any) Payload {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var p Payload
	for _, k := range keys {
		p.Set(k, m[k])
	}
	return p
}

// Set replaces the value of an existing key in place or appends a new one.
func (p *Payload) Set(key string, value any) *Payload {
	n := len(p.fields)
	if i := p.index(key); i >= 0 {
		p.fields = p.Fields()
		p.fields[i].Value = value
		return p
	}
	p.fields = append(p.fields[:n:n], Field{Key: key, Value: value})
	return p
}

// With returns a copy of p with key set to value.
func (p Payload) With(key string, value any) Payload {
	out := p.Clone()
	out.Set(key, value)
	return out
}

func (p Payload) Get(key string) (any, bool) {
	if i := p.index(key); i >= 0 {
		return p.fields[i].Value, true
	}
	return nil, false
}

// GetString returns the value as a string when it is a scalar.
func (p Payload) GetString(key string) (string, bool) {
	v, ok := p.Get(key)
	if !ok || v == nil {
		return "", false
	}
	s, err := scalarString(v)
	if err != nil {
		return "", false
	}
	return s, true
}

func (p Payload) Has(key string) bool {
	return p.index(key) >= 0
}

// Take removes the key and returns its value.
func (p *Payload) Take(key string) (any, bool) {
	i := p.index(key)
	if i < 0 {
		return nil, false
	}
	v := p.fields[i].Value
	p.fields = append(p.fields[:i:i], p.fields[i+1:]...)
	return v, true
}

func (p *Payload) Delete(key string) {
	p.Take(key)
}

func (p Payload) Len() int {
	return len(p.fields)
}

func (p Payload) Keys() []string {
	keys := make([]string, len(p.fields))
	for i, f := range p.fields {
		keys[i] = f.Key
	}
	return keys
}

func (p Payload) Fields() []Field {
	out := make([]Field, len(p.fields))
	copy(out, p.fields)
	return out
}

// Clone copies the field list. Nested values are shared.
func (p Payload) Clone() Payload {
	return Payload{fields: p.Fields()}
}

func (p Payload) index(key string) int {
	for i, f := range p.fields {
		if f.Key == key {
			return i
		}
	}
	return -1
}

// MarshalJSON writes the fields in insertion order.
func (p Payload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (p Payload) writeJSON(buf *bytes.Buffer) error {
	buf.WriteByte('{')
	first := true
	for _, f := range p.fields {
		if f.Value == nil {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		key, err := json.Marshal(f.Key)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if err := writeValue(buf, f.Key, f.Value); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeValue(buf *bytes.Buffer, key string, v any) error {
	switch val := v.(type) {
	case Payload:
		return val.writeJSON(buf)
	case *Payload:
		if val == nil {
			buf.WriteString("null")
			return nil
		}
		return val.writeJSON(buf)
	case map[string]any:
		return writeValue(buf, key, FromMap(val))
	case []any:
		return writeList(buf, key, val)
	case []Payload:
		items := make([]any, len(val))
		for i := range val {
			items[i] = val[i]
		}
		return writeList(buf, key, items)
	case nil, string, bool, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64,
		[]string, map[string]string:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Errorf("encoding %q: %w", key, err)
		}
		buf.Write(b)
		return nil
	default:
		return fmt.Errorf("%w: %q has type %T", ErrUnsupportedValue, key, v)
	}
}

func writeList(buf *bytes.Buffer, key string, items []any) error {
	buf.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeValue(buf, key, item); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

// Query encodes the fields as a query string in insertion order. Only scalar
// values can be encoded.
func (p Payload) Query() (string, error) {
	parts := make([]string, 0, len(p.fields))
	for _, f := range p.fields {
		if f.Value == nil {
			continue
		}
		s, err := scalarString(f.Value)
		if err != nil {
			return "", fmt.Errorf("query field %q: %w", f.Key, err)
		}
		parts = append(parts, url.QueryEscape(f.Key)+"="+url.QueryEscape(s))
	}
	return strings.Join(parts, "&"), nil
}

func scalarString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case json.Number:
		return val.String(), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val), nil
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("%w: %T is not a scalar", ErrUnsupportedValue, v)
	}
}
