// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package jsonval is the in-memory JSON value model the core converts
// to and from (spec.md §3, §6 "JSON model on the wire"). It exists
// mainly so that object key order is preserved — spec.md requires
// header paths to be derived in first-seen order, which a plain Go map
// cannot give us — while arrays and scalars map directly onto encoding/
// json's own types.
package jsonval

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind discriminates the JSON value variants.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

// Value is one JSON value. Exactly one of the typed fields is
// meaningful, per Kind.
type Value struct {
	Kind Kind
	Bln  bool
	Num  float64
	Str  string
	Arr  []*Value
	Obj  *Map
}

// Map is an insertion-ordered string-keyed map, the backing store for a
// JSON object.
type Map struct {
	keys []string
	vals map[string]*Value
}

// NewMap creates an empty ordered map.
func NewMap() *Map {
	return &Map{vals: make(map[string]*Value)}
}

// Get returns the value bound to key, if any.
func (m *Map) Get(key string) (*Value, bool) {
	v, ok := m.vals[key]
	return v, ok
}

// Set binds key to v, recording first-seen insertion order. Setting an
// existing key does not move it.
func (m *Map) Set(key string, v *Value) {
	if _, exists := m.vals[key]; !exists {
		m.keys = append(m.keys, key)
	}

	m.vals[key] = v
}

// Keys returns the object's keys in insertion order.
func (m *Map) Keys() []string { return m.keys }

// Len returns the number of keys.
func (m *Map) Len() int { return len(m.keys) }

func Null_() *Value                { return &Value{Kind: Null} }
func NewBool(b bool) *Value        { return &Value{Kind: Bool, Bln: b} }
func NewNumber(f float64) *Value   { return &Value{Kind: Number, Num: f} }
func NewString(s string) *Value    { return &Value{Kind: String, Str: s} }
func NewArray(vs ...*Value) *Value { return &Value{Kind: Array, Arr: vs} }
func NewObject() *Value            { return &Value{Kind: Object, Obj: NewMap()} }

// IsNull reports whether v is nil or the JSON null value.
func IsNull(v *Value) bool { return v == nil || v.Kind == Null }

// MarshalJSON renders the value as standard JSON text.
func (v *Value) MarshalJSON() ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}

	switch v.Kind {
	case Null:
		return []byte("null"), nil
	case Bool:
		return json.Marshal(v.Bln)
	case Number:
		return json.Marshal(v.Num)
	case String:
		return json.Marshal(v.Str)
	case Array:
		var buf bytes.Buffer

		buf.WriteByte('[')

		for i, e := range v.Arr {
			if i > 0 {
				buf.WriteByte(',')
			}

			b, err := e.MarshalJSON()
			if err != nil {
				return nil, err
			}

			buf.Write(b)
		}

		buf.WriteByte(']')

		return buf.Bytes(), nil
	case Object:
		var buf bytes.Buffer

		buf.WriteByte('{')

		for i, k := range v.Obj.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}

			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}

			buf.Write(kb)
			buf.WriteByte(':')

			child, _ := v.Obj.Get(k)

			vb, err := child.MarshalJSON()
			if err != nil {
				return nil, err
			}

			buf.Write(vb)
		}

		buf.WriteByte('}')

		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("jsonval: unknown kind %d", v.Kind)
	}
}

// UnmarshalJSON parses standard JSON text into the ordered value model,
// using json.Decoder's token stream so object key order survives.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	val, err := decodeValue(dec)
	if err != nil {
		return err
	}

	*v = *val

	return nil
}

func decodeValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (*Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null_(), nil
	case bool:
		return NewBool(t), nil
	case json.Number:
		f, err := strconv.ParseFloat(t.String(), 64)
		if err != nil {
			return nil, err
		}

		return NewNumber(f), nil
	case string:
		return NewString(t), nil
	case json.Delim:
		switch t {
		case '[':
			arr := &Value{Kind: Array}

			for dec.More() {
				elem, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}

				arr.Arr = append(arr.Arr, elem)
			}

			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}

			return arr, nil
		case '{':
			obj := NewObject()

			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}

				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("jsonval: expected object key, got %v", keyTok)
				}

				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}

				obj.Obj.Set(key, val)
			}

			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}

			return obj, nil
		}
	}

	return nil, fmt.Errorf("jsonval: unexpected token %v", tok)
}
