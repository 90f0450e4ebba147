// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package value implements the runtime value model that patterns are
// evaluated against: a tagged variant over the JSON data model plus raw
// octets.
package value

import "fmt"

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBoolean
	KindInteger
	KindDecimal
	KindString
	KindOctets
	KindList
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindDecimal:
		return "decimal"
	case KindString:
		return "string"
	case KindOctets:
		return "octets"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a JSON-like value plus an octets variant.
//
// The zero Value is Null. Value is a plain struct, not an interface, so
// that equality and copying stay cheap and explicit — matching how the
// evaluator treats every input as immutable during a single evaluation:
// any "transform" produces a new Value rather than mutating one in
// place.
type Value struct {
	kind    Kind
	boolean bool
	integer int64
	decimal float64
	str     string
	octets  []byte
	list    []Value
	fields  map[string]Value
	// order preserves the field insertion order for stable rationale
	// and printer output. Field *set* is significant; order is
	// not, but callers that print an Object want deterministic output.
	order []string
}

// Null is the null value.
var Null = Value{kind: KindNull}

func Bool(b bool) Value       { return Value{kind: KindBoolean, boolean: b} }
func Int(i int64) Value       { return Value{kind: KindInteger, integer: i} }
func Decimal(f float64) Value { return Value{kind: KindDecimal, decimal: f} }
func Str(s string) Value      { return Value{kind: KindString, str: s} }
func Octets(b []byte) Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Value{kind: KindOctets, octets: cp}
}

func List(items []Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: KindList, list: cp}
}

// Object builds an object value. Field order follows the order fields
// are supplied in, for printer stability.
func Object(fields map[string]Value, order []string) Value {
	fcopy := make(map[string]Value, len(fields))
	for k, v := range fields {
		fcopy[k] = v
	}
	ocopy := make([]string, len(order))
	copy(ocopy, order)
	return Value{kind: KindObject, fields: fcopy, order: ocopy}
}

// ObjectFromMap builds an Object with insertion order undefined (callers
// that don't care about presentation order, e.g. JSON decode of an
// already-unordered map, can use this).
func ObjectFromMap(fields map[string]Value) Value {
	order := make([]string, 0, len(fields))
	for k := range fields {
		order = append(order, k)
	}
	return Object(fields, order)
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) Bool() (bool, bool) {
	if v.kind != KindBoolean {
		return false, false
	}
	return v.boolean, true
}

func (v Value) Integer() (int64, bool) {
	if v.kind != KindInteger {
		return 0, false
	}
	return v.integer, true
}

func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindDecimal:
		return v.decimal, true
	case KindInteger:
		return float64(v.integer), true
	default:
		return 0, false
	}
}

func (v Value) String() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

func (v Value) Octets() ([]byte, bool) {
	if v.kind != KindOctets {
		return nil, false
	}
	return v.octets, true
}

func (v Value) List() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return v.list, true
}

// Field returns a field of an Object value.
func (v Value) Field(name string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	f, ok := v.fields[name]
	return f, ok
}

// FieldNames returns an Object's field names in insertion order.
func (v Value) FieldNames() []string {
	if v.kind != KindObject {
		return nil
	}
	out := make([]string, len(v.order))
	copy(out, v.order)
	return out
}

func (v Value) HasField(name string) bool {
	if v.kind != KindObject {
		return false
	}
	_, ok := v.fields[name]
	return ok
}

// GoString renders a debug representation, used by diagnostics and tests.
func (v Value) GoString() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBoolean:
		return fmt.Sprintf("%v", v.boolean)
	case KindInteger:
		return fmt.Sprintf("%d", v.integer)
	case KindDecimal:
		return fmt.Sprintf("%g", v.decimal)
	case KindString:
		return fmt.Sprintf("%q", v.str)
	case KindOctets:
		return fmt.Sprintf("octets(%d bytes)", len(v.octets))
	case KindList:
		return fmt.Sprintf("list(%d)", len(v.list))
	case KindObject:
		return fmt.Sprintf("object(%d fields)", len(v.fields))
	default:
		return "<invalid>"
	}
}

// Equal implements the equality rule used by Const pattern matching:
// integer and decimal compare by numeric value; every other pair of
// kinds compares by strict same-tag equality.
func Equal(a, b Value) bool {
	if a.kind == KindInteger && b.kind == KindDecimal {
		return float64(a.integer) == b.decimal
	}
	if a.kind == KindDecimal && b.kind == KindInteger {
		return a.decimal == float64(b.integer)
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBoolean:
		return a.boolean == b.boolean
	case KindInteger:
		return a.integer == b.integer
	case KindDecimal:
		return a.decimal == b.decimal
	case KindString:
		return a.str == b.str
	case KindOctets:
		if len(a.octets) != len(b.octets) {
			return false
		}
		for i := range a.octets {
			if a.octets[i] != b.octets[i] {
				return false
			}
		}
		return true
	case KindList:
		if len(a.list) != len(b.list) {
			return false
		}
		for i := range a.list {
			if !Equal(a.list[i], b.list[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.fields) != len(b.fields) {
			return false
		}
		for k, av := range a.fields {
			bv, ok := b.fields[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
