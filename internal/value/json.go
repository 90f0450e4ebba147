// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package value

import (
	"fmt"
	"math"
	"strconv"

	"github.com/tidwall/gjson"
)

// FromJSON parses raw JSON text into a Value. Conversion is total except
// that JSON integers outside the signed-64 range are coerced to Decimal
// with a documented lossy fallback.
//
// Parsing walks a gjson.Result tree rather than encoding/json: gjson
// gives each scalar both its parsed form and its raw source text, which
// is exactly what's needed to tell "123" (fits int64) apart from
// "99999999999999999999999" (must fall back to decimal) without a second
// parse pass.
func FromJSON(data []byte) (Value, error) {
	if !gjson.ValidBytes(data) {
		return Value{}, fmt.Errorf("value: invalid JSON")
	}
	result := gjson.ParseBytes(data)
	return fromGJSON(result), nil
}

func fromGJSON(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return Null
	case gjson.True:
		return Bool(true)
	case gjson.False:
		return Bool(false)
	case gjson.String:
		return Str(r.String())
	case gjson.Number:
		return numberFromRaw(r.Raw, r.Num)
	case gjson.JSON:
		if r.IsArray() {
			var items []Value
			r.ForEach(func(_, v gjson.Result) bool {
				items = append(items, fromGJSON(v))
				return true
			})
			return List(items)
		}
		fields := make(map[string]Value)
		var order []string
		r.ForEach(func(k, v gjson.Result) bool {
			name := k.String()
			fields[name] = fromGJSON(v)
			order = append(order, name)
			return true
		})
		return Object(fields, order)
	default:
		return Null
	}
}

// numberFromRaw decides between Integer and Decimal for a JSON number.
// gjson already parsed the float64 form (num); this additionally checks
// whether the raw text round-trips through strconv.ParseInt, which is
// the only way to reject magnitudes or fractional text that float64
// parsing alone would silently accept.
func numberFromRaw(raw string, num float64) Value {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return Int(i)
	}
	if math.IsNaN(num) || math.IsInf(num, 0) {
		return Decimal(0)
	}
	return Decimal(num)
}

// ToJSON renders a Value back to JSON text. Octets are rendered as a
// quoted lowercase hex string; this is primarily used by diagnostics and
// rationale printing, not round-trip storage.
func ToJSON(v Value) string {
	switch v.Kind() {
	case KindNull:
		return "null"
	case KindBoolean:
		b, _ := v.Bool()
		return strconv.FormatBool(b)
	case KindInteger:
		i, _ := v.Integer()
		return strconv.FormatInt(i, 10)
	case KindDecimal:
		f, _ := v.Float()
		return strconv.FormatFloat(f, 'g', -1, 64)
	case KindString:
		s, _ := v.String()
		return strconv.Quote(s)
	case KindOctets:
		o, _ := v.Octets()
		return strconv.Quote(fmt.Sprintf("%x", o))
	case KindList:
		items, _ := v.List()
		out := "["
		for i, item := range items {
			if i > 0 {
				out += ","
			}
			out += ToJSON(item)
		}
		return out + "]"
	case KindObject:
		out := "{"
		for i, name := range v.FieldNames() {
			if i > 0 {
				out += ","
			}
			field, _ := v.Field(name)
			out += strconv.Quote(name) + ":" + ToJSON(field)
		}
		return out + "}"
	default:
		return "null"
	}
}
