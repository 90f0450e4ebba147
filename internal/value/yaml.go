// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package value

import (
	"fmt"

	goccyyaml "github.com/goccy/go-yaml"
)

// FromYAML parses YAML text into a Value, decoding through
// goccy/go-yaml's generic any-tree (map[string]any / []any / scalars)
// and normalizing it the same way FromJSON normalizes a gjson tree.
//
// This is what the Directory data source uses for ".yaml"
// keys, and it's also what the JSON/YAML parity property
// holds against: eval(pattern, FromJSON(s)) == eval(pattern,
// FromYAML(s)) whenever both parse the same logical document.
func FromYAML(data []byte) (Value, error) {
	var decoded any
	if err := goccyyaml.Unmarshal(data, &decoded); err != nil {
		return Value{}, fmt.Errorf("value: invalid YAML: %w", err)
	}
	return fromAny(decoded), nil
}

func fromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null
	case bool:
		return Bool(t)
	case int:
		return Int(int64(t))
	case int64:
		return Int(t)
	case uint64:
		if t <= 1<<63-1 {
			return Int(int64(t))
		}
		return Decimal(float64(t))
	case float64:
		return numberFromFloat(t)
	case string:
		return Str(t)
	case []byte:
		return Octets(t)
	case []any:
		items := make([]Value, len(t))
		for i, e := range t {
			items[i] = fromAny(e)
		}
		return List(items)
	case map[string]any:
		fields := make(map[string]Value, len(t))
		order := make([]string, 0, len(t))
		for k, e := range t {
			fields[k] = fromAny(e)
			order = append(order, k)
		}
		return Object(fields, order)
	case map[any]any:
		fields := make(map[string]Value, len(t))
		order := make([]string, 0, len(t))
		for k, e := range t {
			key := fmt.Sprintf("%v", k)
			fields[key] = fromAny(e)
			order = append(order, key)
		}
		return Object(fields, order)
	default:
		return Str(fmt.Sprintf("%v", t))
	}
}

func numberFromFloat(f float64) Value {
	if f == float64(int64(f)) {
		return Int(int64(f))
	}
	return Decimal(f)
}
