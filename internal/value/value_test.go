// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package value

import "testing"

func TestEqualNumericCoercion(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"int-decimal-equal", Int(3), Decimal(3.0), true},
		{"decimal-int-equal", Decimal(3.0), Int(3), true},
		{"int-decimal-unequal", Int(3), Decimal(3.5), false},
		{"string-vs-int", Str("3"), Int(3), false},
		{"null-vs-null", Null, Null, true},
		{"bool-equal", Bool(true), Bool(true), true},
		{"bool-unequal", Bool(true), Bool(false), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Equal(tc.a, tc.b); got != tc.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestObjectFieldOrderPreserved(t *testing.T) {
	obj := Object(map[string]Value{
		"name":    Str("rex"),
		"trained": Bool(true),
	}, []string{"name", "trained"})

	if got := obj.FieldNames(); len(got) != 2 || got[0] != "name" || got[1] != "trained" {
		t.Fatalf("FieldNames() = %v, want [name trained]", got)
	}
}

func TestFromJSONAndFromYAMLParity(t *testing.T) {
	jsonDoc := []byte(`{"name":"rex","trained":true,"age":3,"tags":["good","boy"]}`)
	yamlDoc := []byte("name: rex\ntrained: true\nage: 3\ntags:\n  - good\n  - boy\n")

	jv, err := FromJSON(jsonDoc)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	yv, err := FromYAML(yamlDoc)
	if err != nil {
		t.Fatalf("FromYAML: %v", err)
	}
	if !Equal(jv, yv) {
		t.Fatalf("FromJSON(%s) != FromYAML(%s): %#v vs %#v", jsonDoc, yamlDoc, jv, yv)
	}
}

func TestFromJSONLargeIntegerFallsBackToDecimal(t *testing.T) {
	v, err := FromJSON([]byte(`99999999999999999999999`))
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if v.Kind() != KindDecimal {
		t.Fatalf("Kind() = %v, want decimal", v.Kind())
	}
}

func TestFromJSONInvalidReturnsError(t *testing.T) {
	if _, err := FromJSON([]byte(`{not json`)); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
