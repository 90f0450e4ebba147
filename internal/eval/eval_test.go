// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package eval

import (
	"context"
	"testing"

	"github.com/kennel-lang/kennel/internal/datasource"
	"github.com/kennel-lang/kennel/internal/severity"
	"github.com/kennel-lang/kennel/internal/value"
	"github.com/kennel-lang/kennel/internal/world"
)

func buildWorld(t *testing.T, pkg, src string) *world.World {
	t.Helper()
	b := world.New()
	if err := b.Build("test.dog", pkg, src); err != nil {
		t.Fatalf("build: %v", err)
	}
	w, bag := b.Finish()
	if bag.HasErrors() {
		t.Fatalf("finish: %v", bag.Items())
	}
	return w
}

func evaluate(t *testing.T, w *world.World, name string, val value.Value) (*EvaluationResult, error) {
	t.Helper()
	return Evaluate(w, name, val, NewEvalContext(context.Background()))
}

func TestEvaluatePrimordial(t *testing.T) {
	w := buildWorld(t, "p", "pattern s = string\n")

	tests := []struct {
		name      string
		val       value.Value
		satisfied bool
	}{
		{"matching string", value.Str("hello"), true},
		{"wrong kind", value.Int(3), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, err := evaluate(t, w, "p::s", tc.val)
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if r.Satisfied != tc.satisfied {
				t.Errorf("Satisfied = %v, want %v (reason %q)", r.Satisfied, tc.satisfied, r.Reason)
			}
		})
	}
}

func TestEvaluateObject(t *testing.T) {
	w := buildWorld(t, "p", "pattern dog = { name: string, trained?: boolean }\n")

	complete := value.ObjectFromMap(map[string]value.Value{
		"name":    value.Str("Fido"),
		"trained": value.Bool(true),
	})
	r, err := evaluate(t, w, "p::dog", complete)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !r.Satisfied {
		t.Errorf("expected complete object to satisfy, got %q", r.Reason)
	}

	missingOptional := value.ObjectFromMap(map[string]value.Value{"name": value.Str("Rex")})
	r, err = evaluate(t, w, "p::dog", missingOptional)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !r.Satisfied {
		t.Errorf("expected missing optional field to still satisfy, got %q", r.Reason)
	}

	missingRequired := value.ObjectFromMap(map[string]value.Value{"trained": value.Bool(false)})
	r, err = evaluate(t, w, "p::dog", missingRequired)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if r.Satisfied {
		t.Error("expected missing required field to be unsatisfied")
	}
	if r.Severity != severity.Error {
		t.Errorf("severity = %v, want Error", r.Severity)
	}
}

func TestEvaluateListCardinalityAndQuantifiers(t *testing.T) {
	w := buildWorld(t, "p", "pattern few = [ integer; 1..3 ]\n")

	r, err := evaluate(t, w, "p::few", value.List([]value.Value{value.Int(1), value.Int(2)}))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !r.Satisfied {
		t.Errorf("expected in-range list to satisfy, got %q", r.Reason)
	}

	r, err = evaluate(t, w, "p::few", value.List([]value.Value{value.Int(1), value.Int(2), value.Int(3), value.Int(4)}))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if r.Satisfied {
		t.Error("expected over-cardinality list to be unsatisfied")
	}
}

func TestEvaluateSugarAndOrNot(t *testing.T) {
	w := buildWorld(t, "p", `
pattern nonempty = string & string::length<3>
pattern choice = integer | string
pattern nope = !integer
`)

	r, err := evaluate(t, w, "p::nonempty", value.Str("abc"))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !r.Satisfied {
		t.Errorf("expected 3-char string to satisfy, got %q", r.Reason)
	}

	r, err = evaluate(t, w, "p::nonempty", value.Str("abcdef"))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if r.Satisfied {
		t.Error("expected 6-char string to fail length<3>")
	}

	r, err = evaluate(t, w, "p::choice", value.Str("hi"))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !r.Satisfied {
		t.Errorf("expected union to match string branch, got %q", r.Reason)
	}

	r, err = evaluate(t, w, "p::nope", value.Str("hi"))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !r.Satisfied {
		t.Errorf("expected !integer to match a non-integer, got %q", r.Reason)
	}
}

func TestEvaluateTraverseChain(t *testing.T) {
	w := buildWorld(t, "p", "pattern p = x.y.z\n")

	nested := value.ObjectFromMap(map[string]value.Value{
		"x": value.ObjectFromMap(map[string]value.Value{
			"y": value.ObjectFromMap(map[string]value.Value{
				"z": value.Int(42),
			}),
		}),
	})
	r, err := evaluate(t, w, "p::p", nested)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !r.Satisfied {
		t.Errorf("expected chain traversal to succeed, got %q", r.Reason)
	}
	if !r.Output.Present {
		t.Fatal("expected a transformed output")
	}
	if n, ok := r.Output.Value.Integer(); !ok || n != 42 {
		t.Errorf("output = %v, want 42", r.Output.Value.GoString())
	}

	shallow := value.ObjectFromMap(map[string]value.Value{"x": value.Int(1)})
	r, err = evaluate(t, w, "p::p", shallow)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if r.Satisfied {
		t.Error("expected a missing intermediate field to fail the chain")
	}
}

func TestEvaluateExpr(t *testing.T) {
	w := buildWorld(t, "p", "pattern adult = (self.age > 17)\n")

	r, err := evaluate(t, w, "p::adult", value.ObjectFromMap(map[string]value.Value{"age": value.Int(30)}))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !r.Satisfied {
		t.Errorf("expected age 30 to satisfy adult, got %q", r.Reason)
	}

	r, err = evaluate(t, w, "p::adult", value.ObjectFromMap(map[string]value.Value{"age": value.Int(10)}))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if r.Satisfied {
		t.Error("expected age 10 to fail adult")
	}
}

func TestEvaluateGenericForwarding(t *testing.T) {
	w := buildWorld(t, "p", `
pattern wrapper<T> = { value: T }
pattern strings = wrapper<string>
`)

	ok := value.ObjectFromMap(map[string]value.Value{"value": value.Str("hi")})
	r, err := evaluate(t, w, "p::strings", ok)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !r.Satisfied {
		t.Errorf("expected generic forwarding to resolve T=string, got %q", r.Reason)
	}

	bad := value.ObjectFromMap(map[string]value.Value{"value": value.Int(1)})
	r, err = evaluate(t, w, "p::strings", bad)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if r.Satisfied {
		t.Error("expected T=string to reject an integer value field")
	}
}

func TestEvaluateCyclicReferenceTerminates(t *testing.T) {
	w := buildWorld(t, "p", `
pattern a = b
pattern b = a
`)

	r, err := evaluate(t, w, "p::a", value.Str("anything"))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if r.Satisfied {
		t.Error("a mutually recursive Ref cycle should resolve to Unsatisfied, not loop forever")
	}
}

func TestEvaluateSeverityPromotion(t *testing.T) {
	w := buildWorld(t, "p", "#[severity(warning)]\npattern advisory = string\n")

	r, err := evaluate(t, w, "p::advisory", value.Int(1))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if r.Satisfied {
		t.Fatal("expected an integer to fail a string pattern")
	}
	if r.Severity != severity.Warning {
		t.Errorf("severity = %v, want Warning (declared on the pattern)", r.Severity)
	}
}

func TestEvaluateNestedSeveritySurvivesResponseProjection(t *testing.T) {
	w := buildWorld(t, "p", `
#[severity(warning)]
pattern advisory = string
pattern container = { x: advisory }
`)

	r, err := evaluate(t, w, "p::container", value.ObjectFromMap(map[string]value.Value{"x": value.Int(1)}))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if r.Satisfied {
		t.Fatal("expected a non-string x to fail the advisory field")
	}
	if r.Severity != severity.Warning {
		t.Errorf("root severity = %v, want Warning", r.Severity)
	}

	resp := From(r)
	if len(resp.Rationale) == 0 {
		t.Fatal("expected a rationale child for the container's object body")
	}
	// The root's child is the container body's "object" node; field x
	// sits one level below it.
	var field *Response
	for _, c := range resp.Rationale {
		for _, gc := range c.Rationale {
			if gc.Name == "x" {
				field = gc
			}
		}
	}
	if field == nil {
		t.Fatal("expected a rationale child labeled \"x\"")
	}
	if field.Severity != severity.Warning.String() {
		t.Errorf("field x severity = %q, want %q — the declaration's own severity override must survive the Response projection, not be re-derived from Satisfied", field.Severity, severity.Warning.String())
	}

	collapsed := resp.Collapse(severity.Error)
	if len(collapsed.Rationale) != 0 {
		t.Errorf("expected Collapse(Error) to prune a Warning-severity child, got %d remaining", len(collapsed.Rationale))
	}
}

func TestEvaluateDataFrom(t *testing.T) {
	b := world.New()
	if err := b.Build("test.dog", "p", "pattern fromMock = data::from<\"mock\", \"greeting\">\n"); err != nil {
		t.Fatalf("build: %v", err)
	}
	mock := datasource.NewMock("mock")
	mock.Values["greeting"] = value.Str("hello")
	b.Data("mock", mock)
	w, bag := b.Finish()
	if bag.HasErrors() {
		t.Fatalf("finish: %v", bag.Items())
	}

	r, err := evaluate(t, w, "p::fromMock", value.Null)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !r.Satisfied {
		t.Errorf("expected data::from to fetch the registered key, got %q", r.Reason)
	}
	if got, ok := r.Output.Value.String(); !ok || got != "hello" {
		t.Errorf("output = %v, want \"hello\"", r.Output.Value.GoString())
	}
	if mock.GetCallCount() != 1 {
		t.Errorf("GetCallCount = %d, want 1", mock.GetCallCount())
	}
}

func TestEvaluateMemoizationSharesRepeatedSubgraph(t *testing.T) {
	w := buildWorld(t, "p", `
pattern shared = string
pattern both = { a: shared, b: shared }
`)

	val := value.ObjectFromMap(map[string]value.Value{
		"a": value.Str("x"),
		"b": value.Str("x"),
	})
	r, err := evaluate(t, w, "p::both", val)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !r.Satisfied {
		t.Errorf("expected both fields to satisfy the shared pattern, got %q", r.Reason)
	}
}

func TestResponseCollapsePrunesBelowThreshold(t *testing.T) {
	w := buildWorld(t, "p", "pattern dog = { name: string, age: integer }\n")

	r, err := evaluate(t, w, "p::dog", value.ObjectFromMap(map[string]value.Value{
		"name": value.Int(1),
		"age":  value.Str("old"),
	}))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	resp := From(r)
	collapsed := resp.Collapse(severity.Error)
	if collapsed.Satisfied {
		t.Fatal("expected the root outcome to remain unsatisfied after collapse")
	}
	if len(collapsed.Rationale) == 0 {
		t.Error("expected Error-severity children to survive Collapse(Error)")
	}
}
