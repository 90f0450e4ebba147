// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ast

import "testing"

func mustParse(t *testing.T, src string) *File {
	t.Helper()
	p := NewParser("test.dog", src)
	file, errs := p.Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	return file
}

func TestParseEmptyObjectPattern(t *testing.T) {
	file := mustParse(t, `pattern foo = {}`)
	if len(file.Decls) != 1 {
		t.Fatalf("len(Decls) = %d, want 1", len(file.Decls))
	}
	decl := file.Decls[0]
	if decl.Name != "foo" {
		t.Errorf("Name = %q, want foo", decl.Name)
	}
	if decl.Body.Kind != PatObject || len(decl.Body.Fields) != 0 {
		t.Errorf("Body = %+v, want empty object", decl.Body)
	}
}

func TestParseObjectWithOptionalField(t *testing.T) {
	file := mustParse(t, `pattern dog = { name: string, trained?: boolean }`)
	fields := file.Decls[0].Body.Fields
	if len(fields) != 2 {
		t.Fatalf("len(Fields) = %d, want 2", len(fields))
	}
	if fields[0].Name != "name" || fields[0].Optional {
		t.Errorf("field[0] = %+v", fields[0])
	}
	if fields[1].Name != "trained" || !fields[1].Optional {
		t.Errorf("field[1] = %+v", fields[1])
	}
}

func TestParseUnionAndIntersection(t *testing.T) {
	file := mustParse(t, `pattern p = string & lang::length<3>`)
	body := file.Decls[0].Body
	if body.Kind != PatIntersection || len(body.Operands) != 2 {
		t.Fatalf("body = %+v", body)
	}
	second := body.Operands[1]
	if second.Kind != PatNameApplication || second.Path != "lang::length" || len(second.Args) != 1 {
		t.Fatalf("operand[1] = %+v", second)
	}
}

func TestParseListWithCardinality(t *testing.T) {
	file := mustParse(t, `pattern p = [ integer; 1..3 ]`)
	body := file.Decls[0].Body
	if body.Kind != PatList {
		t.Fatalf("body.Kind = %v, want PatList", body.Kind)
	}
	if body.Cardinality == nil || *body.Cardinality.Min != 1 || *body.Cardinality.Max != 3 {
		t.Fatalf("Cardinality = %+v", body.Cardinality)
	}
}

func TestParseNotAndRefinement(t *testing.T) {
	file := mustParse(t, `pattern p = !string(lang::length<3>)`)
	body := file.Decls[0].Body
	if body.Kind != PatRefinement {
		t.Fatalf("body.Kind = %v, want PatRefinement", body.Kind)
	}
	if body.Primary.Kind != PatNot {
		t.Fatalf("Primary.Kind = %v, want PatNot", body.Primary.Kind)
	}
}

func TestParseTraverseChainSugar(t *testing.T) {
	file := mustParse(t, `pattern p = x.y.z`)
	body := file.Decls[0].Body
	if body.Kind != PatTraverseChain {
		t.Fatalf("body.Kind = %v, want PatTraverseChain", body.Kind)
	}
	want := []string{"x", "y", "z"}
	if len(body.TraversePath) != len(want) {
		t.Fatalf("TraversePath = %v", body.TraversePath)
	}
	for i, seg := range want {
		if body.TraversePath[i] != seg {
			t.Errorf("TraversePath[%d] = %q, want %q", i, body.TraversePath[i], seg)
		}
	}
}

func TestParseExpressionBlock(t *testing.T) {
	file := mustParse(t, `pattern p = (self.age > 17)`)
	body := file.Decls[0].Body
	if body.Kind != PatExpr {
		t.Fatalf("body.Kind = %v, want PatExpr", body.Kind)
	}
	e := body.ExprNode
	if e.Kind != ExprBinary || e.Op != OpGt {
		t.Fatalf("ExprNode = %+v", e)
	}
	if e.Left.Kind != ExprField || e.Left.Field != "age" {
		t.Fatalf("Left = %+v", e.Left)
	}
}

func TestParseDocCommentAndAttribute(t *testing.T) {
	src := "/// a dog is a good boy\n#[severity(warning)]\npattern dog = {}\n"
	file := mustParse(t, src)
	decl := file.Decls[0]
	if decl.Doc != "a dog is a good boy" {
		t.Errorf("Doc = %q", decl.Doc)
	}
	if len(decl.Attributes) != 1 || decl.Attributes[0].Key != "severity" {
		t.Fatalf("Attributes = %+v", decl.Attributes)
	}
	if val, ok := decl.Attributes[0].Args["warning"]; !ok || val != nil {
		t.Errorf("Args = %+v", decl.Attributes[0].Args)
	}
}

func TestParseUseWithAlias(t *testing.T) {
	file := mustParse(t, "use csaf::v2 as csaf\npattern p = {}\n")
	if len(file.Uses) != 1 {
		t.Fatalf("len(Uses) = %d", len(file.Uses))
	}
	use := file.Uses[0]
	if use.Alias != "csaf" || len(use.Path) != 2 || use.Path[0] != "csaf" || use.Path[1] != "v2" {
		t.Errorf("Use = %+v", use)
	}
}

func TestParseAccumulatesErrorsWithoutStopping(t *testing.T) {
	p := NewParser("test.dog", "pattern = {}\npattern ok = {}\n")
	file, errs := p.Parse()
	if len(errs) == 0 {
		t.Fatal("expected at least one parse error")
	}
	// Recovery should still find the second, well-formed declaration.
	found := false
	for _, d := range file.Decls {
		if d.Name == "ok" {
			found = true
		}
	}
	if !found {
		t.Errorf("parser did not recover to find the 'ok' declaration; decls=%+v", file.Decls)
	}
}
