// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package lang

import (
	"testing"

	"github.com/kennel-lang/kennel/internal/ast"
	"github.com/kennel-lang/kennel/internal/lir"
)

func lowerSrc(t *testing.T, pkg, src string) (*lir.Arena, *Unit) {
	t.Helper()
	p := ast.NewParser("test.dog", src)
	file, errs := p.Parse()
	if len(errs) != 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	arena := lir.NewArena()
	unit, lerrs := Lower(arena, pkg, file)
	if len(lerrs) != 0 {
		t.Fatalf("lower errors: %v", lerrs)
	}
	return arena, unit
}

func TestLowerPrimordialKeyword(t *testing.T) {
	arena, unit := lowerSrc(t, "p", `pattern s = string`)
	n := arena.Get(unit.Declarations[0].Body)
	if n.Kind != lir.KindPrimordial || n.Primordial != lir.PrimordialString {
		t.Fatalf("n = %+v", n)
	}
}

func TestLowerIntersectionIsFlattened(t *testing.T) {
	arena, unit := lowerSrc(t, "p", `pattern s = string & integer & boolean`)
	n := arena.Get(unit.Declarations[0].Body)
	if n.Kind != lir.KindRef || n.RefName != "lang::and" || len(n.RefArgs) != 3 {
		t.Fatalf("n = %+v", n)
	}
}

func TestLowerArgumentReference(t *testing.T) {
	arena, unit := lowerSrc(t, "p", `pattern wrapper<T> = { value: T }`)
	n := arena.Get(unit.Declarations[0].Body)
	if n.Kind != lir.KindObject || len(n.Fields) != 1 {
		t.Fatalf("n = %+v", n)
	}
	field := arena.Get(n.Fields[0].Pattern)
	if field.Kind != lir.KindArgument || field.ArgIndex != 0 {
		t.Fatalf("field = %+v", field)
	}
}

func TestLowerTraverseChain(t *testing.T) {
	arena, unit := lowerSrc(t, "p", `pattern s = x.y`)
	n := arena.Get(unit.Declarations[0].Body)
	if n.Kind != lir.KindRef || n.RefName != "lang::chain" || len(n.RefArgs) != 2 {
		t.Fatalf("n = %+v", n)
	}
	step0 := arena.Get(n.RefArgs[0])
	if step0.Kind != lir.KindRef || step0.RefName != "lang::traverse" {
		t.Fatalf("step0 = %+v", step0)
	}
}

func TestLowerBuiltinFunctionCall(t *testing.T) {
	arena, unit := lowerSrc(t, "p", `pattern s = string & string::length<3>`)
	n := arena.Get(unit.Declarations[0].Body)
	if n.Kind != lir.KindRef || n.RefName != "lang::and" {
		t.Fatalf("n = %+v", n)
	}
	second := arena.Get(n.RefArgs[1])
	if second.Kind != lir.KindRef || second.RefName != "string::length" || len(second.RefArgs) != 1 {
		t.Fatalf("second = %+v", second)
	}
}

func TestLowerUseAliasQualifiesCrossPackageReference(t *testing.T) {
	arena, unit := lowerSrc(t, "p", "use csaf\npattern s = csaf::document\n")
	n := arena.Get(unit.Declarations[0].Body)
	if n.Kind != lir.KindRef || n.RefName != "csaf::document" {
		t.Fatalf("n = %+v", n)
	}
}

func TestLowerSamePackageReferenceIsQualified(t *testing.T) {
	arena, unit := lowerSrc(t, "p", "pattern dog = {}\npattern s = dog\n")
	n := arena.Get(unit.Declarations[1].Body)
	if n.Kind != lir.KindRef || n.RefName != "p::dog" {
		t.Fatalf("n = %+v", n)
	}
}
