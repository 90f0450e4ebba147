// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package lir

import (
	"testing"

	"github.com/kennel-lang/kennel/internal/value"
)

func TestArenaInternsLeaves(t *testing.T) {
	a := NewArena()
	h1 := a.Anything()
	h2 := a.Anything()
	if h1 != h2 {
		t.Fatalf("Anything() not interned: %v != %v", h1, h2)
	}
	if a.Nothing() == h1 {
		t.Fatalf("Anything and Nothing collided")
	}
}

func TestArenaInternsPrimordialsAndArguments(t *testing.T) {
	a := NewArena()
	if a.NewPrimordial(PrimordialInteger) != a.NewPrimordial(PrimordialInteger) {
		t.Errorf("primordial not interned")
	}
	if a.NewArgument(0) != a.NewArgument(0) {
		t.Errorf("argument not interned")
	}
	if a.NewArgument(0) == a.NewArgument(1) {
		t.Errorf("distinct argument indices collided")
	}
}

func TestArenaConstDistinguishesIntegerAndDecimal(t *testing.T) {
	a := NewArena()
	hi := a.NewConst(value.Int(3))
	hd := a.NewConst(value.Decimal(3))
	if hi == hd {
		t.Fatalf("integer 3 and decimal 3 interned to the same node")
	}
}

func TestArenaObjectsAreNotInterned(t *testing.T) {
	a := NewArena()
	str := a.NewPrimordial(PrimordialString)
	o1 := a.NewObject([]ObjectField{{Name: "x", Pattern: str}})
	o2 := a.NewObject([]ObjectField{{Name: "x", Pattern: str}})
	if o1 == o2 {
		t.Fatalf("object nodes unexpectedly interned")
	}
}

func TestNodeOrderRanksAnythingBeforeNothing(t *testing.T) {
	a := NewArena()
	any := a.Get(a.Anything())
	nothing := a.Get(a.Nothing())
	if any.Order(a) >= nothing.Order(a) {
		t.Errorf("Anything.Order() = %d, Nothing.Order() = %d, want Anything < Nothing", any.Order(a), nothing.Order(a))
	}
}
