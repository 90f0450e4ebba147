// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package world

import "testing"

func TestFinishPreRegistersFormatBundles(t *testing.T) {
	b := New()
	w, bag := b.Finish()
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	if _, ok := w.Get("csaf::document"); !ok {
		t.Fatalf("expected csaf::document to be registered; have %v", w.Names())
	}
}

func TestBuildAndFinishResolvesCrossPackageRef(t *testing.T) {
	b := New()
	if err := b.Build("base.dog", "base", "pattern name = string\n"); err != nil {
		t.Fatal(err)
	}
	if err := b.Build("ext.dog", "ext", "use base\npattern wrapped = base::name\n"); err != nil {
		t.Fatal(err)
	}
	w, bag := b.Finish()
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	if _, ok := w.Get("ext::wrapped"); !ok {
		t.Fatal("expected ext::wrapped to be declared")
	}
}

func TestFinishReportsUnresolvedReference(t *testing.T) {
	b := New()
	if err := b.Build("bad.dog", "bad", "pattern p = nonexistent::thing\n"); err != nil {
		t.Fatal(err)
	}
	_, bag := b.Finish()
	if !bag.HasErrors() {
		t.Fatal("expected an unresolved-reference diagnostic")
	}
}

func TestFinishReportsArityMismatch(t *testing.T) {
	b := New()
	if err := b.Build("base.dog", "base", "pattern one<T> = T\n"); err != nil {
		t.Fatal(err)
	}
	if err := b.Build("bad.dog", "bad", "use base\npattern p = base::one\n"); err != nil {
		t.Fatal(err)
	}
	_, bag := b.Finish()
	if !bag.HasErrors() {
		t.Fatal("expected an arity-mismatch diagnostic")
	}
}

func TestBuildSamePackageOverridesEarlierBuild(t *testing.T) {
	b := New()
	if err := b.Build("v1.dog", "pkg", "pattern a = string\n"); err != nil {
		t.Fatal(err)
	}
	if err := b.Build("v2.dog", "pkg", "pattern b = integer\n"); err != nil {
		t.Fatal(err)
	}
	w, bag := b.Finish()
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	if _, ok := w.Get("pkg::a"); ok {
		t.Fatal("expected the first build of package pkg to be overridden")
	}
	if _, ok := w.Get("pkg::b"); !ok {
		t.Fatal("expected the second build of package pkg to take effect")
	}
}

func TestNextOpenVEXVersionIsMonotonic(t *testing.T) {
	b := New()
	w, _ := b.Finish()
	if v := w.NextOpenVEXVersion(); v != 1 {
		t.Fatalf("first version = %d, want 1", v)
	}
	if v := w.NextOpenVEXVersion(); v != 2 {
		t.Fatalf("second version = %d, want 2", v)
	}
}
