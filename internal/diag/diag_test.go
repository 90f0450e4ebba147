// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package diag

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kennel-lang/kennel/internal/ast"
	"github.com/kennel-lang/kennel/internal/severity"
)

func TestBagHasErrors(t *testing.T) {
	var b Bag
	if b.HasErrors() {
		t.Fatal("empty bag reports errors")
	}
	b.Addf("x.dog", ast.Span{}, severity.Warning, "just a warning")
	if b.HasErrors() {
		t.Fatal("warning-only bag reports errors")
	}
	b.Addf("x.dog", ast.Span{}, severity.Error, "boom")
	if !b.HasErrors() {
		t.Fatal("expected HasErrors after adding an Error diagnostic")
	}
}

func TestLineExcerptUnderlinesSpan(t *testing.T) {
	text := "pattern foo = bar\n"
	out := lineExcerpt(text, 14, 17)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("out = %q", out)
	}
	if lines[0] != "pattern foo = bar" {
		t.Fatalf("line = %q", lines[0])
	}
	if lines[1] != strings.Repeat(" ", 14)+"^^^" {
		t.Fatalf("underline = %q", lines[1])
	}
}

func TestPrinterPrintsWithoutSourceRegistered(t *testing.T) {
	var buf bytes.Buffer
	cache := NewSourceCache()
	p := NewPrinter(&buf, cache).WithColor(false)
	p.Print(Diagnostic{Source: "missing.dog", Severity: severity.Error, Message: "oops"})
	if !strings.Contains(buf.String(), "oops") {
		t.Fatalf("output = %q", buf.String())
	}
}
