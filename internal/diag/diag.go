// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package diag implements compile-time diagnostics: a source cache, an
// accumulating Bag of located messages, and a caret-underlined terminal
// printer.
package diag

import (
	"fmt"

	"github.com/kennel-lang/kennel/internal/ast"
	"github.com/kennel-lang/kennel/internal/severity"
)

// Diagnostic is one located compile-time message: a syntax error, a
// name-resolution failure, or an arity mismatch.
type Diagnostic struct {
	Source   string
	Span     ast.Span
	Severity severity.Severity
	Message  string
	Hint     string
}

func (d Diagnostic) String() string {
	if d.Hint == "" {
		return fmt.Sprintf("%s: %s: %s", d.Span, d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s (%s)", d.Span, d.Severity, d.Message, d.Hint)
}

// Bag accumulates diagnostics across an entire Builder.Build/Finish
// pass, mirroring how the parser itself never stops at the first
// error.
type Bag struct {
	items []Diagnostic
}

func (b *Bag) Add(d Diagnostic) { b.items = append(b.items, d) }

func (b *Bag) Addf(source string, span ast.Span, sev severity.Severity, format string, args ...any) {
	b.Add(Diagnostic{Source: source, Span: span, Severity: sev, Message: fmt.Sprintf(format, args...)})
}

func (b *Bag) Items() []Diagnostic { return b.items }

func (b *Bag) Len() int { return len(b.items) }

// HasErrors reports whether any accumulated diagnostic is at Error
// severity or above.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity >= severity.Error {
			return true
		}
	}
	return false
}
