// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package lang

import (
	"github.com/kennel-lang/kennel/internal/ast"
	"github.com/kennel-lang/kennel/internal/severity"
)

// Metadata is the doc comment and attribute information attached to one
// declaration, merged into a form the evaluator and diagnostics printer
// can use directly.
type Metadata struct {
	Doc string

	// Severity is only meaningful when SeverityExplicit is true; a
	// declaration without its own #[severity(...)] attribute reports
	// whatever severity its body computed, unmodified.
	Severity         severity.Severity
	SeverityExplicit bool

	Reason string
	Raw    []ast.Attribute
}

// extractMetadata reads a Decl's doc comment and #[...] attributes.
// Two attribute keys carry semantic meaning: #[severity(level)]
// promotes the declaration's own severity in place of whatever its
// body computes when it fails to match (the level is the flag name
// itself, e.g. #[severity(warning)]) — a declaration that never
// carries this attribute keeps its body's own computed severity
// untouched — and #[reason(text="...")] supplies the human-readable
// explanation substituted into a rationale when this declaration fails
// to match. Any other attribute is kept in Raw for downstream tooling
// but not otherwise interpreted here.
func extractMetadata(d ast.Decl) Metadata {
	m := Metadata{Doc: d.Doc, Raw: d.Attributes}
	for _, attr := range d.Attributes {
		switch attr.Key {
		case "severity":
			for level := range attr.Args {
				m.Severity = severity.Parse(level)
				m.SeverityExplicit = true
			}
		case "reason":
			if v, ok := attr.Args["text"]; ok && v != nil {
				m.Reason = *v
			}
		}
	}
	return m
}
