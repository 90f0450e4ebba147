// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package lang

import "github.com/kennel-lang/kennel/internal/lir"

// Declaration is one lowered pattern declaration, ready for insertion
// into a World's name table.
type Declaration struct {
	PatternName string
	Arity       int
	Body        lir.Handle
	Metadata    Metadata
}

// Unit is the result of lowering one parsed source file within one
// package. Multiple Units (possibly from different packages) share a
// single Arena so their Ref nodes can address each other by name once
// a World resolves the full set.
type Unit struct {
	Package      string
	Source       string
	Declarations []Declaration
}
