// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package lang lowers surface ASTs (internal/ast) into the shared LIR
// graph (internal/lir): it resolves use-scoped names, extracts
// doc/attribute metadata, and desugars union/intersection/not/refinement/
// traversal syntax into Ref nodes over a small set of built-in
// functions (internal/function).
package lang

// QualifiedName joins a package and local name into a "pkg::name"
// PatternName. pkg may itself contain "::" (a use path such as
// "csaf::v2"), and so may name (the rest of an aliased path); the two
// are joined as given. Built-in function names never pass through here.
func QualifiedName(pkg, name string) string {
	return pkg + "::" + name
}
