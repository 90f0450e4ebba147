// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ast

// File is one parsed source blob: its use statements and pattern
// declarations.
type File struct {
	Source string
	Uses   []Use
	Decls  []Decl
}

// Use is a "use path (as ident)?" statement.
type Use struct {
	Path  []string
	Alias string // empty if no "as ident"
	Span  Span
}

// Attribute is a "#[key]" or "#[key(sub=value, flag)]" line attached to
// the next declaration.
type Attribute struct {
	Key  string
	Args map[string]*string // value nil => flag
	Span Span
}

// Decl is one "pattern name<params> = body" declaration.
type Decl struct {
	Doc        string // collected /// comments, joined by newline
	Attributes []Attribute
	Name       string
	TypeParams []string
	Body       Pattern
	Span       Span
}

// Pattern is the surface syntax for a pattern expression. It is a sum
// type over the grammar's `pattern` production; exactly one of the
// fields below is non-nil/non-zero per node, selected by Kind.
type PatternKind int

const (
	PatUnion PatternKind = iota
	PatIntersection
	PatNot
	PatRefinement
	PatObject
	PatList
	PatConstString
	PatConstInteger
	PatConstDecimal
	PatConstBool
	PatNameApplication
	PatArgument      // bare identifier referring to a type parameter; resolved later
	PatTraverseChain // "x.y.z" sugar, lowers to chain(traverse<"x">, traverse<"y">, traverse<"z">)
	PatExpr          // "(expr)" boolean/arithmetic expression block
)

type Pattern struct {
	Kind PatternKind
	Span Span

	// PatUnion / PatIntersection
	Operands []Pattern

	// PatNot
	Inner *Pattern

	// PatRefinement: Primary(Refinement)
	Primary    *Pattern
	Refinement *Pattern

	// PatObject
	Fields []ObjectField

	// PatList
	Element     *Pattern
	Cardinality *Cardinality

	// PatConst*
	StringValue  string
	IntegerValue int64
	DecimalValue float64
	BoolValue    bool

	// PatNameApplication / PatArgument
	Path string    // dotted path as written, e.g. "lang::length" or "string"
	Args []Pattern // type arguments, e.g. length<3>

	// PatTraverseChain
	TraversePath []string

	// PatExpr
	ExprNode *Expr
}

// ObjectField is one "name?: pattern" field of an object literal.
type ObjectField struct {
	Name     string
	Optional bool
	Pattern  Pattern
	Span     Span
}

// Cardinality is the optional "; min..max" suffix of a list pattern.
type Cardinality struct {
	Min *int64
	Max *int64
}
