// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package lir implements the low-level pattern graph: a shared,
// possibly-cyclic-at-evaluation-time DAG of evaluable pattern nodes.
// Nodes are interned handles (stable integer ids into an Arena) rather
// than direct pointers — this is what lets Ref nodes close
// recursive/mutual cycles without requiring cyclic Go pointer
// ownership.
package lir

import (
	"fmt"

	"github.com/kennel-lang/kennel/internal/value"
)

// Handle is a stable reference to a node inside an Arena.
type Handle int

// PrimordialKind selects a Primordial node's runtime-type check.
type PrimordialKind int

const (
	PrimordialInteger PrimordialKind = iota
	PrimordialDecimal
	PrimordialBoolean
	PrimordialString
	PrimordialFunction
)

// NodeKind tags the variant held by a Node.
type NodeKind int

const (
	KindAnything NodeKind = iota
	KindNothing
	KindPrimordial
	KindConst
	KindObject
	KindList
	KindExpr
	KindArgument
	KindRef
	KindDeref
	KindBound
)

// Order is the canonicalization rank used by union/intersection
// simplification: "Anything < Nothing < Integer < Decimal <
// String < Boolean < Const < Object < List < Function(order()) < Ref <
// Expr".
func (k NodeKind) baseOrder() int {
	switch k {
	case KindAnything:
		return 0
	case KindNothing:
		return 1
	case KindPrimordial:
		return 2 // refined further by PrimordialKind / function order()
	case KindConst:
		return 7
	case KindObject:
		return 8
	case KindList:
		return 9
	case KindRef:
		return 11
	case KindExpr:
		return 12
	default:
		return 99
	}
}

// ObjectField is one declared field of an Object pattern.
type ObjectField struct {
	Name     string
	Optional bool
	Pattern  Handle
}

// Cardinality bounds a List pattern's element count. Nil bounds are
// unconstrained on that side.
type Cardinality struct {
	Min *int64
	Max *int64
}

// ExprOp mirrors ast.ExprOp without importing the surface package — the
// LIR must stand on its own once built.
type ExprOp int

const (
	OpAdd ExprOp = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

// ExprKind tags an Expr node's shape.
type ExprKind int

const (
	ExprLiteral ExprKind = iota
	ExprSelf
	ExprField
	ExprBinary
)

// Expr is a boolean/arithmetic expression evaluated against the input
// value.
type Expr struct {
	Kind    ExprKind
	Literal value.Value // ExprLiteral
	Field   string       // ExprField
	Inner   *Expr        // ExprField
	Op      ExprOp       // ExprBinary
	Left    *Expr        // ExprBinary
	Right   *Expr        // ExprBinary
}

// FunctionSugar marks which surface sugar form (if any) produced a
// Primordial(Function) node, so printers can reconstruct "A & B" instead
// of showing "lang::and(A, B)".
type FunctionSugar int

const (
	SugarNone FunctionSugar = iota
	SugarAnd
	SugarOr
	SugarNot
	SugarRefine
	SugarTraverse
	SugarChain
)

// Function is the contract a host-implemented built-in pattern node
// must satisfy.
// Defined here (not in the function package) so LIR nodes can hold a
// Function value without the lir package importing the function
// registry, which in turn needs no import of lir to satisfy it.
type Function interface {
	Parameters() []string
	Order() int
	Documentation() string
}

// Node is one LIR pattern node. Exactly the fields relevant to Kind are
// populated; Node is copied by value into the Arena's slice, so it must
// stay small and pointer-light except where sharing is the point (child
// Handles).
type Node struct {
	Kind NodeKind

	// KindPrimordial
	Primordial PrimordialKind
	Sugar      FunctionSugar
	FuncName   string // fully qualified name, e.g. "lang::and"
	Func       Function

	// KindConst
	Const value.Value

	// KindObject
	Fields []ObjectField

	// KindList
	Element     Handle
	Cardinality *Cardinality

	// KindExpr
	ExprNode *Expr

	// KindArgument
	ArgIndex int

	// KindRef
	RefName string // fully qualified PatternName, formatted "pkg::name"
	RefArgs []Handle

	// KindDeref: no payload beyond Kind; it dereferences whatever
	// argument binding is active during evaluation.

	// KindBound
	Inner    Handle
	Bindings Bindings
}

// Order computes this node's canonicalization rank within arena a.
func (n Node) Order(a *Arena) int {
	// Ranks are spaced by 1000 so a function's own order() fits between
	// List and Ref.
	base := n.Kind.baseOrder() * 1000
	switch n.Kind {
	case KindPrimordial:
		if n.Func != nil {
			return 10*1000 + n.Func.Order()
		}
		switch n.Primordial {
		case PrimordialInteger:
			return 2 * 1000
		case PrimordialDecimal:
			return 3 * 1000
		case PrimordialString:
			return 4 * 1000
		case PrimordialBoolean:
			return 5 * 1000
		default:
			return 6 * 1000
		}
	default:
		return base
	}
}

func (n Node) String() string {
	return fmt.Sprintf("Node{Kind:%d}", n.Kind)
}
