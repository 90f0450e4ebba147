// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package lang

import (
	"fmt"
	"strings"

	"github.com/kennel-lang/kennel/internal/ast"
	"github.com/kennel-lang/kennel/internal/function"
	"github.com/kennel-lang/kennel/internal/lir"
	"github.com/kennel-lang/kennel/internal/value"
)

// LowerError is one error encountered while resolving names or
// desugaring a parsed file into LIR.
type LowerError struct {
	Message string
	Span    ast.Span
}

func (e LowerError) Error() string { return fmt.Sprintf("%s: %s", e.Span, e.Message) }

// aliasEntry is one "use path (as alias)?" binding resolved within a
// file's scope.
type aliasEntry struct {
	alias string
	path  string // full "::"-joined package path
}

// lowerer holds the per-file state needed while walking a parsed File:
// the shared arena every Handle is allocated from, the current
// declaration's type-parameter scope, and the file's use-aliases.
type lowerer struct {
	arena   *lir.Arena
	pkg     string
	aliases []aliasEntry
	params  []string // current declaration's type parameters, by index
	errs    []LowerError
}

// Lower desugars one parsed File into a Unit, allocating its LIR nodes
// into arena. pkg is the package this file's declarations belong to
// (declarations are referenced elsewhere as "pkg::name").
func Lower(arena *lir.Arena, pkg string, file *ast.File) (*Unit, []LowerError) {
	l := &lowerer{arena: arena, pkg: pkg}
	for _, use := range file.Uses {
		path := strings.Join(use.Path, "::")
		alias := use.Alias
		if alias == "" {
			alias = use.Path[len(use.Path)-1]
		}
		l.aliases = append(l.aliases, aliasEntry{alias: alias, path: path})
	}

	unit := &Unit{Package: pkg, Source: file.Source}
	for _, decl := range file.Decls {
		l.params = decl.TypeParams
		body := l.lowerPattern(decl.Body)
		unit.Declarations = append(unit.Declarations, Declaration{
			PatternName: QualifiedName(pkg, decl.Name),
			Arity:       len(decl.TypeParams),
			Body:        body,
			Metadata:    extractMetadata(decl),
		})
	}
	return unit, l.errs
}

func (l *lowerer) errorf(span ast.Span, format string, args ...any) {
	l.errs = append(l.errs, LowerError{Message: fmt.Sprintf(format, args...), Span: span})
}

func (l *lowerer) paramIndex(name string) (int, bool) {
	for i, p := range l.params {
		if p == name {
			return i, true
		}
	}
	return 0, false
}

func (l *lowerer) resolveAlias(first string) (string, bool) {
	for _, a := range l.aliases {
		if a.alias == first {
			return a.path, true
		}
	}
	return "", false
}

// lowerPattern is the main desugaring dispatch, one case per
// ast.PatternKind.
func (l *lowerer) lowerPattern(p ast.Pattern) lir.Handle {
	switch p.Kind {
	case ast.PatUnion:
		return l.lowerVariadicSugar(p.Operands, "lang::or", lir.SugarOr)
	case ast.PatIntersection:
		return l.lowerVariadicSugar(p.Operands, "lang::and", lir.SugarAnd)
	case ast.PatNot:
		inner := l.lowerPattern(*p.Inner)
		return l.arena.NewRef("lang::not", []lir.Handle{inner})
	case ast.PatRefinement:
		primary := l.lowerPattern(*p.Primary)
		refinement := l.lowerPattern(*p.Refinement)
		return l.arena.NewRef("lang::refine", []lir.Handle{primary, refinement})
	case ast.PatObject:
		return l.lowerObject(p)
	case ast.PatList:
		return l.lowerList(p)
	case ast.PatConstString:
		return l.arena.NewConst(value.Str(p.StringValue))
	case ast.PatConstInteger:
		return l.arena.NewConst(value.Int(p.IntegerValue))
	case ast.PatConstDecimal:
		return l.arena.NewConst(value.Decimal(p.DecimalValue))
	case ast.PatConstBool:
		return l.arena.NewConst(value.Bool(p.BoolValue))
	case ast.PatTraverseChain:
		return l.lowerTraverseChain(p)
	case ast.PatExpr:
		return l.arena.NewExpr(l.lowerExpr(p.ExprNode))
	case ast.PatNameApplication, ast.PatArgument:
		return l.lowerNameApplication(p)
	default:
		l.errorf(p.Span, "internal: unhandled pattern kind %d", p.Kind)
		return l.arena.Nothing()
	}
}

// lowerVariadicSugar lowers the parser's already-flat operand list, so
// "A | B | C" becomes one 3-ary Ref rather than a right-leaning chain
// of binary Refs; this keeps canonicalization and printing simpler.
func (l *lowerer) lowerVariadicSugar(operands []ast.Pattern, name string, sugar lir.FunctionSugar) lir.Handle {
	args := make([]lir.Handle, 0, len(operands))
	for _, op := range operands {
		args = append(args, l.lowerPattern(op))
	}
	ref := l.arena.NewRef(name, args)
	return ref
}

func (l *lowerer) lowerObject(p ast.Pattern) lir.Handle {
	fields := make([]lir.ObjectField, 0, len(p.Fields))
	for _, f := range p.Fields {
		fields = append(fields, lir.ObjectField{
			Name:     f.Name,
			Optional: f.Optional,
			Pattern:  l.lowerPattern(f.Pattern),
		})
	}
	return l.arena.NewObject(fields)
}

func (l *lowerer) lowerList(p ast.Pattern) lir.Handle {
	elem := l.lowerPattern(*p.Element)
	var card *lir.Cardinality
	if p.Cardinality != nil {
		card = &lir.Cardinality{Min: p.Cardinality.Min, Max: p.Cardinality.Max}
	}
	return l.arena.NewList(elem, card)
}

// lowerTraverseChain lowers "x.y.z" into
// Ref("lang::chain", [traverse(x), traverse(y), traverse(z)]), each
// traverse step itself a Ref("lang::traverse", [Const(fieldName)]).
func (l *lowerer) lowerTraverseChain(p ast.Pattern) lir.Handle {
	steps := make([]lir.Handle, 0, len(p.TraversePath))
	for _, field := range p.TraversePath {
		nameHandle := l.arena.NewConst(value.Str(field))
		steps = append(steps, l.arena.NewRef("lang::traverse", []lir.Handle{nameHandle}))
	}
	return l.arena.NewRef("lang::chain", steps)
}

// lowerNameApplication resolves a path identifier: a type parameter
// reference, a primordial scalar keyword, a built-in function, or a
// reference to a declared pattern (same-package or import-qualified).
func (l *lowerer) lowerNameApplication(p ast.Pattern) lir.Handle {
	segments := strings.Split(p.Path, "::")

	if len(segments) == 1 {
		if idx, ok := l.paramIndex(segments[0]); ok {
			return l.arena.NewArgument(idx)
		}
		if h, ok := l.lowerPrimordialKeyword(segments[0]); ok {
			return h
		}
		// Same-package reference to another declaration.
		name := QualifiedName(l.pkg, segments[0])
		return l.lowerCall(name, p.Args)
	}

	joined := strings.Join(segments, "::")
	if _, ok := function.Lookup(joined); ok {
		return l.lowerCall(joined, p.Args)
	}

	if path, ok := l.resolveAlias(segments[0]); ok {
		name := QualifiedName(path, strings.Join(segments[1:], "::"))
		return l.lowerCall(name, p.Args)
	}

	// No matching use-alias: treat the path as already fully qualified,
	// e.g. a direct reference to a format-library pattern such as
	// "csaf::document" with no preceding "use csaf" statement.
	return l.lowerCall(joined, p.Args)
}

func (l *lowerer) lowerPrimordialKeyword(name string) (lir.Handle, bool) {
	switch name {
	case "string":
		return l.arena.NewPrimordial(lir.PrimordialString), true
	case "integer":
		return l.arena.NewPrimordial(lir.PrimordialInteger), true
	case "decimal":
		return l.arena.NewPrimordial(lir.PrimordialDecimal), true
	case "boolean":
		return l.arena.NewPrimordial(lir.PrimordialBoolean), true
	case "anything":
		return l.arena.Anything(), true
	case "nothing":
		return l.arena.Nothing(), true
	default:
		return 0, false
	}
}

// lowerCall lowers a resolved PatternName's type arguments and builds
// the Ref node. Type arguments to a user-defined pattern become that
// pattern's Bindings at evaluation time (the evaluator pushes an env
// frame for them; no Bound node is built); type arguments to a built-in behave per
// that built-in's own contract (most treat their sole argument as a
// literal configuration value, not a sub-pattern to recurse into
// independently of the built-in's semantics).
func (l *lowerer) lowerCall(name string, argPatterns []ast.Pattern) lir.Handle {
	args := make([]lir.Handle, 0, len(argPatterns))
	for _, a := range argPatterns {
		args = append(args, l.lowerPattern(a))
	}
	return l.arena.NewRef(name, args)
}

func (l *lowerer) lowerExpr(e *ast.Expr) *lir.Expr {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case ast.ExprLiteral:
		return &lir.Expr{Kind: lir.ExprLiteral, Literal: literalValue(e)}
	case ast.ExprSelf:
		return &lir.Expr{Kind: lir.ExprSelf}
	case ast.ExprField:
		return &lir.Expr{Kind: lir.ExprField, Field: e.Field, Inner: l.lowerExpr(e.Inner)}
	case ast.ExprBinary:
		return &lir.Expr{Kind: lir.ExprBinary, Op: lir.ExprOp(e.Op), Left: l.lowerExpr(e.Left), Right: l.lowerExpr(e.Right)}
	case ast.ExprUnary:
		// The parser never emits ExprUnary (there is no unary-minus
		// token in the surface grammar's punctuation set), so this
		// case is unreachable; kept only so the switch stays exhaustive
		// if ExprUnary construction is added to the parser later.
		return l.lowerExpr(e.Operand)
	default:
		return &lir.Expr{Kind: lir.ExprLiteral, Literal: value.Bool(false)}
	}
}

func literalValue(e *ast.Expr) value.Value {
	switch e.LiteralKind {
	case ast.PatConstString:
		return value.Str(e.StringValue)
	case ast.PatConstInteger:
		return value.Int(e.IntegerValue)
	case ast.PatConstDecimal:
		return value.Decimal(e.DecimalValue)
	case ast.PatConstBool:
		return value.Bool(e.BoolValue)
	default:
		return value.Null
	}
}
