// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package eval implements the pattern evaluator: given a World and a
// named pattern, it walks the pattern's LIR body against an input
// value.Value, producing an EvaluationResult with a full Rationale
// explaining the outcome. Evaluation is cooperative and safe for
// concurrent use — object fields and list elements evaluate
// concurrently via golang.org/x/sync/errgroup while writing into
// pre-sized result slices, so a Rationale's child order always matches
// declaration/index order regardless of goroutine interleaving.
package eval

import (
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kennel-lang/kennel/internal/lir"
	"github.com/kennel-lang/kennel/internal/severity"
	"github.com/kennel-lang/kennel/internal/value"
	"github.com/kennel-lang/kennel/internal/world"
)

// env is one generic-instantiation frame: bindings gives the Handle
// bound to each of the active declaration's formal parameters, and
// outer gives the frame each of those Handles should itself be
// resolved under. A type argument captured at a Ref call site keeps
// the frame active where it was written, so forwarding a type
// parameter through several layers of generic patterns resolves
// correctly no matter how deep the forwarding chain is — this is the
// evaluator's answer to a Bound LIR node, built as a plain Go value
// instead of a mutation of the shared Arena so it stays safe under
// concurrent evaluation.
type env struct {
	bindings lir.Bindings
	outer    []*env
}

var rootEnv = &env{}

// engineState is the memoization cache for one EvalContext: it is built
// on that EvalContext's first use (see EvalContext.state) and reused by
// any later Evaluate call on the same EvalContext, rather than shared
// across the World's lifetime, so a pattern-node result is never reused
// across two different EvalContexts. Reusing a cache beyond one evaluation would let a stale
// data-source read or a debug::delay-ms call answer from a prior
// evaluation's cache entry without re-running — silently skipping a
// later context's cancellation check in the process.
type engineState struct {
	memo *memo
}

func newEngineState() *engineState {
	return &engineState{memo: newMemo()}
}

// Evaluate resolves name in w and evaluates val against it, returning
// the outcome and its explanation. A non-nil error means the
// evaluation itself could not complete (an unresolvable reference, a
// cancelled context, a data source failure) as opposed to the pattern
// simply not matching, which is reported as a non-nil, Satisfied=false
// EvaluationResult instead.
func Evaluate(w *world.World, name string, val value.Value, ec *EvalContext) (*EvaluationResult, error) {
	pattern, ok := w.Get(name)
	if !ok {
		return nil, &NoSuchTypeError{Name: name}
	}
	if pattern.Arity != 0 {
		return nil, &InvalidArgumentError{Name: name, Message: "cannot evaluate a generic pattern directly; it must be referenced with type arguments"}
	}

	st := ec.state()
	ctx, span := ec.startSpan("eval.Evaluate " + name)
	defer span.End()
	_ = ctx

	start := time.Now()
	out, err := evalRef(w, st, ec, name, pattern.Body, pattern.Arity, nil, rootEnv, val)
	w.Monitor().Record(name, time.Since(start))
	if err != nil {
		return nil, err
	}
	out.Name = name
	return out, nil
}

// evalNode dispatches on h's NodeKind. e is the env active for
// resolving any Argument node reachable from h without first passing
// through another Ref (a Ref establishes its own callee env).
func evalNode(w *world.World, st *engineState, ec *EvalContext, h lir.Handle, e *env, val value.Value) (*EvaluationResult, error) {
	if err := ec.Err(); err != nil {
		return nil, err
	}

	key := buildCacheKey(h, val, e.bindings)
	if cached, ok := st.memo.get(key); ok {
		return cached, nil
	}
	if !st.memo.enter(key) {
		// Re-entrant cycle: the same node/value/bindings triple is
		// already being evaluated further up this call's own stack.
		// Resolving it as Unsatisfied breaks the cycle instead of
		// recursing forever.
		return unsatisfied(val, severity.Error, "cyclic reference", leaf("cycle", false, "cyclic reference")), nil
	}
	defer st.memo.leave(key)

	n := w.Arena().Get(h)
	var (
		result *EvaluationResult
		err    error
	)
	switch n.Kind {
	case lir.KindAnything:
		result = satisfied(val, branch("anything", true, ""))
	case lir.KindNothing:
		result = unsatisfied(val, severity.Error, "never matches", leaf("nothing", false, "never matches"))
	case lir.KindPrimordial:
		result, err = evalPrimordial(w, st, ec, n, e, val)
	case lir.KindConst:
		result = evalConst(n, val)
	case lir.KindObject:
		result, err = evalObject(w, st, ec, n, e, val)
	case lir.KindList:
		result, err = evalList(w, st, ec, n, e, val)
	case lir.KindExpr:
		result = evalExpr(n.ExprNode, val)
	case lir.KindArgument:
		target, ok := e.bindings.At(n.ArgIndex)
		if !ok {
			return nil, &InvalidArgumentError{Name: "argument", Message: fmt.Sprintf("unbound type parameter %d", n.ArgIndex)}
		}
		outerEnv := rootEnv
		if n.ArgIndex < len(e.outer) && e.outer[n.ArgIndex] != nil {
			outerEnv = e.outer[n.ArgIndex]
		}
		result, err = evalNode(w, st, ec, target, outerEnv, val)
	case lir.KindRef:
		result, err = evalRefNode(w, st, ec, n, e, val)
	case lir.KindDeref:
		if e.bindings.Arity() == 0 {
			return nil, &InvalidArgumentError{Name: "deref", Message: "no argument binding active"}
		}
		target, _ := e.bindings.At(0)
		outerEnv := rootEnv
		if len(e.outer) > 0 && e.outer[0] != nil {
			outerEnv = e.outer[0]
		}
		result, err = evalNode(w, st, ec, target, outerEnv, val)
	case lir.KindBound:
		boundEnv := &env{bindings: n.Bindings, outer: make([]*env, n.Bindings.Arity())}
		for i := range boundEnv.outer {
			boundEnv.outer[i] = e
		}
		result, err = evalNode(w, st, ec, n.Inner, boundEnv, val)
	default:
		return nil, &NoSuchTypeError{Name: fmt.Sprintf("lir.Kind(%d)", n.Kind)}
	}
	if err != nil {
		return nil, err
	}
	st.memo.put(key, result)
	return result, nil
}

// evalRefNode dispatches a Ref node: to a cataloged built-in, or to a
// World-declared pattern.
func evalRefNode(w *world.World, st *engineState, ec *EvalContext, n lir.Node, e *env, val value.Value) (*EvaluationResult, error) {
	if fn, ok := builtins[n.RefName]; ok {
		return fn(w, st, ec, e, n.RefArgs, val)
	}
	pattern, ok := w.Get(n.RefName)
	if !ok {
		return nil, &NoSuchTypeError{Name: n.RefName}
	}
	return evalRef(w, st, ec, n.RefName, pattern.Body, pattern.Arity, n.RefArgs, e, val)
}

// evalRef builds the callee env for a reference to a World-declared
// pattern (body, arity) applied to argHandles as evaluated in the
// caller's env e, then evaluates the pattern body in that new env.
// Each argument handle keeps e as its own resolution context, which is
// what lets a forwarded type parameter resolve correctly through
// arbitrarily many layers of generic patterns.
func evalRef(w *world.World, st *engineState, ec *EvalContext, name string, body lir.Handle, arity int, argHandles []lir.Handle, e *env, val value.Value) (*EvaluationResult, error) {
	if len(argHandles) != arity {
		return nil, &InvalidArgumentError{Name: name, Message: fmt.Sprintf("expects %d argument(s), got %d", arity, len(argHandles))}
	}
	callee := rootEnv
	if arity > 0 {
		outer := make([]*env, arity)
		for i := range outer {
			outer[i] = e
		}
		callee = &env{bindings: lir.NewBindings(argHandles), outer: outer}
	}

	result, err := evalNode(w, st, ec, body, callee, val)
	if err != nil {
		return nil, err
	}

	pattern, ok := w.Get(name)
	if !ok || result.Satisfied {
		return withLabel(name, result), nil
	}
	declSeverity := result.Severity
	reason := result.Reason
	if ok {
		// An explicit #[severity(...)] attribute is promoted in place of
		// whatever severity the body computed — a pattern marked
		// #[severity(warning)] reports as Warning even if its body is a
		// typeMismatch, which always signals Error on its own. A
		// declaration with no such attribute keeps the body's own
		// computed severity (e.g. the worst severity among its object
		// fields) untouched.
		if pattern.Metadata.SeverityExplicit {
			declSeverity = pattern.Metadata.Severity
		}
		if pattern.Metadata.Reason != "" {
			reason = pattern.Metadata.Reason
		}
	}
	return unsatisfied(val, declSeverity, reason, branch(name, false, reason, result.Rationale)), nil
}

// withLabel wraps r's rationale under name without changing r's own
// outcome, so the label naming the pattern that reached this result
// appears in the rationale tree even when the pattern was satisfied
// (and so has no severity override to apply).
func withLabel(name string, r *EvaluationResult) *EvaluationResult {
	out := *r
	out.Rationale = branch(name, r.Satisfied, r.Reason, r.Rationale)
	out.Rationale.Severity = r.Severity
	return &out
}

func evalPrimordial(w *world.World, st *engineState, ec *EvalContext, n lir.Node, e *env, val value.Value) (*EvaluationResult, error) {
	if n.Func != nil {
		if fn, ok := builtins[n.FuncName]; ok {
			return fn(w, st, ec, e, nil, val)
		}
		return nil, &NoFunctionError{Name: n.FuncName}
	}
	switch n.Primordial {
	case lir.PrimordialInteger:
		if _, ok := val.Integer(); ok {
			return satisfied(val, leaf("integer", true, "")), nil
		}
		return typeMismatch(val, "integer"), nil
	case lir.PrimordialDecimal:
		if val.Kind() == value.KindDecimal || val.Kind() == value.KindInteger {
			return satisfied(val, leaf("decimal", true, "")), nil
		}
		return typeMismatch(val, "decimal"), nil
	case lir.PrimordialString:
		if _, ok := val.String(); ok {
			return satisfied(val, leaf("string", true, "")), nil
		}
		return typeMismatch(val, "string"), nil
	case lir.PrimordialBoolean:
		if _, ok := val.Bool(); ok {
			return satisfied(val, leaf("boolean", true, "")), nil
		}
		return typeMismatch(val, "boolean"), nil
	default:
		return typeMismatch(val, "function"), nil
	}
}

func typeMismatch(val value.Value, want string) *EvaluationResult {
	reason := fmt.Sprintf("expected %s, got %s", want, val.Kind())
	return unsatisfied(val, severity.Error, reason, leaf(want, false, reason))
}

func evalConst(n lir.Node, val value.Value) *EvaluationResult {
	if value.Equal(n.Const, val) {
		return satisfied(val, leaf("const", true, ""))
	}
	reason := fmt.Sprintf("expected %s, got %s", n.Const.GoString(), val.GoString())
	return unsatisfied(val, severity.Error, reason, leaf("const", false, reason))
}

func evalObject(w *world.World, st *engineState, ec *EvalContext, n lir.Node, e *env, val value.Value) (*EvaluationResult, error) {
	if val.Kind() != value.KindObject {
		return typeMismatch(val, "object"), nil
	}

	children := make([]Rationale, len(n.Fields))
	failures := make([]bool, len(n.Fields))
	severities := make([]severity.Severity, len(n.Fields))

	g, _ := errgroup.WithContext(ec.Context())
	for i, f := range n.Fields {
		i, f := i, f
		g.Go(func() error {
			fieldVal, present := val.Field(f.Name)
			if !present {
				if f.Optional {
					children[i] = leaf(f.Name, true, "")
					return nil
				}
				children[i] = leaf(f.Name, false, "missing required field")
				children[i].Severity = severity.Error
				failures[i] = true
				severities[i] = severity.Error
				return nil
			}
			r, err := evalNode(w, st, ec, f.Pattern, e, fieldVal)
			if err != nil {
				return err
			}
			children[i] = branch(f.Name, r.Satisfied, r.Reason, r.Rationale)
			children[i].Severity = r.Severity
			if !r.Satisfied {
				failures[i] = true
				severities[i] = r.Severity
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sev := severity.None
	ok := true
	var reason string
	for i, failed := range failures {
		if failed {
			ok = false
			sev = severity.Max(sev, severities[i])
			if reason == "" {
				reason = fmt.Sprintf("field %q: %s", n.Fields[i].Name, children[i].Reason)
			}
		}
	}
	if ok {
		return satisfied(val, branch("object", true, "", children...)), nil
	}
	return unsatisfied(val, sev, reason, branch("object", false, reason, children...)), nil
}

func evalList(w *world.World, st *engineState, ec *EvalContext, n lir.Node, e *env, val value.Value) (*EvaluationResult, error) {
	if val.Kind() != value.KindList {
		return typeMismatch(val, "list"), nil
	}
	items, _ := val.List()

	if n.Cardinality != nil {
		if n.Cardinality.Min != nil && int64(len(items)) < *n.Cardinality.Min {
			reason := fmt.Sprintf("expected at least %d element(s), got %d", *n.Cardinality.Min, len(items))
			return unsatisfied(val, severity.Error, reason, leaf("list", false, reason)), nil
		}
		if n.Cardinality.Max != nil && int64(len(items)) > *n.Cardinality.Max {
			reason := fmt.Sprintf("expected at most %d element(s), got %d", *n.Cardinality.Max, len(items))
			return unsatisfied(val, severity.Error, reason, leaf("list", false, reason)), nil
		}
	}

	children := make([]Rationale, len(items))
	failures := make([]bool, len(items))
	severities := make([]severity.Severity, len(items))

	g, _ := errgroup.WithContext(ec.Context())
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			r, err := evalNode(w, st, ec, n.Element, e, item)
			if err != nil {
				return err
			}
			label := fmt.Sprintf("[%d]", i)
			children[i] = branch(label, r.Satisfied, r.Reason, r.Rationale)
			children[i].Severity = r.Severity
			if !r.Satisfied {
				failures[i] = true
				severities[i] = r.Severity
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sev := severity.None
	ok := true
	var reason string
	for i, failed := range failures {
		if failed {
			ok = false
			sev = severity.Max(sev, severities[i])
			if reason == "" {
				reason = fmt.Sprintf("element %d: %s", i, children[i].Reason)
			}
		}
	}
	if ok {
		return satisfied(val, branch("list", true, "", children...)), nil
	}
	return unsatisfied(val, sev, reason, branch("list", false, reason, children...)), nil
}

func satisfied(val value.Value, rat Rationale) *EvaluationResult {
	rat.Severity = severity.None
	return &EvaluationResult{
		Input:     val,
		Satisfied: true,
		Severity:  severity.None,
		Output:    Output{Present: true, Value: val},
		Rationale: rat,
	}
}

func unsatisfied(val value.Value, sev severity.Severity, reason string, rat Rationale) *EvaluationResult {
	rat.Severity = sev
	return &EvaluationResult{
		Input:     val,
		Satisfied: false,
		Severity:  sev,
		Reason:    reason,
		Rationale: rat,
	}
}
