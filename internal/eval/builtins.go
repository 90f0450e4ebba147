// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package eval

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/mod/semver"

	"github.com/kennel-lang/kennel/internal/datasource"
	"github.com/kennel-lang/kennel/internal/lir"
	"github.com/kennel-lang/kennel/internal/severity"
	"github.com/kennel-lang/kennel/internal/value"
	"github.com/kennel-lang/kennel/internal/world"
)

// builtinFunc is the evaluator's own implementation of one cataloged
// built-in, keyed by its fully qualified name in the builtins table
// below. args are the Ref node's un-evaluated argument handles; each
// built-in decides for itself which of its arguments are sub-patterns
// to recurse into (under e) and which are literal configuration values
// to read directly off a Const node.
type builtinFunc func(w *world.World, st *engineState, ec *EvalContext, e *env, args []lir.Handle, val value.Value) (*EvaluationResult, error)

var builtins = map[string]builtinFunc{
	"lang::and":     evalAnd,
	"lang::or":      evalOr,
	"lang::not":     evalNot,
	"lang::refine":  evalRefine,
	"lang::traverse": evalTraverse,
	"lang::chain":   evalChain,

	"list::all":  evalListAll,
	"list::any":  evalListAny,
	"list::none": evalListNone,
	"list::some": evalListSome,

	"string::length":  evalStringLength,
	"string::regexp":  evalStringRegexp,
	"string::append":  evalStringAppend,
	"string::prepend": evalStringPrepend,

	"net::inet4addr":    evalInet4Addr,
	"semver::parse":     evalSemverParse,
	"semver::compare":   evalSemverCompare,
	"uri::url":          evalURL,
	"base64::decode":    evalBase64Decode,
	"timestamp::rfc3339": evalRFC3339,
	"timestamp::rfc2822": evalRFC2822,

	"data::from":     evalDataFrom,
	"data::lookup":   evalDataLookup,
	"config::of":     evalConfigOf,
	"debug::delay-ms": evalDebugDelay,
}

func constOf(w *world.World, h lir.Handle) (value.Value, bool) {
	n := w.Arena().Get(h)
	if n.Kind != lir.KindConst {
		return value.Value{}, false
	}
	return n.Const, true
}

func constString(w *world.World, h lir.Handle) (string, bool) {
	v, ok := constOf(w, h)
	if !ok {
		return "", false
	}
	return v.String()
}

func constInt(w *world.World, h lir.Handle) (int64, bool) {
	v, ok := constOf(w, h)
	if !ok {
		return 0, false
	}
	return v.Integer()
}

func evalAnd(w *world.World, st *engineState, ec *EvalContext, e *env, args []lir.Handle, val value.Value) (*EvaluationResult, error) {
	children := make([]Rationale, 0, len(args))
	sev := severity.None
	ok := true
	var reason string
	for _, arg := range args {
		r, err := evalNode(w, st, ec, arg, e, val)
		if err != nil {
			return nil, err
		}
		children = append(children, r.Rationale)
		if !r.Satisfied {
			ok = false
			sev = severity.Max(sev, r.Severity)
			if reason == "" {
				reason = r.Reason
			}
			if r.Severity >= severity.Error {
				break
			}
		}
	}
	if ok {
		return satisfied(val, branch("lang::and", true, "", children...)), nil
	}
	return unsatisfied(val, sev, reason, branch("lang::and", false, reason, children...)), nil
}

func evalOr(w *world.World, st *engineState, ec *EvalContext, e *env, args []lir.Handle, val value.Value) (*EvaluationResult, error) {
	children := make([]Rationale, len(args))
	results := make([]*EvaluationResult, len(args))
	for i, arg := range args {
		r, err := evalNode(w, st, ec, arg, e, val)
		if err != nil {
			return nil, err
		}
		results[i] = r
		children[i] = r.Rationale
	}
	for _, r := range results {
		if r.Satisfied {
			return satisfied(val, branch("lang::or", true, "", children...)), nil
		}
	}
	best := 0
	for i, r := range results {
		if r.Severity < results[best].Severity {
			best = i
		}
	}
	reason := ""
	if len(results) > 0 {
		reason = results[best].Reason
	}
	sev := severity.None
	if len(results) > 0 {
		sev = results[best].Severity
	}
	return unsatisfied(val, sev, reason, branch("lang::or", false, reason, children...)), nil
}

func evalNot(w *world.World, st *engineState, ec *EvalContext, e *env, args []lir.Handle, val value.Value) (*EvaluationResult, error) {
	if len(args) != 1 {
		return nil, &InvalidArgumentError{Name: "lang::not", Message: "expects exactly one operand"}
	}
	r, err := evalNode(w, st, ec, args[0], e, val)
	if err != nil {
		return nil, err
	}
	if r.Satisfied {
		reason := "inner pattern matched"
		return unsatisfied(val, severity.Error, reason, branch("lang::not", false, reason, r.Rationale)), nil
	}
	return satisfied(val, branch("lang::not", true, "", r.Rationale)), nil
}

func evalRefine(w *world.World, st *engineState, ec *EvalContext, e *env, args []lir.Handle, val value.Value) (*EvaluationResult, error) {
	if len(args) != 2 {
		return nil, &InvalidArgumentError{Name: "lang::refine", Message: "expects exactly two operands"}
	}
	primary, err := evalNode(w, st, ec, args[0], e, val)
	if err != nil {
		return nil, err
	}
	if !primary.Satisfied {
		return unsatisfied(val, primary.Severity, primary.Reason, branch("lang::refine", false, primary.Reason, primary.Rationale)), nil
	}
	cursor := val
	if primary.Output.Present {
		cursor = primary.Output.Value
	}
	refinement, err := evalNode(w, st, ec, args[1], e, cursor)
	if err != nil {
		return nil, err
	}
	if !refinement.Satisfied {
		return unsatisfied(val, refinement.Severity, refinement.Reason, branch("lang::refine", false, refinement.Reason, primary.Rationale, refinement.Rationale)), nil
	}
	return satisfied(val, branch("lang::refine", true, "", primary.Rationale, refinement.Rationale)), nil
}

func evalTraverse(w *world.World, st *engineState, ec *EvalContext, e *env, args []lir.Handle, val value.Value) (*EvaluationResult, error) {
	if len(args) != 1 {
		return nil, &InvalidArgumentError{Name: "lang::traverse", Message: "expects exactly one field name"}
	}
	field, ok := constString(w, args[0])
	if !ok {
		return nil, &InvalidArgumentError{Name: "lang::traverse", Message: "field name must be a string literal"}
	}
	if val.Kind() != value.KindObject {
		return typeMismatch(val, "object"), nil
	}
	fv, present := val.Field(field)
	if !present {
		reason := fmt.Sprintf("field %q not present", field)
		return unsatisfied(val, severity.Error, reason, leaf("lang::traverse", false, reason)), nil
	}
	return &EvaluationResult{
		Input:     val,
		Satisfied: true,
		Severity:  severity.None,
		Output:    Output{Present: true, Value: fv},
		Rationale: leaf("lang::traverse", true, ""),
	}, nil
}

func evalChain(w *world.World, st *engineState, ec *EvalContext, e *env, args []lir.Handle, val value.Value) (*EvaluationResult, error) {
	cursor := val
	children := make([]Rationale, 0, len(args))
	for _, step := range args {
		r, err := evalNode(w, st, ec, step, e, cursor)
		if err != nil {
			return nil, err
		}
		children = append(children, r.Rationale)
		if !r.Satisfied {
			return unsatisfied(val, r.Severity, r.Reason, branch("lang::chain", false, r.Reason, children...)), nil
		}
		if r.Output.Present {
			cursor = r.Output.Value
		}
	}
	return &EvaluationResult{
		Input:     val,
		Satisfied: true,
		Severity:  severity.None,
		Output:    Output{Present: true, Value: cursor},
		Rationale: branch("lang::chain", true, "", children...),
	}, nil
}

// evalListElements shares the per-element evaluation work between
// list::all/any/none/some, which differ only in how they fold the
// per-element satisfaction booleans into an overall outcome.
func evalListElements(w *world.World, st *engineState, ec *EvalContext, elementPattern lir.Handle, e *env, val value.Value) ([]bool, []Rationale, severity.Severity, error) {
	items, ok := val.List()
	if !ok {
		return nil, nil, severity.None, fmt.Errorf("not a list")
	}
	results := make([]*EvaluationResult, len(items))
	for i, item := range items {
		r, err := evalNode(w, st, ec, elementPattern, e, item)
		if err != nil {
			return nil, nil, severity.None, err
		}
		results[i] = r
	}
	matches := make([]bool, len(items))
	children := make([]Rationale, len(items))
	sev := severity.None
	for i, r := range results {
		matches[i] = r.Satisfied
		children[i] = branch(fmt.Sprintf("[%d]", i), r.Satisfied, r.Reason, r.Rationale)
		children[i].Severity = r.Severity
		if !r.Satisfied {
			sev = severity.Max(sev, r.Severity)
		}
	}
	return matches, children, sev, nil
}

func evalListAll(w *world.World, st *engineState, ec *EvalContext, e *env, args []lir.Handle, val value.Value) (*EvaluationResult, error) {
	if val.Kind() != value.KindList {
		return typeMismatch(val, "list"), nil
	}
	matches, children, sev, err := evalListElements(w, st, ec, args[0], e, val)
	if err != nil {
		return nil, err
	}
	for _, m := range matches {
		if !m {
			return unsatisfied(val, sev, "not every element matched", branch("list::all", false, "not every element matched", children...)), nil
		}
	}
	return satisfied(val, branch("list::all", true, "", children...)), nil
}

func evalListAny(w *world.World, st *engineState, ec *EvalContext, e *env, args []lir.Handle, val value.Value) (*EvaluationResult, error) {
	if val.Kind() != value.KindList {
		return typeMismatch(val, "list"), nil
	}
	matches, children, _, err := evalListElements(w, st, ec, args[0], e, val)
	if err != nil {
		return nil, err
	}
	for _, m := range matches {
		if m {
			return satisfied(val, branch("list::any", true, "", children...)), nil
		}
	}
	return unsatisfied(val, severity.Error, "no element matched", branch("list::any", false, "no element matched", children...)), nil
}

func evalListNone(w *world.World, st *engineState, ec *EvalContext, e *env, args []lir.Handle, val value.Value) (*EvaluationResult, error) {
	if val.Kind() != value.KindList {
		return typeMismatch(val, "list"), nil
	}
	matches, children, _, err := evalListElements(w, st, ec, args[0], e, val)
	if err != nil {
		return nil, err
	}
	for _, m := range matches {
		if m {
			return unsatisfied(val, severity.Error, "an element matched", branch("list::none", false, "an element matched", children...)), nil
		}
	}
	return satisfied(val, branch("list::none", true, "", children...)), nil
}

func evalListSome(w *world.World, st *engineState, ec *EvalContext, e *env, args []lir.Handle, val value.Value) (*EvaluationResult, error) {
	if len(args) != 2 {
		return nil, &InvalidArgumentError{Name: "list::some", Message: "expects an element pattern and a count"}
	}
	if val.Kind() != value.KindList {
		return typeMismatch(val, "list"), nil
	}
	count, ok := constInt(w, args[1])
	if !ok {
		return nil, &InvalidArgumentError{Name: "list::some", Message: "count must be an integer literal"}
	}
	matches, children, sev, err := evalListElements(w, st, ec, args[0], e, val)
	if err != nil {
		return nil, err
	}
	var got int64
	for _, m := range matches {
		if m {
			got++
		}
	}
	if got == count {
		return satisfied(val, branch("list::some", true, "", children...)), nil
	}
	reason := fmt.Sprintf("expected exactly %d matching element(s), got %d", count, got)
	return unsatisfied(val, sev, reason, branch("list::some", false, reason, children...)), nil
}

func evalStringLength(w *world.World, st *engineState, ec *EvalContext, e *env, args []lir.Handle, val value.Value) (*EvaluationResult, error) {
	s, ok := val.String()
	if !ok {
		return typeMismatch(val, "string"), nil
	}
	n, ok := constInt(w, args[0])
	if !ok {
		return nil, &InvalidArgumentError{Name: "string::length", Message: "n must be an integer literal"}
	}
	if int64(len(s)) == n {
		return satisfied(val, leaf("string::length", true, "")), nil
	}
	reason := fmt.Sprintf("expected length %d, got %d", n, len(s))
	return unsatisfied(val, severity.Error, reason, leaf("string::length", false, reason)), nil
}

func evalStringRegexp(w *world.World, st *engineState, ec *EvalContext, e *env, args []lir.Handle, val value.Value) (*EvaluationResult, error) {
	s, ok := val.String()
	if !ok {
		return typeMismatch(val, "string"), nil
	}
	pat, ok := constString(w, args[0])
	if !ok {
		return nil, &InvalidArgumentError{Name: "string::regexp", Message: "pattern must be a string literal"}
	}
	re, err := regexp.Compile(pat)
	if err != nil {
		return nil, &InvalidArgumentError{Name: "string::regexp", Message: err.Error()}
	}
	if re.MatchString(s) {
		return satisfied(val, leaf("string::regexp", true, "")), nil
	}
	reason := fmt.Sprintf("%q does not match /%s/", s, pat)
	return unsatisfied(val, severity.Error, reason, leaf("string::regexp", false, reason)), nil
}

func evalStringAppend(w *world.World, st *engineState, ec *EvalContext, e *env, args []lir.Handle, val value.Value) (*EvaluationResult, error) {
	s, ok := val.String()
	if !ok {
		return typeMismatch(val, "string"), nil
	}
	suffix, ok := constString(w, args[0])
	if !ok {
		return nil, &InvalidArgumentError{Name: "string::append", Message: "suffix must be a string literal"}
	}
	if strings.HasSuffix(s, suffix) {
		return satisfied(val, leaf("string::append", true, "")), nil
	}
	reason := fmt.Sprintf("%q does not end with %q", s, suffix)
	return unsatisfied(val, severity.Error, reason, leaf("string::append", false, reason)), nil
}

func evalStringPrepend(w *world.World, st *engineState, ec *EvalContext, e *env, args []lir.Handle, val value.Value) (*EvaluationResult, error) {
	s, ok := val.String()
	if !ok {
		return typeMismatch(val, "string"), nil
	}
	prefix, ok := constString(w, args[0])
	if !ok {
		return nil, &InvalidArgumentError{Name: "string::prepend", Message: "prefix must be a string literal"}
	}
	if strings.HasPrefix(s, prefix) {
		return satisfied(val, leaf("string::prepend", true, "")), nil
	}
	reason := fmt.Sprintf("%q does not start with %q", s, prefix)
	return unsatisfied(val, severity.Error, reason, leaf("string::prepend", false, reason)), nil
}

func evalInet4Addr(w *world.World, st *engineState, ec *EvalContext, e *env, args []lir.Handle, val value.Value) (*EvaluationResult, error) {
	s, ok := val.String()
	if !ok {
		return typeMismatch(val, "string"), nil
	}
	addr, err := netip.ParseAddr(s)
	if err != nil || !addr.Is4() {
		reason := fmt.Sprintf("%q is not a dotted-quad IPv4 address", s)
		return unsatisfied(val, severity.Error, reason, leaf("net::inet4addr", false, reason)), nil
	}
	return satisfied(val, leaf("net::inet4addr", true, "")), nil
}

func normalizeSemver(s string) string {
	if !strings.HasPrefix(s, "v") {
		return "v" + s
	}
	return s
}

func evalSemverParse(w *world.World, st *engineState, ec *EvalContext, e *env, args []lir.Handle, val value.Value) (*EvaluationResult, error) {
	s, ok := val.String()
	if !ok {
		return typeMismatch(val, "string"), nil
	}
	if !semver.IsValid(normalizeSemver(s)) {
		reason := fmt.Sprintf("%q is not a valid semantic version", s)
		return unsatisfied(val, severity.Error, reason, leaf("semver::parse", false, reason)), nil
	}
	return satisfied(val, leaf("semver::parse", true, "")), nil
}

func evalSemverCompare(w *world.World, st *engineState, ec *EvalContext, e *env, args []lir.Handle, val value.Value) (*EvaluationResult, error) {
	if len(args) != 2 {
		return nil, &InvalidArgumentError{Name: "semver::compare", Message: "expects an operator and a reference version"}
	}
	s, ok := val.String()
	if !ok {
		return typeMismatch(val, "string"), nil
	}
	op, ok := constString(w, args[0])
	if !ok {
		return nil, &InvalidArgumentError{Name: "semver::compare", Message: "operator must be a string literal"}
	}
	ref, ok := constString(w, args[1])
	if !ok {
		return nil, &InvalidArgumentError{Name: "semver::compare", Message: "reference version must be a string literal"}
	}
	a, b := normalizeSemver(s), normalizeSemver(ref)
	if !semver.IsValid(a) || !semver.IsValid(b) {
		reason := fmt.Sprintf("%q or %q is not a valid semantic version", s, ref)
		return unsatisfied(val, severity.Error, reason, leaf("semver::compare", false, reason)), nil
	}
	cmp := semver.Compare(a, b)
	var ok2 bool
	switch op {
	case "lt":
		ok2 = cmp < 0
	case "le":
		ok2 = cmp <= 0
	case "gt":
		ok2 = cmp > 0
	case "ge":
		ok2 = cmp >= 0
	case "eq":
		ok2 = cmp == 0
	case "ne":
		ok2 = cmp != 0
	default:
		return nil, &InvalidArgumentError{Name: "semver::compare", Message: fmt.Sprintf("unknown operator %q", op)}
	}
	if ok2 {
		return satisfied(val, leaf("semver::compare", true, "")), nil
	}
	reason := fmt.Sprintf("%s does not satisfy %s %s", s, op, ref)
	return unsatisfied(val, severity.Error, reason, leaf("semver::compare", false, reason)), nil
}

func evalURL(w *world.World, st *engineState, ec *EvalContext, e *env, args []lir.Handle, val value.Value) (*EvaluationResult, error) {
	s, ok := val.String()
	if !ok {
		return typeMismatch(val, "string"), nil
	}
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() {
		reason := fmt.Sprintf("%q is not an absolute URL", s)
		return unsatisfied(val, severity.Error, reason, leaf("uri::url", false, reason)), nil
	}
	return satisfied(val, leaf("uri::url", true, "")), nil
}

func evalBase64Decode(w *world.World, st *engineState, ec *EvalContext, e *env, args []lir.Handle, val value.Value) (*EvaluationResult, error) {
	if len(args) != 1 {
		return nil, &InvalidArgumentError{Name: "base64::decode", Message: "expects exactly one inner pattern"}
	}
	s, ok := val.String()
	if !ok {
		return typeMismatch(val, "string"), nil
	}
	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		reason := fmt.Sprintf("invalid base64: %v", err)
		return unsatisfied(val, severity.Error, reason, leaf("base64::decode", false, reason)), nil
	}
	octets := value.Octets(decoded)
	inner, err := evalNode(w, st, ec, args[0], e, octets)
	if err != nil {
		return nil, err
	}
	if !inner.Satisfied {
		return unsatisfied(val, inner.Severity, inner.Reason, branch("base64::decode", false, inner.Reason, inner.Rationale)), nil
	}
	return &EvaluationResult{
		Input:     val,
		Satisfied: true,
		Severity:  severity.None,
		Output:    Output{Present: true, Value: octets},
		Rationale: branch("base64::decode", true, "", inner.Rationale),
	}, nil
}

func evalRFC3339(w *world.World, st *engineState, ec *EvalContext, e *env, args []lir.Handle, val value.Value) (*EvaluationResult, error) {
	s, ok := val.String()
	if !ok {
		return typeMismatch(val, "string"), nil
	}
	if _, err := time.Parse(time.RFC3339, s); err != nil {
		reason := fmt.Sprintf("%q is not an RFC 3339 timestamp", s)
		return unsatisfied(val, severity.Error, reason, leaf("timestamp::rfc3339", false, reason)), nil
	}
	return satisfied(val, leaf("timestamp::rfc3339", true, "")), nil
}

const rfc2822Layout = "Mon, 02 Jan 2006 15:04:05 -0700"

func evalRFC2822(w *world.World, st *engineState, ec *EvalContext, e *env, args []lir.Handle, val value.Value) (*EvaluationResult, error) {
	s, ok := val.String()
	if !ok {
		return typeMismatch(val, "string"), nil
	}
	if _, err := time.Parse(rfc2822Layout, s); err != nil {
		reason := fmt.Sprintf("%q is not an RFC 2822 timestamp", s)
		return unsatisfied(val, severity.Error, reason, leaf("timestamp::rfc2822", false, reason)), nil
	}
	return satisfied(val, leaf("timestamp::rfc2822", true, "")), nil
}

// fetchFromSource fetches key from the data source registered under
// source, translating a missing key into an ordinary unsatisfied
// outcome rather than a RuntimeError.
func fetchFromSource(w *world.World, ec *EvalContext, builtinName, source, key string, val value.Value) (value.Value, *EvaluationResult, error) {
	ds, ok := w.DataSource(source)
	if !ok {
		return value.Value{}, nil, &InvalidArgumentError{Name: builtinName, Message: fmt.Sprintf("no such data source %q", source)}
	}
	fetched, err := ds.Get(ec.Context(), key)
	if err != nil {
		if isNotFound(err) {
			reason := fmt.Sprintf("key %q not found in %q", key, source)
			return value.Value{}, unsatisfied(val, severity.Error, reason, leaf(builtinName, false, reason)), nil
		}
		return value.Value{}, nil, &DataSourceError{Key: key, Err: err}
	}
	return fetched, nil, nil
}

// evalDataFrom fetches source[key] and hands it on as a transformed
// Output value; it does not itself apply any further pattern. Surface
// syntax that refines the fetched value against an inner pattern lowers
// to lang::refine wrapping this Ref, matching its two-parameter
// catalog signature.
func evalDataFrom(w *world.World, st *engineState, ec *EvalContext, e *env, args []lir.Handle, val value.Value) (*EvaluationResult, error) {
	if len(args) != 2 {
		return nil, &InvalidArgumentError{Name: "data::from", Message: "expects a source name and a key"}
	}
	source, ok := constString(w, args[0])
	if !ok {
		return nil, &InvalidArgumentError{Name: "data::from", Message: "source must be a string literal"}
	}
	key, ok := constString(w, args[1])
	if !ok {
		return nil, &InvalidArgumentError{Name: "data::from", Message: "key must be a string literal"}
	}
	fetched, unsat, err := fetchFromSource(w, ec, "data::from", source, key, val)
	if err != nil || unsat != nil {
		return unsat, err
	}
	return &EvaluationResult{
		Input:     val,
		Satisfied: true,
		Severity:  severity.None,
		Output:    Output{Present: true, Value: fetched},
		Rationale: leaf("data::from", true, ""),
	}, nil
}

// evalDataLookup fetches table[key] and, unlike data::from, applies its
// third parameter as an inner pattern directly against the fetched
// value, matching its three-parameter catalog signature.
func evalDataLookup(w *world.World, st *engineState, ec *EvalContext, e *env, args []lir.Handle, val value.Value) (*EvaluationResult, error) {
	if len(args) != 3 {
		return nil, &InvalidArgumentError{Name: "data::lookup", Message: "expects a table, a key, and an inner pattern"}
	}
	table, ok := constString(w, args[0])
	if !ok {
		return nil, &InvalidArgumentError{Name: "data::lookup", Message: "table must be a string literal"}
	}
	key, ok := constString(w, args[1])
	if !ok {
		return nil, &InvalidArgumentError{Name: "data::lookup", Message: "key must be a string literal"}
	}
	fetched, unsat, err := fetchFromSource(w, ec, "data::lookup", table, key, val)
	if err != nil || unsat != nil {
		return unsat, err
	}
	inner, err := evalNode(w, st, ec, args[2], e, fetched)
	if err != nil {
		return nil, err
	}
	if !inner.Satisfied {
		return unsatisfied(val, inner.Severity, inner.Reason, branch("data::lookup", false, inner.Reason, inner.Rationale)), nil
	}
	return &EvaluationResult{
		Input:     val,
		Satisfied: true,
		Severity:  severity.None,
		Output:    Output{Present: true, Value: fetched},
		Rationale: branch("data::lookup", true, "", inner.Rationale),
	}, nil
}

func evalConfigOf(w *world.World, st *engineState, ec *EvalContext, e *env, args []lir.Handle, val value.Value) (*EvaluationResult, error) {
	if len(args) != 1 {
		return nil, &InvalidArgumentError{Name: "config::of", Message: "expects a configuration key"}
	}
	key, ok := constString(w, args[0])
	if !ok {
		return nil, &InvalidArgumentError{Name: "config::of", Message: "key must be a string literal"}
	}
	cfg, ok := w.DataSource("config")
	if !ok {
		return nil, &InvalidArgumentError{Name: "config::of", Message: "no configuration data source registered"}
	}
	configured, err := cfg.Get(ec.Context(), key)
	if err != nil {
		if isNotFound(err) {
			reason := fmt.Sprintf("configuration key %q not set", key)
			return unsatisfied(val, severity.Error, reason, leaf("config::of", false, reason)), nil
		}
		return nil, &DataSourceError{Key: key, Err: err}
	}
	if value.Equal(configured, val) {
		return satisfied(val, leaf("config::of", true, "")), nil
	}
	reason := fmt.Sprintf("configured value %s does not match %s", configured.GoString(), val.GoString())
	return unsatisfied(val, severity.Error, reason, leaf("config::of", false, reason)), nil
}

func evalDebugDelay(w *world.World, st *engineState, ec *EvalContext, e *env, args []lir.Handle, val value.Value) (*EvaluationResult, error) {
	if len(args) != 2 {
		return nil, &InvalidArgumentError{Name: "debug::delay-ms", Message: "expects a duration and an inner pattern"}
	}
	ms, ok := constInt(w, args[0])
	if !ok {
		return nil, &InvalidArgumentError{Name: "debug::delay-ms", Message: "duration must be an integer literal"}
	}
	select {
	case <-time.After(time.Duration(ms) * time.Millisecond):
	case <-ec.Context().Done():
		return nil, ec.Err()
	}
	return evalNode(w, st, ec, args[1], e, val)
}

// isNotFound reports whether err is a datasource "no such key" outcome,
// which the data-fetching built-ins treat as an ordinary non-match
// rather than a RuntimeError.
func isNotFound(err error) bool {
	var nf *datasource.NotFoundError
	return errors.As(err, &nf)
}
