// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package eval

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/kennel-lang/kennel/internal/lir"
	"github.com/kennel-lang/kennel/internal/value"
)

// cacheKey identifies one (pattern node, input value, active bindings)
// triple. Two evaluations of the same node against structurally equal
// values under structurally equal bindings are guaranteed to reach the
// same outcome, since patterns are pure over their input — this is what
// makes memoizing by this key sound.
type cacheKey string

func buildCacheKey(h lir.Handle, val value.Value, bindings lir.Bindings) cacheKey {
	var b strings.Builder
	fmt.Fprintf(&b, "%d|", h)
	for _, slot := range bindings.Slots() {
		fmt.Fprintf(&b, "%d,", slot)
	}
	b.WriteByte('|')
	b.WriteString(valueFingerprint(val))
	return cacheKey(b.String())
}

// valueFingerprint renders a canonical, structurally-unambiguous string
// for a value.Value, stable regardless of the map iteration order
// Go would otherwise give an Object's fields.
func valueFingerprint(v value.Value) string {
	switch v.Kind() {
	case value.KindNull:
		return "n"
	case value.KindBoolean:
		b, _ := v.Bool()
		return "b" + strconv.FormatBool(b)
	case value.KindInteger:
		i, _ := v.Integer()
		return "i" + strconv.FormatInt(i, 10)
	case value.KindDecimal:
		f, _ := v.Float()
		return "d" + strconv.FormatFloat(f, 'g', -1, 64)
	case value.KindString:
		s, _ := v.String()
		return "s" + strconv.Quote(s)
	case value.KindOctets:
		o, _ := v.Octets()
		return "o" + strconv.Quote(string(o))
	case value.KindList:
		items, _ := v.List()
		parts := make([]string, len(items))
		for i, it := range items {
			parts[i] = valueFingerprint(it)
		}
		return "l[" + strings.Join(parts, ",") + "]"
	case value.KindObject:
		names := v.FieldNames()
		sort.Strings(names)
		parts := make([]string, len(names))
		for i, name := range names {
			field, _ := v.Field(name)
			parts[i] = strconv.Quote(name) + ":" + valueFingerprint(field)
		}
		return "o{" + strings.Join(parts, ",") + "}"
	default:
		return "?"
	}
}

// memo is the per-EvalContext memoization cache: a ristretto cache of
// completed sub-evaluation results, plus a per-key in-flight
// set used to break cycles. Re-entering a key already marked pending
// (a recursive pattern evaluating itself against the same value through
// a Ref cycle) resolves to Unsatisfied rather than recursing forever.
type memo struct {
	hits    *ristretto.Cache[cacheKey, *EvaluationResult]
	pending sync.Map // cacheKey -> struct{}
}

func newMemo() *memo {
	c, err := ristretto.NewCache(&ristretto.Config[cacheKey, *EvaluationResult]{
		NumCounters: 1e6,
		MaxCost:     1 << 26,
		BufferItems: 64,
	})
	if err != nil {
		// ristretto.NewCache only fails on invalid config constants
		// above, which are fixed at compile time; this can't happen
		// at runtime.
		panic(fmt.Sprintf("eval: building memoization cache: %v", err))
	}
	return &memo{hits: c}
}

func (m *memo) get(key cacheKey) (*EvaluationResult, bool) {
	return m.hits.Get(key)
}

func (m *memo) put(key cacheKey, result *EvaluationResult) {
	m.hits.Set(key, result, 1)
}

// enter marks key as currently being evaluated. It reports false if the
// key was already pending (a cycle), in which case the caller must not
// evaluate further and should treat the node as Unsatisfied.
func (m *memo) enter(key cacheKey) bool {
	_, already := m.pending.LoadOrStore(key, struct{}{})
	return !already
}

func (m *memo) leave(key cacheKey) {
	m.pending.Delete(key)
}
