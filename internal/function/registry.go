// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package function catalogs every built-in pattern function: its fully
// qualified name, formal parameter names, canonicalization order, and
// documentation. It satisfies internal/lir's Function interface so a
// Primordial(Function) node's Func field can carry this metadata for printers and
// union/intersection canonicalization.
//
// This package only describes built-ins; internal/eval owns their
// actual execution, keyed by the same fully qualified names, so that
// evaluation logic can recurse into the evaluator without lir or
// function needing to import it.
package function

// Descriptor implements lir.Function.
type Descriptor struct {
	Name   string
	Params []string
	Rank   int
	Doc    string
}

func (d *Descriptor) Parameters() []string  { return d.Params }
func (d *Descriptor) Order() int            { return d.Rank }
func (d *Descriptor) Documentation() string { return d.Doc }

// Catalog lists every built-in by fully qualified name, in
// canonicalization-rank order. Sugar built-ins (lang::and etc.) rank
// lowest since they're the most common node shape and sort first in
// printed union/intersection bodies; data-source and side-effecting
// built-ins rank highest.
var Catalog = buildCatalog()

func buildCatalog() map[string]*Descriptor {
	entries := []*Descriptor{
		{Name: "lang::and", Params: []string{"operands"}, Rank: 0, Doc: "Matches if every operand pattern matches. Produced by 'A & B' surface syntax."},
		{Name: "lang::or", Params: []string{"operands"}, Rank: 1, Doc: "Matches if any operand pattern matches. Produced by 'A | B' surface syntax."},
		{Name: "lang::not", Params: []string{"inner"}, Rank: 2, Doc: "Matches if the inner pattern does not match. Produced by '!X' surface syntax."},
		{Name: "lang::refine", Params: []string{"primary", "refinement"}, Rank: 3, Doc: "Matches if the primary pattern matches and the refinement pattern matches the primary's output. Produced by 'X(Y)' surface syntax."},
		{Name: "lang::traverse", Params: []string{"field"}, Rank: 4, Doc: "Dereferences a single object field. Produced as a step of 'x.y.z' chain sugar."},
		{Name: "lang::chain", Params: []string{"steps"}, Rank: 5, Doc: "Applies a sequence of single-field traversals in order. Produced by 'x.y.z' surface syntax."},

		{Name: "list::all", Params: []string{"element"}, Rank: 20, Doc: "Matches a list whose every element matches the given pattern."},
		{Name: "list::any", Params: []string{"element"}, Rank: 21, Doc: "Matches a list with at least one element matching the given pattern."},
		{Name: "list::none", Params: []string{"element"}, Rank: 22, Doc: "Matches a list with no element matching the given pattern."},
		{Name: "list::some", Params: []string{"element", "count"}, Rank: 23, Doc: "Matches a list with exactly 'count' elements matching the given pattern."},

		{Name: "string::length", Params: []string{"n"}, Rank: 30, Doc: "Matches a string whose length equals n."},
		{Name: "string::regexp", Params: []string{"pattern"}, Rank: 31, Doc: "Matches a string against a regular expression."},
		{Name: "string::append", Params: []string{"suffix"}, Rank: 32, Doc: "Matches a string ending with the given suffix."},
		{Name: "string::prepend", Params: []string{"prefix"}, Rank: 33, Doc: "Matches a string starting with the given prefix."},

		{Name: "net::inet4addr", Params: []string{}, Rank: 40, Doc: "Matches a string that parses as a dotted-quad IPv4 address."},
		{Name: "semver::parse", Params: []string{}, Rank: 41, Doc: "Matches a string that parses as a semantic version."},
		{Name: "semver::compare", Params: []string{"op", "version"}, Rank: 42, Doc: "Matches a semantic version string compared against a reference version."},
		{Name: "uri::url", Params: []string{}, Rank: 43, Doc: "Matches a string that parses as an absolute URL."},
		{Name: "base64::decode", Params: []string{"inner"}, Rank: 44, Doc: "Decodes a base64 string to octets and matches the inner pattern against the decoded bytes."},
		{Name: "timestamp::rfc3339", Params: []string{}, Rank: 45, Doc: "Matches a string that parses as an RFC 3339 timestamp."},
		{Name: "timestamp::rfc2822", Params: []string{}, Rank: 46, Doc: "Matches a string that parses as an RFC 2822 timestamp."},

		{Name: "data::from", Params: []string{"source", "key"}, Rank: 60, Doc: "Suspends evaluation to fetch a value from a registered data source and outputs it; it applies no inner pattern of its own."},
		{Name: "data::lookup", Params: []string{"table", "key", "inner"}, Rank: 61, Doc: "Looks up a key in a named in-world table and matches the inner pattern against the result."},
		{Name: "config::of", Params: []string{"key"}, Rank: 62, Doc: "Matches the configured value for a world-level configuration key."},
		{Name: "debug::delay-ms", Params: []string{"ms", "inner"}, Rank: 70, Doc: "Suspends for the given number of milliseconds, honoring the evaluation deadline, then matches the inner pattern."},
	}
	cat := make(map[string]*Descriptor, len(entries))
	for _, e := range entries {
		cat[e.Name] = e
	}
	return cat
}

// Lookup returns the descriptor for a fully qualified built-in name.
func Lookup(name string) (*Descriptor, bool) {
	d, ok := Catalog[name]
	return d, ok
}
