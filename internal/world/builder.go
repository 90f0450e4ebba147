// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package world

import (
	"fmt"

	"github.com/kennel-lang/kennel/internal/ast"
	"github.com/kennel-lang/kennel/internal/datasource"
	"github.com/kennel-lang/kennel/internal/diag"
	"github.com/kennel-lang/kennel/internal/function"
	"github.com/kennel-lang/kennel/internal/function/formats"
	"github.com/kennel-lang/kennel/internal/klog"
	"github.com/kennel-lang/kennel/internal/lang"
	"github.com/kennel-lang/kennel/internal/lir"
	"github.com/kennel-lang/kennel/internal/monitor"
	"github.com/kennel-lang/kennel/internal/severity"
)

// Builder accumulates packages' worth of lowered declarations into a
// single shared Arena, then performs final cross-package resolution in
// Finish. Building the same package twice overrides the earlier
// result, matching the "idempotent per package" builder contract.
type Builder struct {
	arena    *lir.Arena
	units    map[string]*lang.Unit // keyed by package name
	sources  *diag.SourceCache
	dataSrcs map[string]datasource.DataSource
	monitor  *monitor.Monitor
	logger   *klog.Logger
}

// New creates an empty Builder with its own Arena. The default format
// bundles (CSAF, SPDX, SLSA, CycloneDX, OpenVEX, JSF, SWID, Maven, OSV,
// plus the supplemented Kafka/GUAC/RHSA bundles) are pre-registered so
// callers get them without an explicit Build call.
func New() *Builder {
	b := &Builder{
		arena:    lir.NewArena(),
		units:    make(map[string]*lang.Unit),
		sources:  diag.NewSourceCache(),
		dataSrcs: make(map[string]datasource.DataSource),
		logger:   klog.Default(),
	}
	for _, bundle := range formats.All() {
		if err := b.Build(bundle.Source, bundle.Package, string(bundle.Text)); err != nil {
			panic(fmt.Sprintf("world: embedded format bundle %q failed to parse: %v", bundle.Source, err))
		}
	}
	return b
}

// WithMonitor attaches a statistics recorder that Finish will carry
// into the produced World.
func (b *Builder) WithMonitor(m *monitor.Monitor) *Builder {
	b.monitor = m
	return b
}

// WithLogger overrides the default logger every component built from
// this Builder receives.
func (b *Builder) WithLogger(l *klog.Logger) *Builder {
	b.logger = l
	return b
}

// Build parses and lowers one package's source text, replacing any
// previous result for the same package name. Parse errors are fatal to
// this call (returned as an error); name-resolution and arity errors
// are deferred to Finish, since they may depend on packages built
// later.
func (b *Builder) Build(source, packageName, text string) error {
	b.sources.Put(source, text)

	parser := ast.NewParser(source, text)
	file, parseErrs := parser.Parse()
	if len(parseErrs) > 0 {
		msgs := make([]string, len(parseErrs))
		for i, e := range parseErrs {
			msgs[i] = e.Error()
		}
		return fmt.Errorf("world: parsing %s: %v", source, msgs)
	}

	unit, lowerErrs := lang.Lower(b.arena, packageName, file)
	if len(lowerErrs) > 0 {
		msgs := make([]string, len(lowerErrs))
		for i, e := range lowerErrs {
			msgs[i] = e.Error()
		}
		return fmt.Errorf("world: lowering %s: %v", source, msgs)
	}

	b.units[packageName] = unit
	return nil
}

// Data registers a data source under name, for data::from/data::lookup
// calls whose first argument is that name.
func (b *Builder) Data(name string, source datasource.DataSource) {
	b.dataSrcs[name] = source
}

// SourceCache returns the cache of every source text Build has been
// given, for diagnostic rendering even before Finish succeeds.
func (b *Builder) SourceCache() *diag.SourceCache { return b.sources }

// Finish performs final cross-unit resolution: every Ref must resolve
// to either a declared pattern or a cataloged built-in, and a Ref
// targeting a user-declared pattern must supply exactly that
// declaration's arity many arguments. It returns the built World
// alongside whatever diagnostics were produced; a non-empty
// diag.Bag.HasErrors() means the World is unusable even though one is
// still returned (some callers want partial results for tooling).
func (b *Builder) Finish() (*World, diag.Bag) {
	var bag diag.Bag

	patterns := make(map[string]Pattern)
	for _, unit := range b.units {
		for _, d := range unit.Declarations {
			patterns[d.PatternName] = Pattern{
				Name:     d.PatternName,
				Arity:    d.Arity,
				Body:     d.Body,
				Metadata: d.Metadata,
			}
		}
	}

	for _, unit := range b.units {
		for _, d := range unit.Declarations {
			b.checkRefs(d.Body, unit.Source, patterns, &bag)
		}
	}

	w := &World{
		arena:       b.arena,
		patterns:    patterns,
		sources:     b.sources,
		dataSources: b.dataSrcs,
		monitor:     b.monitor,
		logger:      b.logger,
	}
	return w, bag
}

// checkRefs walks the LIR body reachable from h, recording a
// diagnostic for any Ref that resolves to neither a declared pattern
// nor a built-in, or whose argument count doesn't match a resolved
// user declaration's arity. visited guards against revisiting the same
// Handle through a cycle.
func (b *Builder) checkRefs(h lir.Handle, source string, patterns map[string]Pattern, bag *diag.Bag) {
	b.checkRefsVisited(h, source, patterns, bag, make(map[lir.Handle]bool))
}

func (b *Builder) checkRefsVisited(h lir.Handle, source string, patterns map[string]Pattern, bag *diag.Bag, visited map[lir.Handle]bool) {
	if visited[h] {
		return
	}
	visited[h] = true

	n := b.arena.Get(h)
	switch n.Kind {
	case lir.KindRef:
		if target, ok := patterns[n.RefName]; ok {
			if target.Arity != len(n.RefArgs) {
				bag.Addf(source, ast.Span{}, severity.Error,
					"%s expects %d argument(s), got %d", n.RefName, target.Arity, len(n.RefArgs))
			}
		} else if _, ok := function.Lookup(n.RefName); !ok {
			bag.Addf(source, ast.Span{}, severity.Error, "unresolved reference %q", n.RefName)
		}
		for _, arg := range n.RefArgs {
			b.checkRefsVisited(arg, source, patterns, bag, visited)
		}
	case lir.KindObject:
		for _, f := range n.Fields {
			b.checkRefsVisited(f.Pattern, source, patterns, bag, visited)
		}
	case lir.KindList:
		b.checkRefsVisited(n.Element, source, patterns, bag, visited)
	case lir.KindBound:
		b.checkRefsVisited(n.Inner, source, patterns, bag, visited)
	}
}
