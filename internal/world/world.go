// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package world holds the immutable, built policy universe a Builder
// produces: the name table from PatternName to shared LIR node, the
// diagnostic source cache, the attached metadata table, and the
// registered data sources. A World is cheap to clone (it only ever
// holds read-only maps and shared handles) and is evaluated against
// many RuntimeValues concurrently.
package world

import (
	"sync/atomic"

	"github.com/kennel-lang/kennel/internal/datasource"
	"github.com/kennel-lang/kennel/internal/diag"
	"github.com/kennel-lang/kennel/internal/klog"
	"github.com/kennel-lang/kennel/internal/lang"
	"github.com/kennel-lang/kennel/internal/lir"
	"github.com/kennel-lang/kennel/internal/monitor"
)

// Pattern is what World.Get returns: a declaration's body handle plus
// its metadata, resolved and ready for evaluation.
type Pattern struct {
	Name     string
	Arity    int
	Body     lir.Handle
	Metadata lang.Metadata
}

// World is the immutable result of Builder.Finish. It is safe for
// concurrent use: nothing on it is mutated after construction except
// the OpenVEX document-version counter, which is itself an
// atomic.Int64 precisely so concurrent evaluations can share it
// without a mutex.
type World struct {
	arena       *lir.Arena
	patterns    map[string]Pattern
	sources     *diag.SourceCache
	dataSources map[string]datasource.DataSource
	monitor     *monitor.Monitor
	logger      *klog.Logger

	// openVEXVersion backs World.NextOpenVEXVersion: a
	// per-world monotonically increasing counter, replacing what the
	// original Rust implementation tracked as a global mutable.
	openVEXVersion atomic.Int64
}

// Arena returns the shared LIR arena backing every pattern's Body
// handle. The evaluator dereferences handles against this arena.
func (w *World) Arena() *lir.Arena { return w.arena }

// Get resolves a fully qualified pattern name ("pkg::name") to its
// compiled Pattern. The second return value is false if name was never
// declared.
func (w *World) Get(name string) (Pattern, bool) {
	p, ok := w.patterns[name]
	return p, ok
}

// Names returns every declared pattern name, in no particular order.
func (w *World) Names() []string {
	names := make([]string, 0, len(w.patterns))
	for n := range w.patterns {
		names = append(names, n)
	}
	return names
}

// SourceCache returns the path-to-text cache used to render
// caret-underlined diagnostics against the sources this World was
// built from.
func (w *World) SourceCache() *diag.SourceCache { return w.sources }

// DataSource looks up a data source registered under name (the first
// argument of a data::from/data::lookup call).
func (w *World) DataSource(name string) (datasource.DataSource, bool) {
	ds, ok := w.dataSources[name]
	return ds, ok
}

// Monitor returns the invocation-statistics recorder attached to this
// World, or nil if none was configured — every caller must treat a nil
// Monitor as a no-op, never as an error.
func (w *World) Monitor() *monitor.Monitor { return w.monitor }

// Logger returns the structured logger this World was built with.
func (w *World) Logger() *klog.Logger { return w.logger }

// NextOpenVEXVersion atomically increments and returns this World's
// OpenVEX document-version counter, starting from 1.
func (w *World) NextOpenVEXVersion() int64 {
	return w.openVEXVersion.Add(1)
}
