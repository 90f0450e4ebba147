// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package kennel is the public surface a server or CLI embeds: a
// Builder that turns package source text into a World, and a World
// that evaluates named patterns against runtime values. Everything
// here is a thin wrapper over internal/world and internal/eval — it
// exists only to join the two without a Go import cycle, since
// internal/world cannot import internal/eval (the evaluator resolves
// World-declared patterns, so the dependency runs the other way).
package kennel

import (
	"context"

	"github.com/kennel-lang/kennel/internal/config"
	"github.com/kennel-lang/kennel/internal/datasource"
	"github.com/kennel-lang/kennel/internal/diag"
	"github.com/kennel-lang/kennel/internal/eval"
	"github.com/kennel-lang/kennel/internal/klog"
	"github.com/kennel-lang/kennel/internal/monitor"
	"github.com/kennel-lang/kennel/internal/value"
	"github.com/kennel-lang/kennel/internal/world"
)

// Builder accumulates package source text into a shared pattern graph.
// The zero value is not usable; construct with NewBuilder.
type Builder struct {
	inner *world.Builder
}

// NewBuilder creates an empty Builder with the embedded format bundles
// (CSAF, SPDX, SLSA, CycloneDX, OpenVEX, JSF, SWID, Maven, OSV, plus
// the supplemented Kafka/GUAC/RHSA bundles) already registered.
func NewBuilder() *Builder {
	return &Builder{inner: world.New()}
}

// WithMonitor attaches a statistics recorder; the resulting World's
// Evaluate calls record invocation counts and latency against it.
func (b *Builder) WithMonitor(m *monitor.Monitor) *Builder {
	b.inner.WithMonitor(m)
	return b
}

// WithLogger overrides the default logger every component built from
// this Builder receives.
func (b *Builder) WithLogger(l *klog.Logger) *Builder {
	b.inner.WithLogger(l)
	return b
}

// Build parses and lowers one package's source text.
func (b *Builder) Build(source, packageName, text string) error {
	return b.inner.Build(source, packageName, text)
}

// Data registers a data source under name, for data::from/data::lookup
// calls whose first argument is that name. The reserved name "config"
// backs the config::of built-in.
func (b *Builder) Data(name string, source datasource.DataSource) {
	b.inner.Data(name, source)
}

// DataHTTP registers an HTTP data source under name, deriving its
// client timeout and request rate limit from cfg rather than from
// ad-hoc constants at each call site.
func (b *Builder) DataHTTP(name, baseURL, token string, cfg config.Config) {
	ds := datasource.NewHTTP(baseURL, token, cfg.HTTPRateLimitPerSecond)
	ds.Client.Timeout = cfg.HTTPTimeout
	b.inner.Data(name, ds)
}

// SourceCache returns the cache of every source text Build has been
// given, for diagnostic rendering even before Finish succeeds.
func (b *Builder) SourceCache() *diag.SourceCache {
	return b.inner.SourceCache()
}

// Finish resolves every cross-package reference and returns the built
// World alongside whatever diagnostics were produced. A non-empty
// diag.Bag.HasErrors() means the World is unusable even though one is
// still returned.
func (b *Builder) Finish() (*World, diag.Bag) {
	w, bag := b.inner.Finish()
	return &World{inner: w}, bag
}

// World is the immutable, evaluable policy universe a Builder
// produces. Safe for concurrent use.
type World struct {
	inner *world.World
}

// Evaluate resolves name in the World and evaluates val against it. A
// non-nil error means evaluation itself could not complete (an
// unresolvable reference, a cancelled context, a data source failure)
// as opposed to the pattern simply not matching, which is reported as
// a non-nil, Satisfied=false EvaluationResult instead.
func (w *World) Evaluate(name string, val value.Value, ec *eval.EvalContext) (*eval.EvaluationResult, error) {
	return eval.Evaluate(w.inner, name, val, ec)
}

// Get resolves a fully qualified pattern name to its declared arity and
// metadata. The second return value is false if name was never
// declared.
func (w *World) Get(name string) (world.Pattern, bool) {
	return w.inner.Get(name)
}

// Names returns every declared pattern name, in no particular order.
func (w *World) Names() []string {
	return w.inner.Names()
}

// Monitor returns the invocation-statistics recorder attached to this
// World, or nil if none was configured.
func (w *World) Monitor() *monitor.Monitor {
	return w.inner.Monitor()
}

// NextOpenVEXVersion atomically increments and returns this World's
// OpenVEX document-version counter, starting from 1. An embedder
// generating successive OpenVEX documents from the same World calls
// this once per document so every document it emits carries a unique,
// monotonically increasing version.
func (w *World) NextOpenVEXVersion() int64 {
	return w.inner.NextOpenVEXVersion()
}

// Re-exported so callers need only import this package for the common
// evaluation path.
type (
	EvalContext      = eval.EvalContext
	EvaluationResult = eval.EvaluationResult
	Response         = eval.Response
	Rationale        = eval.Rationale
)

var (
	NewEvalContext = eval.NewEvalContext
	ResponseFrom   = eval.From
)

// NewEvalContextWithDeadline wraps ctx with cfg.EvalDeadline applied as
// a context.WithTimeout, for callers that don't already carry their own
// deadline. The returned cancel func must be called once the
// evaluation completes, same as any context.WithTimeout.
func NewEvalContextWithDeadline(ctx context.Context, cfg config.Config) (*EvalContext, context.CancelFunc) {
	deadlined, cancel := context.WithTimeout(ctx, cfg.EvalDeadline)
	return eval.NewEvalContext(deadlined), cancel
}
