// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package eval

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("kennel.eval")

// EvalContext carries everything one top-level Evaluate call threads
// through the recursive evaluator: the Go context (for cancellation
// and deadlines), a unique evaluation id for correlating log lines and
// trace spans, and the memoization cache for that call alone. Spans
// come from the package-level tracer; Evaluate opens one per call.
// Constructing one is cheap; callers evaluating many values against
// the same World must build a fresh EvalContext per value so the
// evaluation id and memoization cache stay scoped to one call — a
// pattern-node result memoized under one EvalContext is never visible
// to another, so a data source's current content and a fresh
// deadline are always observed on every call.
type EvalContext struct {
	ctx      context.Context
	id       string
	engine   *engineState
	engineMu sync.Mutex
}

// NewEvalContext wraps ctx with a freshly minted evaluation id and an
// empty memoization cache. ctx must carry any deadline or cancellation
// the caller wants honored; context.Background() is fine for unbounded
// evaluation.
func NewEvalContext(ctx context.Context) *EvalContext {
	return &EvalContext{ctx: ctx, id: uuid.NewString()}
}

// state returns this EvalContext's memoization cache, building it on
// first use. Lazy rather than built in NewEvalContext so constructing
// an EvalContext never allocates the ristretto cache for a caller that
// never ends up evaluating anything against it.
func (e *EvalContext) state() *engineState {
	e.engineMu.Lock()
	defer e.engineMu.Unlock()
	if e.engine == nil {
		e.engine = newEngineState()
	}
	return e.engine
}

func (e *EvalContext) Context() context.Context { return e.ctx }

func (e *EvalContext) ID() string { return e.id }

// Err reports the underlying context's error, translated to the
// evaluator's own cancellation/timeout sentinels.
func (e *EvalContext) Err() error {
	switch e.ctx.Err() {
	case context.Canceled:
		return ErrCancelled
	case context.DeadlineExceeded:
		return ErrTimeout
	default:
		return nil
	}
}

// startSpan opens a child span off the context currently in e without
// mutating e itself — concurrent Object-field/List-element evaluation
// shares one EvalContext, so nothing here may write to it.
func (e *EvalContext) startSpan(name string) (context.Context, trace.Span) {
	return tracer.Start(e.ctx, name)
}
