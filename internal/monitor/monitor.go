// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package monitor records per-pattern evaluation statistics: invocation
// count, last-evaluated timestamp, and a rolling latency histogram,
// exposed both as Prometheus collectors and as a direct Stats
// accessor. A nil *Monitor is always safe to call Record on — a World
// built without a Monitor should not need a second code path.
package monitor

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Stats is one pattern's recorded statistics as of the last Record
// call.
type Stats struct {
	Invocations   int64
	LastEvaluated time.Time
}

// Monitor is the instance-owned (not package-global) statistics
// recorder attached to a World at Builder.Finish time. Serving
// collected metrics over HTTP is out of scope; registering Monitor's
// collectors on a prometheus.Registry and scraping it is the
// embedder's responsibility.
type Monitor struct {
	invocations *prometheus.CounterVec
	latency     *prometheus.HistogramVec

	mu    sync.RWMutex
	stats map[string]*Stats
}

// New creates a Monitor and registers its collectors on registry. Pass
// prometheus.NewRegistry() for an isolated registry, or nil to skip
// Prometheus registration entirely and only track Stats in memory.
func New(registry prometheus.Registerer) *Monitor {
	m := &Monitor{
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kennel",
			Subsystem: "evaluator",
			Name:      "pattern_invocations_total",
			Help:      "Total evaluations of a named pattern.",
		}, []string{"pattern"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "kennel",
			Subsystem: "evaluator",
			Name:      "pattern_latency_seconds",
			Help:      "Evaluation latency per named pattern.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"pattern"}),
		stats: make(map[string]*Stats),
	}
	if registry != nil {
		registry.MustRegister(m.invocations, m.latency)
	}
	return m
}

// Record logs one evaluation of pattern, taking duration. Safe to call
// on a nil *Monitor (a World evaluated without statistics attached).
func (m *Monitor) Record(pattern string, duration time.Duration) {
	if m == nil {
		return
	}
	m.invocations.WithLabelValues(pattern).Inc()
	m.latency.WithLabelValues(pattern).Observe(duration.Seconds())

	m.mu.Lock()
	s, ok := m.stats[pattern]
	if !ok {
		s = &Stats{}
		m.stats[pattern] = s
	}
	s.Invocations++
	s.LastEvaluated = time.Now()
	m.mu.Unlock()
}

// Stats returns the recorded statistics for pattern. Safe to call on a
// nil *Monitor, which always reports the zero value.
func (m *Monitor) Stats(pattern string) (Stats, bool) {
	if m == nil {
		return Stats{}, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.stats[pattern]
	if !ok {
		return Stats{}, false
	}
	return *s, true
}
