// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package monitor

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestRecordAccumulatesStats(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.Record("csaf::advisory", 5*time.Millisecond)
	m.Record("csaf::advisory", 3*time.Millisecond)

	s, ok := m.Stats("csaf::advisory")
	if !ok {
		t.Fatal("expected stats to be recorded")
	}
	if s.Invocations != 2 {
		t.Fatalf("Invocations = %d, want 2", s.Invocations)
	}
	if s.LastEvaluated.IsZero() {
		t.Fatal("LastEvaluated was not set")
	}
}

func TestStatsUnknownPattern(t *testing.T) {
	m := New(nil)
	if _, ok := m.Stats("nope::nope"); ok {
		t.Fatal("expected ok=false for an unrecorded pattern")
	}
}

func TestNilMonitorIsSafe(t *testing.T) {
	var m *Monitor
	m.Record("whatever", time.Millisecond)
	if _, ok := m.Stats("whatever"); ok {
		t.Fatal("nil monitor should never report stats")
	}
}
