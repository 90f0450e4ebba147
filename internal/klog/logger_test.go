// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package klog

import (
	"testing"
)

func TestDefaultLogsWithoutPanicking(t *testing.T) {
	logger := Default()
	logger.Info("hello", "pattern", "test::dog")
	logger.Debug("ignored at info level")
	logger.Warn("careful", "severity", "warning")
	logger.Error("boom", "error", "nope")
}

func TestLoggerWithBufferedExporterClosesCleanly(t *testing.T) {
	exp := NewBufferedExporter()
	logger := New(Config{Level: LevelInfo, Component: "test", Exporter: exp, Quiet: true})

	logger.Info("evaluated", "pattern", "test::foo", "satisfied", true)

	// Export happens asynchronously; give it a moment by closing, which
	// only flushes the exporter itself (BufferedExporter.Flush is a
	// no-op), so instead we just check the logger didn't panic and that
	// Close is error-free.
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestLevelString(t *testing.T) {
	cases := map[Level]string{
		LevelDebug: "DEBUG",
		LevelInfo:  "INFO",
		LevelWarn:  "WARN",
		LevelError: "ERROR",
		Level(99):  "UNKNOWN",
	}
	for level, want := range cases {
		if got := level.String(); got != want {
			t.Errorf("Level(%d).String() = %q, want %q", level, got, want)
		}
	}
}

func TestWithAddsAttributesWithoutMutatingParent(t *testing.T) {
	parent := Default()
	child := parent.With("request_id", "abc123")
	if child == parent {
		t.Fatal("With must return a new Logger")
	}
	child.Info("scoped message")
}
