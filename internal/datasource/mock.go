// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datasource

import (
	"context"
	"sync"

	"github.com/kennel-lang/kennel/internal/value"
)

// Mock is a test double for DataSource. GetFunc, when set, is called by
// Get; otherwise Get looks the key up in Values and falls back to
// NotFoundError. All calls are recorded for verification.
type Mock struct {
	// GetFunc is called by Get. Set this to customize behavior.
	GetFunc func(ctx context.Context, key string) (value.Value, error)

	// Values backs the default Get behavior when GetFunc is nil.
	Values map[string]value.Value

	// Name is used in the NotFoundError's Source field.
	Name string

	mu        sync.RWMutex
	getCalls  []string
	callCount int
}

func NewMock(name string) *Mock {
	return &Mock{Name: name, Values: make(map[string]value.Value)}
}

func (m *Mock) Get(ctx context.Context, key string) (value.Value, error) {
	m.mu.Lock()
	m.callCount++
	m.getCalls = append(m.getCalls, key)
	m.mu.Unlock()

	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}

	m.mu.RLock()
	v, ok := m.Values[key]
	m.mu.RUnlock()
	if !ok {
		return value.Value{}, &NotFoundError{Source: m.Name, Key: key}
	}
	return v, nil
}

// GetCallCount returns the number of times Get was called.
func (m *Mock) GetCallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.callCount
}

// GetCalls returns the keys passed to Get, in call order.
func (m *Mock) GetCalls() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.getCalls))
	copy(out, m.getCalls)
	return out
}
