// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datasource implements the external-data abstraction the
// data::from built-in suspends through: a key-addressed fetch
// interface with Directory, HTTP, and Cloud Storage implementations.
package datasource

import (
	"context"
	"fmt"

	"github.com/kennel-lang/kennel/internal/value"
)

// DataSource is a named, read-only key/value lookup an evaluation can
// suspend on. Implementations decode their own wire format into a
// value.Value; the evaluator never sees raw bytes.
type DataSource interface {
	Get(ctx context.Context, key string) (value.Value, error)
}

// NotFoundError is returned by a DataSource.Get when key has no entry.
// Distinguished from other errors since a missing key is a normal,
// expected runtime outcome (the data::from built-in propagates it as a
// non-match rather than a RuntimeError).
type NotFoundError struct {
	Source string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("datasource %q: key %q not found", e.Source, e.Key)
}
