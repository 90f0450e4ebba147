// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package eval

import (
	"errors"
	"fmt"
)

// Sentinel errors for evaluation failures that carry no further
// context of their own.
var (
	// ErrCancelled is returned when the evaluation's context is
	// cancelled before completion.
	ErrCancelled = errors.New("evaluation cancelled")

	// ErrTimeout is returned when the evaluation's deadline elapses
	// before completion.
	ErrTimeout = errors.New("evaluation timed out")
)

// NoSuchTypeError is returned when a Ref node names neither a declared
// pattern nor a cataloged built-in. Builder.Finish should have already
// caught this at compile time; seeing it at evaluation time means a
// World was evaluated without going through Finish, or a declaration
// was removed after compilation.
type NoSuchTypeError struct {
	Name string
}

func (e *NoSuchTypeError) Error() string {
	return fmt.Sprintf("no such pattern or built-in: %s", e.Name)
}

// NoFunctionError is returned when a built-in is cataloged in
// internal/function but has no corresponding entry in the evaluator's
// dispatch table.
type NoFunctionError struct {
	Name string
}

func (e *NoFunctionError) Error() string {
	return fmt.Sprintf("no evaluator implementation for built-in: %s", e.Name)
}

// InvalidArgumentError is returned when a built-in is called with an
// argument that doesn't satisfy its contract (wrong arity, a
// non-literal where a literal configuration value is required, an
// unparseable configuration string).
type InvalidArgumentError struct {
	Name    string
	Message string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("%s: invalid argument: %s", e.Name, e.Message)
}

// DataSourceError wraps an error a registered datasource.DataSource
// returned other than a not-found outcome (which is a normal
// non-match, not a RuntimeError).
type DataSourceError struct {
	Key string
	Err error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("data source key %q: %v", e.Key, e.Err)
}

func (e *DataSourceError) Unwrap() error { return e.Err }

// RemoteError wraps a transport-level failure reaching a remote URL.
// The evaluator does not construct it: a failing data source, HTTP
// included, surfaces as DataSourceError.
type RemoteError struct {
	URL string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote %s: %v", e.URL, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }
