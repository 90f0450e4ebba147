// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datasource

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kennel-lang/kennel/internal/value"
)

func TestDirectoryGetDecodesJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "widget.json"), []byte(`{"name":"widget"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	ds := NewDirectory(dir)
	v, err := ds.Get(context.Background(), "widget.json")
	if err != nil {
		t.Fatal(err)
	}
	name, ok := v.Field("name")
	str, ok2 := name.String()
	if !ok || !ok2 || str != "widget" {
		t.Fatalf("v = %#v", v)
	}
}

func TestDirectoryGetDecodesYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "widget.yaml"), []byte("name: widget\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	ds := NewDirectory(dir)
	v, err := ds.Get(context.Background(), "widget.yaml")
	if err != nil {
		t.Fatal(err)
	}
	name, ok := v.Field("name")
	str, ok2 := name.String()
	if !ok || !ok2 || str != "widget" {
		t.Fatalf("v = %#v", v)
	}
}

func TestDirectoryGetRawOctets(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "blob.bin"), []byte{1, 2, 3}, 0o644); err != nil {
		t.Fatal(err)
	}
	ds := NewDirectory(dir)
	v, err := ds.Get(context.Background(), "blob.bin")
	if err != nil {
		t.Fatal(err)
	}
	octets, ok := v.Octets()
	if !ok || len(octets) != 3 {
		t.Fatalf("v = %#v", v)
	}
}

func TestDirectoryGetNotFound(t *testing.T) {
	dir := t.TempDir()
	ds := NewDirectory(dir)
	_, err := ds.Get(context.Background(), "missing.json")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want *NotFoundError", err)
	}
}

func TestDirectoryGetRejectsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	ds := NewDirectory(dir)
	_, err := ds.Get(context.Background(), "../../etc/passwd")
	if err == nil {
		t.Fatal("expected an error for a traversal key")
	}
	var nf *NotFoundError
	if errors.As(err, &nf) {
		t.Fatal("traversal key should not surface as NotFoundError")
	}
}

func TestMockGetRecordsCalls(t *testing.T) {
	m := NewMock("test")
	m.Values["a"] = value.Str("hello")
	v, err := m.Get(context.Background(), "a")
	if err != nil {
		t.Fatal(err)
	}
	if str, ok := v.String(); !ok || str != "hello" {
		t.Fatalf("v = %#v", v)
	}
	if _, err := m.Get(context.Background(), "b"); err == nil {
		t.Fatal("expected NotFoundError for unregistered key")
	}
	if got := m.GetCallCount(); got != 2 {
		t.Fatalf("GetCallCount() = %d, want 2", got)
	}
	if calls := m.GetCalls(); len(calls) != 2 || calls[0] != "a" || calls[1] != "b" {
		t.Fatalf("GetCalls() = %v", calls)
	}
}
