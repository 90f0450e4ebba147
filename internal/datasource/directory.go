// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datasource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kennel-lang/kennel/internal/value"
)

// Directory is a DataSource backed by a local filesystem directory.
// Keys are relative paths; a key that is absolute, or that still starts
// with ".." after filepath.Clean, is rejected so a malicious key can't
// escape the root. ".json" and ".yaml"/".yml" files are
// decoded into structured values; any other extension is read as raw
// octets.
type Directory struct {
	Root string
}

func NewDirectory(root string) *Directory {
	return &Directory{Root: root}
}

func (d *Directory) Get(ctx context.Context, key string) (value.Value, error) {
	if err := ctx.Err(); err != nil {
		return value.Value{}, err
	}
	clean := filepath.Clean(key)
	if clean == ".." || strings.HasPrefix(clean, "../") || filepath.IsAbs(clean) {
		return value.Value{}, fmt.Errorf("datasource: key %q escapes directory root", key)
	}
	path := filepath.Join(d.Root, clean)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return value.Value{}, &NotFoundError{Source: d.Root, Key: key}
		}
		return value.Value{}, fmt.Errorf("datasource: reading %q: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return value.FromJSON(data)
	case ".yaml", ".yml":
		return value.FromYAML(data)
	default:
		return value.Octets(data), nil
	}
}
