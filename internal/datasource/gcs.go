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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/kennel-lang/kennel/internal/value"
)

// GCS is a DataSource backed by a Cloud Storage bucket. Keys are
// object names relative to Prefix. Credentials come from a service
// account key file when saKeyPath is non-empty, otherwise from
// application default credentials.
type GCS struct {
	storageClient *storage.Client
	BucketName    string
	Prefix        string
}

func NewGCS(ctx context.Context, bucketName, prefix, saKeyPath string) (*GCS, error) {
	var opts []option.ClientOption
	if saKeyPath != "" {
		if _, err := os.Stat(saKeyPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("service account key not found at path: %s", saKeyPath)
		}
		opts = append(opts, option.WithCredentialsFile(saKeyPath))
	}

	storageClient, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS storage client: %w", err)
	}

	return &GCS{
		storageClient: storageClient,
		BucketName:    bucketName,
		Prefix:        prefix,
	}, nil
}

func (g *GCS) Get(ctx context.Context, key string) (value.Value, error) {
	objectName := key
	if g.Prefix != "" {
		objectName = filepath.Join(g.Prefix, key)
	}

	obj := g.storageClient.Bucket(g.BucketName).Object(objectName)
	reader, err := obj.NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return value.Value{}, &NotFoundError{Source: g.BucketName, Key: key}
		}
		return value.Value{}, fmt.Errorf("datasource: opening gs://%s/%s: %w", g.BucketName, objectName, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return value.Value{}, fmt.Errorf("datasource: reading gs://%s/%s: %w", g.BucketName, objectName, err)
	}

	switch {
	case strings.Contains(reader.Attrs.ContentType, "yaml"), strings.HasSuffix(objectName, ".yaml"), strings.HasSuffix(objectName, ".yml"):
		return value.FromYAML(data)
	case strings.Contains(reader.Attrs.ContentType, "json"), strings.HasSuffix(objectName, ".json"):
		return value.FromJSON(data)
	default:
		return value.Octets(data), nil
	}
}

// Close releases the underlying storage client's network resources.
func (g *GCS) Close() error {
	return g.storageClient.Close()
}
