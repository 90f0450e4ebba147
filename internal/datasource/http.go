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
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/awnumar/memguard"
	"github.com/klauspost/compress/gzip"
	"golang.org/x/time/rate"

	"github.com/kennel-lang/kennel/internal/value"
)

// HTTP is a DataSource that resolves keys against a base URL over GET.
// The bearer token, if any, is kept in a memguard.Enclave (encrypted in
// memory) and is only opened into a LockedBuffer for the instant a
// request is built. The token passed to NewHTTP and the Authorization
// header value built from it are ordinary Go strings.
type HTTP struct {
	BaseURL string
	Token   *memguard.Enclave
	Client  *http.Client
	Limiter *rate.Limiter
}

// NewHTTP builds an HTTP data source. token may be empty (no
// Authorization header sent). requestsPerSecond bounds outbound
// request rate; pass 0 for unlimited.
func NewHTTP(baseURL, token string, requestsPerSecond float64) *HTTP {
	var enclave *memguard.Enclave
	if token != "" {
		enclave = memguard.NewEnclave([]byte(token))
	}
	var limiter *rate.Limiter
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return &HTTP{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   enclave,
		Client:  &http.Client{Timeout: 30 * time.Second},
		Limiter: limiter,
	}
}

func (h *HTTP) Get(ctx context.Context, key string) (value.Value, error) {
	if h.Limiter != nil {
		if err := h.Limiter.Wait(ctx); err != nil {
			return value.Value{}, fmt.Errorf("datasource: rate limit wait: %w", err)
		}
	}

	u := h.BaseURL + "/" + strings.TrimLeft(key, "/")
	if _, err := url.Parse(u); err != nil {
		return value.Value{}, fmt.Errorf("datasource: invalid key %q: %w", key, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return value.Value{}, fmt.Errorf("datasource: building request: %w", err)
	}
	req.Header.Set("Accept-Encoding", "gzip")

	if h.Token != nil {
		buf, err := h.Token.Open()
		if err != nil {
			return value.Value{}, fmt.Errorf("datasource: opening token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+string(buf.Bytes()))
		buf.Destroy()
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		return value.Value{}, fmt.Errorf("datasource: request to %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return value.Value{}, &NotFoundError{Source: h.BaseURL, Key: key}
	}
	if resp.StatusCode >= 400 {
		return value.Value{}, fmt.Errorf("datasource: %s returned status %d", u, resp.StatusCode)
	}

	body, err := decodeBody(resp)
	if err != nil {
		return value.Value{}, err
	}

	contentType := resp.Header.Get("Content-Type")
	switch {
	case strings.Contains(contentType, "yaml"):
		return value.FromYAML(body)
	case strings.Contains(contentType, "json"), contentType == "":
		return value.FromJSON(body)
	default:
		return value.Octets(body), nil
	}
}

func decodeBody(resp *http.Response) ([]byte, error) {
	if resp.Header.Get("Content-Encoding") == "gzip" {
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("datasource: gzip decode: %w", err)
		}
		defer zr.Close()
		return io.ReadAll(zr)
	}
	return io.ReadAll(resp.Body)
}
