// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config provides the builder-wide settings an embedder (a CLI
// or server, both out of scope here) constructs and hands to Builder
// and EvalContext. This package never reads environment variables or
// files itself; it only defines and validates the shape of a Config
// value someone else constructed.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance for Config, matching the
// one-validator-per-package convention used elsewhere in this module's
// lineage.
var validate = validator.New()

// Config holds every builder-wide setting this module needs from its
// embedder. Zero value is invalid; construct with Default and override
// individual fields.
type Config struct {
	// HTTPTimeout bounds a single HTTP data-source request.
	HTTPTimeout time.Duration `validate:"required,gt=0"`

	// HTTPRateLimitPerSecond caps outbound HTTP data-source requests
	// per second, enforced by golang.org/x/time/rate.
	HTTPRateLimitPerSecond float64 `validate:"gt=0"`

	// EvalDeadline is the default deadline applied to an EvalContext
	// when the caller does not supply its own context deadline.
	EvalDeadline time.Duration `validate:"required,gt=0"`

	// SeverityCollapseDefault names a minimum severity for collapsing
	// responses. It is validated but not read elsewhere in this module:
	// Response.Collapse always takes its minimum severity as an argument.
	SeverityCollapseDefault string `validate:"required,oneof=none advice warning error"`

	// MonitorSampleRate is a sampling fraction (0 < rate <= 1). It is
	// validated but not read elsewhere in this module: the Monitor
	// records latency for every evaluation it is handed.
	MonitorSampleRate float64 `validate:"gt=0,lte=1"`
}

// Default returns a Config with conservative, production-safe values.
func Default() Config {
	return Config{
		HTTPTimeout:             10 * time.Second,
		HTTPRateLimitPerSecond:  20,
		EvalDeadline:            5 * time.Second,
		SeverityCollapseDefault: "advice",
		MonitorSampleRate:       1,
	}
}

// Validate checks every struct tag constraint on c, returning a
// descriptive error naming each failing field.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
