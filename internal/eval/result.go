// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package eval

import (
	"github.com/kennel-lang/kennel/internal/severity"
	"github.com/kennel-lang/kennel/internal/value"
)

// Output carries what a Satisfied evaluation produced: either the
// original input, unchanged, or a transformed replacement value (for
// built-ins like base64::decode that hand a derived value to their
// inner pattern).
type Output struct {
	Present bool
	Value   value.Value
}

// EvaluationResult is the outcome of evaluating one named pattern
// against one value: whether it matched, at what severity an
// unsatisfied outcome should be treated, the human-readable reason,
// and the full Rationale tree that explains how the outcome was
// reached.
type EvaluationResult struct {
	Name      string
	Input     value.Value
	Satisfied bool
	Severity  severity.Severity
	Reason    string
	Output    Output
	Rationale Rationale
}

// Response is the stable, JSON-serializable projection of an
// EvaluationResult, with rationale children below a minimum severity
// pruned away. The root's own severity is never pruned, even if it
// falls below the threshold — Collapse only trims explanatory detail,
// it never hides that the top-level outcome happened.
type Response struct {
	Name      string      `json:"name"`
	Satisfied bool        `json:"satisfied"`
	Severity  string      `json:"severity"`
	Reason    string      `json:"reason,omitempty"`
	Rationale []*Response `json:"rationale,omitempty"`
}

// From projects an EvaluationResult into its root Response, with no
// pruning applied yet.
func From(r *EvaluationResult) *Response {
	return responseFrom(r.Name, r.Severity, r.Reason, r.Rationale)
}

func responseFrom(label string, sev severity.Severity, reason string, rat Rationale) *Response {
	return &Response{
		Name:      label,
		Satisfied: rat.Satisfied,
		Severity:  sev.String(),
		Reason:    firstNonEmpty(reason, rat.Reason),
		Rationale: childResponses(rat.Children),
	}
}

func childResponses(children []Rationale) []*Response {
	out := make([]*Response, 0, len(children))
	for _, c := range children {
		out = append(out, responseFrom(c.Label, c.Severity, c.Reason, c))
	}
	return out
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// Collapse prunes rationale children below min severity, keeping the
// root's own severity, satisfaction, and reason untouched. A satisfied
// child is always at severity None and is pruned unless min is also
// None, matching the common case of wanting only the branches that
// explain a failure.
func (r *Response) Collapse(min severity.Severity) *Response {
	out := &Response{
		Name:      r.Name,
		Satisfied: r.Satisfied,
		Severity:  r.Severity,
		Reason:    r.Reason,
	}
	for _, c := range r.Rationale {
		if !severity.Collapse(parseSeverity(c.Severity), min) {
			continue
		}
		out.Rationale = append(out.Rationale, c.Collapse(min))
	}
	return out
}

func parseSeverity(s string) severity.Severity {
	return severity.Parse(s)
}
