// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package eval

import "github.com/kennel-lang/kennel/internal/severity"

// Rationale is one node of the explanation tree produced alongside
// every evaluation outcome. Leaf rationales correspond to primordial,
// const, and expression checks; interior rationales correspond to
// object fields, list elements, named-pattern references, and the
// and/or/not/refine/traverse/chain built-ins. Children are always
// stored in declaration/index order, never in completion order, so the
// same input produces the same rationale shape regardless of how
// goroutines happened to interleave. Severity mirrors the severity of
// the EvaluationResult this node explains (None for a satisfied node),
// so a Response projected from this tree never has to re-derive a
// node's severity from Satisfied alone — a declaration's own
// #[severity(...)] override is visible at its own node, not just at
// the root.
type Rationale struct {
	// Label names what produced this node: a field name, a list
	// index rendered as "[3]", a pattern name, or a built-in name.
	Label string

	Satisfied bool
	Severity  severity.Severity
	Reason    string

	Children []Rationale
}

// leaf and branch build a Rationale node at severity.None; satisfied
// and unsatisfied (in eval.go) stamp the node's real Severity when they
// embed it into an EvaluationResult, so their call sites don't repeat
// it. Results built directly (withLabel, lang::traverse, lang::chain,
// base64::decode, data::from, data::lookup) keep the Rationale's
// Severity as it is.
func leaf(label string, satisfied bool, reason string) Rationale {
	return Rationale{Label: label, Satisfied: satisfied, Reason: reason}
}

func branch(label string, satisfied bool, reason string, children ...Rationale) Rationale {
	return Rationale{Label: label, Satisfied: satisfied, Reason: reason, Children: children}
}
