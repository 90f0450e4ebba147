// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package eval

import (
	"fmt"

	"github.com/kennel-lang/kennel/internal/lir"
	"github.com/kennel-lang/kennel/internal/severity"
	"github.com/kennel-lang/kennel/internal/value"
)

// evalExpr evaluates an Expr pattern node against val. The expression
// must reduce to a boolean; anything else is a pattern authoring error
// reported as an unsatisfied, Error-severity outcome rather than a
// panic, since a malformed Expr can reach here from hand-built LIR as
// well as from the lowerer.
func evalExpr(ex *lir.Expr, val value.Value) *EvaluationResult {
	result, err := evalExprValue(ex, val)
	if err != nil {
		return unsatisfied(val, severity.Error, err.Error(), leaf("expr", false, err.Error()))
	}
	b, ok := result.Bool()
	if !ok {
		reason := fmt.Sprintf("expression did not reduce to a boolean, got %s", result.Kind())
		return unsatisfied(val, severity.Error, reason, leaf("expr", false, reason))
	}
	if b {
		return satisfied(val, leaf("expr", true, ""))
	}
	return unsatisfied(val, severity.Error, "expression evaluated to false", leaf("expr", false, "expression evaluated to false"))
}

func evalExprValue(ex *lir.Expr, val value.Value) (value.Value, error) {
	switch ex.Kind {
	case lir.ExprLiteral:
		return ex.Literal, nil
	case lir.ExprSelf:
		return val, nil
	case lir.ExprField:
		inner, err := evalExprValue(ex.Inner, val)
		if err != nil {
			return value.Value{}, err
		}
		if inner.Kind() != value.KindObject {
			return value.Value{}, fmt.Errorf("cannot select field %q from a %s", ex.Field, inner.Kind())
		}
		f, ok := inner.Field(ex.Field)
		if !ok {
			return value.Value{}, fmt.Errorf("no such field %q", ex.Field)
		}
		return f, nil
	case lir.ExprBinary:
		left, err := evalExprValue(ex.Left, val)
		if err != nil {
			return value.Value{}, err
		}
		right, err := evalExprValue(ex.Right, val)
		if err != nil {
			return value.Value{}, err
		}
		return evalBinary(ex.Op, left, right)
	default:
		return value.Value{}, fmt.Errorf("unknown expression kind %d", ex.Kind)
	}
}

func evalBinary(op lir.ExprOp, left, right value.Value) (value.Value, error) {
	switch op {
	case lir.OpEq:
		return value.Bool(value.Equal(left, right)), nil
	case lir.OpNe:
		return value.Bool(!value.Equal(left, right)), nil
	case lir.OpAdd, lir.OpSub, lir.OpMul, lir.OpDiv:
		return evalArith(op, left, right)
	case lir.OpLt, lir.OpLe, lir.OpGt, lir.OpGe:
		return evalOrder(op, left, right)
	default:
		return value.Value{}, fmt.Errorf("unknown binary operator %d", op)
	}
}

func evalArith(op lir.ExprOp, left, right value.Value) (value.Value, error) {
	li, liok := left.Integer()
	ri, riok := right.Integer()
	if liok && riok {
		switch op {
		case lir.OpAdd:
			return value.Int(li + ri), nil
		case lir.OpSub:
			return value.Int(li - ri), nil
		case lir.OpMul:
			return value.Int(li * ri), nil
		case lir.OpDiv:
			if ri == 0 {
				return value.Value{}, fmt.Errorf("division by zero")
			}
			return value.Int(li / ri), nil
		}
	}
	lf, lfok := left.Float()
	rf, rfok := right.Float()
	if !lfok || !rfok {
		return value.Value{}, fmt.Errorf("cannot apply arithmetic to %s and %s", left.Kind(), right.Kind())
	}
	switch op {
	case lir.OpAdd:
		return value.Decimal(lf + rf), nil
	case lir.OpSub:
		return value.Decimal(lf - rf), nil
	case lir.OpMul:
		return value.Decimal(lf * rf), nil
	case lir.OpDiv:
		if rf == 0 {
			return value.Value{}, fmt.Errorf("division by zero")
		}
		return value.Decimal(lf / rf), nil
	}
	return value.Value{}, fmt.Errorf("unreachable arithmetic operator %d", op)
}

func evalOrder(op lir.ExprOp, left, right value.Value) (value.Value, error) {
	if left.Kind() == value.KindString && right.Kind() == value.KindString {
		ls, _ := left.String()
		rs, _ := right.String()
		switch op {
		case lir.OpLt:
			return value.Bool(ls < rs), nil
		case lir.OpLe:
			return value.Bool(ls <= rs), nil
		case lir.OpGt:
			return value.Bool(ls > rs), nil
		case lir.OpGe:
			return value.Bool(ls >= rs), nil
		}
	}
	lf, lfok := left.Float()
	rf, rfok := right.Float()
	if !lfok || !rfok {
		return value.Value{}, fmt.Errorf("cannot compare %s and %s", left.Kind(), right.Kind())
	}
	switch op {
	case lir.OpLt:
		return value.Bool(lf < rf), nil
	case lir.OpLe:
		return value.Bool(lf <= rf), nil
	case lir.OpGt:
		return value.Bool(lf > rf), nil
	case lir.OpGe:
		return value.Bool(lf >= rf), nil
	}
	return value.Value{}, fmt.Errorf("unreachable comparison operator %d", op)
}
