// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package expr defines the operand state of a left-to-right fold.
package expr

import (
	"strconv"

	"nickandperla.net/flatcalc/internal/token"
)

// Operands is the interface all operand states implement.
// The only states are None, One and Two; a second operand without a first
// cannot be expressed.
type Operands interface {
	// String returns a debugging representation of the state.
	String() string
	// First returns the first operand, if present.
	First() (float64, bool)
}

// None is the initial state with both slots empty.
type None struct{}

func (None) String() string         { return "()" }
func (None) First() (float64, bool) { return 0, false }

// One holds only the accumulated left-hand value.
type One struct {
	Value float64
}

func (o One) String() string         { return "(" + format(o.Value) + ")" }
func (o One) First() (float64, bool) { return o.Value, true }

// Two holds the accumulated value and the most recent right-hand value.
type Two struct {
	Left  float64
	Right float64
}

func (t Two) String() string         { return "(" + format(t.Left) + ", " + format(t.Right) + ")" }
func (t Two) First() (float64, bool) { return t.Left, true }

// PushValue returns the state after a value v is read.
// A full pair with a pending operator is reduced first; a lone first operand
// gains v as its second; anything else restarts from v.
func PushValue(ops Operands, op *token.Operator, v float64) (Operands, error) {
	switch s := ops.(type) {
	case Two:
		if op != nil {
			r, err := op.Apply(s.Left, s.Right)
			if err != nil {
				return nil, err
			}
			return Two{Left: r, Right: v}, nil
		}
	case One:
		return Two{Left: s.Value, Right: v}, nil
	}
	return One{Value: v}, nil
}

// PushGroup returns the state after a group evaluating to v is read.
// Unlike PushValue, a full pair is not reduced: its second slot is replaced.
func PushGroup(ops Operands, v float64) Operands {
	if first, ok := ops.First(); ok {
		return Two{Left: first, Right: v}
	}
	return One{Value: v}
}

// Reduce applies a pending operator to a full pair, collapsing it to One.
// Any other state is returned unchanged.
func Reduce(ops Operands, op *token.Operator) (Operands, error) {
	s, ok := ops.(Two)
	if !ok || op == nil {
		return ops, nil
	}
	r, err := op.Apply(s.Left, s.Right)
	if err != nil {
		return nil, err
	}
	return One{Value: r}, nil
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
