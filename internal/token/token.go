// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package token defines flatcalc character classes and the operator set.
package token

// Class is the lexical class of a single input rune.
type Class int

const (
	DIGIT Class = iota
	OPERATOR
	GROUP_OPEN
	GROUP_CLOSE
	INVALID
)

// Marker runes.
const (
	RuneAdd        = 'a'
	RuneSubtract   = 'b'
	RuneMultiply   = 'c'
	RuneDivide     = 'd'
	RuneGroupOpen  = 'e'
	RuneGroupClose = 'f'
)

// ClassOf returns the lexical class of r.
func ClassOf(r rune) Class {
	switch {
	case IsDigit(r):
		return DIGIT
	case IsOperator(r):
		return OPERATOR
	case r == RuneGroupOpen:
		return GROUP_OPEN
	case r == RuneGroupClose:
		return GROUP_CLOSE
	}
	return INVALID
}

// IsDigit returns true for the ASCII decimal digits.
func IsDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// IsOperator returns true if the rune is one of the four operator letters.
func IsOperator(r rune) bool {
	_, ok := OperatorFromRune(r)
	return ok
}

// String returns the string representation of a class.
func (c Class) String() string {
	switch c {
	case DIGIT:
		return "DIGIT"
	case OPERATOR:
		return "OPERATOR"
	case GROUP_OPEN:
		return "GROUP_OPEN"
	case GROUP_CLOSE:
		return "GROUP_CLOSE"
	case INVALID:
		return "INVALID"
	}
	return "UNKNOWN"
}
