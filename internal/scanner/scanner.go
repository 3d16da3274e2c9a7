// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package scanner provides the forward-only rune cursor used by the evaluator.
package scanner

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"nickandperla.net/flatcalc/internal/token"
)

// ErrUnterminatedGroup is returned when input ends inside a group.
var ErrUnterminatedGroup = errors.New("unterminated group")

// GroupMode selects how nested group markers are carried into the inner text.
type GroupMode int

const (
	// GroupBalanced keeps nested open and close markers in the inner text,
	// so nested groups survive into the recursive evaluation.
	GroupBalanced GroupMode = iota
	// GroupLegacy drops nested open and close markers, flattening any nested
	// group into the text around it.
	GroupLegacy
)

// String returns the string representation of a GroupMode.
func (m GroupMode) String() string {
	switch m {
	case GroupBalanced:
		return "BALANCED"
	case GroupLegacy:
		return "LEGACY"
	default:
		return "UNKNOWN"
	}
}

// ParseGroupMode parses a string into a GroupMode.
func ParseGroupMode(s string) (GroupMode, bool) {
	switch strings.ToUpper(s) {
	case "BALANCED", "":
		return GroupBalanced, true
	case "LEGACY":
		return GroupLegacy, true
	default:
		return GroupBalanced, false
	}
}

// Scanner reads an expression rune-by-rune with one rune of lookahead.
type Scanner struct {
	reader *bufio.Reader
	offset int // Bytes consumed so far
}

// New creates a new Scanner from an io.Reader.
func New(r io.Reader) *Scanner {
	return &Scanner{reader: bufio.NewReader(r)}
}

// NewFromString creates a new Scanner from a string.
func NewFromString(s string) *Scanner {
	return New(strings.NewReader(s))
}

// Offset returns the number of bytes consumed so far.
func (s *Scanner) Offset() int {
	return s.offset
}

// PeekRune returns the next rune without consuming it.
// Returns io.EOF at end of input.
func (s *Scanner) PeekRune() (rune, error) {
	r, _, err := s.reader.ReadRune()
	if err != nil {
		return 0, err
	}
	s.reader.UnreadRune()
	return r, nil
}

// Next consumes and returns the next rune.
// Returns io.EOF at end of input.
func (s *Scanner) Next() (rune, error) {
	r, size, err := s.reader.ReadRune()
	if err != nil {
		return 0, err
	}
	s.offset += size
	return r, nil
}

// ScanNumber consumes the run of decimal digits at the cursor and returns
// its base-10 value. Trailing non-digits are left for the caller.
func (s *Scanner) ScanNumber() (float64, error) {
	var n float64
	for {
		r, err := s.PeekRune()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return 0, err
		}
		if !token.IsDigit(r) {
			return n, nil
		}
		s.Next()
		n = n*10 + float64(r-'0')
	}
}

// ScanGroup scans the body of a group whose open marker has already been
// consumed. The matching close marker is consumed but not included in the
// result.
func (s *Scanner) ScanGroup(mode GroupMode) (string, error) {
	var inner strings.Builder
	depth := 1 // We start inside one group

	for {
		r, err := s.Next()
		if err == io.EOF {
			return "", ErrUnterminatedGroup
		}
		if err != nil {
			return "", err
		}

		switch r {
		case token.RuneGroupOpen:
			depth++
			if mode == GroupLegacy {
				continue
			}
		case token.RuneGroupClose:
			depth--
			if depth == 0 {
				return inner.String(), nil
			}
			if mode == GroupLegacy {
				continue
			}
		}

		inner.WriteRune(r)
	}
}
