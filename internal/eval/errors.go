package eval

import (
	"errors"

	"nickandperla.net/flatcalc/internal/scanner"
	"nickandperla.net/flatcalc/internal/token"
)

// Kind is the closed set of evaluation failures. Kind implements error, so
// each value doubles as a sentinel for errors.Is.
type Kind int

const (
	// DivisionByZero: a Divide had an exactly-zero right operand.
	DivisionByZero Kind = iota + 1
	// InvalidCharacter: a rune outside the grammar where a token was expected.
	InvalidCharacter
	// InvalidBlock: a group was still open at end of input.
	InvalidBlock
	// InvalidInput: the expression produced no operand.
	InvalidInput
)

// Sentinel errors.
var (
	ErrDivisionByZero   error = DivisionByZero
	ErrInvalidCharacter error = InvalidCharacter
	ErrInvalidBlock     error = InvalidBlock
	ErrInvalidInput     error = InvalidInput
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case DivisionByZero:
		return "DivisionByZero"
	case InvalidCharacter:
		return "InvalidCharacter"
	case InvalidBlock:
		return "InvalidBlock"
	case InvalidInput:
		return "InvalidInput"
	}
	return "Unknown"
}

func (k Kind) Error() string { return k.String() }

// KindOf reports the Kind carried by err, if any.
func KindOf(err error) (Kind, bool) {
	var k Kind
	if errors.As(err, &k) {
		return k, true
	}
	return 0, false
}

// classify maps errors from the lower layers onto the taxonomy.
func classify(err error) error {
	switch {
	case errors.Is(err, token.ErrDivisionByZero):
		return DivisionByZero
	case errors.Is(err, scanner.ErrUnterminatedGroup):
		return InvalidBlock
	}
	return err
}
