package token

import (
	"errors"
	"fmt"
)

// ErrDivisionByZero is returned by Apply when a Divide has a zero right operand.
var ErrDivisionByZero = errors.New("division by zero")

// Operator is one of the four binary arithmetic operators.
type Operator int

const (
	Add Operator = iota
	Subtract
	Multiply
	Divide
)

// OperatorFromRune maps an operator letter to its Operator.
// The second result is false if r is not an operator letter.
func OperatorFromRune(r rune) (Operator, bool) {
	switch r {
	case RuneAdd:
		return Add, true
	case RuneSubtract:
		return Subtract, true
	case RuneMultiply:
		return Multiply, true
	case RuneDivide:
		return Divide, true
	}
	return 0, false
}

// Apply computes a op b. Division compares the divisor against exact zero.
func (op Operator) Apply(a, b float64) (float64, error) {
	switch op {
	case Add:
		return a + b, nil
	case Subtract:
		return a - b, nil
	case Multiply:
		return a * b, nil
	case Divide:
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		return a / b, nil
	}
	panic(fmt.Sprintf("token: unknown operator %d", int(op)))
}

// Rune returns the letter that denotes op.
func (op Operator) Rune() rune {
	switch op {
	case Add:
		return RuneAdd
	case Subtract:
		return RuneSubtract
	case Multiply:
		return RuneMultiply
	case Divide:
		return RuneDivide
	}
	return 0
}

func (op Operator) String() string {
	switch op {
	case Add:
		return "Add"
	case Subtract:
		return "Subtract"
	case Multiply:
		return "Multiply"
	case Divide:
		return "Divide"
	}
	return "Unknown"
}
