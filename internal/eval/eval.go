// Package eval implements the flatcalc expression evaluator.
package eval

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"nickandperla.net/flatcalc/internal/expr"
	"nickandperla.net/flatcalc/internal/scanner"
	"nickandperla.net/flatcalc/internal/token"
)

// GroupMode selects how nested group markers are handled.
type GroupMode = scanner.GroupMode

// Group mode constants.
const (
	GroupBalanced = scanner.GroupBalanced
	GroupLegacy   = scanner.GroupLegacy
)

// Evaluator interprets flatcalc expressions. An Evaluator holds only its
// configuration, so one value may be used from several goroutines.
type Evaluator struct {
	groupMode GroupMode
	maxDepth  int // Maximum group nesting, 0 = unlimited
	logger    *slog.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithGroupMode sets how nested group markers are handled.
func WithGroupMode(mode GroupMode) Option {
	return func(e *Evaluator) { e.groupMode = mode }
}

// WithMaxDepth bounds group nesting. Deeper groups fail with InvalidBlock.
func WithMaxDepth(n int) Option {
	return func(e *Evaluator) { e.maxDepth = n }
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates a new Evaluator with the given options.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		groupMode: GroupBalanced,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEvaluator = New()

// Evaluate evaluates an expression with the default configuration.
func Evaluate(input string) (float64, error) {
	return defaultEvaluator.Eval(input)
}

// Eval evaluates an expression and returns its value.
func (e *Evaluator) Eval(input string) (float64, error) {
	return e.EvalReader(strings.NewReader(input))
}

// EvalReader evaluates an expression read from r.
func (e *Evaluator) EvalReader(r io.Reader) (float64, error) {
	return e.evalStream(scanner.New(r), 0)
}

// evalStream folds the input left to right. depth is the group nesting
// level of the text being scanned.
func (e *Evaluator) evalStream(scan *scanner.Scanner, depth int) (float64, error) {
	var ops expr.Operands = expr.None{}
	var op *token.Operator

	for {
		r, err := scan.PeekRune()
		if err == io.EOF {
			return finish(ops, op)
		}
		if err != nil {
			return 0, fmt.Errorf("read input: %w", err)
		}

		if next, ok := token.OperatorFromRune(r); ok {
			if ops, err = expr.Reduce(ops, op); err != nil {
				return 0, classify(err)
			}
			if _, err := scan.Next(); err != nil {
				return 0, fmt.Errorf("read input: %w", err)
			}
			op = &next
			continue
		}

		switch token.ClassOf(r) {
		case token.DIGIT:
			v, err := scan.ScanNumber()
			if err != nil {
				return 0, fmt.Errorf("read input: %w", err)
			}
			if ops, err = expr.PushValue(ops, op, v); err != nil {
				return 0, classify(err)
			}

		case token.GROUP_OPEN:
			if _, err := scan.Next(); err != nil {
				return 0, fmt.Errorf("read input: %w", err)
			}
			v, err := e.evalGroup(scan, depth+1)
			if err != nil {
				return 0, err
			}
			ops = expr.PushGroup(ops, v)

		default:
			return 0, InvalidCharacter
		}
	}
}

// evalGroup extracts the group body at the cursor and evaluates it as an
// independent expression.
func (e *Evaluator) evalGroup(scan *scanner.Scanner, depth int) (float64, error) {
	if e.maxDepth > 0 && depth > e.maxDepth {
		return 0, InvalidBlock
	}
	offset := scan.Offset()
	inner, err := scan.ScanGroup(e.groupMode)
	if err != nil {
		e.logger.Debug("group unterminated", "offset", offset, "depth", depth)
		return 0, classify(err)
	}
	v, err := e.evalStream(scanner.NewFromString(inner), depth)
	if err != nil {
		e.logger.Debug("group failed", "inner", inner, "offset", offset, "depth", depth, "err", err)
		return 0, err
	}
	e.logger.Debug("group", "inner", inner, "offset", offset, "depth", depth, "value", v)
	return v, nil
}

// finish produces the result once the input is exhausted.
func finish(ops expr.Operands, op *token.Operator) (float64, error) {
	if pair, ok := ops.(expr.Two); ok && op != nil {
		v, err := op.Apply(pair.Left, pair.Right)
		if err != nil {
			return 0, classify(err)
		}
		return v, nil
	}
	if v, ok := ops.First(); ok {
		return v, nil
	}
	return 0, InvalidInput
}

// FormatResult renders a value as the shortest decimal that round-trips,
// without an exponent.
func FormatResult(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
