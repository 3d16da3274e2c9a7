package flatcalc

import (
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"nickandperla.net/flatcalc/internal/eval"
)

// ErrNoStore is returned by History when no store is configured.
var ErrNoStore = errors.New("no history store configured")

// Kind classifies evaluation errors.
type Kind = eval.Kind

// Error kinds.
const (
	DivisionByZero   = eval.DivisionByZero
	InvalidCharacter = eval.InvalidCharacter
	InvalidBlock     = eval.InvalidBlock
	InvalidInput     = eval.InvalidInput
)

// Sentinel errors for errors.Is.
var (
	ErrDivisionByZero   = eval.ErrDivisionByZero
	ErrInvalidCharacter = eval.ErrInvalidCharacter
	ErrInvalidBlock     = eval.ErrInvalidBlock
	ErrInvalidInput     = eval.ErrInvalidInput
)

// Evaluate evaluates an expression with the default configuration.
func Evaluate(expression string) (float64, error) {
	return eval.Evaluate(expression)
}

// KindOf reports the Kind carried by err, if any.
func KindOf(err error) (Kind, bool) {
	return eval.KindOf(err)
}

// FormatResult renders a value the way the CLI prints it.
func FormatResult(v float64) string {
	return eval.FormatResult(v)
}

// Runtime is a configured evaluator with optional history.
type Runtime struct {
	evaluator *eval.Evaluator
	store     Store
	storeErr  error
	groupMode GroupMode
	maxDepth  int
	logger    *slog.Logger
	session   string
}

// New creates a new runtime with the given options.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		groupMode: GroupBalanced,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}
	if r.session == "" {
		r.session = uuid.NewString()
	}
	if r.storeErr != nil {
		r.logger.Warn("history store unavailable", "err", r.storeErr)
	}

	r.evaluator = eval.New(
		eval.WithGroupMode(r.groupMode),
		eval.WithMaxDepth(r.maxDepth),
		eval.WithLogger(r.logger),
	)
	return r
}

// Eval evaluates an expression and records it when a store is configured.
// A failure to record is logged, not returned.
func (r *Runtime) Eval(expression string) (float64, error) {
	v, err := r.evaluator.Eval(expression)
	if r.store == nil {
		return v, err
	}

	entry := Entry{
		Session:    r.session,
		Expression: expression,
		GroupMode:  r.groupMode.String(),
		Result:     v,
		Ts:         time.Now(),
	}
	if err != nil {
		entry.Result = math.NaN()
		entry.Err = err.Error()
	}
	if recErr := r.store.Record(entry); recErr != nil {
		r.logger.Warn("record evaluation", "expression", expression, "err", recErr)
	} else {
		r.logger.Debug("recorded evaluation", "expression", expression, "session", r.session)
	}
	return v, err
}

// History returns the most recent recorded evaluations, newest first.
func (r *Runtime) History(limit int) ([]Entry, error) {
	if r.store == nil {
		if r.storeErr != nil {
			return nil, r.storeErr
		}
		return nil, ErrNoStore
	}
	return r.store.History(limit)
}

// SessionID returns the identifier stamped on recorded evaluations.
func (r *Runtime) SessionID() string {
	return r.session
}

// StoreErr returns the error from opening the configured store, if any.
func (r *Runtime) StoreErr() error {
	return r.storeErr
}

// Close releases resources.
func (r *Runtime) Close() error {
	if r.store != nil {
		return r.store.Close()
	}
	return nil
}
