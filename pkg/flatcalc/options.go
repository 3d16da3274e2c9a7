// Package flatcalc provides the public API for the flatcalc evaluator.
package flatcalc

import (
	"log/slog"

	"nickandperla.net/flatcalc/internal/eval"
	"nickandperla.net/flatcalc/internal/scanner"
	"nickandperla.net/flatcalc/internal/store"
)

// Option configures a Runtime.
type Option func(*Runtime)

// WithSQLiteStore records evaluation history in a SQLite database at path.
func WithSQLiteStore(path string) Option {
	return func(r *Runtime) {
		s, err := store.NewSQLite(path)
		if err != nil {
			r.storeErr = err
			return
		}
		r.store = s
	}
}

// WithMemoryStore records evaluation history in memory (for testing).
func WithMemoryStore() Option {
	return func(r *Runtime) {
		r.store = store.NewMemory()
	}
}

// WithStore sets a custom history store.
func WithStore(s Store) Option {
	return func(r *Runtime) {
		r.store = s
	}
}

// GroupMode controls how nested group markers are handled.
type GroupMode = eval.GroupMode

// Group mode constants.
const (
	GroupBalanced = eval.GroupBalanced
	GroupLegacy   = eval.GroupLegacy
)

// ParseGroupMode parses "balanced" or "legacy" (case-insensitive).
// An empty string selects GroupBalanced.
func ParseGroupMode(s string) (GroupMode, bool) {
	return scanner.ParseGroupMode(s)
}

// WithGroupMode sets the group mode.
func WithGroupMode(mode GroupMode) Option {
	return func(r *Runtime) {
		r.groupMode = mode
	}
}

// WithMaxDepth bounds group nesting; 0 means unlimited.
func WithMaxDepth(n int) Option {
	return func(r *Runtime) {
		r.maxDepth = n
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = l
	}
}

// WithSessionID overrides the generated session identifier.
func WithSessionID(id string) Option {
	return func(r *Runtime) {
		r.session = id
	}
}

// Store interface for custom stores.
type Store = store.Store

// Entry is one recorded evaluation.
type Entry = store.Entry
