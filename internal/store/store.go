// Package store provides persistence for flatcalc evaluation history.
package store

import "time"

// Store is the interface for evaluation history persistence.
type Store interface {
	// Record appends an evaluation to the history.
	Record(e Entry) error
	// History returns the most recent entries, newest first.
	// A limit of 0 returns all entries.
	History(limit int) ([]Entry, error)
	// Close releases resources.
	Close() error
}

// Entry is one recorded evaluation.
type Entry struct {
	ID         int64
	Session    string
	Expression string
	GroupMode  string
	Result     float64 // NaN when Err is set
	Err        string  // Error kind name, empty on success
	Ts         time.Time
}

// OK reports whether the evaluation succeeded.
func (e Entry) OK() bool {
	return e.Err == ""
}
