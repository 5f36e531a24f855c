// Package eventstore records the history of release runs in SQLite.
package eventstore

import "context"

// Store persists release history.
type Store interface {
	// Append adds a record. ID and Timestamp are assigned by the store when zero.
	Append(ctx context.Context, rec Record) error

	// ByRun returns the records of one run in the order they were appended.
	ByRun(ctx context.Context, runID string) ([]Record, error)

	// LatestFinished returns the most recent ReleaseFinished record for
	// version, or nil when that version was never attempted.
	LatestFinished(ctx context.Context, version string) (*Record, error)

	// Close closes the store and releases resources.
	Close() error
}
