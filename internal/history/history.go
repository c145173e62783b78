// Package history persists the set of listings seen in prior runs.
// Stores are append-only: records go in once, are never mutated, and their
// identifiers define "already known" for novelty detection.
package history

import (
	"fmt"

	"traineewatch/internal/domain"
	"traineewatch/internal/logging"
)

// Store is the durable HistorySet backing.
//
// Load returns every previously persisted record; a missing backing file is
// an empty history, not an error. Append durably adds records while keeping
// all prior ones, and is a no-op for empty input.
type Store interface {
	Load() ([]domain.Listing, error)
	Append(listings []domain.Listing) error
	Close() error
}

// Open picks a backend by name. CSV is the default; sqlite suits
// deployments that outgrow a flat file.
func Open(backend, path string, log *logging.Logger) (Store, error) {
	switch backend {
	case "", "csv":
		return OpenCSV(path, log), nil
	case "sqlite":
		return OpenSQLite(path, log)
	default:
		return nil, fmt.Errorf("unknown history backend %q", backend)
	}
}
