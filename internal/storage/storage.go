package storage

import "github.com/iiviie/bbsfront/internal/models"

// Storage defines the interface for board snapshot storage
type Storage interface {
	// SaveTable replaces the current snapshot
	SaveTable(table models.Table) error

	// LatestTable returns the current snapshot; ok is false before the first save
	LatestTable() (table models.Table, ok bool)

	// Close releases the storage
	Close() error
}
