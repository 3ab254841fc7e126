package storage

import (
	"errors"
	"sync"

	"github.com/iiviie/bbsfront/internal/models"
)

// ErrClosed is returned by SaveTable after Close.
var ErrClosed = errors.New("storage closed")

// MemoryStorage implements Storage in process memory. Nothing survives a restart.
type MemoryStorage struct {
	mu     sync.RWMutex
	table  models.Table
	saved  bool
	closed bool
}

// NewMemoryStorage creates an empty memory storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// SaveTable stores a copy of the snapshot
func (s *MemoryStorage) SaveTable(table models.Table) error {
	rows := make([]models.Row, len(table.Rows))
	copy(rows, table.Rows)
	table.Rows = rows

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.table = table
	s.saved = true
	return nil
}

// LatestTable returns the last saved snapshot
func (s *MemoryStorage) LatestTable() (models.Table, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.saved {
		return models.Table{}, false
	}
	return s.table, true
}

// Close marks the storage closed; later saves fail
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
