// Package inmemory provides a map-backed recorder.Driver for tests and
// local runs.
package inmemory

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/papercomputeco/splice/pkg/recorder"
)

// Driver implements recorder.Driver using an in-memory map.
type Driver struct {
	// mu is a read write sync mutex for locking the mapping of records
	mu sync.RWMutex

	// records is the in memory map of records keyed by request ID
	records map[uuid.UUID]*recorder.Record
}

// NewDriver creates a new in-memory driver.
func NewDriver() *Driver {
	return &Driver{
		records: make(map[uuid.UUID]*recorder.Record),
	}
}

// Put stores a record, overwriting any existing record with the same
// request ID.
func (s *Driver) Put(_ context.Context, rec *recorder.Record) error {
	if rec == nil {
		return errors.New("cannot store nil record")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[rec.RequestID] = rec
	return nil
}

// Get retrieves a record by its request ID.
func (s *Driver) Get(_ context.Context, id uuid.UUID) (*recorder.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, recorder.ErrNotFound{RequestID: id}
	}

	return rec, nil
}

// Has checks if a record exists by its request ID.
func (s *Driver) Has(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.records[id]
	return ok, nil
}

// List returns all records in the store.
func (s *Driver) List(_ context.Context) ([]*recorder.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*recorder.Record, 0, len(s.records))
	for _, rec := range s.records {
		records = append(records, rec)
	}

	return records, nil
}

// Count returns the number of records in the in-memory store.
func (s *Driver) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Close is a no-op for the in-memory driver.
func (s *Driver) Close() error {
	return nil
}
