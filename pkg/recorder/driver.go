package recorder

import (
	"context"

	"github.com/google/uuid"
)

// Driver defines the interface for persisting and retrieving transcript
// records in a storage backend.
type Driver interface {
	// Put stores a record, overwriting any existing record with the same
	// request ID.
	Put(ctx context.Context, rec *Record) error

	// Get retrieves a record by its request ID.
	Get(ctx context.Context, id uuid.UUID) (*Record, error)

	// Has checks if a record exists by its request ID.
	Has(ctx context.Context, id uuid.UUID) (bool, error)

	// List returns all records in the store.
	List(ctx context.Context) ([]*Record, error)

	// Close closes the store and releases any resources.
	Close() error
}

// ErrNotFound is returned when a record doesn't exist in the store.
type ErrNotFound struct {
	RequestID uuid.UUID
}

func (e ErrNotFound) Error() string {
	if e.RequestID == uuid.Nil {
		return "record not found"
	}

	return "record not found: " + e.RequestID.String()
}
