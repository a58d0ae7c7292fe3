package repositories

import (
	"context"

	"github.com/SscSPs/mma_currency/internal/core/domain"
)

// RecordReader reads every record of one domain for the scoped user.
type RecordReader interface {
	// ListAll returns all records of the domain.
	ListAll(ctx context.Context) ([]domain.Record, error)
}

// RecordWriter writes a partial update to a single record.
type RecordWriter interface {
	// UpdateByID sets the currency and the given amount fields of record id.
	UpdateByID(ctx context.Context, id string, update domain.RecordUpdate) error
}

// RecordStore combines record read and write operations for one domain.
type RecordStore interface {
	RecordReader
	RecordWriter
}

// RecordStores holds one store per domain.
type RecordStores map[domain.RecordDomain]RecordStore

// RecordStoreProvider builds the per-domain stores of a user.
type RecordStoreProvider interface {
	ForUser(userID string) RecordStores
}
