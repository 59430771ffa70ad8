package services

import (
	"context"

	"github.com/SscSPs/loan_dashboard/internal/core/domain"
)

// RecordReaderSvc defines read operations over the in-memory collection.
type RecordReaderSvc interface {
	// Snapshot returns the current collection. Callers must not mutate the records.
	Snapshot() []*domain.Opportunity

	// Get returns a private copy of a stored record.
	Get(id string) (*domain.Opportunity, error)

	// Status reports the outcome of the last load.
	Status() domain.LoadStatus
}

// RecordLoaderSvc defines collection (re)loading.
type RecordLoaderSvc interface {
	// LoadAll replaces the collection with the backend's. On failure the prior
	// collection is kept.
	LoadAll(ctx context.Context) error

	// Reload refetches a single record and replaces it in the collection.
	Reload(ctx context.Context, id string) (*domain.Opportunity, error)
}

// RecordWriterSvc defines mutations. Both operations are the only way records change.
type RecordWriterSvc interface {
	// PatchField optimistically sets one field and rolls that field back if the
	// backend write fails.
	PatchField(ctx context.Context, id string, field domain.FieldName, value any) (*domain.Opportunity, error)

	// ApplyUpdates sends only the fields that differ from the stored record and
	// merges them on success. send carries additional wire-only keys.
	ApplyUpdates(ctx context.Context, id string, updates domain.FieldUpdates, send map[string]any) (domain.UpdateResult, error)
}

// RecordStoreSvc combines all record store interfaces.
type RecordStoreSvc interface {
	RecordReaderSvc
	RecordLoaderSvc
	RecordWriterSvc
}
