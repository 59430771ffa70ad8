package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/SscSPs/loan_dashboard/internal/apperrors"
	"github.com/SscSPs/loan_dashboard/internal/core/domain"
	portsrepo "github.com/SscSPs/loan_dashboard/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/loan_dashboard/internal/core/ports/services"
	"github.com/SscSPs/loan_dashboard/internal/metrics"
)

// recordStore owns the in-memory opportunity collection. Published records are
// never mutated: every change swaps in a new value under the write lock.
type recordStore struct {
	BaseService
	repo    portsrepo.OpportunityRepositoryFacade
	metrics metrics.Recorder
	clock   Clock

	mu      sync.RWMutex
	records []*domain.Opportunity
	index   map[string]int
	status  domain.LoadStatus

	loads singleflight.Group
}

// RecordStoreOption is a functional option for configuring the record store
type RecordStoreOption func(*recordStore)

// WithRecordMetrics sets the metrics recorder.
func WithRecordMetrics(rec metrics.Recorder) RecordStoreOption {
	return func(s *recordStore) {
		s.metrics = rec
	}
}

// WithRecordClock overrides the clock used for load timestamps.
func WithRecordClock(clock Clock) RecordStoreOption {
	return func(s *recordStore) {
		s.clock = clock
	}
}

// NewRecordStore creates an empty record store. Call LoadAll to populate it.
func NewRecordStore(repo portsrepo.OpportunityRepositoryFacade, options ...RecordStoreOption) portssvc.RecordStoreSvc {
	s := &recordStore{
		repo:    repo,
		metrics: metrics.Noop{},
		clock:   SystemClock{},
		index:   map[string]int{},
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// LoadAll collapses concurrent callers into a single upstream fetch. The fetch is
// detached from the caller's cancellation so one disconnecting client cannot fail
// the load for everyone waiting on it.
func (s *recordStore) LoadAll(ctx context.Context) error {
	_, err, _ := s.loads.Do("all", func() (any, error) {
		s.mu.Lock()
		s.status.Loading = true
		s.mu.Unlock()
		return nil, s.load(context.WithoutCancel(ctx))
	})
	return err
}

func (s *recordStore) load(ctx context.Context) error {
	start := s.clock.Now()
	fetched, err := s.repo.ListOpportunities(ctx)
	elapsed := s.clock.Now().Sub(start)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Loading = false

	if err != nil {
		if s.status.Loaded {
			s.status.ErrorKind = domain.LoadErrorRefresh
		} else {
			s.status.ErrorKind = domain.LoadErrorInitial
		}
		s.status.Error = err.Error()
		s.metrics.RecordLoad(false, elapsed, 0)
		s.LogError(ctx, err, "Failed to load opportunities", slog.String("error_kind", string(s.status.ErrorKind)))
		return fmt.Errorf("failed to load opportunities: %w", err)
	}

	records := make([]*domain.Opportunity, 0, len(fetched))
	index := make(map[string]int, len(fetched))
	for _, r := range fetched {
		if r == nil {
			continue
		}
		if _, dup := index[r.ID]; dup {
			s.LogWarn(ctx, "Duplicate opportunity id in collection; keeping the first", slog.String("opportunity_id", r.ID))
			continue
		}
		index[r.ID] = len(records)
		records = append(records, r)
	}

	now := s.clock.Now()
	s.records = records
	s.index = index
	s.status = domain.LoadStatus{Loaded: true, Count: len(records), LoadedAt: &now}
	s.metrics.RecordLoad(true, elapsed, len(records))
	s.LogInfo(ctx, "Opportunities loaded", slog.Int("count", len(records)), slog.Duration("elapsed", elapsed))
	return nil
}

func (s *recordStore) Snapshot() []*domain.Opportunity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.records)
}

func (s *recordStore) Status() domain.LoadStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status := s.status
	if status.LoadedAt != nil {
		at := *status.LoadedAt
		status.LoadedAt = &at
	}
	return status
}

func (s *recordStore) Get(id string) (*domain.Opportunity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.lookup(id)
	if !ok {
		return nil, fmt.Errorf("opportunity %s: %w", id, apperrors.ErrNotFound)
	}
	return r.Clone(), nil
}

// lookup must be called with mu held.
func (s *recordStore) lookup(id string) (*domain.Opportunity, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.records[i], true
}

// replace must be called with the write lock held. The slice is copied so that
// snapshots handed out earlier keep their view.
func (s *recordStore) replace(r *domain.Opportunity) {
	records := slices.Clone(s.records)
	if i, ok := s.index[r.ID]; ok {
		records[i] = r
	} else {
		s.index[r.ID] = len(records)
		records = append(records, r)
		s.status.Count = len(records)
	}
	s.records = records
}

func (s *recordStore) Reload(ctx context.Context, id string) (*domain.Opportunity, error) {
	r, err := s.repo.FindOpportunityByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload opportunity: %w", err)
	}
	s.mu.Lock()
	s.replace(r)
	s.mu.Unlock()
	return r.Clone(), nil
}

func (s *recordStore) PatchField(ctx context.Context, id string, field domain.FieldName, value any) (*domain.Opportunity, error) {
	if !domain.IsUpdatable(field) {
		return nil, fmt.Errorf("%w: field %q cannot be patched", apperrors.ErrValidation, field)
	}
	normalized, err := domain.NormalizeFieldValue(field, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	s.mu.Lock()
	current, ok := s.lookup(id)
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("opportunity %s: %w", id, apperrors.ErrNotFound)
	}
	prior, _ := current.Get(field)
	optimistic, err := current.With(field, normalized)
	if err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	s.replace(optimistic)
	pipeline := current.Pipeline
	s.mu.Unlock()

	s.metrics.RecordPatch(string(field))
	update := domain.FieldUpdates{field: normalized}
	if err := s.repo.UpdateCustomFields(context.WithoutCancel(ctx), id, pipeline, update.Wire()); err != nil {
		s.rollback(id, field, prior)
		s.metrics.RecordRollback(string(field))
		s.LogError(ctx, err, "Field patch failed; rolled back",
			slog.String("opportunity_id", id),
			slog.String("field", string(field)))
		return nil, fmt.Errorf("failed to update %s: %w", field, err)
	}

	s.LogDebug(ctx, "Field patched", slog.String("opportunity_id", id), slog.String("field", string(field)))
	return s.Get(id)
}

// rollback restores one field on whatever version of the record is current, so
// edits made to other fields while the write was in flight survive.
func (s *recordStore) rollback(id string, field domain.FieldName, prior any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.lookup(id)
	if !ok {
		return
	}
	restored, err := current.With(field, prior)
	if err != nil {
		return
	}
	s.replace(restored)
}

func (s *recordStore) ApplyUpdates(ctx context.Context, id string, updates domain.FieldUpdates, send map[string]any) (domain.UpdateResult, error) {
	for _, f := range updates.Fields() {
		if !domain.IsUpdatable(f) {
			return domain.UpdateResult{}, fmt.Errorf("%w: field %q cannot be updated", apperrors.ErrValidation, f)
		}
	}

	stored, err := s.Get(id)
	if err != nil {
		return domain.UpdateResult{}, err
	}

	diff, err := domain.DiffUpdates(stored, updates)
	if err != nil {
		return domain.UpdateResult{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if len(diff) == 0 {
		s.LogDebug(ctx, "No changes detected, skipping update", slog.String("opportunity_id", id))
		return domain.UpdateResult{Record: stored, Applied: diff, Changed: false}, nil
	}

	payload := diff.Wire()
	for k, v := range send {
		payload[k] = v
	}
	if err := s.repo.UpdateCustomFields(context.WithoutCancel(ctx), id, stored.Pipeline, payload); err != nil {
		s.LogError(ctx, err, "Update failed; nothing merged", slog.String("opportunity_id", id))
		return domain.UpdateResult{}, fmt.Errorf("failed to update opportunity: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.lookup(id)
	if !ok {
		// A refresh dropped the record while the write was in flight.
		s.LogWarn(ctx, "Opportunity left the collection during update; merge skipped", slog.String("opportunity_id", id))
		current = stored
	}
	merged, err := current.ApplyUpdates(diff)
	if err != nil {
		return domain.UpdateResult{}, fmt.Errorf("failed to merge update: %w", err)
	}
	if ok {
		s.replace(merged)
	}
	return domain.UpdateResult{Record: merged.Clone(), Applied: diff, Changed: true}, nil
}
