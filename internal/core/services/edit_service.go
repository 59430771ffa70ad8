package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/loan_dashboard/internal/apperrors"
	"github.com/SscSPs/loan_dashboard/internal/core/domain"
	portsrepo "github.com/SscSPs/loan_dashboard/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/loan_dashboard/internal/core/ports/services"
	"github.com/SscSPs/loan_dashboard/internal/metrics"
)

const (
	noChangesMessage      = "No changes detected. Please make changes before saving."
	stagesFailedMessage   = "Failed to load pipeline stages."
	saveFailedMessage     = "Failed to save changes"
	sessionClosedMessage  = "The edit session was closed"
	defaultSessionTTL     = 30 * time.Minute
	defaultSuccessDisplay = 3 * time.Second
)

// editSession is the mutable, lock-protected state behind a domain.EditSession.
type editSession struct {
	view        domain.EditSession
	successSeq  int
	successStop Stopper
}

type editService struct {
	BaseService
	records   portssvc.RecordStoreSvc
	pipelines portsrepo.PipelineReader
	metrics   metrics.Recorder
	clock     Clock

	ttl             time.Duration
	successDisplay  time.Duration
	janitorInterval time.Duration

	mu       sync.Mutex
	sessions map[string]*editSession
}

// EditOption is a functional option for configuring the edit service
type EditOption func(*editService)

// WithEditClock overrides the clock.
func WithEditClock(clock Clock) EditOption {
	return func(s *editService) {
		s.clock = clock
	}
}

// WithEditMetrics sets the metrics recorder.
func WithEditMetrics(rec metrics.Recorder) EditOption {
	return func(s *editService) {
		s.metrics = rec
	}
}

// WithSessionTTL sets how long an idle session survives.
func WithSessionTTL(ttl time.Duration) EditOption {
	return func(s *editService) {
		s.ttl = ttl
	}
}

// WithSuccessDisplay sets how long the success indicator stays visible.
func WithSuccessDisplay(d time.Duration) EditOption {
	return func(s *editService) {
		s.successDisplay = d
	}
}

// WithJanitorInterval sets how often idle sessions are swept.
func WithJanitorInterval(d time.Duration) EditOption {
	return func(s *editService) {
		s.janitorInterval = d
	}
}

// NewEditService creates the edit coordinator.
func NewEditService(records portssvc.RecordStoreSvc, pipelines portsrepo.PipelineReader, options ...EditOption) portssvc.EditSvcFacade {
	s := &editService{
		records:        records,
		pipelines:      pipelines,
		metrics:        metrics.Noop{},
		clock:          SystemClock{},
		ttl:            defaultSessionTTL,
		successDisplay: defaultSuccessDisplay,
		sessions:       map[string]*editSession{},
	}
	for _, option := range options {
		option(s)
	}
	if s.janitorInterval <= 0 {
		s.janitorInterval = min(s.ttl/2, time.Minute)
	}
	return s
}

func (s *editService) Open(ctx context.Context, session domain.Session, opportunityID string) (*domain.EditSession, error) {
	if !session.Permission.CanEdit {
		return nil, fmt.Errorf("%w: view-only access", apperrors.ErrForbidden)
	}
	record, err := s.records.Get(opportunityID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	es := &editSession{view: domain.EditSession{
		ID:            uuid.NewString(),
		OpportunityID: opportunityID,
		Identity:      session.Identity,
		State:         domain.EditEditing,
		Seed:          record,
		Working:       record.Clone(),
		ChangedFields: []domain.FieldName{},
		OpenedAt:      now,
		LastActivity:  now,
	}}

	if stages, err := s.stagesFor(ctx, record.Pipeline); err != nil {
		s.LogError(ctx, err, "Failed to load pipeline stages for edit session", slog.String("opportunity_id", opportunityID))
		es.view.Error = stagesFailedMessage
	} else {
		es.view.AvailableStages = stages
	}

	s.mu.Lock()
	s.sessions[es.view.ID] = es
	out := copySession(es)
	s.mu.Unlock()

	s.LogInfo(ctx, "Edit session opened",
		slog.String("edit_session_id", es.view.ID),
		slog.String("opportunity_id", opportunityID))
	return out, nil
}

func (s *editService) stagesFor(ctx context.Context, pipeline string) ([]domain.PipelineStage, error) {
	pipelines, err := s.pipelines.ListPipelines(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := domain.FindPipeline(pipelines, pipeline)
	if !ok {
		return []domain.PipelineStage{}, nil
	}
	return slices.Clone(p.Stages), nil
}

// find must be called with mu held. Sessions belonging to someone else are reported
// as missing.
func (s *editService) find(sessionID, identity string) (*editSession, error) {
	es, ok := s.sessions[sessionID]
	if !ok || es.view.Identity != identity {
		return nil, fmt.Errorf("edit session %s: %w", sessionID, apperrors.ErrNotFound)
	}
	return es, nil
}

func (s *editService) Get(sessionID, identity string) (*domain.EditSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	es, err := s.find(sessionID, identity)
	if err != nil {
		return nil, err
	}
	es.view.LastActivity = s.clock.Now()
	return copySession(es), nil
}

func (s *editService) SetFields(sessionID, identity string, values map[string]any) (*domain.EditSession, error) {
	normalized := make(domain.FieldUpdates, len(values))
	for k, v := range values {
		f := domain.FieldName(k)
		if !domain.IsEditable(f) {
			return nil, fmt.Errorf("%w: field %q is not editable", apperrors.ErrValidation, k)
		}
		nv, err := domain.NormalizeFieldValue(f, v)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		normalized[f] = nv
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	es, err := s.find(sessionID, identity)
	if err != nil {
		return nil, err
	}
	if es.view.State == domain.EditSaving {
		return nil, apperrors.NewAppError(http.StatusConflict, "A save is in progress", apperrors.ErrConflict)
	}

	working, err := es.view.Working.ApplyUpdates(normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	es.view.Working = working
	es.view.State = domain.EditEditing
	if es.view.Error != stagesFailedMessage {
		es.view.Error = ""
	}
	es.view.LastActivity = s.clock.Now()
	s.recompute(es)
	return copySession(es), nil
}

// recompute must be called with mu held.
func (s *editService) recompute(es *editSession) {
	changed := domain.ChangedEditableFields(es.view.Seed, es.view.Working)
	es.view.ChangedFields = changed.Fields()
	es.view.HasChanges = len(changed) > 0
}

func (s *editService) Save(ctx context.Context, sessionID, identity string) (*domain.EditSession, error) {
	s.mu.Lock()
	es, err := s.find(sessionID, identity)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if es.view.State == domain.EditSaving {
		s.mu.Unlock()
		return nil, apperrors.NewAppError(http.StatusConflict, "A save is already in progress", apperrors.ErrConflict)
	}
	changed := domain.ChangedEditableFields(es.view.Seed, es.view.Working)
	if len(changed) == 0 {
		out := copySession(es)
		s.mu.Unlock()
		s.metrics.RecordSave(metrics.SaveNoChanges)
		return out, apperrors.NewAppError(http.StatusBadRequest, noChangesMessage, apperrors.ErrNoChanges)
	}
	es.view.State = domain.EditSaving
	es.view.Error = ""
	es.view.LastActivity = s.clock.Now()
	opportunityID := es.view.OpportunityID
	pipeline := es.view.Working.Pipeline
	s.mu.Unlock()

	send := map[string]any{}
	if stage, ok := changed[domain.FieldPipelineStage]; ok {
		id, found := s.resolveStageID(ctx, pipeline, stage.(string))
		if found {
			send[string(domain.FieldPipelineStageID)] = id
		} else {
			s.LogWarn(ctx, "Pipeline stage not found; dropping it from the update",
				slog.String("opportunity_id", opportunityID),
				slog.String("pipeline", pipeline),
				slog.Any("pipeline_stage", stage))
			delete(changed, domain.FieldPipelineStage)
		}
	}

	var result domain.UpdateResult
	if len(changed) > 0 {
		result, err = s.records.ApplyUpdates(context.WithoutCancel(ctx), opportunityID, changed, send)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	es, ok := s.sessions[sessionID]
	if !ok {
		// Closed while saving: the store already reflects the outcome.
		return nil, apperrors.NewAppError(http.StatusNotFound, sessionClosedMessage, apperrors.ErrNotFound)
	}
	es.view.LastActivity = s.clock.Now()

	switch {
	case err != nil:
		es.view.State = domain.EditFailed
		es.view.Error = fmt.Sprintf("%s: %s", saveFailedMessage, userMessage(err))
		s.metrics.RecordSave(metrics.SaveFailed)
		s.LogError(ctx, err, "Edit session save failed", slog.String("edit_session_id", sessionID))
		return copySession(es), fmt.Errorf("%s: %w", saveFailedMessage, err)
	case !result.Changed:
		es.view.State = domain.EditEditing
		s.metrics.RecordSave(metrics.SaveNoChanges)
		return copySession(es), apperrors.NewAppError(http.StatusBadRequest, noChangesMessage, apperrors.ErrNoChanges)
	}

	es.view.Seed = result.Record
	es.view.Working = result.Record.Clone()
	es.view.State = domain.EditSaved
	s.recompute(es)
	s.showSuccess(sessionID, es)
	s.metrics.RecordSave(metrics.SaveSucceeded)
	s.LogInfo(ctx, "Edit session saved",
		slog.String("edit_session_id", sessionID),
		slog.Any("fields", result.Applied.Fields()))
	return copySession(es), nil
}

// resolveStageID looks the stage name up in a freshly fetched catalog. A failed
// fetch counts as no match.
func (s *editService) resolveStageID(ctx context.Context, pipeline, stage string) (string, bool) {
	pipelines, err := s.pipelines.ListPipelines(ctx)
	if err != nil {
		s.LogError(ctx, err, stagesFailedMessage, slog.String("pipeline", pipeline))
		return "", false
	}
	p, ok := domain.FindPipeline(pipelines, pipeline)
	if !ok {
		return "", false
	}
	st, ok := p.StageByName(stage)
	return st.ID, ok
}

// showSuccess must be called with mu held. The indicator clears on its own even
// if the session is closed in the meantime.
func (s *editService) showSuccess(sessionID string, es *editSession) {
	if es.successStop != nil {
		es.successStop.Stop()
	}
	es.successSeq++
	seq := es.successSeq
	es.view.SuccessVisible = true
	es.successStop = s.clock.AfterFunc(s.successDisplay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if current, ok := s.sessions[sessionID]; ok && current.successSeq == seq {
			current.view.SuccessVisible = false
		}
	})
}

func (s *editService) Close(sessionID, identity string, confirmDiscard bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	es, err := s.find(sessionID, identity)
	if err != nil {
		return err
	}
	if es.view.HasChanges && !confirmDiscard {
		return apperrors.NewAppError(http.StatusConflict,
			"You have unsaved changes. Confirm to discard them.", apperrors.ErrUnsavedChanges)
	}
	delete(s.sessions, sessionID)
	return nil
}

// Run sweeps idle sessions until ctx is done.
func (s *editService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.expireIdle(); n > 0 {
				s.LogInfo(ctx, "Expired idle edit sessions", slog.Int("count", n))
			}
		}
	}
}

func (s *editService) expireIdle() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	expired := 0
	for id, es := range s.sessions {
		if es.view.State == domain.EditSaving {
			continue
		}
		if now.Sub(es.view.LastActivity) > s.ttl {
			delete(s.sessions, id)
			expired++
		}
	}
	return expired
}

func copySession(es *editSession) *domain.EditSession {
	v := es.view
	v.Seed = es.view.Seed.Clone()
	v.Working = es.view.Working.Clone()
	v.ChangedFields = slices.Clone(es.view.ChangedFields)
	v.AvailableStages = slices.Clone(es.view.AvailableStages)
	return &v
}

// userMessage prefers the message of an AppError in the chain.
func userMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
