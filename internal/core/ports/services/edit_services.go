package services

import (
	"context"

	"github.com/SscSPs/loan_dashboard/internal/core/domain"
)

// EditSessionSvc manages the lifecycle of edit sessions.
type EditSessionSvc interface {
	// Open seeds a new session from the stored record.
	Open(ctx context.Context, session domain.Session, opportunityID string) (*domain.EditSession, error)

	// Get returns the session as seen by identity.
	Get(sessionID, identity string) (*domain.EditSession, error)

	// Close discards the session. Unsaved changes require confirmDiscard.
	Close(sessionID, identity string, confirmDiscard bool) error
}

// EditMutatorSvc changes the working copy and persists it.
type EditMutatorSvc interface {
	// SetFields updates allow-listed fields of the working copy and recomputes HasChanges.
	SetFields(sessionID, identity string, values map[string]any) (*domain.EditSession, error)

	// Save submits the changed fields. It fails with apperrors.ErrNoChanges
	// without contacting the backend when nothing differs.
	Save(ctx context.Context, sessionID, identity string) (*domain.EditSession, error)
}

// EditSvcFacade combines all edit session interfaces.
type EditSvcFacade interface {
	EditSessionSvc
	EditMutatorSvc

	// Run expires idle sessions until ctx is done.
	Run(ctx context.Context)
}
