package dto

import (
	"time"

	"github.com/SscSPs/loan_dashboard/internal/core/domain"
	"github.com/SscSPs/loan_dashboard/internal/models"
	"github.com/SscSPs/loan_dashboard/internal/utils/mapping"
)

// OpenEditSessionRequest opens an edit session for one opportunity.
type OpenEditSessionRequest struct {
	OpportunityID string `json:"opportunityId" binding:"required"`
}

// SetFieldsRequest changes fields of the working copy.
type SetFieldsRequest struct {
	Fields map[string]any `json:"fields" binding:"required"`
}

// CloseEditSessionParams defines the query parameters of DELETE /edit-sessions/:sid.
type CloseEditSessionParams struct {
	ConfirmDiscard bool `form:"confirmDiscard"`
}

// EditSessionResponse mirrors domain.EditSession.
type EditSessionResponse struct {
	ID              string                 `json:"id"`
	OpportunityID   string                 `json:"opportunityId"`
	State           domain.EditState       `json:"state"`
	Seed            models.Opportunity     `json:"seed"`
	Working         models.Opportunity     `json:"working"`
	HasChanges      bool                   `json:"hasChanges"`
	ChangedFields   []string               `json:"changedFields"`
	AvailableStages []domain.PipelineStage `json:"availableStages"`
	Error           string                 `json:"error,omitempty"`
	SuccessVisible  bool                   `json:"successVisible"`
	OpenedAt        time.Time              `json:"openedAt"`
	LastActivity    time.Time              `json:"lastActivity"`
}

// ToEditSessionResponse converts a domain edit session.
func ToEditSessionResponse(es *domain.EditSession) EditSessionResponse {
	changed := make([]string, len(es.ChangedFields))
	for i, f := range es.ChangedFields {
		changed[i] = string(f)
	}
	stages := es.AvailableStages
	if stages == nil {
		stages = []domain.PipelineStage{}
	}
	return EditSessionResponse{
		ID:              es.ID,
		OpportunityID:   es.OpportunityID,
		State:           es.State,
		Seed:            mapping.ToModelOpportunity(es.Seed),
		Working:         mapping.ToModelOpportunity(es.Working),
		HasChanges:      es.HasChanges,
		ChangedFields:   changed,
		AvailableStages: stages,
		Error:           es.Error,
		SuccessVisible:  es.SuccessVisible,
		OpenedAt:        es.OpenedAt,
		LastActivity:    es.LastActivity,
	}
}
