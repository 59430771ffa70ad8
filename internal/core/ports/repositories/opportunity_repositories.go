package repositories

import (
	"context"

	"github.com/SscSPs/loan_dashboard/internal/core/domain"
)

// OpportunityReader defines read operations against the opportunity backend.
type OpportunityReader interface {
	// ListOpportunities fetches the entire collection. The backend does not paginate.
	ListOpportunities(ctx context.Context) ([]*domain.Opportunity, error)

	// FindOpportunityByID fetches a single opportunity.
	FindOpportunityByID(ctx context.Context, id string) (*domain.Opportunity, error)
}

// OpportunityWriter defines write operations against the opportunity backend.
type OpportunityWriter interface {
	// UpdateCustomFields sends a partial update. updates holds wire-ready values.
	UpdateCustomFields(ctx context.Context, id, pipeline string, updates map[string]any) error
}

// PipelineReader resolves the pipeline catalog.
type PipelineReader interface {
	ListPipelines(ctx context.Context) ([]domain.Pipeline, error)
}

// OpportunityRepositoryFacade combines all opportunity-related repository interfaces.
type OpportunityRepositoryFacade interface {
	OpportunityReader
	OpportunityWriter
	PipelineReader
}
