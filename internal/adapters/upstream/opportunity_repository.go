package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/SscSPs/loan_dashboard/internal/core/domain"
	portsrepo "github.com/SscSPs/loan_dashboard/internal/core/ports/repositories"
	"github.com/SscSPs/loan_dashboard/internal/models"
	"github.com/SscSPs/loan_dashboard/internal/utils/mapping"
)

const (
	opportunitiesPath = "/opportunities_v2/"
	updateFieldsPath  = "/update_custom_fields_v2/"
	pipelinesPath     = "/unique_pipeline_names_v2/"
)

// OpportunityRepository reads and writes opportunities through the reporting API.
type OpportunityRepository struct {
	client *Client
}

// NewOpportunityRepository creates a repository backed by client.
func NewOpportunityRepository(client *Client) *OpportunityRepository {
	return &OpportunityRepository{client: client}
}

// Ensure implementation matches interface
var _ portsrepo.OpportunityRepositoryFacade = (*OpportunityRepository)(nil)

// ListOpportunities fetches the full collection.
func (r *OpportunityRepository) ListOpportunities(ctx context.Context) ([]*domain.Opportunity, error) {
	var list models.OpportunityList
	if err := r.client.doJSON(ctx, http.MethodGet, opportunitiesPath, nil, &list); err != nil {
		return nil, fmt.Errorf("failed to list opportunities: %w", err)
	}
	return mapping.ToDomainOpportunitySlice(list), nil
}

// FindOpportunityByID fetches one opportunity.
func (r *OpportunityRepository) FindOpportunityByID(ctx context.Context, id string) (*domain.Opportunity, error) {
	var m models.Opportunity
	if err := r.client.doJSON(ctx, http.MethodGet, opportunitiesPath+url.PathEscape(id), nil, &m); err != nil {
		return nil, fmt.Errorf("failed to get opportunity %s: %w", id, err)
	}
	if m.ID == "" {
		m.ID = id
	}
	return mapping.ToDomainOpportunity(m), nil
}

// UpdateCustomFields posts a partial update for one opportunity.
func (r *OpportunityRepository) UpdateCustomFields(ctx context.Context, id, pipeline string, updates map[string]any) error {
	body := models.UpdateCustomFieldsRequest{ID: id, Pipeline: pipeline, Updates: updates}
	if err := r.client.doJSON(ctx, http.MethodPost, updateFieldsPath, body, nil); err != nil {
		return fmt.Errorf("failed to update opportunity %s: %w", id, err)
	}
	return nil
}

// ListPipelines fetches the pipeline catalog.
func (r *OpportunityRepository) ListPipelines(ctx context.Context) ([]domain.Pipeline, error) {
	var catalog models.PipelineCatalog
	if err := r.client.doJSON(ctx, http.MethodGet, pipelinesPath, nil, &catalog); err != nil {
		return nil, fmt.Errorf("failed to load pipeline stages: %w", err)
	}
	return mapping.ToDomainPipelines(catalog), nil
}
