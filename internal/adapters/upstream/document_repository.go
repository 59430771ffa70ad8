package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/SscSPs/loan_dashboard/internal/core/domain"
	portsrepo "github.com/SscSPs/loan_dashboard/internal/core/ports/repositories"
)

const (
	termSheetResource   = "/termdata/"
	preApprovalResource = "/pre-approvals/"
	generatePDFSuffix   = "generate_pdf/"
)

// DocumentRepository manages term sheets and pre-approvals on the document API.
type DocumentRepository struct {
	client *Client
}

// NewDocumentRepository creates a repository backed by client.
func NewDocumentRepository(client *Client) *DocumentRepository {
	return &DocumentRepository{client: client}
}

// Ensure implementation matches interface
var _ portsrepo.DocumentRepositoryFacade = (*DocumentRepository)(nil)

func resourcePath(resource, opportunityID string) string {
	return resource + url.PathEscape(opportunityID) + "/"
}

func (r *DocumentRepository) FindTermSheet(ctx context.Context, opportunityID string) (*domain.TermSheet, error) {
	var sheet domain.TermSheet
	if err := r.client.doJSON(ctx, http.MethodGet, resourcePath(termSheetResource, opportunityID), nil, &sheet); err != nil {
		return nil, fmt.Errorf("failed to fetch term sheet for %s: %w", opportunityID, err)
	}
	return &sheet, nil
}

func (r *DocumentRepository) CreateTermSheet(ctx context.Context, opportunityID string, sheet domain.TermSheet) (*domain.TermSheet, error) {
	var created domain.TermSheet
	if err := r.client.doJSON(ctx, http.MethodPost, resourcePath(termSheetResource, opportunityID), sheet, &created); err != nil {
		return nil, fmt.Errorf("failed to create term sheet for %s: %w", opportunityID, err)
	}
	return &created, nil
}

func (r *DocumentRepository) UpdateTermSheet(ctx context.Context, opportunityID string, sheet domain.TermSheet) (*domain.TermSheet, error) {
	var updated domain.TermSheet
	if err := r.client.doJSON(ctx, http.MethodPut, resourcePath(termSheetResource, opportunityID), sheet, &updated); err != nil {
		return nil, fmt.Errorf("failed to update term sheet for %s: %w", opportunityID, err)
	}
	return &updated, nil
}

func (r *DocumentRepository) GenerateTermSheetPDF(ctx context.Context, opportunityID string) (*domain.GeneratedPDF, error) {
	var pdf domain.GeneratedPDF
	path := resourcePath(termSheetResource, opportunityID) + generatePDFSuffix
	if err := r.client.doJSON(ctx, http.MethodPost, path, nil, &pdf); err != nil {
		return nil, fmt.Errorf("failed to generate term sheet PDF for %s: %w", opportunityID, err)
	}
	return &pdf, nil
}

func (r *DocumentRepository) FindPreApproval(ctx context.Context, opportunityID string) (*domain.PreApproval, error) {
	var letter domain.PreApproval
	if err := r.client.doJSON(ctx, http.MethodGet, resourcePath(preApprovalResource, opportunityID), nil, &letter); err != nil {
		return nil, fmt.Errorf("failed to fetch pre-approval for %s: %w", opportunityID, err)
	}
	return &letter, nil
}

func (r *DocumentRepository) CreatePreApproval(ctx context.Context, opportunityID string, letter domain.PreApproval) (*domain.PreApproval, error) {
	var created domain.PreApproval
	if err := r.client.doJSON(ctx, http.MethodPost, resourcePath(preApprovalResource, opportunityID), letter, &created); err != nil {
		return nil, fmt.Errorf("failed to create pre-approval for %s: %w", opportunityID, err)
	}
	return &created, nil
}

func (r *DocumentRepository) UpdatePreApproval(ctx context.Context, opportunityID string, letter domain.PreApproval) (*domain.PreApproval, error) {
	var updated domain.PreApproval
	if err := r.client.doJSON(ctx, http.MethodPut, resourcePath(preApprovalResource, opportunityID), letter, &updated); err != nil {
		return nil, fmt.Errorf("failed to update pre-approval for %s: %w", opportunityID, err)
	}
	return &updated, nil
}

func (r *DocumentRepository) GeneratePreApprovalPDF(ctx context.Context, opportunityID string) (*domain.GeneratedPDF, error) {
	var pdf domain.GeneratedPDF
	path := resourcePath(preApprovalResource, opportunityID) + generatePDFSuffix
	if err := r.client.doJSON(ctx, http.MethodPost, path, nil, &pdf); err != nil {
		return nil, fmt.Errorf("failed to generate pre-approval PDF for %s: %w", opportunityID, err)
	}
	return &pdf, nil
}
