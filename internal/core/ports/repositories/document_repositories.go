package repositories

import (
	"context"

	"github.com/SscSPs/loan_dashboard/internal/core/domain"
)

// TermSheetRepository persists term sheets. Find returns apperrors.ErrNotFound
// when the opportunity has none yet.
type TermSheetRepository interface {
	FindTermSheet(ctx context.Context, opportunityID string) (*domain.TermSheet, error)
	CreateTermSheet(ctx context.Context, opportunityID string, sheet domain.TermSheet) (*domain.TermSheet, error)
	UpdateTermSheet(ctx context.Context, opportunityID string, sheet domain.TermSheet) (*domain.TermSheet, error)
	GenerateTermSheetPDF(ctx context.Context, opportunityID string) (*domain.GeneratedPDF, error)
}

// PreApprovalRepository persists pre-qualification letters.
type PreApprovalRepository interface {
	FindPreApproval(ctx context.Context, opportunityID string) (*domain.PreApproval, error)
	CreatePreApproval(ctx context.Context, opportunityID string, letter domain.PreApproval) (*domain.PreApproval, error)
	UpdatePreApproval(ctx context.Context, opportunityID string, letter domain.PreApproval) (*domain.PreApproval, error)
	GeneratePreApprovalPDF(ctx context.Context, opportunityID string) (*domain.GeneratedPDF, error)
}

// DocumentRepositoryFacade combines the document repositories.
type DocumentRepositoryFacade interface {
	TermSheetRepository
	PreApprovalRepository
}
