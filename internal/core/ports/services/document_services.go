package services

import (
	"context"

	"github.com/SscSPs/loan_dashboard/internal/core/domain"
)

// TermSheetSvc manages term sheets. Results never carry unhandled errors; failures
// are reported through Success=false and Message.
type TermSheetSvc interface {
	// GetTermSheet returns the stored term sheet, or a draft prefilled from the
	// opportunity with NotFound set.
	GetTermSheet(ctx context.Context, opportunityID string) domain.DocumentResult[domain.TermSheet]
	SaveTermSheet(ctx context.Context, opportunityID string, sheet domain.TermSheet) domain.DocumentResult[domain.TermSheet]
	GenerateTermSheetPDF(ctx context.Context, opportunityID string, hasUnsavedChanges bool) domain.DocumentResult[domain.GeneratedPDF]
}

// PreApprovalSvc manages pre-qualification letters.
type PreApprovalSvc interface {
	GetPreApproval(ctx context.Context, opportunityID string) domain.DocumentResult[domain.PreApproval]
	SavePreApproval(ctx context.Context, opportunityID string, letter domain.PreApproval) domain.DocumentResult[domain.PreApproval]
	GeneratePreApprovalPDF(ctx context.Context, opportunityID string, hasUnsavedChanges bool) domain.DocumentResult[domain.GeneratedPDF]
}
