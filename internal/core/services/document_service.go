package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/SscSPs/loan_dashboard/internal/apperrors"
	"github.com/SscSPs/loan_dashboard/internal/core/domain"
	portsrepo "github.com/SscSPs/loan_dashboard/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/loan_dashboard/internal/core/ports/services"
	"github.com/SscSPs/loan_dashboard/internal/metrics"
	"github.com/SscSPs/loan_dashboard/internal/models"
)

const (
	kindTermSheet   = "term_sheet"
	kindPreApproval = "pre_approval"

	missingOpportunityMessage = "Missing opportunity ID"
	unsavedChangesPDFMessage  = "Please save your changes before generating a PDF"
	termSheetNotSavedMessage  = "Please save the term sheet before generating a PDF."
	preApprovalNotSavedMsg    = "Please save the pre-qualification letter first before generating a PDF."
	pdfGeneratedMessage       = "PDF generated successfully"
)

// DocumentService implements both document services over the document API.
type DocumentService struct {
	BaseService
	repo     portsrepo.DocumentRepositoryFacade
	records  portssvc.RecordReaderSvc
	validate *validator.Validate
	metrics  metrics.Recorder
	clock    Clock
}

// DocumentOption is a functional option for configuring the document service
type DocumentOption func(*DocumentService)

// WithDocumentMetrics sets the metrics recorder.
func WithDocumentMetrics(rec metrics.Recorder) DocumentOption {
	return func(s *DocumentService) {
		s.metrics = rec
	}
}

// WithDocumentClock overrides the clock used for default dates.
func WithDocumentClock(clock Clock) DocumentOption {
	return func(s *DocumentService) {
		s.clock = clock
	}
}

// NewDocumentService creates the document service. records supplies the
// opportunity values used to prefill new documents.
func NewDocumentService(repo portsrepo.DocumentRepositoryFacade, records portssvc.RecordReaderSvc, options ...DocumentOption) *DocumentService {
	s := &DocumentService{
		repo:     repo,
		records:  records,
		validate: NewDocumentValidator(),
		metrics:  metrics.Noop{},
		clock:    SystemClock{},
	}
	for _, option := range options {
		option(s)
	}
	return s
}

var (
	_ portssvc.TermSheetSvc   = (*DocumentService)(nil)
	_ portssvc.PreApprovalSvc = (*DocumentService)(nil)
)

// NewDocumentValidator returns a validator that reports fields by their JSON name
// and understands the "money" tag: a number, optionally formatted with $ and commas.
func NewDocumentValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		_, err := models.ParseMoney(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(fmt.Sprintf("failed to register money validation: %v", err))
	}
	return v
}

var titleCaser = cases.Title(language.English)

// fieldLabel turns "loan_amount" into "Loan Amount".
func fieldLabel(jsonName string) string {
	return titleCaser.String(strings.ReplaceAll(jsonName, "_", " "))
}

func (s *DocumentService) validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	label := fieldLabel(fe.Field())
	switch fe.Tag() {
	case "money":
		return label + " must be a valid number"
	case "datetime":
		return label + " must be a valid date (YYYY-MM-DD)"
	}
	return fmt.Sprintf("%s is invalid", label)
}

// normalizeMoney strips currency formatting. Empty amounts become emptyAs.
func normalizeMoney(v domain.FlexString, emptyAs string) domain.FlexString {
	cleaned := strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(string(v)))
	if cleaned == "" {
		return domain.FlexString(emptyAs)
	}
	return domain.FlexString(cleaned)
}

func moneyString(d domain.Opportunity) domain.FlexString {
	if !d.MonetaryValue.Valid {
		return ""
	}
	return domain.FlexString(d.MonetaryValue.Decimal.String())
}

func failure[T any](message string, err error) domain.DocumentResult[T] {
	return domain.DocumentResult[T]{Success: false, Message: message, Err: err}
}

func upstreamMessage(prefix string, err error) string {
	return prefix + ": " + userMessage(err)
}

// ---- term sheets ----

// DraftTermSheet prefills a term sheet from the stored opportunity.
func (s *DocumentService) DraftTermSheet(opportunityID string) domain.TermSheet {
	draft := domain.TermSheet{
		Opportunity:         domain.OpportunityRef(opportunityID),
		AdditionalLiquidity: "N/A",
	}
	if o, err := s.records.Get(opportunityID); err == nil {
		draft.Borrower = o.Name
		draft.PropertyAddress = o.OpportunityName
		draft.LoanType = o.LoanType
		draft.LoanAmount = moneyString(*o)
	}
	return draft
}

func (s *DocumentService) GetTermSheet(ctx context.Context, opportunityID string) domain.DocumentResult[domain.TermSheet] {
	if opportunityID == "" {
		return failure[domain.TermSheet](missingOpportunityMessage, apperrors.ErrValidation)
	}
	sheet, err := s.repo.FindTermSheet(ctx, opportunityID)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		draft := s.DraftTermSheet(opportunityID)
		return domain.DocumentResult[domain.TermSheet]{Success: false, NotFound: true, Data: &draft, Message: "No term sheet found"}
	case err != nil:
		s.metrics.RecordDocumentCall(kindTermSheet, "get", false)
		s.LogError(ctx, err, "Error fetching term sheet", slog.String("opportunity_id", opportunityID))
		return failure[domain.TermSheet](upstreamMessage("Error fetching term sheet", err), err)
	}
	s.metrics.RecordDocumentCall(kindTermSheet, "get", true)
	return domain.DocumentResult[domain.TermSheet]{Success: true, Data: sheet}
}

var termSheetMoneyFields = []func(*domain.TermSheet) *domain.FlexString{
	func(t *domain.TermSheet) *domain.FlexString { return &t.LoanAmount },
	func(t *domain.TermSheet) *domain.FlexString { return &t.LoanToValue },
	func(t *domain.TermSheet) *domain.FlexString { return &t.AsIsValue },
	func(t *domain.TermSheet) *domain.FlexString { return &t.RehabCost },
	func(t *domain.TermSheet) *domain.FlexString { return &t.AfterRepairedValue },
	func(t *domain.TermSheet) *domain.FlexString { return &t.InterestRate },
	func(t *domain.TermSheet) *domain.FlexString { return &t.MonthlyPayment },
	func(t *domain.TermSheet) *domain.FlexString { return &t.OriginationCost },
	func(t *domain.TermSheet) *domain.FlexString { return &t.LenderFee },
	func(t *domain.TermSheet) *domain.FlexString { return &t.ProcessingFee },
	func(t *domain.TermSheet) *domain.FlexString { return &t.CashToFromBorrower },
	func(t *domain.TermSheet) *domain.FlexString { return &t.FicoScore },
	func(t *domain.TermSheet) *domain.FlexString { return &t.FairMarketRent },
	func(t *domain.TermSheet) *domain.FlexString { return &t.AnnualTaxes },
	func(t *domain.TermSheet) *domain.FlexString { return &t.AnnualInsurance },
	func(t *domain.TermSheet) *domain.FlexString { return &t.AnnualFloodInsurance },
	func(t *domain.TermSheet) *domain.FlexString { return &t.AnnualHoaDues },
	func(t *domain.TermSheet) *domain.FlexString { return &t.CurrentDscr },
}

func (s *DocumentService) SaveTermSheet(ctx context.Context, opportunityID string, sheet domain.TermSheet) domain.DocumentResult[domain.TermSheet] {
	if opportunityID == "" {
		return failure[domain.TermSheet](missingOpportunityMessage, apperrors.ErrValidation)
	}
	if err := s.validate.Struct(sheet); err != nil {
		msg := s.validationMessage(err)
		return failure[domain.TermSheet](msg, fmt.Errorf("%w: %s", apperrors.ErrValidation, msg))
	}
	for _, field := range termSheetMoneyFields {
		p := field(&sheet)
		*p = normalizeMoney(*p, "0")
	}
	sheet.Opportunity = domain.OpportunityRef(opportunityID)

	_, err := s.repo.FindTermSheet(ctx, opportunityID)
	switch {
	case err == nil:
		updated, err := s.repo.UpdateTermSheet(ctx, opportunityID, sheet)
		if err != nil {
			s.metrics.RecordDocumentCall(kindTermSheet, "update", false)
			s.LogError(ctx, err, "Error updating term sheet", slog.String("opportunity_id", opportunityID))
			return failure[domain.TermSheet](upstreamMessage("Error updating term sheet", err), err)
		}
		s.metrics.RecordDocumentCall(kindTermSheet, "update", true)
		return domain.DocumentResult[domain.TermSheet]{Success: true, Data: updated, Message: "Term sheet updated successfully!"}
	case errors.Is(err, apperrors.ErrNotFound):
		created, err := s.repo.CreateTermSheet(ctx, opportunityID, sheet)
		if err != nil {
			s.metrics.RecordDocumentCall(kindTermSheet, "create", false)
			s.LogError(ctx, err, "Error creating term sheet", slog.String("opportunity_id", opportunityID))
			return failure[domain.TermSheet](upstreamMessage("Failed to create term sheet", err), err)
		}
		s.metrics.RecordDocumentCall(kindTermSheet, "create", true)
		return domain.DocumentResult[domain.TermSheet]{Success: true, Data: created, Message: "Term sheet created successfully!"}
	default:
		s.LogError(ctx, err, "Error checking for existing term sheet", slog.String("opportunity_id", opportunityID))
		return failure[domain.TermSheet](upstreamMessage("Error fetching term sheet", err), err)
	}
}

func (s *DocumentService) GenerateTermSheetPDF(ctx context.Context, opportunityID string, hasUnsavedChanges bool) domain.DocumentResult[domain.GeneratedPDF] {
	return s.generatePDF(ctx, kindTermSheet, opportunityID, hasUnsavedChanges, termSheetNotSavedMessage,
		func(ctx context.Context) error {
			_, err := s.repo.FindTermSheet(ctx, opportunityID)
			return err
		},
		s.repo.GenerateTermSheetPDF)
}

// ---- pre-approvals ----

// DraftPreApproval prefills a pre-qualification letter from the stored opportunity.
func (s *DocumentService) DraftPreApproval(opportunityID string) domain.PreApproval {
	draft := domain.PreApproval{
		Opportunity: domain.OpportunityRef(opportunityID),
		Date:        domain.DateOf(s.clock.Now()).String(),
		LoanTerm:    "Months",
		RateAPR:     "Floating",
		Occupancy:   "Months",
	}
	if o, err := s.records.Get(opportunityID); err == nil {
		draft.LLCName = o.BusinessName
		draft.Applicant = o.BusinessName
		draft.Address = o.OpportunityName
		draft.LoanType = o.LoanType
		draft.LoanAmount = moneyString(*o)
		draft.AssignedTo = o.AssignedUser
	}
	return draft
}

func (s *DocumentService) GetPreApproval(ctx context.Context, opportunityID string) domain.DocumentResult[domain.PreApproval] {
	if opportunityID == "" {
		return failure[domain.PreApproval](missingOpportunityMessage, apperrors.ErrValidation)
	}
	letter, err := s.repo.FindPreApproval(ctx, opportunityID)
	if err == nil && letter.Opportunity != "" && !letter.Opportunity.Matches(opportunityID) {
		s.LogWarn(ctx, "Pre-approval belongs to another opportunity",
			slog.String("opportunity_id", opportunityID),
			slog.String("returned_opportunity", string(letter.Opportunity)))
		err = fmt.Errorf("pre-approval for %s: %w", opportunityID, apperrors.ErrNotFound)
	}
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		draft := s.DraftPreApproval(opportunityID)
		return domain.DocumentResult[domain.PreApproval]{Success: false, NotFound: true, Data: &draft, Message: "No pre-approval data found for this opportunity."}
	case err != nil:
		s.metrics.RecordDocumentCall(kindPreApproval, "get", false)
		s.LogError(ctx, err, "Failed to fetch pre-approval data", slog.String("opportunity_id", opportunityID))
		return failure[domain.PreApproval](upstreamMessage("Failed to fetch pre-approval data", err), err)
	}
	s.metrics.RecordDocumentCall(kindPreApproval, "get", true)
	return domain.DocumentResult[domain.PreApproval]{Success: true, Data: letter}
}

func (s *DocumentService) SavePreApproval(ctx context.Context, opportunityID string, letter domain.PreApproval) domain.DocumentResult[domain.PreApproval] {
	if opportunityID == "" {
		return failure[domain.PreApproval](missingOpportunityMessage, apperrors.ErrValidation)
	}
	if err := s.validate.Struct(letter); err != nil {
		msg := s.validationMessage(err)
		return failure[domain.PreApproval](msg, fmt.Errorf("%w: %s", apperrors.ErrValidation, msg))
	}
	letter.PurchasePrice = normalizeMoney(letter.PurchasePrice, "")
	letter.LoanAmount = normalizeMoney(letter.LoanAmount, "")
	letter.Opportunity = domain.OpportunityRef(opportunityID)

	_, err := s.repo.FindPreApproval(ctx, opportunityID)
	var (
		saved     *domain.PreApproval
		operation string
		message   string
	)
	switch {
	case err == nil:
		operation, message = "update", "Pre-approval updated successfully."
		saved, err = s.repo.UpdatePreApproval(ctx, opportunityID, letter)
	case errors.Is(err, apperrors.ErrNotFound):
		operation, message = "create", "Pre-approval created successfully."
		saved, err = s.repo.CreatePreApproval(ctx, opportunityID, letter)
	default:
		operation = "check"
	}
	if err != nil {
		s.metrics.RecordDocumentCall(kindPreApproval, operation, false)
		s.LogError(ctx, err, "Error saving pre-approval data", slog.String("opportunity_id", opportunityID))
		return failure[domain.PreApproval](upstreamMessage("Failed to save pre-approval data", err), err)
	}
	s.metrics.RecordDocumentCall(kindPreApproval, operation, true)
	return domain.DocumentResult[domain.PreApproval]{Success: true, Data: saved, Message: message}
}

func (s *DocumentService) GeneratePreApprovalPDF(ctx context.Context, opportunityID string, hasUnsavedChanges bool) domain.DocumentResult[domain.GeneratedPDF] {
	return s.generatePDF(ctx, kindPreApproval, opportunityID, hasUnsavedChanges, preApprovalNotSavedMsg,
		func(ctx context.Context) error {
			_, err := s.repo.FindPreApproval(ctx, opportunityID)
			return err
		},
		s.repo.GeneratePreApprovalPDF)
}

// generatePDF enforces the preconditions shared by both document kinds: no unsaved
// changes, and a document that has been saved at least once.
func (s *DocumentService) generatePDF(
	ctx context.Context,
	kind, opportunityID string,
	hasUnsavedChanges bool,
	notSavedMessage string,
	exists func(context.Context) error,
	generate func(context.Context, string) (*domain.GeneratedPDF, error),
) domain.DocumentResult[domain.GeneratedPDF] {
	if opportunityID == "" {
		return failure[domain.GeneratedPDF](missingOpportunityMessage, apperrors.ErrValidation)
	}
	if hasUnsavedChanges {
		return failure[domain.GeneratedPDF](unsavedChangesPDFMessage, apperrors.ErrPrecondition)
	}
	if err := exists(ctx); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return failure[domain.GeneratedPDF](notSavedMessage, apperrors.ErrPrecondition)
		}
		s.LogError(ctx, err, "Error checking document before PDF generation", slog.String("kind", kind))
		return failure[domain.GeneratedPDF](upstreamMessage("Failed to generate PDF", err), err)
	}

	pdf, err := generate(ctx, opportunityID)
	if err != nil {
		s.metrics.RecordDocumentCall(kind, "generate_pdf", false)
		s.LogError(ctx, err, "Error generating PDF", slog.String("kind", kind), slog.String("opportunity_id", opportunityID))
		return failure[domain.GeneratedPDF](upstreamMessage("Failed to generate PDF", err), err)
	}
	s.metrics.RecordDocumentCall(kind, "generate_pdf", true)
	message := pdf.Message
	if message == "" {
		message = pdfGeneratedMessage
	}
	return domain.DocumentResult[domain.GeneratedPDF]{Success: true, Data: pdf, Message: message}
}
