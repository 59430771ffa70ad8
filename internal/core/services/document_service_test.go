package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/loan_dashboard/internal/apperrors"
	"github.com/SscSPs/loan_dashboard/internal/core/domain"
	portssvc "github.com/SscSPs/loan_dashboard/internal/core/ports/services"
	"github.com/SscSPs/loan_dashboard/internal/core/services"
)

type DocumentServiceTestSuite struct {
	suite.Suite
	opps  *MockOpportunityRepository
	docs  *MockDocumentRepository
	store portssvc.RecordStoreSvc
	svc   *services.DocumentService
	ctx   context.Context
}

func (s *DocumentServiceTestSuite) SetupTest() {
	s.opps = new(MockOpportunityRepository)
	s.docs = new(MockDocumentRepository)
	s.ctx = context.Background()

	records := sampleRecords()
	records[0].MonetaryValue = decimal.NewNullDecimal(decimal.RequireFromString("250000"))
	s.opps.On("ListOpportunities", mock.Anything).Return(records, nil).Once()
	s.store = services.NewRecordStore(s.opps)
	s.Require().NoError(s.store.LoadAll(s.ctx))

	s.svc = services.NewDocumentService(s.docs, s.store, services.WithDocumentClock(newFakeClock()))
}

func TestDocumentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DocumentServiceTestSuite))
}

func (s *DocumentServiceTestSuite) TestGetTermSheet_Found() {
	sheet := &domain.TermSheet{ID: "7", Opportunity: "opp-1", Borrower: "Jane"}
	s.docs.On("FindTermSheet", mock.Anything, "opp-1").Return(sheet, nil).Once()

	res := s.svc.GetTermSheet(s.ctx, "opp-1")

	s.True(res.Success)
	s.False(res.NotFound)
	s.Equal(sheet, res.Data)
}

func (s *DocumentServiceTestSuite) TestGetTermSheet_NotFoundReturnsDraft() {
	s.docs.On("FindTermSheet", mock.Anything, "opp-1").Return(nil, apperrors.ErrNotFound).Once()

	res := s.svc.GetTermSheet(s.ctx, "opp-1")

	s.False(res.Success)
	s.True(res.NotFound)
	s.Equal("No term sheet found", res.Message)
	s.Require().NotNil(res.Data)
	s.Equal("Jane Borrower", res.Data.Borrower)
	s.Equal("12 Elm St", res.Data.PropertyAddress)
	s.Equal("Fix & Flip", res.Data.LoanType)
	s.Equal(domain.FlexString("250000"), res.Data.LoanAmount)
	s.Equal("N/A", res.Data.AdditionalLiquidity)
}

func (s *DocumentServiceTestSuite) TestGetTermSheet_UpstreamError() {
	s.docs.On("FindTermSheet", mock.Anything, "opp-1").Return(nil, apperrors.ErrUpstream).Once()

	res := s.svc.GetTermSheet(s.ctx, "opp-1")

	s.False(res.Success)
	s.False(res.NotFound)
	s.Contains(res.Message, "Error fetching term sheet")
	s.ErrorIs(res.Err, apperrors.ErrUpstream)
}

func (s *DocumentServiceTestSuite) TestGetTermSheet_MissingID() {
	res := s.svc.GetTermSheet(s.ctx, "")
	s.Equal("Missing opportunity ID", res.Message)
	s.ErrorIs(res.Err, apperrors.ErrValidation)
}

func (s *DocumentServiceTestSuite) TestSaveTermSheet_CreatesWithNormalizedMoney() {
	s.docs.On("FindTermSheet", mock.Anything, "opp-1").Return(nil, apperrors.ErrNotFound).Once()
	s.docs.On("CreateTermSheet", mock.Anything, "opp-1", mock.MatchedBy(func(t domain.TermSheet) bool {
		return t.LoanAmount == "1250000" && t.RehabCost == "0" && t.Opportunity == "opp-1"
	})).Return(&domain.TermSheet{ID: "9", Opportunity: "opp-1"}, nil).Once()

	res := s.svc.SaveTermSheet(s.ctx, "opp-1", domain.TermSheet{LoanAmount: "$1,250,000"})

	s.True(res.Success)
	s.Equal("Term sheet created successfully!", res.Message)
	s.docs.AssertExpectations(s.T())
}

func (s *DocumentServiceTestSuite) TestSaveTermSheet_UpdatesExisting() {
	s.docs.On("FindTermSheet", mock.Anything, "opp-1").Return(&domain.TermSheet{ID: "9"}, nil).Once()
	s.docs.On("UpdateTermSheet", mock.Anything, "opp-1", mock.Anything).
		Return(&domain.TermSheet{ID: "9", Opportunity: "opp-1"}, nil).Once()

	res := s.svc.SaveTermSheet(s.ctx, "opp-1", domain.TermSheet{Borrower: "Jane"})

	s.True(res.Success)
	s.Equal("Term sheet updated successfully!", res.Message)
	s.docs.AssertNotCalled(s.T(), "CreateTermSheet", mock.Anything, mock.Anything, mock.Anything)
}

func (s *DocumentServiceTestSuite) TestSaveTermSheet_InvalidMoney() {
	res := s.svc.SaveTermSheet(s.ctx, "opp-1", domain.TermSheet{LoanAmount: "lots"})

	s.False(res.Success)
	s.Equal("Loan Amount must be a valid number", res.Message)
	s.ErrorIs(res.Err, apperrors.ErrValidation)
	s.docs.AssertNotCalled(s.T(), "FindTermSheet", mock.Anything, mock.Anything)
}

func (s *DocumentServiceTestSuite) TestGenerateTermSheetPDF_Preconditions() {
	res := s.svc.GenerateTermSheetPDF(s.ctx, "opp-1", true)
	s.Equal("Please save your changes before generating a PDF", res.Message)
	s.ErrorIs(res.Err, apperrors.ErrPrecondition)

	s.docs.On("FindTermSheet", mock.Anything, "opp-1").Return(nil, apperrors.ErrNotFound).Once()
	res = s.svc.GenerateTermSheetPDF(s.ctx, "opp-1", false)
	s.Equal("Please save the term sheet before generating a PDF.", res.Message)
	s.ErrorIs(res.Err, apperrors.ErrPrecondition)

	s.docs.AssertNotCalled(s.T(), "GenerateTermSheetPDF", mock.Anything, mock.Anything)
}

func (s *DocumentServiceTestSuite) TestGenerateTermSheetPDF_Success() {
	s.docs.On("FindTermSheet", mock.Anything, "opp-1").Return(&domain.TermSheet{ID: "9"}, nil).Once()
	s.docs.On("GenerateTermSheetPDF", mock.Anything, "opp-1").
		Return(&domain.GeneratedPDF{PDFURL: "https://files.example.com/ts.pdf"}, nil).Once()

	res := s.svc.GenerateTermSheetPDF(s.ctx, "opp-1", false)

	s.True(res.Success)
	s.Equal("PDF generated successfully", res.Message)
	s.Equal("https://files.example.com/ts.pdf", res.Data.PDFURL)
}

func (s *DocumentServiceTestSuite) TestGetPreApproval_DraftDefaults() {
	s.docs.On("FindPreApproval", mock.Anything, "opp-1").Return(nil, apperrors.ErrNotFound).Once()

	res := s.svc.GetPreApproval(s.ctx, "opp-1")

	s.True(res.NotFound)
	s.Equal("No pre-approval data found for this opportunity.", res.Message)
	s.Require().NotNil(res.Data)
	s.Equal("Elm Holdings LLC", res.Data.LLCName)
	s.Equal("Elm Holdings LLC", res.Data.Applicant)
	s.Equal("12 Elm St", res.Data.Address)
	s.Equal("Ann", res.Data.AssignedTo)
	s.Equal("Months", res.Data.LoanTerm)
	s.Equal(domain.FlexString("Floating"), res.Data.RateAPR)
	s.Equal("2024-03-15", res.Data.Date)
}

func (s *DocumentServiceTestSuite) TestGetPreApproval_OtherOpportunityTreatedAsMissing() {
	s.docs.On("FindPreApproval", mock.Anything, "opp-1").
		Return(&domain.PreApproval{ID: "3", Opportunity: "opp-9"}, nil).Once()

	res := s.svc.GetPreApproval(s.ctx, "opp-1")

	s.True(res.NotFound)
	s.Equal(domain.OpportunityRef("opp-1"), res.Data.Opportunity)
}

func (s *DocumentServiceTestSuite) TestSavePreApproval_CreateAndUpdate() {
	s.docs.On("FindPreApproval", mock.Anything, "opp-1").Return(nil, apperrors.ErrNotFound).Once()
	s.docs.On("CreatePreApproval", mock.Anything, "opp-1", mock.MatchedBy(func(p domain.PreApproval) bool {
		return p.PurchasePrice == "400000"
	})).Return(&domain.PreApproval{ID: "3"}, nil).Once()

	res := s.svc.SavePreApproval(s.ctx, "opp-1", domain.PreApproval{PurchasePrice: "$400,000"})
	s.True(res.Success)
	s.Equal("Pre-approval created successfully.", res.Message)

	s.docs.On("FindPreApproval", mock.Anything, "opp-1").Return(&domain.PreApproval{ID: "3"}, nil).Once()
	s.docs.On("UpdatePreApproval", mock.Anything, "opp-1", mock.Anything).Return(&domain.PreApproval{ID: "3"}, nil).Once()

	res = s.svc.SavePreApproval(s.ctx, "opp-1", domain.PreApproval{Applicant: "Elm"})
	s.True(res.Success)
	s.Equal("Pre-approval updated successfully.", res.Message)
}

func (s *DocumentServiceTestSuite) TestSavePreApproval_UpstreamFailure() {
	s.docs.On("FindPreApproval", mock.Anything, "opp-1").Return(nil, apperrors.ErrNotFound).Once()
	s.docs.On("CreatePreApproval", mock.Anything, "opp-1", mock.Anything).Return(nil, apperrors.ErrUpstream).Once()

	res := s.svc.SavePreApproval(s.ctx, "opp-1", domain.PreApproval{})

	s.False(res.Success)
	s.Contains(res.Message, "Failed to save pre-approval data")
	s.ErrorIs(res.Err, apperrors.ErrUpstream)
}

func (s *DocumentServiceTestSuite) TestGeneratePreApprovalPDF_NotSaved() {
	s.docs.On("FindPreApproval", mock.Anything, "opp-1").Return(nil, apperrors.ErrNotFound).Once()

	res := s.svc.GeneratePreApprovalPDF(s.ctx, "opp-1", false)

	s.Equal("Please save the pre-qualification letter first before generating a PDF.", res.Message)
}
