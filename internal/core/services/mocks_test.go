package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/SscSPs/loan_dashboard/internal/core/domain"
	portsrepo "github.com/SscSPs/loan_dashboard/internal/core/ports/repositories"
	"github.com/SscSPs/loan_dashboard/internal/core/services"
)

// --- Mock OpportunityRepository ---
type MockOpportunityRepository struct {
	mock.Mock
}

func (m *MockOpportunityRepository) ListOpportunities(ctx context.Context) ([]*domain.Opportunity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Opportunity), args.Error(1)
}

func (m *MockOpportunityRepository) FindOpportunityByID(ctx context.Context, id string) (*domain.Opportunity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Opportunity), args.Error(1)
}

func (m *MockOpportunityRepository) UpdateCustomFields(ctx context.Context, id, pipeline string, updates map[string]any) error {
	args := m.Called(ctx, id, pipeline, updates)
	return args.Error(0)
}

func (m *MockOpportunityRepository) ListPipelines(ctx context.Context) ([]domain.Pipeline, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Pipeline), args.Error(1)
}

var _ portsrepo.OpportunityRepositoryFacade = (*MockOpportunityRepository)(nil)

// --- Mock DocumentRepository ---
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) FindTermSheet(ctx context.Context, opportunityID string) (*domain.TermSheet, error) {
	args := m.Called(ctx, opportunityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TermSheet), args.Error(1)
}

func (m *MockDocumentRepository) CreateTermSheet(ctx context.Context, opportunityID string, sheet domain.TermSheet) (*domain.TermSheet, error) {
	args := m.Called(ctx, opportunityID, sheet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TermSheet), args.Error(1)
}

func (m *MockDocumentRepository) UpdateTermSheet(ctx context.Context, opportunityID string, sheet domain.TermSheet) (*domain.TermSheet, error) {
	args := m.Called(ctx, opportunityID, sheet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TermSheet), args.Error(1)
}

func (m *MockDocumentRepository) GenerateTermSheetPDF(ctx context.Context, opportunityID string) (*domain.GeneratedPDF, error) {
	args := m.Called(ctx, opportunityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeneratedPDF), args.Error(1)
}

func (m *MockDocumentRepository) FindPreApproval(ctx context.Context, opportunityID string) (*domain.PreApproval, error) {
	args := m.Called(ctx, opportunityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PreApproval), args.Error(1)
}

func (m *MockDocumentRepository) CreatePreApproval(ctx context.Context, opportunityID string, letter domain.PreApproval) (*domain.PreApproval, error) {
	args := m.Called(ctx, opportunityID, letter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PreApproval), args.Error(1)
}

func (m *MockDocumentRepository) UpdatePreApproval(ctx context.Context, opportunityID string, letter domain.PreApproval) (*domain.PreApproval, error) {
	args := m.Called(ctx, opportunityID, letter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PreApproval), args.Error(1)
}

func (m *MockDocumentRepository) GeneratePreApprovalPDF(ctx context.Context, opportunityID string) (*domain.GeneratedPDF, error) {
	args := m.Called(ctx, opportunityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeneratedPDF), args.Error(1)
}

var _ portsrepo.DocumentRepositoryFacade = (*MockDocumentRepository)(nil)

// --- Mock ThemeRepository ---
type MockThemeRepository struct {
	mock.Mock
}

func (m *MockThemeRepository) FindTheme(ctx context.Context, identity string) (domain.Theme, error) {
	args := m.Called(ctx, identity)
	return args.Get(0).(domain.Theme), args.Error(1)
}

func (m *MockThemeRepository) ListThemes(ctx context.Context) (map[string]domain.Theme, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Theme), args.Error(1)
}

func (m *MockThemeRepository) SaveTheme(ctx context.Context, identity string, theme domain.Theme) error {
	args := m.Called(ctx, identity, theme)
	return args.Error(0)
}

var _ portsrepo.ThemeRepositoryFacade = (*MockThemeRepository)(nil)

// --- fake clock ---

type fakeTimer struct {
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped && !t.fired
	t.stopped = true
	return wasActive
}

// fakeClock only moves when Advance is called. Due callbacks run synchronously
// inside Advance, outside the clock's own lock.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) services.Stopper {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()
	for _, t := range due {
		t.f()
	}
}

var _ services.Clock = (*fakeClock)(nil)

func date(s string) *domain.Date {
	return domain.MustParseDate(s).Ptr()
}

func sampleRecords() []*domain.Opportunity {
	return []*domain.Opportunity{
		{
			ID:              "opp-1",
			Name:            "Jane Borrower",
			OpportunityName: "12 Elm St",
			BusinessName:    "Elm Holdings LLC",
			Pipeline:        "Bridge",
			PipelineStage:   "Application",
			Stage:           "Processing",
			LoanType:        "Fix & Flip",
			AssignedUser:    "Ann",
			Followers:       []string{"Bob"},
			DealNotes:       "initial",
		},
		{
			ID:                "opp-2",
			Name:              "Sam Lender",
			OpportunityName:   "99 Oak Ave",
			Pipeline:          "Bridge",
			PipelineStage:     "Funded",
			Stage:             "Closed",
			ActualClosingDate: date("2024-02-01"),
			FollowUpFriday:    true,
		},
	}
}
