package handlers_test

import (
	"context"
	"strings"

	"github.com/stretchr/testify/mock"

	"github.com/SscSPs/loan_dashboard/internal/core/domain"
	portssvc "github.com/SscSPs/loan_dashboard/internal/core/ports/services"
)

// --- stub AccessService ---
type stubAccess struct {
	admins  map[string]bool
	viewers map[string]bool
}

func (s stubAccess) Resolve(identity string) domain.AccessDecision {
	key := strings.ToLower(identity)
	switch {
	case key == "":
		return domain.AccessDecision{State: domain.AccessDenied, Reason: domain.DenialMissingIdentity, Message: "No email parameter provided."}
	case s.admins[key]:
		return domain.AccessDecision{State: domain.AccessGranted, Session: &domain.Session{Identity: key, Permission: domain.PermissionFor(domain.AccessLevelAdmin)}}
	case s.viewers[key]:
		return domain.AccessDecision{State: domain.AccessGranted, Session: &domain.Session{Identity: key, Permission: domain.PermissionFor(domain.AccessLevelViewer)}}
	}
	return domain.AccessDecision{State: domain.AccessDenied, Reason: domain.DenialNotAuthorized, Message: "not authorized"}
}

var _ portssvc.AccessSvc = stubAccess{}

// --- Mock DashboardService ---
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) View(ctx context.Context, query domain.ViewQuery) (*domain.DashboardView, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardView), args.Error(1)
}

func (m *MockDashboardService) Options(ctx context.Context) domain.FilterOptions {
	args := m.Called(ctx)
	return args.Get(0).(domain.FilterOptions)
}

var _ portssvc.DashboardSvc = (*MockDashboardService)(nil)

// --- Mock RecordStore ---
type MockRecordStore struct {
	mock.Mock
}

func (m *MockRecordStore) Snapshot() []*domain.Opportunity {
	args := m.Called()
	return args.Get(0).([]*domain.Opportunity)
}

func (m *MockRecordStore) Get(id string) (*domain.Opportunity, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Opportunity), args.Error(1)
}

func (m *MockRecordStore) Status() domain.LoadStatus {
	args := m.Called()
	return args.Get(0).(domain.LoadStatus)
}

func (m *MockRecordStore) LoadAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRecordStore) Reload(ctx context.Context, id string) (*domain.Opportunity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Opportunity), args.Error(1)
}

func (m *MockRecordStore) PatchField(ctx context.Context, id string, field domain.FieldName, value any) (*domain.Opportunity, error) {
	args := m.Called(ctx, id, field, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Opportunity), args.Error(1)
}

func (m *MockRecordStore) ApplyUpdates(ctx context.Context, id string, updates domain.FieldUpdates, send map[string]any) (domain.UpdateResult, error) {
	args := m.Called(ctx, id, updates, send)
	return args.Get(0).(domain.UpdateResult), args.Error(1)
}

var _ portssvc.RecordStoreSvc = (*MockRecordStore)(nil)

// --- Mock EditService ---
type MockEditService struct {
	mock.Mock
}

func (m *MockEditService) Open(ctx context.Context, session domain.Session, opportunityID string) (*domain.EditSession, error) {
	args := m.Called(ctx, session, opportunityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EditSession), args.Error(1)
}

func (m *MockEditService) Get(sessionID, identity string) (*domain.EditSession, error) {
	args := m.Called(sessionID, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EditSession), args.Error(1)
}

func (m *MockEditService) Close(sessionID, identity string, confirmDiscard bool) error {
	args := m.Called(sessionID, identity, confirmDiscard)
	return args.Error(0)
}

func (m *MockEditService) SetFields(sessionID, identity string, values map[string]any) (*domain.EditSession, error) {
	args := m.Called(sessionID, identity, values)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EditSession), args.Error(1)
}

func (m *MockEditService) Save(ctx context.Context, sessionID, identity string) (*domain.EditSession, error) {
	args := m.Called(ctx, sessionID, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EditSession), args.Error(1)
}

func (m *MockEditService) Run(ctx context.Context) {
	m.Called(ctx)
}

var _ portssvc.EditSvcFacade = (*MockEditService)(nil)

// --- Mock DocumentService ---
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) GetTermSheet(ctx context.Context, opportunityID string) domain.DocumentResult[domain.TermSheet] {
	return m.Called(ctx, opportunityID).Get(0).(domain.DocumentResult[domain.TermSheet])
}

func (m *MockDocumentService) SaveTermSheet(ctx context.Context, opportunityID string, sheet domain.TermSheet) domain.DocumentResult[domain.TermSheet] {
	return m.Called(ctx, opportunityID, sheet).Get(0).(domain.DocumentResult[domain.TermSheet])
}

func (m *MockDocumentService) GenerateTermSheetPDF(ctx context.Context, opportunityID string, hasUnsavedChanges bool) domain.DocumentResult[domain.GeneratedPDF] {
	return m.Called(ctx, opportunityID, hasUnsavedChanges).Get(0).(domain.DocumentResult[domain.GeneratedPDF])
}

func (m *MockDocumentService) GetPreApproval(ctx context.Context, opportunityID string) domain.DocumentResult[domain.PreApproval] {
	return m.Called(ctx, opportunityID).Get(0).(domain.DocumentResult[domain.PreApproval])
}

func (m *MockDocumentService) SavePreApproval(ctx context.Context, opportunityID string, letter domain.PreApproval) domain.DocumentResult[domain.PreApproval] {
	return m.Called(ctx, opportunityID, letter).Get(0).(domain.DocumentResult[domain.PreApproval])
}

func (m *MockDocumentService) GeneratePreApprovalPDF(ctx context.Context, opportunityID string, hasUnsavedChanges bool) domain.DocumentResult[domain.GeneratedPDF] {
	return m.Called(ctx, opportunityID, hasUnsavedChanges).Get(0).(domain.DocumentResult[domain.GeneratedPDF])
}

var (
	_ portssvc.TermSheetSvc   = (*MockDocumentService)(nil)
	_ portssvc.PreApprovalSvc = (*MockDocumentService)(nil)
)

// --- Mock ThemeService ---
type MockThemeService struct {
	mock.Mock
}

func (m *MockThemeService) Load(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockThemeService) GetTheme(identity string) domain.Theme {
	return m.Called(identity).Get(0).(domain.Theme)
}

func (m *MockThemeService) SetTheme(ctx context.Context, identity string, theme domain.Theme) error {
	return m.Called(ctx, identity, theme).Error(0)
}

func (m *MockThemeService) Subscribe(ctx context.Context) <-chan domain.ThemeChange {
	return m.Called(ctx).Get(0).(<-chan domain.ThemeChange)
}

var _ portssvc.ThemeSvc = (*MockThemeService)(nil)
