package services

import (
	portsrepo "github.com/SscSPs/loan_dashboard/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/loan_dashboard/internal/core/ports/services"
	"github.com/SscSPs/loan_dashboard/internal/metrics"
	"github.com/SscSPs/loan_dashboard/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, rec metrics.Recorder) *portssvc.ServiceContainer {
	if rec == nil {
		rec = metrics.Noop{}
	}
	container := &portssvc.ServiceContainer{}

	container.Access = NewAccessService(cfg.AccessAdmins, cfg.AccessViewers)

	// The record store is shared: dashboard, edit and document services all read it.
	records := NewRecordStore(repos.OpportunityRepo, WithRecordMetrics(rec))
	container.Records = records

	container.Dashboard = NewDashboardService(records, cfg.PageSizes, cfg.DefaultPageSize)
	container.Edit = NewEditService(
		records,
		repos.OpportunityRepo,
		WithEditMetrics(rec),
		WithSessionTTL(cfg.EditSessionTTL),
		WithSuccessDisplay(cfg.EditSuccessDisplay),
	)

	documents := NewDocumentService(repos.DocumentRepo, records, WithDocumentMetrics(rec))
	container.TermSheet = documents
	container.PreApproval = documents

	container.Theme = NewThemeService(repos.ThemeRepo)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.RecordStoreSvc = (*recordStore)(nil)
	_ portssvc.EditSvcFacade  = (*editService)(nil)
	_ portssvc.DashboardSvc   = (*dashboardService)(nil)
)
