package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/loan_dashboard/internal/apperrors"
	"github.com/SscSPs/loan_dashboard/internal/core/domain"
	portssvc "github.com/SscSPs/loan_dashboard/internal/core/ports/services"
	"github.com/SscSPs/loan_dashboard/internal/utils/filtering"
	"github.com/SscSPs/loan_dashboard/internal/utils/pagination"
)

type dashboardService struct {
	BaseService
	records         portssvc.RecordStoreSvc
	pageSizes       []int
	defaultPageSize int
}

// NewDashboardService creates the view service. pageSizes lists the allowed page
// sizes; defaultPageSize is used when a query does not specify one.
func NewDashboardService(records portssvc.RecordStoreSvc, pageSizes []int, defaultPageSize int) portssvc.DashboardSvc {
	if len(pageSizes) == 0 {
		pageSizes = pagination.DefaultPageSizes
	}
	if defaultPageSize == 0 {
		defaultPageSize = pagination.DefaultPageSize
	}
	return &dashboardService{
		records:         records,
		pageSizes:       pageSizes,
		defaultPageSize: defaultPageSize,
	}
}

// View filters, sorts and paginates the current collection. A collection that
// has never loaded is loaded on demand; if that fails the view is unavailable.
func (s *dashboardService) View(ctx context.Context, query domain.ViewQuery) (*domain.DashboardView, error) {
	page, err := pagination.PageRequest{Page: query.Page, Size: query.PageSize}.Validate(s.pageSizes, s.defaultPageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if query.Sort.Field != "" && !domain.IsKnownField(query.Sort.Field) {
		return nil, fmt.Errorf("%w: unknown sort field %q", apperrors.ErrValidation, query.Sort.Field)
	}
	if query.Sort.Field != "" && query.Sort.Direction == "" {
		query.Sort.Direction = domain.SortAscending
	}

	status := s.records.Status()
	if !status.Loaded {
		if err := s.records.LoadAll(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrUnavailable, err)
		}
		status = s.records.Status()
	}

	all := s.records.Snapshot()
	filtered := filtering.Apply(all, query.Filters, query.Search)
	sorted := pagination.Sort(filtered, query.Sort)

	return &domain.DashboardView{
		Records:    pagination.Paginate(sorted, page),
		Total:      len(all),
		Filtered:   len(filtered),
		Page:       page.Page,
		PageSize:   page.Size,
		TotalPages: pagination.TotalPages(len(filtered), page.Size),
		Sort:       query.Sort,
		Options:    filtering.Options(all),
		Status:     status,
	}, nil
}

func (s *dashboardService) Options(ctx context.Context) domain.FilterOptions {
	return filtering.Options(s.records.Snapshot())
}
