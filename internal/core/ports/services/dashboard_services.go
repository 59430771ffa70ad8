package services

import (
	"context"

	"github.com/SscSPs/loan_dashboard/internal/core/domain"
)

// DashboardSvc derives the table view from the record store.
type DashboardSvc interface {
	View(ctx context.Context, query domain.ViewQuery) (*domain.DashboardView, error)
	Options(ctx context.Context) domain.FilterOptions
}
