package services

import (
	"context"

	"github.com/SscSPs/loan_dashboard/internal/core/domain"
)

// ThemeSvc is the process-wide theme settings store.
type ThemeSvc interface {
	// Load reads every stored preference into memory. Called once at startup.
	Load(ctx context.Context) error
	GetTheme(identity string) domain.Theme
	SetTheme(ctx context.Context, identity string, theme domain.Theme) error
	// Subscribe delivers every subsequent change until ctx is done.
	Subscribe(ctx context.Context) <-chan domain.ThemeChange
}
