package repositories

import (
	"context"

	"github.com/SscSPs/loan_dashboard/internal/core/domain"
)

// ThemeReader defines read operations for stored theme preferences.
type ThemeReader interface {
	// FindTheme returns apperrors.ErrNotFound when the identity has no preference.
	FindTheme(ctx context.Context, identity string) (domain.Theme, error)

	// ListThemes returns every stored preference keyed by identity.
	ListThemes(ctx context.Context) (map[string]domain.Theme, error)
}

// ThemeWriter defines write operations for theme preferences.
type ThemeWriter interface {
	// SaveTheme inserts or replaces the identity's preference.
	SaveTheme(ctx context.Context, identity string, theme domain.Theme) error
}

// ThemeRepositoryFacade combines all theme-related repository interfaces.
type ThemeRepositoryFacade interface {
	ThemeReader
	ThemeWriter
}
