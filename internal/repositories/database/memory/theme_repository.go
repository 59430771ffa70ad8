// Package memory holds the process-local preference store used when no
// database is configured.
package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/SscSPs/loan_dashboard/internal/apperrors"
	"github.com/SscSPs/loan_dashboard/internal/core/domain"
	portsrepo "github.com/SscSPs/loan_dashboard/internal/core/ports/repositories"
)

type ThemeRepository struct {
	mu     sync.RWMutex
	themes map[string]domain.Theme
}

// NewThemeRepository creates an empty in-memory theme store.
func NewThemeRepository() *ThemeRepository {
	return &ThemeRepository{themes: map[string]domain.Theme{}}
}

var _ portsrepo.ThemeRepositoryFacade = (*ThemeRepository)(nil)

func (r *ThemeRepository) FindTheme(_ context.Context, identity string) (domain.Theme, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	theme, ok := r.themes[identity]
	if !ok {
		return "", fmt.Errorf("theme for %s: %w", identity, apperrors.ErrNotFound)
	}
	return theme, nil
}

func (r *ThemeRepository) ListThemes(_ context.Context) (map[string]domain.Theme, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.themes), nil
}

func (r *ThemeRepository) SaveTheme(_ context.Context, identity string, theme domain.Theme) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.themes[identity] = theme
	return nil
}
