package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/loan_dashboard/internal/apperrors"
	"github.com/SscSPs/loan_dashboard/internal/core/domain"
	"github.com/SscSPs/loan_dashboard/internal/repositories/database/memory"
)

func TestThemeRepository(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewThemeRepository()

	_, err := repo.FindTheme(ctx, "a@example.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, repo.SaveTheme(ctx, "a@example.com", domain.ThemeDark))
	require.NoError(t, repo.SaveTheme(ctx, "a@example.com", domain.ThemeLight))

	theme, err := repo.FindTheme(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, theme)

	all, err := repo.ListThemes(ctx)
	require.NoError(t, err)
	all["b@example.com"] = domain.ThemeDark
	again, _ := repo.ListThemes(ctx)
	assert.Len(t, again, 1)
}
