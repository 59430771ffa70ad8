package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/loan_dashboard/internal/apperrors"
	"github.com/SscSPs/loan_dashboard/internal/core/domain"
	"github.com/SscSPs/loan_dashboard/internal/repositories/database/sqlite"
	"github.com/SscSPs/loan_dashboard/pkg/database"
)

func TestThemeRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prefs", "dashboard.db")
	db, err := database.OpenSQLite(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo, err := sqlite.NewThemeRepository(ctx, db)
	require.NoError(t, err)

	_, err = repo.FindTheme(ctx, "a@example.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, repo.SaveTheme(ctx, "a@example.com", domain.ThemeDark))
	require.NoError(t, repo.SaveTheme(ctx, "b@example.com", domain.ThemeLight))
	require.NoError(t, repo.SaveTheme(ctx, "a@example.com", domain.ThemeLight))

	theme, err := repo.FindTheme(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, theme)

	all, err := repo.ListThemes(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.Theme{
		"a@example.com": domain.ThemeLight,
		"b@example.com": domain.ThemeLight,
	}, all)
}

func TestThemeRepository_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "dashboard.db")

	db, err := database.OpenSQLite(ctx, path)
	require.NoError(t, err)
	repo, err := sqlite.NewThemeRepository(ctx, db)
	require.NoError(t, err)
	require.NoError(t, repo.SaveTheme(ctx, "a@example.com", domain.ThemeDark))
	require.NoError(t, db.Close())

	db, err = database.OpenSQLite(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo, err = sqlite.NewThemeRepository(ctx, db)
	require.NoError(t, err)

	theme, err := repo.FindTheme(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, theme)
}
