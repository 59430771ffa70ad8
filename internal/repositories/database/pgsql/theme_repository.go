package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/loan_dashboard/internal/apperrors"
	"github.com/SscSPs/loan_dashboard/internal/core/domain"
	portsrepo "github.com/SscSPs/loan_dashboard/internal/core/ports/repositories"
	"github.com/SscSPs/loan_dashboard/internal/models"
	"github.com/SscSPs/loan_dashboard/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxThemeRepository struct {
	BaseRepository
}

func newPgxThemeRepository(pool *pgxpool.Pool) portsrepo.ThemeRepositoryFacade {
	return &PgxThemeRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.ThemeRepositoryFacade = (*PgxThemeRepository)(nil)

// FindTheme retrieves the stored preference of a single identity.
func (r *PgxThemeRepository) FindTheme(ctx context.Context, identity string) (domain.Theme, error) {
	query := `
		SELECT theme
		FROM theme_preferences
		WHERE identity = $1;
	`
	var theme string
	err := r.Pool.QueryRow(ctx, query, identity).Scan(&theme)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("failed to find theme for %s: %w", identity, err)
	}
	return domain.Theme(theme), nil
}

// ListThemes retrieves every stored preference.
func (r *PgxThemeRepository) ListThemes(ctx context.Context) (map[string]domain.Theme, error) {
	query := `
		SELECT identity, theme, updated_at
		FROM theme_preferences;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list theme preferences: %w", err)
	}
	defer rows.Close()

	var prefs []models.ThemePreference
	for rows.Next() {
		var p models.ThemePreference
		if err := rows.Scan(&p.Identity, &p.Theme, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan theme preference: %w", err)
		}
		prefs = append(prefs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating theme preferences: %w", err)
	}
	return mapping.ToDomainThemes(prefs), nil
}

// SaveTheme inserts or replaces an identity's preference.
func (r *PgxThemeRepository) SaveTheme(ctx context.Context, identity string, theme domain.Theme) error {
	pref := mapping.ToModelThemePreference(identity, theme, time.Now())
	query := `
		INSERT INTO theme_preferences (identity, theme, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (identity) DO UPDATE SET
			theme = EXCLUDED.theme,
			updated_at = EXCLUDED.updated_at;
	`
	if _, err := r.Pool.Exec(ctx, query, pref.Identity, pref.Theme, pref.UpdatedAt); err != nil {
		return fmt.Errorf("failed to save theme for %s: %w", identity, err)
	}
	return nil
}
