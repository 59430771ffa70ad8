// Package sqlite stores theme preferences in a single-file SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/loan_dashboard/internal/apperrors"
	"github.com/SscSPs/loan_dashboard/internal/core/domain"
	portsrepo "github.com/SscSPs/loan_dashboard/internal/core/ports/repositories"
	"github.com/SscSPs/loan_dashboard/internal/models"
	"github.com/SscSPs/loan_dashboard/internal/utils/mapping"
)

type ThemeRepository struct {
	db *sql.DB
}

// NewThemeRepository creates the table if it does not exist yet.
func NewThemeRepository(ctx context.Context, db *sql.DB) (*ThemeRepository, error) {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS theme_preferences (
		identity   TEXT PRIMARY KEY,
		theme      TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create theme_preferences table: %w", err)
	}
	return &ThemeRepository{db: db}, nil
}

var _ portsrepo.ThemeRepositoryFacade = (*ThemeRepository)(nil)

func (r *ThemeRepository) FindTheme(ctx context.Context, identity string) (domain.Theme, error) {
	var theme string
	err := r.db.QueryRowContext(ctx, `SELECT theme FROM theme_preferences WHERE identity = ?`, identity).Scan(&theme)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("failed to find theme for %s: %w", identity, err)
	}
	return domain.Theme(theme), nil
}

func (r *ThemeRepository) ListThemes(ctx context.Context) (map[string]domain.Theme, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT identity, theme, updated_at FROM theme_preferences`)
	if err != nil {
		return nil, fmt.Errorf("failed to list theme preferences: %w", err)
	}
	defer func() { _ = rows.Close() }()

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

func (r *ThemeRepository) SaveTheme(ctx context.Context, identity string, theme domain.Theme) error {
	pref := mapping.ToModelThemePreference(identity, theme, time.Now())
	_, err := r.db.ExecContext(ctx, `INSERT INTO theme_preferences (identity, theme, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(identity) DO UPDATE SET theme = excluded.theme, updated_at = excluded.updated_at`,
		pref.Identity, pref.Theme, pref.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save theme for %s: %w", identity, err)
	}
	return nil
}
