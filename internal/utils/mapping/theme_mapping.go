package mapping

import (
	"time"

	"github.com/SscSPs/loan_dashboard/internal/core/domain"
	"github.com/SscSPs/loan_dashboard/internal/models"
)

// ToModelThemePreference builds the row stored for an identity.
func ToModelThemePreference(identity string, theme domain.Theme, at time.Time) models.ThemePreference {
	return models.ThemePreference{
		Identity:  identity,
		Theme:     string(theme),
		UpdatedAt: at.UTC(),
	}
}

// ToDomainThemes indexes stored rows by identity.
func ToDomainThemes(rows []models.ThemePreference) map[string]domain.Theme {
	out := make(map[string]domain.Theme, len(rows))
	for _, r := range rows {
		out[r.Identity] = domain.Theme(r.Theme)
	}
	return out
}
