package models

import "time"

// ThemePreference is a stored row of the theme_preferences table.
type ThemePreference struct {
	Identity  string
	Theme     string
	UpdatedAt time.Time
}
