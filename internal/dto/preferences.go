package dto

import "github.com/SscSPs/loan_dashboard/internal/core/domain"

// ThemeResponse carries the caller's theme.
type ThemeResponse struct {
	Theme domain.Theme `json:"theme"`
}

// SetThemeRequest stores the caller's theme.
type SetThemeRequest struct {
	Theme string `json:"theme" binding:"required,oneof=light dark"`
}
