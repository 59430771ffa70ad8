package dto

import "github.com/SscSPs/loan_dashboard/internal/core/domain"

// SessionResponse describes the resolved caller.
type SessionResponse struct {
	Email       string            `json:"email"`
	Permissions domain.Permission `json:"permissions"`
	Theme       domain.Theme      `json:"theme"`
}
