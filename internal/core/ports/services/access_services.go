package services

import "github.com/SscSPs/loan_dashboard/internal/core/domain"

// AccessSvc resolves caller identities against the allowlist.
type AccessSvc interface {
	// Resolve returns a Granted decision carrying a Session, or a Denied decision
	// with a user-facing message. An empty identity is denied.
	Resolve(identity string) domain.AccessDecision
}
