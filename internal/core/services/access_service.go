package services

import (
	"fmt"
	"strings"

	"github.com/SscSPs/loan_dashboard/internal/core/domain"
	portssvc "github.com/SscSPs/loan_dashboard/internal/core/ports/services"
)

const (
	missingIdentityMessage = "No email parameter provided. This dashboard must be accessed through the CRM system."
	notAuthorizedMessage   = "The email address \"%s\" does not have access to this page. Please contact your administrator if you believe this is an error."
)

type accessService struct {
	levels map[string]domain.AccessLevel
}

// NewAccessService builds the allowlist. Identities are matched case-insensitively;
// an identity listed in both tiers is an admin.
func NewAccessService(admins, viewers []string) portssvc.AccessSvc {
	levels := make(map[string]domain.AccessLevel, len(admins)+len(viewers))
	for _, v := range viewers {
		levels[normalizeIdentity(v)] = domain.AccessLevelViewer
	}
	for _, a := range admins {
		levels[normalizeIdentity(a)] = domain.AccessLevelAdmin
	}
	delete(levels, "")
	return &accessService{levels: levels}
}

func normalizeIdentity(identity string) string {
	return strings.ToLower(strings.TrimSpace(identity))
}

func (s *accessService) Resolve(identity string) domain.AccessDecision {
	key := normalizeIdentity(identity)
	if key == "" {
		return domain.AccessDecision{
			State:   domain.AccessDenied,
			Reason:  domain.DenialMissingIdentity,
			Message: missingIdentityMessage,
		}
	}
	level, ok := s.levels[key]
	if !ok {
		return domain.AccessDecision{
			State:   domain.AccessDenied,
			Reason:  domain.DenialNotAuthorized,
			Message: fmt.Sprintf(notAuthorizedMessage, strings.TrimSpace(identity)),
		}
	}
	return domain.AccessDecision{
		State: domain.AccessGranted,
		Session: &domain.Session{
			Identity:   key,
			Permission: domain.PermissionFor(level),
		},
	}
}
