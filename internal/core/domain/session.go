package domain

// AccessLevel is the permission tier attached to an identity.
type AccessLevel string

const (
	AccessLevelAdmin  AccessLevel = "admin"
	AccessLevelViewer AccessLevel = "viewer"
)

// Permission is the capability set derived from the access level.
type Permission struct {
	Level   AccessLevel `json:"level"`
	CanView bool        `json:"canView"`
	CanEdit bool        `json:"canEdit"`
}

// PermissionFor returns the capability set of a tier.
func PermissionFor(level AccessLevel) Permission {
	switch level {
	case AccessLevelAdmin:
		return Permission{Level: level, CanView: true, CanEdit: true}
	default:
		return Permission{Level: AccessLevelViewer, CanView: true, CanEdit: false}
	}
}

// Session is the resolved caller: identity plus immutable permissions.
type Session struct {
	Identity   string     `json:"email"`
	Permission Permission `json:"permissions"`
}

// AccessState is the terminal state of identity resolution.
type AccessState string

const (
	AccessLoading AccessState = "loading"
	AccessDenied  AccessState = "denied"
	AccessGranted AccessState = "granted"
)

// DenialReason distinguishes denials for message text only.
type DenialReason string

const (
	DenialMissingIdentity DenialReason = "missing_identity"
	DenialNotAuthorized   DenialReason = "not_authorized"
)

// AccessDecision is the outcome of resolving an identity against the allowlist.
type AccessDecision struct {
	State   AccessState
	Session *Session
	Reason  DenialReason
	Message string
}

// Granted reports whether a session was attached.
func (d AccessDecision) Granted() bool {
	return d.State == AccessGranted && d.Session != nil
}
