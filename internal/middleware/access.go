package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/loan_dashboard/internal/core/ports/services"
)

// IdentityQueryParam is the query parameter the CRM link generator appends.
const IdentityQueryParam = "email"

// IdentityHeader carries the identity for clients that cannot use the query string.
const IdentityHeader = "X-User-Email"

// ResolveIdentity extracts the caller identity from the request.
func ResolveIdentity(c *gin.Context) string {
	if identity := strings.TrimSpace(c.Query(IdentityQueryParam)); identity != "" {
		return identity
	}
	return strings.TrimSpace(c.GetHeader(IdentityHeader))
}

// AccessGate resolves the caller against the allowlist. Denied callers get 403
// and the denial message; granted callers have their Session attached.
func AccessGate(access portssvc.AccessSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromContext(c)

		decision := access.Resolve(ResolveIdentity(c))
		if !decision.Granted() {
			logger.Warn("Access denied", slog.String("reason", string(decision.Reason)))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":  decision.Message,
				"reason": decision.Reason,
			})
			return
		}

		session := *decision.Session
		enrichedLogger := logger.With(
			slog.String("identity", session.Identity),
			slog.String("access_level", string(session.Permission.Level)),
		)
		c.Set(string(loggerKey), enrichedLogger)
		c.Request = c.Request.WithContext(WithLogger(c.Request.Context(), enrichedLogger))
		withSession(c, session)

		c.Next()
	}
}

// RequireEdit rejects sessions without the edit capability. It must run after AccessGate.
func RequireEdit() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := GetSessionFromContext(c)
		if !ok {
			GetLoggerFromContext(c).Error("RequireEdit used without a resolved session")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		if !session.Permission.CanEdit {
			GetLoggerFromContext(c).Warn("Edit attempted by view-only session")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You have view-only access to this dashboard"})
			return
		}
		c.Next()
	}
}
