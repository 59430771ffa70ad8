package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/loan_dashboard/internal/core/domain"
)

// sessionKey is the key used to store the resolved Session.
const sessionKey = contextKey("session")

// GetSessionFromContext retrieves the resolved session from the Gin context.
// It returns the session and a boolean indicating if it was found.
func GetSessionFromContext(c *gin.Context) (domain.Session, bool) {
	val, exists := c.Get(string(sessionKey))
	if !exists {
		// check in the request context as well
		return GetSessionFromCtx(c.Request.Context())
	}

	session, ok := val.(domain.Session)
	if !ok {
		return domain.Session{}, false
	}
	return session, true
}

// GetSessionFromCtx retrieves the resolved session from a standard context.
func GetSessionFromCtx(ctx context.Context) (domain.Session, bool) {
	session, ok := ctx.Value(sessionKey).(domain.Session)
	return session, ok
}

func withSession(c *gin.Context, session domain.Session) {
	c.Set(string(sessionKey), session)
	c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), sessionKey, session))
}
