package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/SscSPs/loan_dashboard/internal/core/domain"
)

type stubAccess map[string]domain.AccessLevel

func (s stubAccess) Resolve(identity string) domain.AccessDecision {
	if identity == "" {
		return domain.AccessDecision{State: domain.AccessDenied, Reason: domain.DenialMissingIdentity, Message: "missing"}
	}
	level, ok := s[strings.ToLower(identity)]
	if !ok {
		return domain.AccessDecision{State: domain.AccessDenied, Reason: domain.DenialNotAuthorized, Message: "not allowed"}
	}
	return domain.AccessDecision{
		State:   domain.AccessGranted,
		Session: &domain.Session{Identity: strings.ToLower(identity), Permission: domain.PermissionFor(level)},
	}
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", handlers...)
	return r
}

func serve(r http.Handler, target string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestStructuredLoggingMiddleware_SetsRequestID(t *testing.T) {
	var fromCtx, fromGin bool
	r := newRouter(StructuredLoggingMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))), func(c *gin.Context) {
		fromCtx = c.Request.Context().Value(loggerCtxKey) != nil
		_, fromGin = c.Get(string(loggerKey))
		c.Status(http.StatusNoContent)
	})

	rec := serve(r, "/x", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.True(t, fromCtx)
	assert.True(t, fromGin)

	rec = serve(r, "/x", map[string]string{"X-Request-ID": "abc"})
	assert.Equal(t, "abc", rec.Header().Get("X-Request-ID"))
}

func TestAccessGate(t *testing.T) {
	access := stubAccess{"ashley@lfglending.com": domain.AccessLevelAdmin, "kat@lfglending.com": domain.AccessLevelViewer}
	var got domain.Session
	r := newRouter(AccessGate(access), func(c *gin.Context) {
		got, _ = GetSessionFromContext(c)
		c.Status(http.StatusOK)
	})

	rec := serve(r, "/x", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing_identity")

	rec = serve(r, "/x?email=stranger@example.com", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "not allowed")

	rec = serve(r, "/x?email=Ashley@LFGlending.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ashley@lfglending.com", got.Identity)
	assert.True(t, got.Permission.CanEdit)

	rec = serve(r, "/x", map[string]string{IdentityHeader: "kat@lfglending.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, got.Permission.CanEdit)
}

func TestRequireEdit(t *testing.T) {
	access := stubAccess{"ashley@lfglending.com": domain.AccessLevelAdmin, "kat@lfglending.com": domain.AccessLevelViewer}
	r := newRouter(AccessGate(access), RequireEdit(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, "/x?email=ashley@lfglending.com", nil).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, "/x?email=kat@lfglending.com", nil).Code)

	bare := newRouter(RequireEdit(), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusForbidden, serve(bare, "/x", nil).Code)
}

func TestRateLimit(t *testing.T) {
	instance := limiter.New(memory.NewStore(), limiter.Rate{Period: time.Minute, Limit: 2})
	r := newRouter(RateLimit(instance), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, "/x", nil).Code)
	rec := serve(r, "/x", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusTooManyRequests, serve(r, "/x", nil).Code)
}
