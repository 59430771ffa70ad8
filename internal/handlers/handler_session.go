package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/loan_dashboard/internal/core/ports/services"
	"github.com/SscSPs/loan_dashboard/internal/dto"
	"github.com/SscSPs/loan_dashboard/internal/middleware"
)

type sessionHandler struct {
	themeService portssvc.ThemeSvc
}

func registerSessionRoutes(rg *gin.RouterGroup, themeService portssvc.ThemeSvc) {
	h := &sessionHandler{themeService: themeService}
	rg.GET("/session", h.getSession)
}

// getSession godoc
// @Summary Get the resolved session
// @Description Reports the caller's identity, permissions and theme. Denied callers receive 403 from the access gate.
// @Tags session
// @Produce json
// @Param email query string false "Caller identity (or X-User-Email header)"
// @Success 200 {object} dto.SessionResponse
// @Failure 403 {object} map[string]string "Missing or unknown identity"
// @Router /session [get]
func (h *sessionHandler) getSession(c *gin.Context) {
	session, ok := middleware.GetSessionFromContext(c)
	if !ok {
		middleware.GetLoggerFromContext(c).Error("Session not found in context")
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}
	c.JSON(http.StatusOK, dto.SessionResponse{
		Email:       session.Identity,
		Permissions: session.Permission,
		Theme:       h.themeService.GetTheme(session.Identity),
	})
}
