package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/loan_dashboard/internal/core/domain"
	portssvc "github.com/SscSPs/loan_dashboard/internal/core/ports/services"
	"github.com/SscSPs/loan_dashboard/internal/dto"
	"github.com/SscSPs/loan_dashboard/internal/middleware"
)

type preferencesHandler struct {
	themeService portssvc.ThemeSvc
}

func registerPreferenceRoutes(rg *gin.RouterGroup, themeService portssvc.ThemeSvc) {
	h := &preferencesHandler{themeService: themeService}

	prefs := rg.Group("/preferences")
	{
		prefs.GET("/theme", h.getTheme)
		prefs.PUT("/theme", h.setTheme)
	}
}

// getTheme godoc
// @Summary Get the caller's theme
// @Tags preferences
// @Produce json
// @Param email query string false "Caller identity"
// @Success 200 {object} dto.ThemeResponse
// @Failure 403 {object} map[string]string "Access denied"
// @Router /preferences/theme [get]
func (h *preferencesHandler) getTheme(c *gin.Context) {
	session, _ := middleware.GetSessionFromContext(c)
	c.JSON(http.StatusOK, dto.ThemeResponse{Theme: h.themeService.GetTheme(session.Identity)})
}

// setTheme godoc
// @Summary Store the caller's theme
// @Tags preferences
// @Accept json
// @Produce json
// @Param email query string false "Caller identity"
// @Param theme body dto.SetThemeRequest true "Theme"
// @Success 200 {object} dto.ThemeResponse
// @Failure 400 {object} map[string]string "Invalid theme"
// @Failure 500 {object} map[string]string "Failed to store theme"
// @Router /preferences/theme [put]
func (h *preferencesHandler) setTheme(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SetThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetTheme", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	session, _ := middleware.GetSessionFromContext(c)
	theme := domain.Theme(req.Theme)
	if err := h.themeService.SetTheme(c.Request.Context(), session.Identity, theme); err != nil {
		respondError(c, logger, err, "Failed to store theme")
		return
	}
	c.JSON(http.StatusOK, dto.ThemeResponse{Theme: theme})
}
