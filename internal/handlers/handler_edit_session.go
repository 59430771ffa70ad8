package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/loan_dashboard/internal/core/ports/services"
	"github.com/SscSPs/loan_dashboard/internal/dto"
	"github.com/SscSPs/loan_dashboard/internal/middleware"
)

// editSessionHandler exposes the edit coordinator.
type editSessionHandler struct {
	editService portssvc.EditSvcFacade
}

func registerEditSessionRoutes(rg *gin.RouterGroup, editService portssvc.EditSvcFacade) {
	h := &editSessionHandler{editService: editService}

	sessions := rg.Group("/edit-sessions")
	{
		sessions.POST("", middleware.RequireEdit(), h.openSession)
		sessions.GET("/:sid", h.getSession)
		sessions.PATCH("/:sid", middleware.RequireEdit(), h.setFields)
		sessions.POST("/:sid/save", middleware.RequireEdit(), h.saveSession)
		sessions.DELETE("/:sid", h.closeSession)
	}
}

// openSession godoc
// @Summary Open an edit session
// @Description Seeds a working copy of the opportunity and loads the stages of its pipeline.
// @Tags edit-sessions
// @Accept json
// @Produce json
// @Param email query string false "Caller identity"
// @Param request body dto.OpenEditSessionRequest true "Opportunity to edit"
// @Success 201 {object} dto.EditSessionResponse
// @Failure 403 {object} map[string]string "View-only access"
// @Failure 404 {object} map[string]string "Opportunity not found"
// @Router /edit-sessions [post]
func (h *editSessionHandler) openSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.OpenEditSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for OpenEditSession", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	session, _ := middleware.GetSessionFromContext(c)

	es, err := h.editService.Open(c.Request.Context(), session, req.OpportunityID)
	if err != nil {
		respondError(c, logger, err, "Failed to open edit session")
		return
	}
	c.JSON(http.StatusCreated, dto.ToEditSessionResponse(es))
}

// getSession godoc
// @Summary Get an edit session
// @Tags edit-sessions
// @Produce json
// @Param email query string false "Caller identity"
// @Param sid path string true "Edit session ID"
// @Success 200 {object} dto.EditSessionResponse
// @Failure 404 {object} map[string]string "Edit session not found"
// @Router /edit-sessions/{sid} [get]
func (h *editSessionHandler) getSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	session, _ := middleware.GetSessionFromContext(c)

	es, err := h.editService.Get(c.Param("sid"), session.Identity)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve edit session")
		return
	}
	c.JSON(http.StatusOK, dto.ToEditSessionResponse(es))
}

// setFields godoc
// @Summary Change fields of the working copy
// @Description Only pipelineStage, stage, actualClosingDate, followUpFriday and the note fields may be changed.
// @Tags edit-sessions
// @Accept json
// @Produce json
// @Param email query string false "Caller identity"
// @Param sid path string true "Edit session ID"
// @Param request body dto.SetFieldsRequest true "Field values"
// @Success 200 {object} dto.EditSessionResponse
// @Failure 400 {object} map[string]string "Field not editable or value invalid"
// @Failure 404 {object} map[string]string "Edit session not found"
// @Failure 409 {object} map[string]string "A save is in progress"
// @Router /edit-sessions/{sid} [patch]
func (h *editSessionHandler) setFields(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SetFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetFields", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	session, _ := middleware.GetSessionFromContext(c)

	es, err := h.editService.SetFields(c.Param("sid"), session.Identity, req.Fields)
	if err != nil {
		respondError(c, logger, err, "Failed to update edit session")
		return
	}
	c.JSON(http.StatusOK, dto.ToEditSessionResponse(es))
}

// saveSession godoc
// @Summary Save an edit session
// @Description Sends the changed fields to the CRM. A failed save keeps the working copy.
// @Tags edit-sessions
// @Produce json
// @Param email query string false "Caller identity"
// @Param sid path string true "Edit session ID"
// @Success 200 {object} dto.EditSessionResponse
// @Failure 400 {object} map[string]string "No changes detected"
// @Failure 404 {object} map[string]string "Edit session not found"
// @Failure 502 {object} map[string]string "CRM rejected the save"
// @Router /edit-sessions/{sid}/save [post]
func (h *editSessionHandler) saveSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	session, _ := middleware.GetSessionFromContext(c)
	sid := c.Param("sid")

	es, err := h.editService.Save(c.Request.Context(), sid, session.Identity)
	if err != nil {
		if es != nil && es.Error != "" {
			// The session carries the user-facing failure; return it alongside.
			logger.Warn("Edit session save failed", slog.String("edit_session_id", sid), slog.String("error", err.Error()))
			c.JSON(statusFor(err), gin.H{"error": es.Error, "session": dto.ToEditSessionResponse(es)})
			return
		}
		respondError(c, logger, err, "Failed to save changes")
		return
	}
	c.JSON(http.StatusOK, dto.ToEditSessionResponse(es))
}

// closeSession godoc
// @Summary Close an edit session
// @Description Discards the session. Unsaved changes need confirmDiscard=true.
// @Tags edit-sessions
// @Produce json
// @Param email query string false "Caller identity"
// @Param sid path string true "Edit session ID"
// @Param confirmDiscard query bool false "Discard unsaved changes"
// @Success 204 "Closed"
// @Failure 404 {object} map[string]string "Edit session not found"
// @Failure 409 {object} map[string]string "Unsaved changes"
// @Router /edit-sessions/{sid} [delete]
func (h *editSessionHandler) closeSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.CloseEditSessionParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	session, _ := middleware.GetSessionFromContext(c)

	if err := h.editService.Close(c.Param("sid"), session.Identity, params.ConfirmDiscard); err != nil {
		respondError(c, logger, err, "Failed to close edit session")
		return
	}
	c.Status(http.StatusNoContent)
}
