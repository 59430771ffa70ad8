package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/loan_dashboard/internal/core/domain"
	portssvc "github.com/SscSPs/loan_dashboard/internal/core/ports/services"
	"github.com/SscSPs/loan_dashboard/internal/dto"
	"github.com/SscSPs/loan_dashboard/internal/middleware"
	"github.com/SscSPs/loan_dashboard/internal/utils/mapping"
)

// opportunityHandler serves the dashboard table and direct record updates.
type opportunityHandler struct {
	dashboard portssvc.DashboardSvc
	records   portssvc.RecordStoreSvc
}

func registerOpportunityRoutes(rg *gin.RouterGroup, dashboard portssvc.DashboardSvc, records portssvc.RecordStoreSvc) *gin.RouterGroup {
	h := &opportunityHandler{dashboard: dashboard, records: records}

	opps := rg.Group("/opportunities")
	{
		opps.GET("", h.listOpportunities)
		opps.GET("/options", h.getFilterOptions)
		opps.POST("/refresh", h.refreshOpportunities)
		opps.GET("/:id", h.getOpportunity)
		opps.PATCH("/:id/fields/:field", middleware.RequireEdit(), h.patchField)
		opps.POST("/:id/updates", middleware.RequireEdit(), h.updateOpportunity)
	}
	return opps
}

// listOpportunities godoc
// @Summary List opportunities
// @Description Filters, sorts and paginates the in-memory collection. Multi-select filters repeat the parameter.
// @Tags opportunities
// @Produce json
// @Param email query string false "Caller identity"
// @Param search query string false "Case-insensitive substring over every field"
// @Param assignedUser query []string false "Assigned user" collectionFormat(multi)
// @Param pipeline query []string false "Pipeline" collectionFormat(multi)
// @Param pipelineStage query []string false "Pipeline stage" collectionFormat(multi)
// @Param stage query []string false "Stage" collectionFormat(multi)
// @Param loan_type query []string false "Loan type" collectionFormat(multi)
// @Param followers query []string false "Follower, or [None] for unassigned" collectionFormat(multi)
// @Param actualClosingDateFrom query string false "Closing date lower bound (YYYY-MM-DD)"
// @Param actualClosingDateTo query string false "Closing date upper bound (YYYY-MM-DD)"
// @Param sort query string false "Sort field"
// @Param dir query string false "Sort direction" Enums(asc, desc)
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(100)
// @Success 200 {object} dto.DashboardViewResponse
// @Failure 400 {object} map[string]string "Invalid query"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 503 {object} map[string]string "Opportunities could not be loaded"
// @Router /opportunities [get]
func (h *opportunityHandler) listOpportunities(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListOpportunitiesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListOpportunities", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	query, err := params.ToViewQuery()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.dashboard.View(c.Request.Context(), query)
	if err != nil {
		respondError(c, logger, err, "Failed to load opportunities")
		return
	}
	logger.Debug("Dashboard view computed", slog.Int("filtered", view.Filtered), slog.Int("page", view.Page))
	c.JSON(http.StatusOK, dto.ToDashboardViewResponse(view))
}

// getFilterOptions godoc
// @Summary List filter options
// @Description Unique values per filterable column of the loaded collection.
// @Tags opportunities
// @Produce json
// @Param email query string false "Caller identity"
// @Success 200 {object} domain.FilterOptions
// @Router /opportunities/options [get]
func (h *opportunityHandler) getFilterOptions(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.Options(c.Request.Context()))
}

// refreshOpportunities godoc
// @Summary Reload the collection
// @Description Refetches every opportunity. On failure the previous collection is kept.
// @Tags opportunities
// @Produce json
// @Param email query string false "Caller identity"
// @Success 200 {object} domain.LoadStatus
// @Failure 502 {object} map[string]string "Upstream failure"
// @Router /opportunities/refresh [post]
func (h *opportunityHandler) refreshOpportunities(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if err := h.records.LoadAll(c.Request.Context()); err != nil {
		respondError(c, logger, err, "Failed to refresh opportunities")
		return
	}
	c.JSON(http.StatusOK, h.records.Status())
}

// getOpportunity godoc
// @Summary Get an opportunity
// @Tags opportunities
// @Produce json
// @Param email query string false "Caller identity"
// @Param id path string true "Opportunity ID"
// @Success 200 {object} models.Opportunity
// @Failure 404 {object} map[string]string "Opportunity not found"
// @Router /opportunities/{id} [get]
func (h *opportunityHandler) getOpportunity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	record, err := h.records.Get(c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve opportunity")
		return
	}
	c.JSON(http.StatusOK, mapping.ToModelOpportunity(record))
}

// patchField godoc
// @Summary Update a single field
// @Description Applies the value immediately and rolls it back if the CRM rejects the write.
// @Tags opportunities
// @Accept json
// @Produce json
// @Param email query string false "Caller identity"
// @Param id path string true "Opportunity ID"
// @Param field path string true "Field name"
// @Param value body dto.PatchFieldRequest true "New value"
// @Success 200 {object} models.Opportunity
// @Failure 400 {object} map[string]string "Field cannot be patched or value is invalid"
// @Failure 403 {object} map[string]string "View-only access"
// @Failure 404 {object} map[string]string "Opportunity not found"
// @Failure 502 {object} map[string]string "CRM rejected the write; value rolled back"
// @Router /opportunities/{id}/fields/{field} [patch]
func (h *opportunityHandler) patchField(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PatchFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PatchField", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	id, field := c.Param("id"), domain.FieldName(c.Param("field"))
	logger = logger.With(slog.String("opportunity_id", id), slog.String("field", string(field)))

	record, err := h.records.PatchField(c.Request.Context(), id, field, req.Value)
	if err != nil {
		respondError(c, logger, err, "Failed to update field")
		return
	}
	logger.Info("Field patched")
	c.JSON(http.StatusOK, mapping.ToModelOpportunity(record))
}

// updateOpportunity godoc
// @Summary Update several fields
// @Description Sends only the fields that differ from the stored record. Booleans are always sent.
// @Tags opportunities
// @Accept json
// @Produce json
// @Param email query string false "Caller identity"
// @Param id path string true "Opportunity ID"
// @Param updates body dto.UpdateOpportunityRequest true "Field updates"
// @Success 200 {object} dto.UpdateOpportunityResponse
// @Failure 400 {object} map[string]string "Invalid update"
// @Failure 403 {object} map[string]string "View-only access"
// @Failure 404 {object} map[string]string "Opportunity not found"
// @Failure 502 {object} map[string]string "CRM rejected the update"
// @Router /opportunities/{id}/updates [post]
func (h *opportunityHandler) updateOpportunity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateOpportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateOpportunity", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	updates, err := domain.NormalizeUpdates(req.Updates)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	result, err := h.records.ApplyUpdates(c.Request.Context(), id, updates, nil)
	if err != nil {
		respondError(c, logger.With(slog.String("opportunity_id", id)), err, "Failed to update opportunity")
		return
	}
	c.JSON(http.StatusOK, dto.ToUpdateOpportunityResponse(result))
}
