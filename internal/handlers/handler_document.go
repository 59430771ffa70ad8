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

// documentHandler serves term sheets and pre-qualification letters.
type documentHandler struct {
	termSheets   portssvc.TermSheetSvc
	preApprovals portssvc.PreApprovalSvc
}

// registerDocumentRoutes hangs the document routes off the /opportunities group.
func registerDocumentRoutes(opps *gin.RouterGroup, termSheets portssvc.TermSheetSvc, preApprovals portssvc.PreApprovalSvc) {
	h := &documentHandler{termSheets: termSheets, preApprovals: preApprovals}

	opps.GET("/:id/term-sheet", h.getTermSheet)
	opps.PUT("/:id/term-sheet", middleware.RequireEdit(), h.saveTermSheet)
	opps.POST("/:id/term-sheet/pdf", middleware.RequireEdit(), h.generateTermSheetPDF)

	opps.GET("/:id/pre-approval", h.getPreApproval)
	opps.PUT("/:id/pre-approval", middleware.RequireEdit(), h.savePreApproval)
	opps.POST("/:id/pre-approval/pdf", middleware.RequireEdit(), h.generatePreApprovalPDF)
}

// writeResult sends a document result. A missing document is not an error: the
// prefilled draft is returned with notFound set.
func writeResult[T any](c *gin.Context, res domain.DocumentResult[T]) {
	status := http.StatusOK
	if !res.Success && !res.NotFound {
		status = http.StatusInternalServerError
		if res.Err != nil {
			status = statusFor(res.Err)
		}
		middleware.GetLoggerFromContext(c).Warn("Document request failed",
			slog.Int("status", status), slog.String("message", res.Message))
	}
	c.JSON(status, res)
}

func bindPDFRequest(c *gin.Context) (dto.GeneratePDFRequest, bool) {
	var req dto.GeneratePDFRequest
	if c.Request.ContentLength == 0 {
		return req, true
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return req, false
	}
	return req, true
}

// getTermSheet godoc
// @Summary Get the term sheet
// @Description Returns the stored term sheet, or a draft prefilled from the opportunity with notFound=true.
// @Tags documents
// @Produce json
// @Param email query string false "Caller identity"
// @Param id path string true "Opportunity ID"
// @Success 200 {object} domain.DocumentResult[domain.TermSheet]
// @Failure 502 {object} domain.DocumentResult[domain.TermSheet] "Document API failure"
// @Router /opportunities/{id}/term-sheet [get]
func (h *documentHandler) getTermSheet(c *gin.Context) {
	writeResult(c, h.termSheets.GetTermSheet(c.Request.Context(), c.Param("id")))
}

// saveTermSheet godoc
// @Summary Save the term sheet
// @Description Updates the stored term sheet, or creates one. Amounts may carry $ and commas.
// @Tags documents
// @Accept json
// @Produce json
// @Param email query string false "Caller identity"
// @Param id path string true "Opportunity ID"
// @Param sheet body domain.TermSheet true "Term sheet"
// @Success 200 {object} domain.DocumentResult[domain.TermSheet]
// @Failure 400 {object} domain.DocumentResult[domain.TermSheet] "Validation error"
// @Failure 502 {object} domain.DocumentResult[domain.TermSheet] "Document API failure"
// @Router /opportunities/{id}/term-sheet [put]
func (h *documentHandler) saveTermSheet(c *gin.Context) {
	var sheet domain.TermSheet
	if err := c.ShouldBindJSON(&sheet); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	writeResult(c, h.termSheets.SaveTermSheet(c.Request.Context(), c.Param("id"), sheet))
}

// generateTermSheetPDF godoc
// @Summary Generate the term sheet PDF
// @Tags documents
// @Accept json
// @Produce json
// @Param email query string false "Caller identity"
// @Param id path string true "Opportunity ID"
// @Param request body dto.GeneratePDFRequest false "Unsaved changes flag"
// @Success 200 {object} domain.DocumentResult[domain.GeneratedPDF]
// @Failure 412 {object} domain.DocumentResult[domain.GeneratedPDF] "Unsaved or never saved"
// @Failure 502 {object} domain.DocumentResult[domain.GeneratedPDF] "Document API failure"
// @Router /opportunities/{id}/term-sheet/pdf [post]
func (h *documentHandler) generateTermSheetPDF(c *gin.Context) {
	req, ok := bindPDFRequest(c)
	if !ok {
		return
	}
	writeResult(c, h.termSheets.GenerateTermSheetPDF(c.Request.Context(), c.Param("id"), req.HasUnsavedChanges))
}

// getPreApproval godoc
// @Summary Get the pre-qualification letter
// @Tags documents
// @Produce json
// @Param email query string false "Caller identity"
// @Param id path string true "Opportunity ID"
// @Success 200 {object} domain.DocumentResult[domain.PreApproval]
// @Failure 502 {object} domain.DocumentResult[domain.PreApproval] "Document API failure"
// @Router /opportunities/{id}/pre-approval [get]
func (h *documentHandler) getPreApproval(c *gin.Context) {
	writeResult(c, h.preApprovals.GetPreApproval(c.Request.Context(), c.Param("id")))
}

// savePreApproval godoc
// @Summary Save the pre-qualification letter
// @Tags documents
// @Accept json
// @Produce json
// @Param email query string false "Caller identity"
// @Param id path string true "Opportunity ID"
// @Param letter body domain.PreApproval true "Pre-qualification letter"
// @Success 200 {object} domain.DocumentResult[domain.PreApproval]
// @Failure 400 {object} domain.DocumentResult[domain.PreApproval] "Validation error"
// @Failure 502 {object} domain.DocumentResult[domain.PreApproval] "Document API failure"
// @Router /opportunities/{id}/pre-approval [put]
func (h *documentHandler) savePreApproval(c *gin.Context) {
	var letter domain.PreApproval
	if err := c.ShouldBindJSON(&letter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	writeResult(c, h.preApprovals.SavePreApproval(c.Request.Context(), c.Param("id"), letter))
}

// generatePreApprovalPDF godoc
// @Summary Generate the pre-qualification letter PDF
// @Tags documents
// @Accept json
// @Produce json
// @Param email query string false "Caller identity"
// @Param id path string true "Opportunity ID"
// @Param request body dto.GeneratePDFRequest false "Unsaved changes flag"
// @Success 200 {object} domain.DocumentResult[domain.GeneratedPDF]
// @Failure 412 {object} domain.DocumentResult[domain.GeneratedPDF] "Unsaved or never saved"
// @Failure 502 {object} domain.DocumentResult[domain.GeneratedPDF] "Document API failure"
// @Router /opportunities/{id}/pre-approval/pdf [post]
func (h *documentHandler) generatePreApprovalPDF(c *gin.Context) {
	req, ok := bindPDFRequest(c)
	if !ok {
		return
	}
	writeResult(c, h.preApprovals.GeneratePreApprovalPDF(c.Request.Context(), c.Param("id"), req.HasUnsavedChanges))
}
