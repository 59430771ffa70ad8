package dto

// GeneratePDFRequest asks the document API for a PDF. HasUnsavedChanges reports
// whether the caller's form differs from the stored document.
type GeneratePDFRequest struct {
	HasUnsavedChanges bool `json:"hasUnsavedChanges"`
}
