package pagination

import (
	"fmt"
	"slices"

	"github.com/SscSPs/loan_dashboard/internal/core/domain"
)

// Default page size settings used when configuration does not override them.
var (
	DefaultPageSizes = []int{25, 50, 100, 250}
	DefaultPageSize  = 100
)

// PageRequest selects a page of the sorted view. Page is 1-based.
type PageRequest struct {
	Page int
	Size int
}

// WithSize changes the page size. Any size change goes back to the first page
// so the caller never lands past the end of the result set.
func (p PageRequest) WithSize(size int) PageRequest {
	if size == p.Size {
		return p
	}
	return PageRequest{Page: 1, Size: size}
}

// Validate checks the request against the allowed page sizes and fills in
// defaults for zero values.
func (p PageRequest) Validate(allowed []int, defaultSize int) (PageRequest, error) {
	if p.Size == 0 {
		p.Size = defaultSize
	}
	if p.Page == 0 {
		p.Page = 1
	}
	if p.Page < 1 {
		return p, fmt.Errorf("page must be at least 1, got %d", p.Page)
	}
	if !slices.Contains(allowed, p.Size) {
		return p, fmt.Errorf("page size %d is not one of %v", p.Size, allowed)
	}
	return p, nil
}

// TotalPages is ceil(n/size) with a minimum of one page.
func TotalPages(n, size int) int {
	if size <= 0 || n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// Paginate returns the records of the requested page. Pages past the end yield
// an empty slice.
func Paginate(records []*domain.Opportunity, req PageRequest) []*domain.Opportunity {
	if req.Size <= 0 {
		return []*domain.Opportunity{}
	}
	page := max(req.Page, 1)
	// Compare page counts before multiplying so huge page numbers cannot overflow.
	if page-1 >= TotalPages(len(records), req.Size) || len(records) == 0 {
		return []*domain.Opportunity{}
	}
	start := (page - 1) * req.Size
	end := min(start+req.Size, len(records))
	return slices.Clone(records[start:end])
}
