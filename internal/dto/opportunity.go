package dto

import (
	"fmt"

	"github.com/SscSPs/loan_dashboard/internal/core/domain"
	"github.com/SscSPs/loan_dashboard/internal/models"
	"github.com/SscSPs/loan_dashboard/internal/utils/mapping"
)

// ListOpportunitiesParams defines the query parameters of the dashboard view.
// Multi-select filters repeat the parameter: ?pipeline=Bridge&pipeline=Rental.
type ListOpportunitiesParams struct {
	Search        string   `form:"search"`
	AssignedUser  []string `form:"assignedUser"`
	Pipeline      []string `form:"pipeline"`
	PipelineStage []string `form:"pipelineStage"`
	Stage         []string `form:"stage"`
	LoanType      []string `form:"loan_type"`
	Followers     []string `form:"followers"`
	ClosingFrom   string   `form:"actualClosingDateFrom" binding:"omitempty,datetime=2006-01-02"`
	ClosingTo     string   `form:"actualClosingDateTo" binding:"omitempty,datetime=2006-01-02"`
	Sort          string   `form:"sort"`
	Direction     string   `form:"dir" binding:"omitempty,oneof=asc desc"`
	Page          int      `form:"page" binding:"omitempty,min=1"`
	PageSize      int      `form:"pageSize" binding:"omitempty,min=1"`
}

// ToViewQuery converts the query parameters into a domain view query.
func (p ListOpportunitiesParams) ToViewQuery() (domain.ViewQuery, error) {
	q := domain.ViewQuery{
		Search: p.Search,
		Filters: domain.FilterState{
			AssignedUser:  p.AssignedUser,
			Pipeline:      p.Pipeline,
			PipelineStage: p.PipelineStage,
			Stage:         p.Stage,
			LoanType:      p.LoanType,
			Followers:     p.Followers,
		},
		Sort: domain.SortSpec{
			Field:     domain.FieldName(p.Sort),
			Direction: domain.SortDirection(p.Direction),
		},
		Page:     p.Page,
		PageSize: p.PageSize,
	}
	if p.ClosingFrom != "" {
		d, err := domain.ParseDate(p.ClosingFrom)
		if err != nil {
			return q, fmt.Errorf("invalid actualClosingDateFrom: %w", err)
		}
		q.Filters.ActualClosingDate.From = d.Ptr()
	}
	if p.ClosingTo != "" {
		d, err := domain.ParseDate(p.ClosingTo)
		if err != nil {
			return q, fmt.Errorf("invalid actualClosingDateTo: %w", err)
		}
		q.Filters.ActualClosingDate.To = d.Ptr()
	}
	return q, nil
}

// SortResponse echoes the applied sort.
type SortResponse struct {
	Field     string `json:"field,omitempty"`
	Direction string `json:"direction,omitempty"`
}

// DashboardViewResponse is one page of the dashboard table.
type DashboardViewResponse struct {
	Records    []models.Opportunity `json:"records"`
	Total      int                  `json:"total"`
	Filtered   int                  `json:"filtered"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"pageSize"`
	TotalPages int                  `json:"totalPages"`
	Sort       SortResponse         `json:"sort"`
	Options    domain.FilterOptions `json:"options"`
	Status     domain.LoadStatus    `json:"status"`
}

// ToDashboardViewResponse converts a domain view.
func ToDashboardViewResponse(v *domain.DashboardView) DashboardViewResponse {
	return DashboardViewResponse{
		Records:    mapping.ToModelOpportunitySlice(v.Records),
		Total:      v.Total,
		Filtered:   v.Filtered,
		Page:       v.Page,
		PageSize:   v.PageSize,
		TotalPages: v.TotalPages,
		Sort:       SortResponse{Field: string(v.Sort.Field), Direction: string(v.Sort.Direction)},
		Options:    v.Options,
		Status:     v.Status,
	}
}

// PatchFieldRequest carries the new value of a single field. JSON null clears
// dates and followers.
type PatchFieldRequest struct {
	Value any `json:"value"`
}

// UpdateOpportunityRequest carries a partial update of several fields.
type UpdateOpportunityRequest struct {
	Updates map[string]any `json:"updates" binding:"required"`
}

// UpdateOpportunityResponse reports what was sent and the merged record.
type UpdateOpportunityResponse struct {
	Changed bool               `json:"changed"`
	Applied []string           `json:"applied"`
	Record  models.Opportunity `json:"record"`
}

// ToUpdateOpportunityResponse converts an update result.
func ToUpdateOpportunityResponse(r domain.UpdateResult) UpdateOpportunityResponse {
	applied := make([]string, 0, len(r.Applied))
	for _, f := range r.Applied.Fields() {
		applied = append(applied, string(f))
	}
	resp := UpdateOpportunityResponse{Changed: r.Changed, Applied: applied}
	if r.Record != nil {
		resp.Record = mapping.ToModelOpportunity(r.Record)
	}
	return resp
}
