package mapping

import (
	"slices"

	"github.com/SscSPs/loan_dashboard/internal/core/domain"
	"github.com/SscSPs/loan_dashboard/internal/models"
)

// ToDomainOpportunity converts the wire model into a domain opportunity.
// An unparseable closing date is treated as absent.
func ToDomainOpportunity(m models.Opportunity) *domain.Opportunity {
	o := &domain.Opportunity{
		ID:              m.ID,
		Name:            m.Name,
		OpportunityName: m.OpportunityName,
		BusinessName:    m.BusinessName,
		Lender:          m.Lender,
		Pipeline:        m.Pipeline,
		PipelineStage:   m.PipelineStage,
		Stage:           m.Stage,
		LoanType:        m.LoanType,
		AssignedUser:    m.AssignedUser,
		Followers:       slices.Clone(m.Followers),
		MonetaryValue:   m.MonetaryValue.NullDecimal,
		DealNotes:       m.DealNotes,
		AppraisalNotes:  m.AppraisalNotes,
		InsuranceNotes:  m.InsuranceNotes,
		TitleNotes:      m.TitleNotes,
		FollowUpFriday:  m.FollowUpFriday,
	}
	if m.ActualClosingDate != nil && *m.ActualClosingDate != "" {
		if d, err := domain.ParseDate(*m.ActualClosingDate); err == nil {
			o.ActualClosingDate = d.Ptr()
		}
	}
	if len(m.Extra) > 0 {
		o.Extra = make(map[string]any, len(m.Extra))
		for k, v := range m.Extra {
			o.Extra[k] = v
		}
	}
	return o
}

// ToDomainOpportunitySlice converts a slice of wire models.
func ToDomainOpportunitySlice(ms []models.Opportunity) []*domain.Opportunity {
	out := make([]*domain.Opportunity, len(ms))
	for i, m := range ms {
		out[i] = ToDomainOpportunity(m)
	}
	return out
}

// ToModelOpportunity converts a domain opportunity into its wire model.
func ToModelOpportunity(o *domain.Opportunity) models.Opportunity {
	m := models.Opportunity{
		ID:              o.ID,
		Name:            o.Name,
		OpportunityName: o.OpportunityName,
		BusinessName:    o.BusinessName,
		Lender:          o.Lender,
		Pipeline:        o.Pipeline,
		PipelineStage:   o.PipelineStage,
		Stage:           o.Stage,
		LoanType:        o.LoanType,
		AssignedUser:    o.AssignedUser,
		Followers:       slices.Clone(o.Followers),
		MonetaryValue:   models.Money{NullDecimal: o.MonetaryValue},
		DealNotes:       o.DealNotes,
		AppraisalNotes:  o.AppraisalNotes,
		InsuranceNotes:  o.InsuranceNotes,
		TitleNotes:      o.TitleNotes,
		FollowUpFriday:  o.FollowUpFriday,
	}
	if m.Followers == nil {
		m.Followers = []string{}
	}
	if o.ActualClosingDate != nil {
		s := o.ActualClosingDate.String()
		m.ActualClosingDate = &s
	}
	if len(o.Extra) > 0 {
		m.Extra = make(models.ExtraAttr, len(o.Extra))
		for k, v := range o.Extra {
			m.Extra[k] = v
		}
	}
	return m
}

// ToModelOpportunitySlice converts domain opportunities into wire models.
func ToModelOpportunitySlice(os []*domain.Opportunity) []models.Opportunity {
	out := make([]models.Opportunity, len(os))
	for i, o := range os {
		out[i] = ToModelOpportunity(o)
	}
	return out
}

// ToDomainPipelines flattens the one-key-per-pipeline catalog shape.
func ToDomainPipelines(catalog models.PipelineCatalog) []domain.Pipeline {
	pipelines := make([]domain.Pipeline, 0, len(catalog.Pipelines))
	for _, entry := range catalog.Pipelines {
		for name, stages := range entry {
			p := domain.Pipeline{Name: name, Stages: make([]domain.PipelineStage, len(stages))}
			for i, s := range stages {
				p.Stages[i] = domain.PipelineStage{ID: string(s.ID), Name: s.Name}
			}
			pipelines = append(pipelines, p)
		}
	}
	return pipelines
}
