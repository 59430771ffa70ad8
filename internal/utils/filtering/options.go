package filtering

import (
	"strings"

	"github.com/SscSPs/loan_dashboard/internal/core/domain"
	"github.com/SscSPs/loan_dashboard/internal/utils/collation"
)

// Options derives the selectable values of each categorical dimension from the
// full collection: unique, trimmed, non-empty values in display order.
func Options(records []*domain.Opportunity) domain.FilterOptions {
	assigned := newValueSet()
	pipelines := newValueSet()
	pipelineStages := newValueSet()
	stages := newValueSet()
	loanTypes := newValueSet()
	followers := newValueSet()

	for _, r := range records {
		if r == nil {
			continue
		}
		assigned.add(r.AssignedUser)
		pipelines.add(r.Pipeline)
		pipelineStages.add(r.PipelineStage)
		stages.add(r.Stage)
		loanTypes.add(r.LoanType)
		for _, f := range r.Followers {
			followers.add(f)
		}
	}

	return domain.FilterOptions{
		AssignedUsers:  assigned.sorted(false),
		Pipelines:      pipelines.sorted(false),
		PipelineStages: pipelineStages.sorted(true),
		Stages:         stages.sorted(true),
		LoanTypes:      loanTypes.sorted(false),
		Followers:      append([]string{domain.FollowersNone}, followers.sorted(false)...),
	}
}

type valueSet struct {
	seen   map[string]struct{}
	values []string
}

func newValueSet() *valueSet {
	return &valueSet{seen: map[string]struct{}{}}
}

func (s *valueSet) add(v string) {
	v = strings.TrimSpace(v)
	if v == "" || v == domain.FollowersNone {
		return
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.values = append(s.values, v)
}

func (s *valueSet) sorted(descending bool) []string {
	out := append([]string{}, s.values...)
	collation.Sort(out, descending)
	return out
}
