// Package filtering derives the filtered view of the opportunity collection.
// Every function is pure: inputs are never mutated and the relative order of
// surviving records is preserved.
package filtering

import (
	"slices"
	"strings"

	"github.com/SscSPs/loan_dashboard/internal/core/domain"
)

// Apply returns the records matching the search term and every active filter.
func Apply(records []*domain.Opportunity, state domain.FilterState, search string) []*domain.Opportunity {
	out := make([]*domain.Opportunity, 0, len(records))
	needle := strings.ToLower(search)
	unfiltered := state.IsEmpty()
	for _, r := range records {
		if r == nil {
			continue
		}
		if MatchesSearch(r, needle) && (unfiltered || Matches(r, state)) {
			out = append(out, r)
		}
	}
	return out
}

// MatchesSearch reports whether any attribute of r contains needle, ignoring case.
// needle is expected to be lowercased already; an empty needle matches.
func MatchesSearch(r *domain.Opportunity, needle string) bool {
	if needle == "" {
		return true
	}
	for _, v := range r.SearchValues() {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

// Matches reports whether r satisfies every dimension of state.
func Matches(r *domain.Opportunity, state domain.FilterState) bool {
	return matchExact(r.AssignedUser, state.AssignedUser) &&
		matchExact(r.Pipeline, state.Pipeline) &&
		matchStandardized(r.PipelineStage, state.PipelineStage) &&
		matchExact(r.Stage, state.Stage) &&
		matchExact(r.LoanType, state.LoanType) &&
		MatchFollowers(r.Followers, state.Followers) &&
		MatchDateRange(r.ActualClosingDate, state.ActualClosingDate)
}

// Standardize trims and lowercases a categorical value.
func Standardize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func matchExact(value string, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	return slices.Contains(selected, value)
}

func matchStandardized(value string, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	value = Standardize(value)
	if value == "" {
		return false
	}
	return slices.ContainsFunc(selected, func(s string) bool {
		return Standardize(s) == value
	})
}

// MatchFollowers applies the followers selection. The FollowersNone sentinel
// selects records without followers; other values select records sharing at
// least one follower with the selection.
func MatchFollowers(followers []string, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	wantNone := false
	named := make([]string, 0, len(selected))
	for _, s := range selected {
		if s == domain.FollowersNone {
			wantNone = true
			continue
		}
		named = append(named, s)
	}

	present := make([]string, 0, len(followers))
	for _, f := range followers {
		if f = strings.TrimSpace(f); f != "" {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return wantNone
	}
	for _, f := range present {
		if slices.Contains(named, f) {
			return true
		}
	}
	return false
}

// MatchDateRange applies an inclusive calendar range. Bounds are widened to the
// start and end of their day; a record without a date never matches a set bound.
func MatchDateRange(value *domain.Date, r domain.DateRange) bool {
	if !r.IsSet() {
		return true
	}
	if value == nil {
		return false
	}
	if r.From != nil && r.To != nil && r.From.Equal(*r.To) {
		return value.Equal(*r.From)
	}
	at := value.StartOfDay()
	if r.From != nil && at.Before(r.From.StartOfDay()) {
		return false
	}
	if r.To != nil && at.After(r.To.EndOfDay()) {
		return false
	}
	return true
}
