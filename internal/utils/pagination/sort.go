// Package pagination orders and slices the filtered opportunity view.
package pagination

import (
	"slices"

	"github.com/SscSPs/loan_dashboard/internal/core/domain"
	"github.com/SscSPs/loan_dashboard/internal/utils/collation"
)

// Sort returns a stably sorted copy of records. An empty field keeps the input
// order. Records lacking a value sort before records that carry one.
func Sort(records []*domain.Opportunity, spec domain.SortSpec) []*domain.Opportunity {
	out := slices.Clone(records)
	if spec.Field == "" {
		return out
	}
	cmp := comparatorFor(spec.Field)
	slices.SortStableFunc(out, func(a, b *domain.Opportunity) int {
		if spec.Direction == domain.SortDescending {
			return cmp(b, a)
		}
		return cmp(a, b)
	})
	return out
}

type comparator func(a, b *domain.Opportunity) int

func comparatorFor(field domain.FieldName) comparator {
	switch field {
	case domain.FieldMonetaryValue:
		return compareMonetaryValue
	case domain.FieldActualClosingDate:
		return compareClosingDate
	}
	return func(a, b *domain.Opportunity) int {
		av, _ := a.StringValue(field)
		bv, _ := b.StringValue(field)
		return collation.Compare(av, bv)
	}
}

func compareMonetaryValue(a, b *domain.Opportunity) int {
	av, bv := a.MonetaryValue, b.MonetaryValue
	switch {
	case !av.Valid && !bv.Valid:
		return 0
	case !av.Valid:
		return -1
	case !bv.Valid:
		return 1
	}
	return av.Decimal.Cmp(bv.Decimal)
}

func compareClosingDate(a, b *domain.Opportunity) int {
	ad, bd := a.ActualClosingDate, b.ActualClosingDate
	switch {
	case ad == nil && bd == nil:
		return 0
	case ad == nil:
		return -1
	case bd == nil:
		return 1
	}
	return ad.StartOfDay().Compare(bd.StartOfDay())
}
