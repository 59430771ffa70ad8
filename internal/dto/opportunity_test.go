package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToViewQuery_SearchIsPassedThroughUntrimmed(t *testing.T) {
	q, err := ListOpportunitiesParams{Search: "Elm "}.ToViewQuery()

	require.NoError(t, err)
	assert.Equal(t, "Elm ", q.Search)
}

func TestToViewQuery_ClosingDateBounds(t *testing.T) {
	q, err := ListOpportunitiesParams{
		ClosingFrom: "2024-01-01",
		ClosingTo:   "2024-03-31",
	}.ToViewQuery()

	require.NoError(t, err)
	require.NotNil(t, q.Filters.ActualClosingDate.From)
	require.NotNil(t, q.Filters.ActualClosingDate.To)
	assert.Equal(t, "2024-01-01", q.Filters.ActualClosingDate.From.String())
	assert.Equal(t, "2024-03-31", q.Filters.ActualClosingDate.To.String())
}

func TestToViewQuery_InvalidClosingDate(t *testing.T) {
	_, err := ListOpportunitiesParams{ClosingTo: "31/03/2024"}.ToViewQuery()
	assert.ErrorContains(t, err, "actualClosingDateTo")
}
