package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterState_IsEmpty(t *testing.T) {
	from, err := ParseDate("2024-01-01")
	require.NoError(t, err)

	assert.True(t, FilterState{}.IsEmpty())
	assert.True(t, FilterState{Pipeline: []string{}}.IsEmpty())
	assert.False(t, FilterState{Followers: []string{"[None]"}}.IsEmpty())
	assert.False(t, FilterState{ActualClosingDate: DateRange{From: from.Ptr()}}.IsEmpty())
}

func TestPipeline_StageByName(t *testing.T) {
	pipelines := []Pipeline{
		{Name: "Bridge", Stages: []PipelineStage{{ID: "stg-1", Name: "Application"}, {ID: "stg-2", Name: "Underwriting"}}},
		{Name: "DSCR"},
	}

	bridge, ok := FindPipeline(pipelines, "Bridge")
	require.True(t, ok)
	stage, ok := bridge.StageByName("Underwriting")
	require.True(t, ok)
	assert.Equal(t, "stg-2", stage.ID)

	_, ok = bridge.StageByName("underwriting")
	assert.False(t, ok)
	_, ok = FindPipeline(pipelines, "Rental")
	assert.False(t, ok)
}
