package core

import (
	"testing"

	"github.com/iipmodel/readiness/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateEmptySession(t *testing.T) {
	catalog := defaultCatalog(t)
	result := Aggregate(NewSession(catalog))

	require.Len(t, result.Dimensions, 7)
	for _, dim := range result.Dimensions {
		assert.Equal(t, 3.0, dim.Overall, dim.ID)
		assert.Equal(t, 1.0, dim.Weight, dim.ID)
		assert.Equal(t, 3.0, dim.DisplayValue, dim.ID)
		assert.Equal(t, 0, dim.Answered, dim.ID)
	}
	assert.Equal(t, 3.0, result.FinalScore)
	assert.Equal(t, schema.PromisingValue, result.Label)
	assert.False(t, result.Progress.AllAnswered)
	assert.Equal(t, catalog.Title, result.Title)
}

func TestAggregateRows(t *testing.T) {
	s := NewSession(testCatalog(t))
	require.NoError(t, s.Answer("immersion", 5))
	require.NoError(t, s.Answer("embodiment", 4))
	require.NoError(t, s.Answer("realism", 5))
	require.NoError(t, s.Answer("co-creation", 2))
	require.NoError(t, s.SetWeight("presence", 1.2))

	result := Aggregate(s)
	require.Len(t, result.Dimensions, 2)

	presence := result.Dimensions[0]
	assert.Equal(t, "presence", presence.ID)
	assert.InDelta(t, 4.75, presence.Overall, 1e-12)
	assert.InDelta(t, 5.0, presence.DisplayValue, 1e-12)
	assert.Equal(t, 3, presence.Answered)
	require.Len(t, presence.Subdimensions, 2)
	assert.Equal(t, schema.SubdimensionResult{ID: "immersion", Name: "Immersion", Mean: 4.5, Answered: 2, Total: 2}, presence.Subdimensions[0])

	collaboration := result.Dimensions[1]
	assert.InDelta(t, 1.0, collaboration.DisplayValue, 1e-12)

	// (5*1.2 + 1*1) / 2.2
	assert.InDelta(t, 7.0/2.2, result.FinalScore, 1e-12)
	assert.Equal(t, schema.PromisingValue, result.Label)
}

func TestAggregateAllWeightsZero(t *testing.T) {
	s := NewSession(testCatalog(t))
	require.NoError(t, s.Answer("immersion", 5))
	require.NoError(t, s.SetWeight("presence", 0))
	require.NoError(t, s.SetWeight("collaboration", 0))

	result := Aggregate(s)
	assert.Equal(t, 0.0, result.FinalScore)
	assert.Equal(t, schema.NotReadyValue, result.Label)
}

func TestRadarSeriesClosed(t *testing.T) {
	s := NewSession(defaultCatalog(t))
	require.NoError(t, s.Answer("remote-access", 5))

	radar := Aggregate(s).Radar
	require.Len(t, radar.Categories, 8)
	require.Len(t, radar.Values, 8)
	assert.Equal(t, radar.Categories[0], radar.Categories[7])
	assert.Equal(t, radar.Values[0], radar.Values[7])
	assert.Equal(t, "Accessibility", radar.Categories[0])
	assert.Equal(t, 5.0, radar.Values[0])
}

func TestRadarSeriesEmpty(t *testing.T) {
	radar := RadarSeriesOf(nil)
	assert.Empty(t, radar.Categories)
	assert.Empty(t, radar.Values)
}
