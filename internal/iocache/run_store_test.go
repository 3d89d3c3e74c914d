package iocache

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/iipmodel/readiness/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dimensionFixture() []schema.DimensionResult {
	return []schema.DimensionResult{
		{ID: "presence", Name: "Presence", Overall: 4.5, Weight: 1.2, DisplayValue: 5, Answered: 3, Total: 3},
		{ID: "privacy", Name: "Privacy", Overall: 2, Weight: 1, DisplayValue: 1, Answered: 2, Total: 4},
	}
}

func TestRunStoreNoneBackend(t *testing.T) {
	store, err := NewRunStore(schema.NoneBackend, "")
	require.NoError(t, err)
	require.NotNil(t, store)

	runID, err := store.BeginRun(time.Now(), "s", map[string]any{"test": "value"})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), runID)

	assert.NoError(t, store.RecordDimensionScore(1, schema.DimensionResult{ID: "presence"}))
	assert.NoError(t, store.EndRun(1, time.Now(), 3, schema.PromisingValue, 1))

	runs, err := store.GetAllRuns()
	assert.NoError(t, err)
	assert.Nil(t, runs)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestRunStoreSQLite(t *testing.T) {
	store, err := NewRunStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	start := time.Now().Add(-2 * time.Second)
	runID, err := store.BeginRun(start, "session-1", map[string]any{"catalog": "Readiness", "answered": 5})
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))

	for _, dim := range dimensionFixture() {
		require.NoError(t, store.RecordDimensionScore(runID, dim))
	}
	require.NoError(t, store.EndRun(runID, time.Now(), 3.1, schema.PromisingValue, 2))

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, runID, run.RunID)
	assert.Equal(t, "session-1", run.SessionID)
	assert.WithinDuration(t, start, run.StartTime, time.Microsecond)
	assert.Equal(t, int32(2), run.TotalDimensions)
	require.NotNil(t, run.EndTime)
	require.NotNil(t, run.RunDurationMs)
	assert.GreaterOrEqual(t, *run.RunDurationMs, int32(2000))
	require.NotNil(t, run.FinalScore)
	assert.Equal(t, 3.1, *run.FinalScore)
	require.NotNil(t, run.ScoreLabel)
	assert.Equal(t, schema.PromisingValue, *run.ScoreLabel)
	require.NotNil(t, run.ConfigParams)

	var params map[string]any
	require.NoError(t, json.Unmarshal([]byte(*run.ConfigParams), &params))
	assert.Equal(t, "Readiness", params["catalog"])

	scores, err := store.GetAllDimensionScores()
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, "presence", scores[0].DimensionID)
	assert.Equal(t, "Presence", scores[0].DimensionName)
	assert.Equal(t, 5.0, scores[0].DisplayValue)
	assert.Equal(t, 1.2, scores[0].Weight)
	assert.Equal(t, int32(3), scores[0].Answered)
	assert.Equal(t, "privacy", scores[1].DimensionID)
	assert.Equal(t, int32(4), scores[1].Total)
	assert.False(t, scores[1].RecordedAt.IsZero())
}

func TestRunStoreUnfinishedRun(t *testing.T) {
	store, err := NewRunStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, err = store.BeginRun(time.Now(), "s", nil)
	require.NoError(t, err)

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Nil(t, runs[0].EndTime)
	assert.Nil(t, runs[0].RunDurationMs)
	assert.Nil(t, runs[0].FinalScore)
	assert.Nil(t, runs[0].ScoreLabel)
	assert.Equal(t, int32(0), runs[0].TotalDimensions)
}

func TestRunStoreDuplicateDimension(t *testing.T) {
	store, err := NewRunStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runID, err := store.BeginRun(time.Now(), "s", nil)
	require.NoError(t, err)
	dim := dimensionFixture()[0]
	require.NoError(t, store.RecordDimensionScore(runID, dim))
	assert.Error(t, store.RecordDimensionScore(runID, dim), "one score per dimension and run")
}

func TestRunStoreEndUnknownRun(t *testing.T) {
	store, err := NewRunStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	assert.Error(t, store.EndRun(42, time.Now(), 3, schema.PromisingValue, 1))
}

func TestRunStoreGetStatus(t *testing.T) {
	store, err := NewRunStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 0, status.TotalRuns)
	assert.Equal(t, int64(0), status.TableSizes[runsTable])

	first := time.Now().Add(-time.Hour)
	var lastID int64
	for i, start := range []time.Time{first, time.Now()} {
		lastID, err = store.BeginRun(start, "s", map[string]any{"i": i})
		require.NoError(t, err)
		for _, dim := range dimensionFixture() {
			require.NoError(t, store.RecordDimensionScore(lastID, dim))
		}
	}

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.Equal(t, 2, status.TotalRuns)
	assert.Equal(t, lastID, status.LastRunID)
	assert.WithinDuration(t, first, status.OldestRunTime, time.Microsecond)
	assert.True(t, status.LastRunTime.After(status.OldestRunTime))
	assert.Equal(t, 4, status.TotalDimensionScores)
	assert.Equal(t, int64(2), status.TableSizes[runsTable])
	assert.Equal(t, int64(4), status.TableSizes[dimensionScoresTable])
}

func TestCreateRunQueries(t *testing.T) {
	tests := []struct {
		backend  schema.DatabaseBackend
		runs     string
		dimScore string
	}{
		{schema.SQLiteBackend, "AUTOINCREMENT", "REAL NOT NULL"},
		{schema.MySQLBackend, "AUTO_INCREMENT", "DOUBLE NOT NULL"},
		{schema.PostgreSQLBackend, "BIGSERIAL", "DOUBLE PRECISION NOT NULL"},
	}

	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			assert.Contains(t, getCreateRunsQuery(tt.backend), tt.runs)
			assert.Contains(t, getCreateRunsQuery(tt.backend), runsTable)
			query := getCreateDimensionScoresQuery(tt.backend)
			assert.Contains(t, query, tt.dimScore)
			assert.Contains(t, query, "PRIMARY KEY (run_id, dimension_id)")
		})
	}
}
