// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/iipmodel/readiness/schema"
)

// StoreManager defines the interface for managing persistence stores.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetSessionStore() SessionStore
	GetRunStore() RunStore
}

// SessionStore defines the interface for session snapshot storage.
// Values are opaque snapshot payloads keyed by session ID.
type SessionStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	Delete(key string) error
	GetStatus() (schema.SessionStoreStatus, error)
	Close() error
}

// RunStore defines the interface for tracking assessment runs and their dimension scores.
type RunStore interface {
	// BeginRun creates a new assessment run and returns its unique ID
	BeginRun(startTime time.Time, sessionID string, configParams map[string]any) (int64, error)

	// RecordDimensionScore stores the scored view of one dimension
	RecordDimensionScore(runID int64, dim schema.DimensionResult) error

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, finalScore float64, label string, totalDimensions int) error

	// GetStatus returns status information about the run store
	GetStatus() (schema.RunStoreStatus, error)

	// GetAllRuns retrieves all assessment runs
	GetAllRuns() ([]schema.AssessmentRunRecord, error)

	// GetAllDimensionScores retrieves all recorded dimension scores
	GetAllDimensionScores() ([]schema.DimensionScoreRecord, error)

	// Close closes the underlying connection
	Close() error
}
