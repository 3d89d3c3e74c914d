package schema

import "time"

// SessionStoreStatus represents the status of the session store.
type SessionStoreStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalSessions   int       `json:"total_sessions"`
	LastUpdateTime  time.Time `json:"last_update_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// RunStoreStatus represents the status of the assessment run store.
type RunStoreStatus struct {
	Backend              string           `json:"backend"`
	Connected            bool             `json:"connected"`
	TotalRuns            int              `json:"total_runs"`
	LastRunID            int64            `json:"last_run_id"`
	LastRunTime          time.Time        `json:"last_run_time"`
	OldestRunTime        time.Time        `json:"oldest_run_time"`
	TotalDimensionScores int              `json:"total_dimension_scores"`
	TableSizes           map[string]int64 `json:"table_sizes"`
}
