package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iipmodel/readiness/internal/contract"
	"github.com/iipmodel/readiness/schema"
)

// Table names for run tracking.
const (
	runsTable            = "readiness_assessment_runs"
	dimensionScoresTable = "readiness_dimension_scores"
)

// RunStoreImpl implements the RunStore interface.
type RunStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.RunStore = &RunStoreImpl{} // Compile-time check

// NewRunStore creates a new RunStore with the specified backend.
func NewRunStore(backend schema.DatabaseBackend, connStr string) (contract.RunStore, error) {
	if backend == schema.NoneBackend {
		// No-op store for disabled tracking
		return &RunStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, GetRunDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createRunTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create run tables: %w", err)
	}

	return &RunStoreImpl{db: db, backend: backend}, nil
}

// createRunTables creates the run tracking tables.
func createRunTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{dimensionScoresTable, getCreateDimensionScoresQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for readiness_assessment_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				session_id VARCHAR(64) NOT NULL,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				total_dimensions INT,
				final_score DOUBLE,
				score_label VARCHAR(50),
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				session_id TEXT NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				total_dimensions INT,
				final_score DOUBLE PRECISION,
				score_label TEXT,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				session_id TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				total_dimensions INTEGER,
				final_score REAL,
				score_label TEXT,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateDimensionScoresQuery returns the CREATE TABLE query for readiness_dimension_scores.
func getCreateDimensionScoresQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(dimensionScoresTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				dimension_id VARCHAR(100) NOT NULL,
				dimension_name VARCHAR(255) NOT NULL,
				recorded_at DATETIME(6) NOT NULL,
				overall DOUBLE NOT NULL,
				weight DOUBLE NOT NULL,
				display_value DOUBLE NOT NULL,
				answered INT NOT NULL,
				total INT NOT NULL,
				PRIMARY KEY (run_id, dimension_id)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				dimension_id TEXT NOT NULL,
				dimension_name TEXT NOT NULL,
				recorded_at TIMESTAMPTZ NOT NULL,
				overall DOUBLE PRECISION NOT NULL,
				weight DOUBLE PRECISION NOT NULL,
				display_value DOUBLE PRECISION NOT NULL,
				answered INT NOT NULL,
				total INT NOT NULL,
				PRIMARY KEY (run_id, dimension_id)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				dimension_id TEXT NOT NULL,
				dimension_name TEXT NOT NULL,
				recorded_at TEXT NOT NULL,
				overall REAL NOT NULL,
				weight REAL NOT NULL,
				display_value REAL NOT NULL,
				answered INTEGER NOT NULL,
				total INTEGER NOT NULL,
				PRIMARY KEY (run_id, dimension_id)
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new assessment run and returns its unique ID.
func (rs *RunStoreImpl) BeginRun(startTime time.Time, sessionID string, configParams map[string]any) (int64, error) {
	if rs.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)

	var runID int64
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (session_id, start_time, config_params) VALUES ($1, $2, $3) RETURNING run_id`, quotedTableName)
		err = rs.db.QueryRow(query, sessionID, startTime, string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (session_id, start_time, config_params) VALUES (?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = rs.db.Exec(query, sessionID, formatTime(startTime, rs.backend), string(configJSON))
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert assessment run: %w", err)
	}
	return runID, nil
}

// RecordDimensionScore stores the scored view of one dimension for a run.
func (rs *RunStoreImpl) RecordDimensionScore(runID int64, dim schema.DimensionResult) error {
	if rs.db == nil {
		return nil
	}

	p := func(n int) string { return placeholder(rs.backend, n) }
	query := fmt.Sprintf(`
		INSERT INTO %s (run_id, dimension_id, dimension_name, recorded_at, overall, weight, display_value, answered, total)
		VALUES (%s, %s, %s, %s, %s, %s, %s, %s, %s)
	`, quoteTableName(dimensionScoresTable, rs.backend), p(1), p(2), p(3), p(4), p(5), p(6), p(7), p(8), p(9))

	_, err := rs.db.Exec(query,
		runID, dim.ID, dim.Name, formatTime(time.Now(), rs.backend),
		dim.Overall, dim.Weight, dim.DisplayValue, dim.Answered, dim.Total)
	if err != nil {
		return fmt.Errorf("failed to insert score of dimension %s: %w", dim.ID, err)
	}
	return nil
}

// EndRun updates the run with completion data.
func (rs *RunStoreImpl) EndRun(runID int64, endTime time.Time, finalScore float64, label string, totalDimensions int) error {
	if rs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)
	row := rs.db.QueryRow(fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, placeholder(rs.backend, 1)), runID)

	var startTime time.Time
	switch rs.backend {
	case schema.SQLiteBackend:
		var startTimeStr string
		if err := row.Scan(&startTimeStr); err != nil {
			return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
		}
		var err error
		if startTime, err = parseTime(startTimeStr); err != nil {
			return fmt.Errorf("failed to parse start_time: %w", err)
		}
	default: // MySQL and PostgreSQL store as native datetime
		if err := row.Scan(&startTime); err != nil {
			return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
		}
	}

	durationMs := endTime.Sub(startTime).Milliseconds()

	p := func(n int) string { return placeholder(rs.backend, n) }
	query := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, final_score = %s, score_label = %s, total_dimensions = %s WHERE run_id = %s`,
		quotedTableName, p(1), p(2), p(3), p(4), p(5), p(6))
	if _, err := rs.db.Exec(query, formatTime(endTime, rs.backend), durationMs, finalScore, label, totalDimensions, runID); err != nil {
		return fmt.Errorf("failed to update assessment run: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (rs *RunStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the run store.
func (rs *RunStoreImpl) GetStatus() (schema.RunStoreStatus, error) {
	status := schema.RunStoreStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if rs.db == nil {
		return status, nil
	}

	quotedRuns := quoteTableName(runsTable, rs.backend)
	if err := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRuns)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		lastID, lastTime, err := rs.scanRunStart(fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", quotedRuns))
		if err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		status.LastRunID = lastID
		status.LastRunTime = lastTime

		_, oldestTime, err := rs.scanRunStart(fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id ASC LIMIT 1", quotedRuns))
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldestTime
	}

	for _, table := range []string{runsTable, dimensionScoresTable} {
		var count int64
		if err := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, rs.backend))).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalDimensionScores = int(status.TableSizes[dimensionScoresTable])

	return status, nil
}

// scanRunStart reads a run ID and its start time from a single-row query.
func (rs *RunStoreImpl) scanRunStart(query string) (int64, time.Time, error) {
	row := rs.db.QueryRow(query)
	var id int64
	if rs.backend == schema.SQLiteBackend {
		var ts string
		if err := row.Scan(&id, &ts); err != nil {
			return 0, time.Time{}, err
		}
		t, err := parseTime(ts)
		return id, t, err
	}
	var t time.Time
	err := row.Scan(&id, &t)
	return id, t, err
}

// GetAllRuns retrieves all assessment runs from the store.
func (rs *RunStoreImpl) GetAllRuns() ([]schema.AssessmentRunRecord, error) {
	if rs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, session_id, start_time, end_time, run_duration_ms, COALESCE(total_dimensions, 0),
		final_score, score_label, config_params FROM %s ORDER BY run_id`, quoteTableName(runsTable, rs.backend))
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessment runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.AssessmentRunRecord
	for rows.Next() {
		var record schema.AssessmentRunRecord

		switch rs.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.RunID, &record.SessionID, &startTimeStr, &endTimeStr, &record.RunDurationMs,
				&record.TotalDimensions, &record.FinalScore, &record.ScoreLabel, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan assessment run: %w", err)
			}
			if record.StartTime, err = parseTime(startTimeStr); err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			if endTimeStr != nil {
				endTime, err := parseTime(*endTimeStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.SessionID, &record.StartTime, &record.EndTime, &record.RunDurationMs,
				&record.TotalDimensions, &record.FinalScore, &record.ScoreLabel, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan assessment run: %w", err)
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assessment runs: %w", err)
	}
	return results, nil
}

// GetAllDimensionScores retrieves all recorded dimension scores from the store.
func (rs *RunStoreImpl) GetAllDimensionScores() ([]schema.DimensionScoreRecord, error) {
	if rs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, dimension_id, dimension_name, recorded_at, overall, weight, display_value, answered, total
		FROM %s ORDER BY run_id, dimension_id`, quoteTableName(dimensionScoresTable, rs.backend))
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query dimension scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.DimensionScoreRecord
	for rows.Next() {
		var record schema.DimensionScoreRecord

		switch rs.backend {
		case schema.SQLiteBackend:
			var recordedAt string
			if err := rows.Scan(&record.RunID, &record.DimensionID, &record.DimensionName, &recordedAt,
				&record.Overall, &record.Weight, &record.DisplayValue, &record.Answered, &record.Total); err != nil {
				return nil, fmt.Errorf("failed to scan dimension score: %w", err)
			}
			if record.RecordedAt, err = parseTime(recordedAt); err != nil {
				return nil, fmt.Errorf("failed to parse recorded_at: %w", err)
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.DimensionID, &record.DimensionName, &record.RecordedAt,
				&record.Overall, &record.Weight, &record.DisplayValue, &record.Answered, &record.Total); err != nil {
				return nil, fmt.Errorf("failed to scan dimension score: %w", err)
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dimension scores: %w", err)
	}
	return results, nil
}
