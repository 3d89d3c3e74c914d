package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/iipmodel/readiness/internal/contract"
	"github.com/iipmodel/readiness/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// sessionTable is the name of the table holding session snapshots.
const sessionTable = "readiness_sessions"

// SessionStoreImpl keeps session snapshots in one of the supported database backends.
type SessionStoreImpl struct {
	db        *sql.DB
	tableName string
	backend   schema.DatabaseBackend
	connStr   string
}

var _ contract.SessionStore = &SessionStoreImpl{} // Compile-time check

// NewSessionStore initializes and returns a new SessionStore based on the backend type.
func NewSessionStore(tableName string, backend schema.DatabaseBackend, connStr string) (contract.SessionStore, error) {
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}

	if backend == schema.NoneBackend {
		return &SessionStoreImpl{tableName: tableName, backend: backend, connStr: connStr}, nil
	}

	db, err := openDB(backend, connStr, GetSessionDBFilePath())
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(getCreateSessionTableQuery(tableName, backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	return &SessionStoreImpl{
		db:        db,
		tableName: tableName,
		backend:   backend,
		connStr:   connStr,
	}, nil
}

// getCreateSessionTableQuery returns the CREATE TABLE query for the given backend.
func getCreateSessionTableQuery(tableName string, backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(tableName, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				session_key VARCHAR(64) PRIMARY KEY,
				snapshot BLOB NOT NULL,
				snapshot_version INT NOT NULL,
				updated_at BIGINT NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				session_key TEXT PRIMARY KEY,
				snapshot BYTEA NOT NULL,
				snapshot_version INTEGER NOT NULL,
				updated_at BIGINT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				session_key TEXT PRIMARY KEY,
				snapshot BLOB NOT NULL,
				snapshot_version INTEGER NOT NULL,
				updated_at INTEGER NOT NULL
			);
		`, quotedTableName)
	}
}

// Get retrieves a snapshot by session ID.
// A missing session yields sql.ErrNoRows.
func (ss *SessionStoreImpl) Get(key string) ([]byte, int, int64, error) {
	if ss.db == nil {
		return nil, 0, 0, sql.ErrNoRows
	}

	var value []byte
	var version int
	var ts int64

	query := fmt.Sprintf(`SELECT snapshot, snapshot_version, updated_at FROM %s WHERE session_key = %s`,
		quoteTableName(ss.tableName, ss.backend), placeholder(ss.backend, 1))
	if err := ss.db.QueryRow(query, key).Scan(&value, &version, &ts); err != nil {
		return nil, 0, 0, err
	}
	return value, version, ts, nil
}

// Set inserts or replaces the snapshot of a session.
func (ss *SessionStoreImpl) Set(key string, value []byte, version int, timestamp int64) error {
	if ss.db == nil {
		return nil
	}
	_, err := ss.db.Exec(ss.getUpsertQuery(), key, value, version, timestamp)
	return err
}

// Delete removes the snapshot of a session.
// Deleting an unknown session yields sql.ErrNoRows.
func (ss *SessionStoreImpl) Delete(key string) error {
	if ss.db == nil {
		return nil
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE session_key = %s`,
		quoteTableName(ss.tableName, ss.backend), placeholder(ss.backend, 1))
	res, err := ss.db.Exec(query, key)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// getUpsertQuery returns the UPSERT query for the backend.
func (ss *SessionStoreImpl) getUpsertQuery() string {
	quotedTableName := quoteTableName(ss.tableName, ss.backend)
	switch ss.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (session_key, snapshot, snapshot_version, updated_at) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE snapshot = new.snapshot, snapshot_version = new.snapshot_version, updated_at = new.updated_at`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (session_key, snapshot, snapshot_version, updated_at) VALUES ($1, $2, $3, $4)
			ON CONFLICT (session_key) DO UPDATE SET snapshot = EXCLUDED.snapshot, snapshot_version = EXCLUDED.snapshot_version, updated_at = EXCLUDED.updated_at`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (session_key, snapshot, snapshot_version, updated_at) VALUES (?, ?, ?, ?)`, quotedTableName)
	}
}

// Close closes the underlying DB connection.
func (ss *SessionStoreImpl) Close() error {
	if ss.db != nil {
		return ss.db.Close()
	}
	return nil
}

// GetStatus returns status information about the session store.
func (ss *SessionStoreImpl) GetStatus() (schema.SessionStoreStatus, error) {
	status := schema.SessionStoreStatus{
		Backend:   string(ss.backend),
		Connected: ss.db != nil,
	}
	if ss.db == nil {
		return status, nil
	}

	quotedTableName := quoteTableName(ss.tableName, ss.backend)

	row := ss.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTableName))
	if err := row.Scan(&status.TotalSessions); err != nil {
		return status, fmt.Errorf("failed to get total sessions: %w", err)
	}
	if status.TotalSessions == 0 {
		return status, nil
	}

	var lastTs, oldestTs int64
	row = ss.db.QueryRow(fmt.Sprintf("SELECT MAX(updated_at), MIN(updated_at) FROM %s", quotedTableName))
	if err := row.Scan(&lastTs, &oldestTs); err != nil {
		return status, fmt.Errorf("failed to get session update times: %w", err)
	}
	status.LastUpdateTime = time.Unix(lastTs, 0)
	status.OldestEntryTime = time.Unix(oldestTs, 0)

	status.TableSizeBytes = ss.tableSize(status.TotalSessions)
	return status, nil
}

// tableSize estimates the storage used by the session table.
func (ss *SessionStoreImpl) tableSize(rows int) int64 {
	estimate := int64(rows) * 1000
	var size int64

	switch ss.backend {
	case schema.SQLiteBackend:
		row := ss.db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
		if err := row.Scan(&size); err != nil {
			return 0
		}
		return size

	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(ss.connStr)
		if err != nil || cfg.DBName == "" {
			return estimate
		}
		row := ss.db.QueryRow("SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?",
			cfg.DBName, ss.tableName)
		if err := row.Scan(&size); err != nil {
			return estimate
		}
		return size

	case schema.PostgreSQLBackend:
		row := ss.db.QueryRow("SELECT pg_total_relation_size($1)", ss.tableName)
		if err := row.Scan(&size); err != nil {
			return estimate
		}
		return size

	default:
		return estimate
	}
}
