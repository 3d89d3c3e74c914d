package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/iipmodel/readiness/internal/contract"
	"github.com/iipmodel/readiness/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &StoreManagerImpl{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetSessionDBFilePath returns the path to the SQLite DB file for session storage.
func GetSessionDBFilePath() string {
	return contract.GetSessionDBFilePath()
}

// GetRunDBFilePath returns the path to the SQLite DB file for run storage.
func GetRunDBFilePath() string {
	return contract.GetRunDBFilePath()
}

// enabled reports whether a backend should get a live store.
func enabled(backend schema.DatabaseBackend) bool {
	return backend != "" && backend != schema.NoneBackend
}

// InitStores initializes the global manager with separate session and run stores.
// An empty or none backend leaves the corresponding store disabled.
func InitStores(sessionBackend schema.DatabaseBackend, sessionConnStr string, runBackend schema.DatabaseBackend, runConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		var sessions contract.SessionStore
		if enabled(sessionBackend) {
			store, err := NewSessionStore(sessionTable, sessionBackend, sessionConnStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize session store: %w", err)
				return
			}
			sessions = store
		}

		var runs contract.RunStore
		if enabled(runBackend) {
			store, err := NewRunStore(runBackend, runConnStr)
			if err != nil {
				if sessions != nil {
					_ = sessions.Close()
				}
				initErr = fmt.Errorf("failed to initialize run store: %w", err)
				return
			}
			runs = store
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.sessions = sessions
		Manager.runs = runs
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.sessions != nil {
			_ = Manager.sessions.Close()
		}
		if Manager.runs != nil {
			_ = Manager.runs.Close()
		}
	})
}

// ClearSessions removes every stored session for the specified backend.
// For SQLite, it deletes the database file.
// For MySQL and PostgreSQL, it drops the table.
func ClearSessions(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearBackend(backend, dbFilePath, connStr, sessionTable)
}

// ClearRuns removes the run history for the specified backend.
// For SQLite, it deletes the database file.
// For MySQL and PostgreSQL, it drops the run tables.
func ClearRuns(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearBackend(backend, dbFilePath, connStr, dimensionScoresTable, runsTable)
}

func clearBackend(backend schema.DatabaseBackend, dbFilePath, connStr string, tables ...string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		driverName, _ := driverNameOf(backend)
		for _, table := range tables {
			if err := clearSQLTable(driverName, connStr, table, backend); err != nil {
				return err
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(driverName, connStr, tableName string, backend schema.DatabaseBackend) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(tableName, backend))
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}
	return nil
}
