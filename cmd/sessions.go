package cmd

import (
	"fmt"

	"github.com/iipmodel/readiness/internal/contract"
	"github.com/iipmodel/readiness/internal/iocache"
	"github.com/iipmodel/readiness/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// backendFromViper reads a backend key; empty means def.
func backendFromViper(key string, def schema.DatabaseBackend) schema.DatabaseBackend {
	if s := viper.GetString(key); s != "" {
		return schema.DatabaseBackend(s)
	}
	return def
}

// sqliteFilePath returns the database file a SQLite store uses.
func sqliteFilePath(connStr, defaultPath string) string {
	if connStr != "" {
		return connStr
	}
	return defaultPath
}

// sessionsSetup loads minimal configuration needed for session store operations.
// This is used by commands that need store access without full shared setup.
func sessionsSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := backendFromViper("session-backend", schema.SQLiteBackend)
	connStr := viper.GetString("session-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize the session store only (no run tracking for store commands)
	if err := iocache.InitStores(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}

	cfg.SessionBackend = backend
	cfg.SessionDBConnect = connStr

	return nil
}

// sessionsSetupWrapper wraps sessionsSetup to provide PreRunE for sessions commands.
func sessionsSetupWrapper(_ *cobra.Command, _ []string) error {
	return sessionsSetup()
}

// sessionsCmd focused on session store management.
//
// Note: sessions subcommands use minimal initialization instead of the full
// sharedSetup. This avoids catalog loading and config processing for simple
// store operations.
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage the session store",
	Long: `Manage the store that keeps assessment sessions between invocations.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (no persisted sessions)

Subcommands:
  status - Show session store statistics and connection info
  clear  - Remove every stored session

Examples:
  # Check session store status
  readiness sessions status

  # Remove all sessions
  readiness sessions clear`,
}

// sessionsClearCmd clears the session store.
var sessionsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every stored session",
	Long: `Delete every stored session from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the session table

Examples:
  # Clear SQLite sessions (default)
  readiness sessions clear

  # Clear MySQL sessions (set connection string via env variable)
  READINESS_SESSION_BACKEND=mysql READINESS_SESSION_DB_CONNECT="..." readiness sessions clear`,
	PreRunE: sessionsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// Release the connection before the file or table goes away
		iocache.CloseStores()
		path := sqliteFilePath(cfg.SessionDBConnect, iocache.GetSessionDBFilePath())
		if err := iocache.ClearSessions(cfg.SessionBackend, path, cfg.SessionDBConnect); err != nil {
			contract.LogFatal("Failed to clear sessions", err)
		}
		fmt.Println("Sessions cleared successfully.")
	},
}

// sessionsStatusCmd shows session store status.
var sessionsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display session store statistics and connection details",
	Long: `Show detailed information about the session store.

Displays:
- Backend type and connection status
- Total number of stored sessions
- Last and oldest update timestamps
- Table size

Examples:
  # Check session store status
  readiness sessions status`,
	PreRunE: sessionsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetSessionStore()
		if store == nil {
			iocache.PrintSessionStatus(schema.SessionStoreStatus{Backend: string(cfg.SessionBackend)})
			return
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get session store status", err)
		}
		iocache.PrintSessionStatus(status)
	},
}
