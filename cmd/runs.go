package cmd

import (
	"fmt"

	"github.com/iipmodel/readiness/internal/contract"
	"github.com/iipmodel/readiness/internal/iocache"
	"github.com/iipmodel/readiness/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runsConfig reads and validates the run store settings.
func runsConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}
	backend := backendFromViper("run-backend", schema.SQLiteBackend)
	connStr := viper.GetString("run-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// runsSetup loads minimal configuration needed for run history operations.
func runsSetup() error {
	backend, connStr, err := runsConfig()
	if err != nil {
		return err
	}

	// Initialize the run store only (no sessions for history commands)
	if err := iocache.InitStores(schema.NoneBackend, "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize run store: %w", err)
	}

	cfg.RunBackend = backend
	cfg.RunDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")

	return nil
}

// runsSetupWrapper wraps runsSetup to provide PreRunE for runs commands.
func runsSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsSetup()
}

// runsMigrateSetup loads the configuration needed for migrations.
// It does NOT initialize stores or create tables, so migrations can run on a fresh database.
func runsMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := runsConfig()
	if err != nil {
		return err
	}
	cfg.RunBackend = backend
	cfg.RunDBConnect = connStr
	if backend == schema.SQLiteBackend {
		cfg.RunDBConnect = sqliteFilePath(connStr, iocache.GetRunDBFilePath())
	}
	return nil
}

// runsCmd focused on assessment run history.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage the history of scored assessments",
	Long: `Manage the history of scored assessments.

Every score and check records a run: the session, the configured weights, the
final score with its label, and the overall, weight and display value of every
dimension. The history feeds trend reports and BI tools.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show run history statistics
  export  - Export the history to Parquet
  clear   - Remove the whole history
  migrate - Run database schema migrations

Examples:
  # Check run history status
  readiness runs status

  # Export for analysis in pandas/DuckDB
  readiness runs export --output-file history`,
}

// runsClearCmd clears the run history.
var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the whole run history",
	Long: `Delete every stored run and dimension score.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  readiness runs export --output-file backup
  readiness runs clear`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		iocache.CloseStores()
		path := sqliteFilePath(cfg.RunDBConnect, iocache.GetRunDBFilePath())
		if err := iocache.ClearRuns(cfg.RunBackend, path, cfg.RunDBConnect); err != nil {
			contract.LogFatal("Failed to clear run history", err)
		}
		fmt.Println("Run history cleared successfully.")
	},
}

// runsStatusCmd shows run history status.
var runsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run history statistics and connection details",
	Long: `Show detailed information about the run history.

Displays:
- Backend type and connection status
- Total number of runs and the latest run ID
- Last and oldest run timestamps
- Total dimension scores
- Rows per table

Examples:
  # Check run history status
  readiness runs status`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetRunStore()
		if store == nil {
			iocache.PrintRunStatus(schema.RunStoreStatus{Backend: string(cfg.RunBackend)})
			return
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get run history status", err)
		}
		iocache.PrintRunStatus(status)
	},
}

// runsExportCmd exports the run history to Parquet files.
var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the run history to Parquet for BI tools and analytics",
	Long: `Export the stored run history to two Parquet files:

- <output-file>.assessment_runs.parquet  - one row per scored assessment
- <output-file>.dimension_scores.parquet - one row per dimension of each run

Requires: --output-file parameter

Examples:
  readiness runs export --output-file history
  duckdb -c "SELECT dimension_id, avg(display_value) FROM 'history.dimension_scores.parquet' GROUP BY 1"`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteRunsExport(iocache.Manager.GetRunStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run history", err)
		}
	},
}

// runsMigrateCmd runs database migrations for the run store.
var runsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage schema versions of the run history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  readiness runs migrate

  # Migrate to specific version
  readiness runs migrate --target-version 1

  # Rollback to the initial state
  readiness runs migrate --target-version 0`,
	PreRunE: runsMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateRuns(cfg.RunBackend, cfg.RunDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
