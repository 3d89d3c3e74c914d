// Package cmd defines the command-line interface for readiness.
package cmd

import (
	"github.com/iipmodel/readiness/internal/contract"
	"github.com/iipmodel/readiness/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(answerCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the session subcommands to the parent session command
	sessionCmd.AddCommand(sessionNewCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionWeightCmd)
	sessionCmd.AddCommand(sessionResetCmd)
	sessionCmd.AddCommand(sessionDeleteCmd)

	// Add the sessions subcommands to the parent sessions command
	sessionsCmd.AddCommand(sessionsStatusCmd)
	sessionsCmd.AddCommand(sessionsClearCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("catalog", "", "Path to a YAML question catalog (default: built-in catalog)")
	rootCmd.PersistentFlags().StringP("session", "s", "", "Persisted session ID to work on")
	rootCmd.PersistentFlags().Bool("detail", false, "Print subdimension means and detailed results")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet or markdown")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("log-level", contract.LogLevelOff, "Diagnostic log level on stderr: off or debug or info or warn or error")
	rootCmd.PersistentFlags().String("session-backend", string(schema.SQLiteBackend), "Session store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("session-db-connect", "", "Database connection string for the session store (e.g., user:pass@tcp(host:port)/dbname?parseTime=true)")
	rootCmd.PersistentFlags().String("run-backend", string(schema.SQLiteBackend), "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("run-db-connect", "", "Database connection string for run history (a SQLite file must differ from the session store file)")
	rootCmd.PersistentFlags().String("weights-override", "", "Dimension weights between 0 and 2 (format: 'accessibility:1.5,presence:0.5')")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of checkCmd to Viper
	checkCmd.Flags().Float64("min-score", contract.DefaultMinScore, "Lowest acceptable final score (0-5)")
	checkCmd.Flags().String("thresholds-override", "", "Lowest acceptable display value per dimension (format: 'accessibility:3,presence:2.5')")
	if err := viper.BindPFlags(checkCmd.Flags()); err != nil {
		contract.LogFatal("Error binding check flags", err)
	}

	// Bind all flags of runsMigrateCmd to Viper
	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs migrate flags", err)
	}
}
