package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/fatih/color"
	"github.com/iipmodel/readiness/internal/contract"
	"github.com/iipmodel/readiness/internal/iocache"
	"github.com/iipmodel/readiness/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations. It carries the logger once setup ran.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// profile holds profiling configuration.
var profile = &contract.ProfileConfig{}

// storeManager is the global persistence manager instance.
var storeManager contract.StoreManager

// startProfiling starts CPU and memory profiling if enabled.
func startProfiling() error {
	if !profile.Enabled {
		return nil
	}

	cpuFile, err := os.Create(profile.Prefix + ".cpu.prof")
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(cpuFile); err != nil {
		return fmt.Errorf("could not start CPU profiling: %w", err)
	}

	_, err = fmt.Fprintf(os.Stderr, "Profiling enabled. CPU profile: %s.cpu.prof, Memory profile: %s.mem.prof\n", profile.Prefix, profile.Prefix)
	return err
}

// stopProfiling stops profiling and writes memory profile.
func stopProfiling() error {
	if !profile.Enabled {
		return nil
	}

	pprof.StopCPUProfile()

	memFile, err := os.Create(profile.Prefix + ".mem.prof")
	if err != nil {
		return fmt.Errorf("could not create memory profile: %w", err)
	}
	defer func() { _ = memFile.Close() }()

	if err := pprof.WriteHeapProfile(memFile); err != nil {
		return fmt.Errorf("could not write memory profile: %w", err)
	}

	_, err = fmt.Fprintf(os.Stderr, "Profiling complete. Use 'go tool pprof %s.cpu.prof' to analyze.\n", profile.Prefix)
	return err
}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:   "readiness",
	Short: "Assess whether a business use case is ready for an immersive platform.",
	Long: `Readiness walks through a Likert questionnaire, one dimension per step, and turns
the answers into weighted dimension values, a radar series and a final readiness score.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setConfigFile()

	// Set environment variable prefix
	viper.SetEnvPrefix("READINESS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("session-backend", schema.SQLiteBackend)
	viper.SetDefault("session-db-connect", "")
	viper.SetDefault("run-backend", schema.SQLiteBackend)
	viper.SetDefault("run-db-connect", "")
	viper.SetDefault("color", "yes")
	viper.SetDefault("log-level", contract.LogLevelOff)
	viper.SetDefault("min-score", contract.DefaultMinScore)
}

// setConfigFile points viper at --config or the default .readiness.yaml locations.
func setConfigFile() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".readiness") // Name of config file (without extension)
	viper.SetConfigType("yaml")       // We'll use YAML format
	viper.AddConfigPath(".")          // Look in the current directory
	viper.AddConfigPath("$HOME")      // Look in the home directory
}

// sharedSetup unmarshals config and runs validation. answersPath is the optional
// answer sheet given as positional argument.
func sharedSetup(ctx context.Context, answersPath string) error {
	// Handle profiling flag
	profilePrefix := viper.GetString("profile")
	if err := contract.ProcessProfilingConfig(profile, profilePrefix); err != nil {
		return fmt.Errorf("failed to process profiling config: %w", err)
	}
	if profile.Enabled {
		if err := startProfiling(); err != nil {
			return fmt.Errorf("failed to start profiling: %w", err)
		}
	}

	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	input.AnswersPathStr = answersPath

	// 4. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}
	color.NoColor = !cfg.UseColors

	logger, err := contract.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	rootCtx = contract.WithLogger(ctx, logger)
	logger.Debug("configuration loaded",
		zap.String("catalog", cfg.Catalog.Title),
		zap.Int("questions", cfg.Catalog.QuestionCount()),
		zap.String("session_backend", string(cfg.SessionBackend)),
		zap.String("run_backend", string(cfg.RunBackend)),
		zap.String("output", string(cfg.Output)))

	// 5. Initialize persistence layer with validated config
	if err := iocache.InitStores(cfg.SessionBackend, cfg.SessionDBConnect, cfg.RunBackend, cfg.RunDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}

	return nil
}

// sharedSetupWrapper wraps sharedSetup for commands taking an optional answer sheet.
func sharedSetupWrapper(_ *cobra.Command, args []string) error {
	answersPath := ""
	if len(args) == 1 {
		answersPath = args[0]
	}
	return sharedSetup(rootCtx, answersPath)
}

// sessionSetupWrapper wraps sharedSetup for commands whose positional arguments
// are not an answer sheet.
func sessionSetupWrapper(_ *cobra.Command, _ []string) error {
	return sharedSetup(rootCtx, "")
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	setConfigFile()
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetStoreManager sets the global store manager.
func SetStoreManager(mgr contract.StoreManager) {
	storeManager = mgr
}

// StopProfiling stops profiling if enabled.
func StopProfiling() error {
	return stopProfiling()
}
