package contract

import (
	"fmt"
	"maps"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/iipmodel/readiness/schema"
)

// Default values for configuration.
const (
	DefaultPrecision = 2
	MaxPrecision     = 3
	DefaultMinScore  = schema.NeutralScore
)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for the assessment.
// This struct remains the "final, validated" config.
type Config struct {
	Catalog     *schema.Catalog
	CatalogPath string
	AnswersPath string // Answer sheet from the positional argument (empty = persisted session)
	SessionID   string

	Detail     bool
	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool
	LogLevel   string

	SessionBackend   schema.DatabaseBackend
	SessionDBConnect string // Please use env var as this is plaintext

	RunBackend   schema.DatabaseBackend
	RunDBConnect string // Please use env var as this is plaintext

	// Weights is a mapping of [DimensionID] = importance weight
	Weights map[string]float64

	// MinScore is the lowest acceptable final score for the check command
	MinScore float64

	// DimensionThresholds is a mapping of [DimensionID] = lowest acceptable display value
	DimensionThresholds map[string]float64
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	AnswersPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Catalog          string `mapstructure:"catalog"`
	Session          string `mapstructure:"session"`
	OutputFile       string `mapstructure:"output-file"`
	Precision        int    `mapstructure:"precision"`
	Output           string `mapstructure:"output"`
	Detail           bool   `mapstructure:"detail"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	LogLevel         string `mapstructure:"log-level"`
	SessionBackend   string `mapstructure:"session-backend"`
	SessionDBConnect string `mapstructure:"session-db-connect"`
	RunBackend       string `mapstructure:"run-backend"`
	RunDBConnect     string `mapstructure:"run-db-connect"`
	WeightsStr       string `mapstructure:"weights-override"`

	// --- Fields from checkCmd.Flags() ---
	MinScore      float64 `mapstructure:"min-score"`
	ThresholdsStr string  `mapstructure:"thresholds-override"`

	// --- Dimension weights from config file ---
	Weights map[string]float64 `mapstructure:"weights"`

	// --- Dimension thresholds from config file ---
	Thresholds map[string]float64 `mapstructure:"thresholds"`
}

// Clone returns a deep copy of the Config struct.
// The catalog is shared since it is never mutated after loading.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Weights != nil {
		clone.Weights = make(map[string]float64, len(c.Weights))
		maps.Copy(clone.Weights, c.Weights)
	}
	if c.DimensionThresholds != nil {
		clone.DimensionThresholds = make(map[string]float64, len(c.DimensionThresholds))
		maps.Copy(clone.DimensionThresholds, c.DimensionThresholds)
	}
	return &clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processCatalog(cfg, input); err != nil {
		return err
	}
	if err := processWeights(cfg, input); err != nil {
		return err
	}
	if err := processThresholds(cfg, input); err != nil {
		return err
	}
	return processAnswersPath(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' with host:port")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates session and run backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Session Backend Validation ---
	cfg.SessionBackend = schema.DatabaseBackend(strings.ToLower(input.SessionBackend))
	if cfg.SessionBackend == "" {
		cfg.SessionBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.SessionBackend]; !ok {
		return fmt.Errorf("invalid session backend '%s'. must be sqlite, mysql, postgresql, none", input.SessionBackend)
	}
	cfg.SessionDBConnect = input.SessionDBConnect
	if err := ValidateDatabaseConnectionString(cfg.SessionBackend, cfg.SessionDBConnect); err != nil {
		return fmt.Errorf("session store: %w", err)
	}

	// --- Run Backend Validation ---
	cfg.RunBackend = schema.DatabaseBackend(strings.ToLower(input.RunBackend))
	if cfg.RunBackend == "" {
		cfg.RunBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.RunBackend]; !ok {
		return fmt.Errorf("invalid run backend '%s'. must be sqlite, mysql, postgresql, none", input.RunBackend)
	}
	cfg.RunDBConnect = input.RunDBConnect
	if err := ValidateDatabaseConnectionString(cfg.RunBackend, cfg.RunDBConnect); err != nil {
		return fmt.Errorf("run store: %w", err)
	}

	// Validate that sessions and runs use different SQLite files
	if cfg.SessionBackend == schema.SQLiteBackend && cfg.RunBackend == schema.SQLiteBackend {
		sessionDBPath := cfg.SessionDBConnect
		if sessionDBPath == "" {
			sessionDBPath = GetSessionDBFilePath()
		}
		runDBPath := cfg.RunDBConnect
		if runDBPath == "" {
			runDBPath = GetRunDBFilePath()
		}
		if sessionDBPath == runDBPath {
			return fmt.Errorf("session and run storage must use different SQLite database files. Both resolve to %q", sessionDBPath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-catalog fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Detail = input.Detail
	cfg.Width = input.Width
	cfg.SessionID = strings.TrimSpace(input.Session)
	cfg.CatalogPath = strings.TrimSpace(input.Catalog)

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Logging Validation ---
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(input.LogLevel))
	if cfg.LogLevel == "" {
		cfg.LogLevel = LogLevelOff
	}
	switch cfg.LogLevel {
	case LogLevelOff, LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return fmt.Errorf("invalid log level '%s'. must be off, debug, info, warn, error", input.LogLevel)
	}

	// --- 2. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet, markdown", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	// --- 3. Width Validation ---
	if cfg.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", cfg.Width)
	}

	// --- 4. Backend Validation ---
	return validateBackendConfigs(cfg, input)
}

// processCatalog loads the embedded catalog or the one named by --catalog.
func processCatalog(cfg *Config, _ *ConfigRawInput) error {
	catalog, err := LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}
	cfg.Catalog = catalog
	return nil
}

// processWeights merges config file weights with the --weights-override flag.
// Keys may be dimension IDs or display names; they are normalized to IDs.
func processWeights(cfg *Config, input *ConfigRawInput) error {
	weights, err := resolveDimensionMap(cfg.Catalog, input.Weights, "weight")
	if err != nil {
		return err
	}

	// Command-line flag takes precedence
	if input.WeightsStr != "" {
		parsed, err := ParseDimensionValues(input.WeightsStr)
		if err != nil {
			return fmt.Errorf("invalid --weights-override format: %w", err)
		}
		overrides, err := resolveDimensionMap(cfg.Catalog, parsed, "weight")
		if err != nil {
			return err
		}
		maps.Copy(weights, overrides)
	}

	for dim, w := range weights {
		if math.IsNaN(w) || w < schema.MinWeight || w > schema.MaxWeight {
			return fmt.Errorf("weight for dimension %s must be between %.1f and %.1f (received %.2f)", dim, schema.MinWeight, schema.MaxWeight, w)
		}
	}
	cfg.Weights = weights
	return nil
}

// processThresholds resolves the final score gate and per-dimension thresholds.
// Command-line --thresholds-override flag takes precedence over config file settings.
func processThresholds(cfg *Config, input *ConfigRawInput) error {
	cfg.MinScore = input.MinScore
	if math.IsNaN(cfg.MinScore) || cfg.MinScore < 0 || cfg.MinScore > schema.MaxScore {
		return fmt.Errorf("min score must be between 0.0 and %.1f (received %.2f)", schema.MaxScore, cfg.MinScore)
	}

	thresholds, err := resolveDimensionMap(cfg.Catalog, input.Thresholds, "threshold")
	if err != nil {
		return err
	}
	if input.ThresholdsStr != "" {
		parsed, err := ParseDimensionValues(input.ThresholdsStr)
		if err != nil {
			return fmt.Errorf("invalid --thresholds-override format: %w", err)
		}
		overrides, err := resolveDimensionMap(cfg.Catalog, parsed, "threshold")
		if err != nil {
			return err
		}
		maps.Copy(thresholds, overrides)
	}

	for dim, threshold := range thresholds {
		if math.IsNaN(threshold) || threshold < 0 || threshold > schema.MaxScore {
			return fmt.Errorf("threshold for dimension %s must be between 0.0 and %.1f (received %.2f)", dim, schema.MaxScore, threshold)
		}
	}
	cfg.DimensionThresholds = thresholds
	return nil
}

// processAnswersPath checks that an answer sheet given as positional argument exists.
func processAnswersPath(cfg *Config, input *ConfigRawInput) error {
	cfg.AnswersPath = strings.TrimSpace(input.AnswersPathStr)
	if cfg.AnswersPath == "" {
		return nil
	}
	info, err := os.Stat(cfg.AnswersPath)
	if err != nil {
		return fmt.Errorf("answer sheet not found: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("answer sheet %s is a directory", cfg.AnswersPath)
	}
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// resolveDimensionMap normalizes dimension keys (ID or name) to catalog IDs.
func resolveDimensionMap(catalog *schema.Catalog, raw map[string]float64, what string) (map[string]float64, error) {
	resolved := make(map[string]float64, len(raw))
	for key, value := range raw {
		dim, ok := catalog.ResolveDimension(key)
		if !ok {
			return nil, fmt.Errorf("%s given for unknown dimension '%s'", what, key)
		}
		resolved[dim.ID] = value
	}
	return resolved, nil
}

// ParseDimensionValues parses a string like "accessibility:1.5,presence:0.5"
// into a map of dimension key to float64. Keys are not resolved against a catalog.
func ParseDimensionValues(s string) (map[string]float64, error) {
	values := make(map[string]float64)

	if s == "" {
		return values, nil
	}

	parts := strings.SplitSeq(s, ",")
	for part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, valueStr, ok := strings.Cut(part, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" || strings.Contains(valueStr, ":") {
			return nil, fmt.Errorf("invalid format '%s', expected 'dimension:value'", part)
		}

		value, err := strconv.ParseFloat(strings.TrimSpace(valueStr), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value '%s' for dimension %s: %w", valueStr, key, err)
		}
		values[key] = value
	}

	return values, nil
}
