package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for session and run storage.
	DatabaseBackend string
)

// All output modes supported.
const (
	CSVOut      OutputMode = "csv"
	TextOut     OutputMode = "text" // default
	JSONOut     OutputMode = "json"
	ParquetOut  OutputMode = "parquet"
	MarkdownOut OutputMode = "markdown"
)

// All storage backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Likert answer bounds and scoring defaults.
const (
	MinAnswer = 1
	MaxAnswer = 5

	NeutralScore  = 3.0 // overall of a dimension without answers
	DefaultWeight = 1.0
	MinWeight     = 0.0
	MaxWeight     = 2.0
	MaxScore      = 5.0
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:      {},
	TextOut:     {},
	JSONOut:     {},
	ParquetOut:  {},
	MarkdownOut: {},
}

// ValidDatabaseBackends lists all valid storage backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
