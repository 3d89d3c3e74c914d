package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/iipmodel/readiness/schema"
)

// Color variables for console output.
var (
	ReadyColor      = color.New(color.FgGreen, color.Bold) // ReadyColor marks a use case ready for an immersive platform.
	PromisingColor  = color.New(color.FgCyan)              // PromisingColor marks a positive but not yet convincing case.
	DevelopingColor = color.New(color.FgYellow)            // DevelopingColor represents standard caution, not bold.
	NotReadyColor   = color.New(color.FgRed, color.Bold)   // NotReadyColor represents standard danger.
)

// GetPlainLabel returns a plain text readiness label for a 0-5 score.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(score float64) string {
	return schema.GetReadinessLabel(score)
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(score float64) string {
	text := GetPlainLabel(score)

	switch text {
	case schema.ReadyValue:
		return ReadyColor.Sprint(text)
	case schema.PromisingValue:
		return PromisingColor.Sprint(text)
	case schema.DevelopingValue:
		return DevelopingColor.Sprint(text)
	default: // "Not Ready"
		return NotReadyColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It returns os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetSessionDBFilePath returns the path to the SQLite DB file for session storage.
func GetSessionDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".readiness_sessions.db"
	}
	return filepath.Join(homeDir, ".readiness_sessions.db")
}

// GetRunDBFilePath returns the path to the SQLite DB file for assessment run storage.
func GetRunDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".readiness_runs.db"
	}
	return filepath.Join(homeDir, ".readiness_runs.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so that at least one character of content remains.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
