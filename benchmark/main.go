// Package main provides a performance benchmarking tool for the readiness CLI.
// It measures execution times of the scoring commands over a set of answer sheets,
// running each command multiple times without run tracking and with a SQLite run store,
// treating the first tracked run as cold and averaging the rest as warm,
// and writes CSV output for performance analysis and documentation.
//
// Prerequisites:
// - readiness binary installed and available in PATH
// - A directory of YAML answer sheets
//
// Usage: go run benchmark/main.go [answers-dir]
//
//	answers-dir: Directory containing *.yaml answer sheets
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (untracked average, cold run and average of warm runs).
type BenchmarkResult struct {
	Sheet         string
	Command       string
	UntrackedTime string
	ColdTime      string
	WarmTime      string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	AnswersDir    string
	Timeout       time.Duration
	UntrackedRuns int
	TrackedRuns   int
	Sheets        []string
	Commands      map[string][]string
	RunsDB        string
}

// commandOrder keeps the summary stable.
var commandOrder = []string{"score", "report", "check"}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [answers-dir]\n", os.Args[0])
		os.Exit(1)
	}
	answersDir := os.Args[1]

	sheets, err := filepath.Glob(filepath.Join(answersDir, "*.yaml"))
	if err != nil || len(sheets) == 0 {
		fmt.Printf("No answer sheets found in %s\n", answersDir)
		os.Exit(1)
	}
	slices.Sort(sheets)

	runsDB := filepath.Join(os.TempDir(), "readiness_benchmark_runs.db")
	config := BenchmarkConfig{
		AnswersDir:    answersDir,
		Timeout:       time.Minute,
		UntrackedRuns: 3,
		TrackedRuns:   4,
		Sheets:        sheets,
		Commands: map[string][]string{
			"score":  {"--detail"},
			"report": {"--output", "markdown"},
			"check":  {"--min-score", "0"},
		},
		RunsDB: runsDB,
	}

	if err := checkPrerequisites(); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	// Start from an empty run history
	_ = os.Remove(runsDB)

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the readiness binary exists.
func checkPrerequisites() error {
	if _, err := exec.LookPath("readiness"); err != nil {
		return fmt.Errorf("readiness binary not found in PATH")
	}
	return nil
}

// runBenchmarks executes all commands across the configured answer sheets.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d sheets, %v timeout, untracked: %d runs, tracked: %d runs\n",
		len(config.Sheets), config.Timeout, config.UntrackedRuns, config.TrackedRuns)

	for _, sheet := range config.Sheets {
		name := filepath.Base(sheet)
		fmt.Printf("Benchmarking %s\n", name)
		for _, command := range commandOrder {
			results = append(results, runBenchmarkSuite(config, sheet, command))
		}
	}

	return results
}

// runBenchmarkSuite runs both untracked and tracked benchmarks for a command.
func runBenchmarkSuite(config BenchmarkConfig, sheet, command string) BenchmarkResult {
	name := filepath.Base(sheet)
	fmt.Printf("Running %s on %s\n", command, name)

	runPhase := func(runBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, sheet, command, runBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	_, untrackedAvg := runPhase("none", config.UntrackedRuns, "Untracked")
	coldTime, warmAvg := runPhase("sqlite", config.TrackedRuns, "Tracked")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  Untracked average: %s, Cold time: %s, Warm average: %s\n", untrackedAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Sheet:         name,
		Command:       command,
		UntrackedTime: untrackedAvg,
		ColdTime:      coldTimeStr,
		WarmTime:      warmAvg,
	}
}

// runBenchmark executes a readiness command multiple times with the given run backend
// and returns the cold time and warm times.
func runBenchmark(config BenchmarkConfig, sheet, command, runBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{command, sheet, "--session-backend", "none", "--run-backend", runBackend, "--color", "no"}
	if runBackend == "sqlite" {
		args = append(args, "--run-db-connect", config.RunsDB)
	}
	args = append(args, config.Commands[command]...)

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("readiness", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output, command) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
			<-done
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion.
func isSuccess(output []byte, command string) bool {
	outputStr := string(output)

	switch command {
	case "score":
		return strings.Contains(outputStr, "Final score:") && strings.Contains(outputStr, "answered questions in")
	case "report":
		return strings.Contains(outputStr, "## Final score:")
	default:
		return strings.Contains(outputStr, "Readiness check passed")
	}
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/readiness_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"sheet", "cmd", "untracked_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Sheet, result.Command, result.UntrackedTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range commandOrder {
		fmt.Printf("%s:\n", strings.ToUpper(command[:1])+command[1:])
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-24s: Untracked: %s, Cold: %s, Warm: %s\n", result.Sheet, result.UntrackedTime, result.ColdTime, result.WarmTime)
			}
		}
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
