package iocache

import (
	"fmt"
	"slices"

	"github.com/iipmodel/readiness/schema"
)

const statusTimeLayout = "2006-01-02 15:04:05"

// PrintSessionStatus prints session store status information.
func PrintSessionStatus(status schema.SessionStoreStatus) {
	fmt.Printf("Session Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Sessions: %d\n", status.TotalSessions)
	if status.TotalSessions > 0 {
		fmt.Printf("Last Update: %s\n", status.LastUpdateTime.Format(statusTimeLayout))
		fmt.Printf("Oldest Entry: %s\n", status.OldestEntryTime.Format(statusTimeLayout))
	}
	fmt.Printf("Table Size: %d bytes\n", status.TableSizeBytes)
}

// PrintRunStatus prints run store status information.
func PrintRunStatus(status schema.RunStoreStatus) {
	fmt.Printf("Run Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		fmt.Printf("Last Run ID: %d\n", status.LastRunID)
		fmt.Printf("Last Run: %s\n", status.LastRunTime.Format(statusTimeLayout))
		fmt.Printf("Oldest Run: %s\n", status.OldestRunTime.Format(statusTimeLayout))
		fmt.Printf("Dimension Scores: %d\n", status.TotalDimensionScores)
	}
	fmt.Println("Table Sizes:")
	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	slices.Sort(tables)
	for _, table := range tables {
		fmt.Printf("  %s: %d rows\n", table, status.TableSizes[table])
	}
}
