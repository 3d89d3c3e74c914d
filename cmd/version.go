package cmd

import (
	"runtime"

	"github.com/iipmodel/readiness/schema"
	"github.com/spf13/cobra"
)

// versionCmd shows the verbose version for diagnostic purposes.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of readiness.",
	Long: `Display version information including build details and the snapshot format
used for persisted sessions.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("readiness CLI\n")
		cmd.Printf("  Version:  %s\n", version)
		cmd.Printf("  Commit:   %s\n", commit)
		cmd.Printf("  Built:    %s\n", date)
		cmd.Printf("  Runtime:  %s\n", runtime.Version())
		cmd.Printf("  Snapshot: v%d\n", schema.SnapshotVersion)
	},
}
