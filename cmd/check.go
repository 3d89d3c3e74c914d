package cmd

import (
	"github.com/iipmodel/readiness/core"
	"github.com/iipmodel/readiness/internal/contract"
	"github.com/spf13/cobra"
)

// checkCmd focused on CI/CD style gating.
var checkCmd = &cobra.Command{
	Use:   "check [answers.yaml]",
	Short: "Gate an assessment on minimum scores (exits non-zero on violations)",
	Long: `Score an assessment and compare it against minimum scores.

The final score must reach --min-score (default 3.0, the neutral answer). Dimensions
listed in --thresholds-override (or 'thresholds' in the config file) must reach their
threshold with their weighted display value.

Examples:
  # Require a promising use case
  readiness check answers.yaml --min-score 3

  # Also require strong accessibility and presence
  readiness check answers.yaml --thresholds-override "accessibility:4,presence:3.5"`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReadinessCheck(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Readiness check failed", err)
		}
	},
}
