package cmd

import (
	"github.com/iipmodel/readiness/core"
	"github.com/iipmodel/readiness/internal/contract"
	"github.com/spf13/cobra"
)

// scoreCmd scores a session or an answer sheet.
var scoreCmd = &cobra.Command{
	Use:   "score [answers.yaml]",
	Short: "Show per-dimension values and the final readiness score.",
	Long: `Score an assessment and print one row per dimension.

Each dimension's overall is the mean of its subdimension means (3.0 while unanswered).
The weight (0 to 2, default 1) bends the overall away from the neutral 3:
above 3 it is multiplied by the weight and capped at 5, below 3 it is scaled
by (1 - weight/2). The final score is the weighted mean of the display values.

Answers come from the YAML answer sheet given as argument, or from the
persisted session named by --session (or READINESS_SESSION).

Examples:
  # Score an answer sheet
  readiness score answers.yaml

  # Score a persisted session with subdimension detail
  readiness score --session 5f0c... --detail

  # Weight two dimensions and export the rows
  readiness score answers.yaml --weights-override "accessibility:1.5,presence:0.5" --output csv --output-file results.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteScore(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot score assessment", err)
		}
	},
}

// reportCmd builds the paginated export document.
var reportCmd = &cobra.Command{
	Use:   "report [answers.yaml]",
	Short: "Build the paginated assessment report.",
	Long: `Build the export document of an assessment.

The first page holds the title, the per-dimension table with weights and display
values, the radar series and the final score. Every dimension follows on its own
page with the answered questions and the subdimension means.

Text and markdown output produce a Markdown document with page breaks; json
returns the report structure; csv lists the answered questions.

Examples:
  # Write the report of a persisted session
  readiness report --session 5f0c... --output-file report.md

  # Report structure for other tools
  readiness report answers.yaml --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReport(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot build report", err)
		}
	},
}

// questionsCmd lists the catalog.
var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "List the questionnaire, one dimension per step.",
	Long: `List every dimension, subdimension and question with its ID.

Question IDs are what the answer command and answer sheets refer to.

Examples:
  # Browse the built-in catalog
  readiness questions

  # Start an answer sheet from the CSV listing
  readiness questions --output csv --output-file questions.csv`,
	Args:    cobra.NoArgs,
	PreRunE: sessionSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteQuestions(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot list questions", err)
		}
	},
}
