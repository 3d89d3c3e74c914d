package cmd

import (
	"github.com/iipmodel/readiness/core"
	"github.com/iipmodel/readiness/internal/contract"
	"github.com/spf13/cobra"
)

// answerCmd records one answer in the persisted session.
var answerCmd = &cobra.Command{
	Use:   "answer <question-id> <value>",
	Short: "Record the answer to one question in a persisted session.",
	Long: `Record a Likert answer. The value is 1-5 or one of the labels
Strongly Disagree, Somewhat Disagree, Neutral, Somewhat Agree, Strongly Agree.
Re-answering a question overwrites the previous answer.

Examples:
  export READINESS_SESSION=$(readiness session new)
  readiness answer remote-access 5
  readiness answer repeatability "somewhat agree"`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sessionSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteAnswer(rootCtx, cfg, storeManager, args[0], args[1]); err != nil {
			contract.LogFatal("Cannot record answer", err)
		}
	},
}

// sessionCmd groups the persisted session commands.
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persisted assessment sessions",
	Long: `Manage an assessment session that survives between invocations.

A session holds the answers and weights of one respondent. It is stored as a
snapshot in the session store and replayed on every command, so dimension
overalls are always recomputed from the raw answers.

Subcommands:
  new    - Start a session and print its ID
  show   - Show the progress of each step
  weight - Set the weight of a dimension
  reset  - Clear all answers and weights
  delete - Remove the session

Examples:
  export READINESS_SESSION=$(readiness session new)
  readiness session weight accessibility 1.5
  readiness session show`,
}

var sessionNewCmd = &cobra.Command{
	Use:     "new",
	Short:   "Start a session seeded with the configured weights and print its ID",
	Args:    cobra.NoArgs,
	PreRunE: sessionSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSessionNew(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot start session", err)
		}
	},
}

var sessionShowCmd = &cobra.Command{
	Use:     "show",
	Short:   "Show how many questions of each step are answered",
	Args:    cobra.NoArgs,
	PreRunE: sessionSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSessionShow(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot show session", err)
		}
	},
}

var sessionWeightCmd = &cobra.Command{
	Use:   "weight <dimension> <weight>",
	Short: "Set the importance of a dimension (0 to 2, default 1)",
	Long: `Set the weight of a dimension given by ID or display name.

Examples:
  readiness session weight accessibility 1.5
  readiness session weight "Use Case Specifics" 0.5`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sessionSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteSessionWeight(rootCtx, cfg, storeManager, args[0], args[1]); err != nil {
			contract.LogFatal("Cannot set weight", err)
		}
	},
}

var sessionResetCmd = &cobra.Command{
	Use:     "reset",
	Short:   "Clear every answer and weight of the session",
	Args:    cobra.NoArgs,
	PreRunE: sessionSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSessionReset(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot reset session", err)
		}
	},
}

var sessionDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Remove the session from the session store",
	Args:    cobra.NoArgs,
	PreRunE: sessionSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSessionDelete(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot delete session", err)
		}
	},
}
