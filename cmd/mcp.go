package cmd

import (
	"github.com/iipmodel/readiness/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the readiness MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents run assessments through tools:
list_questions, start_session, record_answer, set_weight, get_progress,
get_results, get_breakdown, reset_session and end_session.

Sessions are saved in the session store when one is configured.
Diagnostics go to stderr (--log-level) so stdout stays reserved for the protocol.`,
	Args:    cobra.NoArgs,
	PreRunE: sessionSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}
