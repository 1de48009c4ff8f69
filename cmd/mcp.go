package cmd

import (
	"github.com/gradeflow/repograde/internal/contract"
	"github.com/gradeflow/repograde/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Repograde MCP server",
	Long:  `Launch an MCP server that allows AI agents to analyze and grade repositories via standard tools.`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		// Keep stdio clean for the protocol; no positional arguments here.
		return sharedSetup(rootCtx, repoPathArg, nil)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		cloner := contract.NewGitCloner(cfg)
		return mcp.StartMCPServer(rootCtx, cfg, cloner, gradeStore)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
