package cmd

import (
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/joescharf/taskreview/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP stdio server",
	Long: `Start an MCP (Model Context Protocol) server on stdio.

This lets MCP-capable assistants evaluate submissions directly.
Configure the client with:

  {
    "mcpServers": {
      "taskreview": { "command": "taskreview", "args": ["mcp"] }
    }
  }

Available tools: taskreview_evaluate, taskreview_classify,
taskreview_review_repository`,
	RunE: func(cmd *cobra.Command, args []string) error {
		history, err := getStore()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(commandContext(), shutdownSignals()...)
		defer stop()

		return mcp.NewServer(orchestratorFunc(), history, buildVersion).ServeStdio(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
