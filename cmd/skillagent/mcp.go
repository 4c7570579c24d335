package main

import (
	"github.com/spf13/cobra"

	"github.com/pocketomega/skill-agent/internal/mcp"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve load_skill and skill resources over MCP stdio",
		Long: `Run a Model Context Protocol server on stdin/stdout. It offers the load_skill
tool and one skill://<name> resource per skill. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return mcp.Serve(a.registry)
		},
	}
}
