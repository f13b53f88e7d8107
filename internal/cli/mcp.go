package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/lucasnoah/complyd/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve parse and scan tools over MCP on stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		noHistory, _ := cmd.Flags().GetBool("no-history")

		deps := mcpserver.Deps{Parser: newParser(), Config: cfg}
		if !noHistory && cfg.Scanner.HistoryEnabled() {
			d, cleanup, err := openDB()
			if err != nil {
				return err
			}
			defer cleanup()
			deps.History = d
		}

		srv, err := mcpserver.New(deps, version)
		if err != nil {
			return err
		}
		slog.Info("mcp server starting", "transport", "stdio")
		return srv.Run(cmd.Context())
	},
}

func init() {
	mcpCmd.Flags().Bool("no-history", false, "Do not record scans in the history database")
}
