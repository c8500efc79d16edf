package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"disasexpl/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve listing tools over MCP on stdio",
	Long: `Run a Model Context Protocol server on stdin/stdout exposing the
parse_listing, source_map and resolve_path tools.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		srv := mcp.NewServer(s.cfg, s.parser)
		slog.Debug("Starting MCP server", "workspace", s.cfg.Workspace)
		return srv.Serve(cmd.Context())
	},
}
