package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/auto-site/internal/audit"
	mcpserver "github.com/ziadkadry99/auto-site/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long: `Starts a Model Context Protocol (MCP) server on stdio, exposing tools to
list projects and pages, detect template tags, compile pages and multiply
template pages.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "autosite MCP server started on stdio (db=%s)\n", cfg.DBPath())

		srv := mcpserver.NewServer(store, cfg.Lang, log).
			WithTrail(audit.NewTrail(audit.NewStore(database), log))
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
