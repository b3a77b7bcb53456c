package main

import (
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts an MCP server on standard input/output.
AI agents can then validate, run and trace machines as tools.
Logs go to standard error so they never corrupt the JSON-RPC stream.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		return app.MCP(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
