package main

import (
	"github.com/WizardOfMenlo/turing-machine/internal/cli"
	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch <machine> <inputs-file>",
	Short: "Run many inputs concurrently",
	Long: `Runs every line of <inputs-file> ("-" for standard input) as a separate tape.
Blank lines and lines starting with // are skipped; write _ for an empty tape.
Records are persisted when --store-dir or --redis-url is set.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		if n, _ := cmd.Flags().GetInt("concurrency"); n > 0 {
			app.Config.Concurrency = n
		}
		jsonMode, _ := cmd.Flags().GetBool("json")
		return app.Batch(cmd.Context(), cli.BatchOptions{
			Machine:    args[0],
			InputsFile: args[1],
			JSON:       jsonMode,
		})
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().Int("concurrency", 0, "Number of simultaneous runs (default from config)")
	batchCmd.Flags().Bool("json", false, "Print one JSON object per input")
}
