package main

import (
	"github.com/WizardOfMenlo/turing-machine/internal/cli"
	"github.com/spf13/cobra"
)

var traceCmd = &cobra.Command{
	Use:   "trace <machine> [input]",
	Short: "Print every step of a run",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		jsonMode, _ := cmd.Flags().GetBool("json")
		return app.Trace(cmd.Context(), cli.TraceOptions{
			TapeOptions: tapeArgs(cmd, args),
			JSON:        jsonMode,
		})
	},
}

func init() {
	rootCmd.AddCommand(traceCmd)

	traceCmd.Flags().String("tape", "", "Read the input tape from a file")
	traceCmd.Flags().Bool("json", false, "Print one JSON snapshot per line")
}
