package main

import (
	"github.com/WizardOfMenlo/turing-machine/internal/cli"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph <machine> [input]",
	Short: "Export the machine as a Mermaid state diagram",
	Long: `Prints a Mermaid flowchart of the machine. When an input is given
(inline or with --tape), the run is traced and the visited states are highlighted.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		opts := tapeArgs(cmd, args)
		return app.Graph(cmd.Context(), cli.GraphOptions{
			TapeOptions: opts,
			Overlay:     len(args) > 1 || opts.TapeFile != "",
		})
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().String("tape", "", "Read the input tape from a file")
}
