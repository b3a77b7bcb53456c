package main

import (
	"github.com/WizardOfMenlo/turing-machine/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <machine> [input]",
	Short: "Run a machine on an input tape",
	Long: `Runs the machine on the input and prints the verdict and the final tape.

<machine> is a path to a .tm description or the name of one in --machines.
The input is one symbol per character; use --tape to read it from a file
(whitespace ignored) or "-" for standard input. No input means a blank tape.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		jsonMode, _ := cmd.Flags().GetBool("json")
		return app.Run(cmd.Context(), cli.RunOptions{
			TapeOptions: tapeArgs(cmd, args),
			JSON:        jsonMode,
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("tape", "", "Read the input tape from a file")
	runCmd.Flags().Bool("json", false, "Print the run record as JSON")
}
