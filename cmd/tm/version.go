package main

import (
	"fmt"
	"strings"

	turing "github.com/WizardOfMenlo/turing-machine"
	"github.com/WizardOfMenlo/turing-machine/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of tm",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if tui.IsTerminal(out) {
			tui.PrintBanner(out, strings.TrimSpace(turing.Version))
			return
		}
		fmt.Fprintf(out, "tm version %s\n", strings.TrimSpace(turing.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
