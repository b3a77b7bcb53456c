package main

import (
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <machine>",
	Short: "Check a description for consistency",
	Long:  `Parses the description and reports every defect: unknown states, duplicate transitions, start-state problems and unknown symbols.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		return app.Validate(args[0])
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
