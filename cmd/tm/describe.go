package main

import (
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe <machine>",
	Short: "Summarise a machine as a rendered Markdown document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		raw, _ := cmd.Flags().GetBool("raw")
		return app.Describe(args[0], raw)
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)

	describeCmd.Flags().Bool("raw", false, "Print the Markdown source instead of rendering it")
}
