package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/WizardOfMenlo/turing-machine/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tm",
	Short: "tm runs deterministic single-tape Turing machines",
	Long: `tm loads Turing machine descriptions, validates them and runs them on input tapes.

Exit status: 0 accepted, 1 not accepted, 2 invalid description or input, 3 I/O error.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	sc := cli.NewSignalContext(context.Background())

	err := rootCmd.ExecuteContext(sc)
	if err != nil && !errors.Is(err, cli.ErrNotAccepted) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	if sig := sc.Signal(); sig != nil {
		fmt.Fprintf(os.Stderr, "interrupted by %v\n", sig)
	}
	sc.Cancel()
	os.Exit(cli.ExitCode(err))
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "YAML run profile")
	flags.String("mode", "", "Missing transitions: strict (undefined verdict) or compat (implicit reject)")
	flags.String("header-policy", "", "State-count header mismatch: lenient (warning) or strict (error)")
	flags.Uint64("step-limit", 0, "Maximum number of transitions per run")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.String("machines", "", "Directory holding named *.tm descriptions")
	flags.String("store-dir", "", "Persist run records as JSON files in this directory")
	flags.String("redis-url", "", "Persist run records in Redis (redis://host:port/db)")
}

// newApp resolves the configuration: defaults, then the YAML profile, then flags.
func newApp(cmd *cobra.Command) (*cli.App, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	cfg, err := cli.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	overrides := map[string]*string{
		"mode":          &cfg.Mode,
		"header-policy": &cfg.HeaderPolicy,
		"log-level":     &cfg.LogLevel,
		"machines":      &cfg.MachinesDir,
		"store-dir":     &cfg.StoreDir,
		"redis-url":     &cfg.RedisURL,
	}
	for name, dst := range overrides {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	if flags.Changed("step-limit") {
		cfg.StepLimit, _ = flags.GetUint64("step-limit")
	}

	return cli.NewApp(cfg, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// tapeArgs maps "<machine> [input]" positional arguments and the --tape flag.
func tapeArgs(cmd *cobra.Command, args []string) cli.TapeOptions {
	opts := cli.TapeOptions{Machine: args[0]}
	if len(args) > 1 {
		opts.Input = args[1]
	}
	opts.TapeFile, _ = cmd.Flags().GetString("tape")
	return opts
}
