package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/openbrine/brine/pkg/telemetry"
)

var (
	// Global flags
	workDir    string
	sourceFile string
	verbose    bool
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "brine",
		Short: "Brine - Brinefile to Salt state compiler",
		Long: `Brine compiles a Brinefile describing a server role or a reusable
configuration element into a Salt state file (init.sls) plus its
supporting artifacts.

Generated artifacts:
  - init.sls   the declarative state manifest
  - README.md  derived from %description and %readme
  - files/     payload skeleton, when the Brinefile manages files
  - maps/      the pinned-version map, when any package pins a version`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Every invocation logs under one run ID.
			cfg := telemetry.DefaultLoggingConfig()
			if verbose {
				cfg.Level = "debug"
			}
			logger := telemetry.NewLogger(cfg).WithRunID(uuid.New().String())
			cmd.SetContext(logger.WithContext(cmd.Context()))
		},
		// A bare `brine` in a directory with a Brinefile generates.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGeneration(cmd.Context())
		},
		SilenceUsage: true,
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&workDir, "dir", "C", ".", "working directory containing the Brinefile")
	rootCmd.PersistentFlags().StringVarP(&sourceFile, "file", "f", "Brinefile", "Brinefile name inside the working directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(newGenerateCommand())
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newHistoryCommand())

	return rootCmd
}
