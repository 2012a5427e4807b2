package commands

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/openbrine/brine/pkg/telemetry"
	"github.com/openbrine/brine/pkg/workspace"
)

func newWatchCommand() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate whenever the Brinefile changes",
		Long: `Generate once, then keep watching the Brinefile and regenerate on
every change. A failing edit logs the parse error and leaves the last
good artifacts in place; the next valid save overwrites them.`,
		Example: `  # Watch ./Brinefile until interrupted
  brine watch

  # Watch with a longer debounce for slow editors
  brine watch --debounce 1s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := telemetry.FromContext(ctx)

			if err := runGeneration(ctx); err != nil {
				logger.WithError(err).Error("initial generation failed")
			}

			ws := workspace.New(workDir)
			err := ws.Watch(ctx, sourceFile, debounce, func() {
				if err := runGeneration(ctx); err != nil {
					logger.WithError(err).Error("generation failed")
				}
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 250*time.Millisecond, "delay before regenerating after a change")

	return cmd
}
