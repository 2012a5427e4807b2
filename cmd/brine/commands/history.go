package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openbrine/brine/pkg/stores"
)

func newHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded generation runs",
		Long: `List past generation runs from the local history database, newest
first. Each row shows the document, its item counts and the manifest
checksum, which makes it easy to spot when a regeneration actually
changed the output.`,
		Example: `  # Show the last 20 runs
  brine history

  # Show more
  brine history --limit 100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			path, err := historyDBPath()
			if err != nil {
				return err
			}

			store, err := stores.NewSQLiteStore(stores.Config{Path: path})
			if err != nil {
				return err
			}
			if err := store.Init(ctx); err != nil {
				return err
			}
			defer store.Close()
			if err := store.Migrate(ctx); err != nil {
				return err
			}

			runs, err := store.ListRuns(ctx, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs recorded yet")
				return nil
			}

			fmt.Printf("%-20s  %-8s  %-30s  %4s  %4s  %4s  %s\n",
				"WHEN", "KIND", "NAME", "PKGS", "FILE", "SVCS", "MANIFEST")
			for _, run := range runs {
				fmt.Printf("%-20s  %-8s  %-30s  %4d  %4d  %4d  %.12s\n",
					run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					run.Kind, run.Name,
					run.Packages, run.Files, run.Services,
					run.ManifestSHA256)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list")

	return cmd
}
