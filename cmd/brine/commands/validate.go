package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openbrine/brine/pkg/workspace"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Parse and validate the Brinefile without writing anything",
		Long: `Parse and validate the Brinefile.

Runs the full lexer, interpreter and document validation but stops
before rendering, so nothing in the working directory changes. Exits
non-zero with the failing section and line when the Brinefile is
invalid.`,
		Example: `  # Check the Brinefile in the current directory
  brine validate

  # Check a differently named source file
  brine validate -f Brinefile.new`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws := workspace.New(workDir)
			doc, _, err := compile(ws)
			if err != nil {
				return err
			}
			fmt.Printf("%s %s is valid\n", doc.Kind, doc.Name)
			return nil
		},
	}
}
