package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdejongh/stemdiff/pkg/models"
)

// ExitError reports a run that completed and printed its outcome but must
// still end with a non-zero exit status.
type ExitError struct {
	Code   int
	Status models.Status
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("deletion %s", e.Status)
}

// NewRootCommand builds the stemdiff command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stemdiff",
		Short: "Compare two directory trees by file base name",
		Long: `stemdiff compares two directory trees, pairing files by their base name
(file name without its final extension) regardless of where they sit in each tree.
It reports files present on one side only, files whose contents differ, and can
delete the files found only on one side.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(rootCmd)

	rootCmd.AddCommand(NewCompareCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}
