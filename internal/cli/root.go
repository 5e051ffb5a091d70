// Package cli defines the cobra command surface.
package cli

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"arbor.dev/arbor/internal/app"
	"arbor.dev/arbor/internal/git"
	"arbor.dev/arbor/internal/ui"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	var (
		excluded []string
		noFetch  bool
		yes      bool
	)

	rootCmd := &cobra.Command{
		Use:   "arbor",
		Short: "Keep a git repository clean and tidy",
		Long: `Arbor keeps a git repository clean and tidy: it updates local tracking
branches, then deletes the local branches whose content is already preserved
elsewhere (fully merged into another branch, or pointing at the same commit),
after asking for confirmation. The default branch and any configured or
excluded branches are never deleted.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := ui.NewLogger()
			defer func() { _ = logger.Close() }()

			var userUI ui.UI
			if yes || !isatty.IsTerminal(os.Stdin.Fd()) {
				userUI = ui.NewBatchUI(logger)
			} else {
				userUI = ui.NewInteractiveUI(logger)
			}

			repo, err := git.Open(".")
			if err != nil {
				return err
			}

			a := app.New(repo, userUI, app.Options{
				Excluded: excluded,
				NoFetch:  noFetch,
			})
			return a.Run(cmd.Context())
		},
	}

	rootCmd.Flags().StringArrayVarP(&excluded, "exclude", "x", nil, "Branch to protect from deletion, in addition to the default branch (repeatable)")
	rootCmd.Flags().BoolVar(&noFetch, "no-fetch", false, "Do not fetch changes")
	rootCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	rootCmd.AddCommand(newVersionCmd(version, commit, date))

	return rootCmd
}
