package app

import (
	"context"
	"fmt"

	"arbor.dev/arbor/internal/git"
)

// UpdateTrackingBranches fast-forwards every local branch that tracks a
// remote branch still present upstream. A branch that cannot be
// fast-forwarded has simply diverged; that is a warning, not a failure. The
// original branch is restored afterwards, also on early error returns.
func (a *App) UpdateTrackingBranches(ctx context.Context) error {
	branches, err := a.repo.ListTrackingBranches(ctx)
	if err != nil {
		a.ui.LogError("Failed to list tracking branches")
		return err
	}
	if len(branches) == 0 {
		return nil
	}

	restorer, err := git.NewBranchRestorer(ctx, a.repo)
	if err != nil {
		return err
	}
	defer func() {
		if err := restorer.Restore(ctx); err != nil {
			a.ui.LogWarning(fmt.Sprintf("Failed to restore original branch %s", restorer.Branch()))
		}
	}()

	for _, branch := range branches {
		a.ui.LogInfo(fmt.Sprintf("Updating %s", branch))
		if err := a.repo.Checkout(ctx, branch); err != nil {
			a.ui.LogError(fmt.Sprintf("Failed to checkout %s", branch))
			return err
		}
		output, err := a.repo.FastForwardMerge(ctx)
		if err != nil {
			// Expected when the branches have diverged
			a.ui.LogWarning(fmt.Sprintf("Failed to update %s", branch))
			continue
		}
		if output != "" {
			a.ui.LogInfo(output)
		}
	}
	return nil
}
