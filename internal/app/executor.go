package app

import (
	"context"
	"errors"
	"fmt"
	"sort"

	arborerrors "arbor.dev/arbor/internal/errors"
	"arbor.dev/arbor/internal/git"
)

// deleteBranches applies a confirmed deletion list. The currently checked-out
// branch is recorded first; if it is itself slated, a protected fallback is
// checked out before anything is deleted, and without such a fallback the
// whole operation is abandoned with a warning. Per-branch failures are
// warnings and do not stop the batch. The original branch is checked back out
// afterwards when it survived.
func (a *App) deleteBranches(ctx context.Context, branches []string) error {
	if len(branches) == 0 {
		return nil
	}

	restorer, err := git.NewBranchRestorer(ctx, a.repo)
	if err != nil {
		return err
	}

	slated := make(map[string]bool, len(branches))
	for _, branch := range branches {
		slated[branch] = true
	}

	if slated[restorer.Branch()] {
		fallback := a.fallbackBranch()
		if fallback == "" {
			a.ui.LogWarning(fmt.Sprintf("Not deleting %s: it is checked out and there is no protected branch to switch to", restorer.Branch()))
			return nil
		}
		if err := a.repo.Checkout(ctx, fallback); err != nil {
			a.ui.LogWarning(fmt.Sprintf("Failed to checkout %s", fallback))
			return nil
		}
	}

	deleted := make(map[string]bool, len(branches))
	defer func() {
		if deleted[restorer.Branch()] {
			return
		}
		if err := restorer.Restore(ctx); err != nil {
			a.ui.LogWarning(fmt.Sprintf("Failed to restore original branch %s", restorer.Branch()))
		}
	}()

	for _, branch := range branches {
		a.ui.LogInfo(fmt.Sprintf("Deleting %s", branch))
		if err := a.safeDeleteBranch(ctx, branch); err != nil {
			if errors.Is(err, arborerrors.ErrUnsafeDelete) {
				a.ui.LogWarning(fmt.Sprintf("Not deleting %s: no other branch contains its commits anymore", branch))
			} else {
				a.ui.LogWarning(fmt.Sprintf("Failed to delete %s: %v", branch, err))
			}
			continue
		}
		deleted[branch] = true
	}
	return nil
}

// safeDeleteBranch deletes a branch only after re-validating that another
// branch still contains its tip. The plan may be stale by execution time; a
// branch that became the sole holder of its history is skipped, because
// deleting it would permanently lose commits.
func (a *App) safeDeleteBranch(ctx context.Context, branch string) error {
	containing, err := a.repo.ListBranchesContaining(ctx, branch)
	if err != nil {
		return err
	}

	survives := false
	for _, container := range containing {
		if container != branch {
			survives = true
			break
		}
	}
	if !survives {
		return arborerrors.NewUnsafeDeleteError(branch)
	}

	// Can't delete the checked-out branch; move to one of its containers
	current, err := a.repo.CurrentBranch(ctx)
	if err == nil && current == branch {
		containers := make([]string, 0, len(containing))
		for _, container := range containing {
			if container != branch {
				containers = append(containers, container)
			}
		}
		sort.Strings(containers)
		if err := a.repo.Checkout(ctx, containers[0]); err != nil {
			return err
		}
	}

	return a.repo.DeleteBranch(ctx, branch)
}

// fallbackBranch returns the branch to stand on while the current one is
// deleted: the default branch when resolved, otherwise the first protected
// branch, otherwise empty.
func (a *App) fallbackBranch() string {
	if a.defaultBranch != "" {
		return a.defaultBranch
	}
	protected := a.ProtectedBranches()
	if len(protected) > 0 {
		return protected[0]
	}
	return ""
}
