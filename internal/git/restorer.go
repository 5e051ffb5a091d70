package git

import (
	"context"
	"fmt"
)

// CheckoutRepo is the slice of repository behavior BranchRestorer needs
type CheckoutRepo interface {
	CurrentBranch(ctx context.Context) (string, error)
	Checkout(ctx context.Context, branchName string) error
}

// BranchRestorer captures the currently checked-out branch so multi-step
// operations can put the user back where they started. Acquire it before the
// first checkout and defer Restore; Restore is a no-op when the branch was
// never left.
type BranchRestorer struct {
	repo   CheckoutRepo
	branch string
}

// NewBranchRestorer records the current branch. Fails when HEAD is detached,
// since there is nothing to restore to.
func NewBranchRestorer(ctx context.Context, repo CheckoutRepo) (*BranchRestorer, error) {
	branch, err := repo.CurrentBranch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to record current branch: %w", err)
	}
	return &BranchRestorer{repo: repo, branch: branch}, nil
}

// Branch returns the branch recorded at acquisition time
func (r *BranchRestorer) Branch() string {
	return r.branch
}

// Restore checks the recorded branch back out. Fails when it no longer
// exists; callers deleting branches must check survival first.
func (r *BranchRestorer) Restore(ctx context.Context) error {
	current, err := r.repo.CurrentBranch(ctx)
	if err == nil && current == r.branch {
		return nil
	}
	return r.repo.Checkout(ctx, r.branch)
}
