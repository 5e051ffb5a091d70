// Package app implements the branch-classification and safe-deletion engine:
// it decides which local branches are redundant, which are protected, in what
// order the redundant ones can be removed, and performs the removal without
// ever leaving the repository on a deleted or detached head.
package app

import (
	"context"
	"errors"
	"fmt"
	"sort"

	arborerrors "arbor.dev/arbor/internal/errors"
	"arbor.dev/arbor/internal/ui"
)

// Repository is the version-control capability the engine runs against.
// *git.Repo implements it; tests use an in-memory fake.
type Repository interface {
	Fetch(ctx context.Context) error
	ListBranches(ctx context.Context) ([]string, error)
	ListBranchesContaining(ctx context.Context, commit string) ([]string, error)
	ListTrackingBranches(ctx context.Context) ([]string, error)
	ListBranchesWithTips(ctx context.Context) (map[string]string, error)
	CurrentBranch(ctx context.Context) (string, error)
	HasUncommittedChanges(ctx context.Context) (bool, error)
	Checkout(ctx context.Context, branchName string) error
	FastForwardMerge(ctx context.Context) (string, error)
	DeleteBranch(ctx context.Context, branchName string) error
	ConfigValues(ctx context.Context, key string) ([]string, error)
	SetConfigValue(ctx context.Context, key, value string) error
	DetectDefaultBranch(ctx context.Context) (string, error)
}

// Options configures a run
type Options struct {
	// Excluded branches are protected from deletion in addition to the
	// default branch and the ones configured in git config
	Excluded []string

	// NoFetch skips the fetch step
	NoFetch bool
}

// App wires the repository capability and the UI into the run pipeline
type App struct {
	repo Repository
	ui   ui.UI
	opts Options

	// finalized by FinalizeProtectedBranches; no deletion decision may be
	// made before that
	protected     map[string]bool
	defaultBranch string
}

// New creates an App. Call FinalizeProtectedBranches (or Run, which does)
// before any classification or deletion.
func New(repo Repository, userUI ui.UI, opts Options) *App {
	return &App{
		repo: repo,
		ui:   userUI,
		opts: opts,
	}
}

// Run executes the whole pipeline: working-tree guard, protection policy,
// fetch, tracking update, identical-tip cleanup, merged-branch cleanup.
func (a *App) Run(ctx context.Context) error {
	if err := a.CheckWorkingTree(ctx); err != nil {
		return err
	}
	if err := a.FinalizeProtectedBranches(ctx); err != nil {
		return err
	}
	if !a.opts.NoFetch {
		a.ui.LogInfo("Fetching changes")
		if err := a.repo.Fetch(ctx); err != nil {
			a.ui.LogError("Failed to fetch changes")
			return err
		}
	}
	if err := a.UpdateTrackingBranches(ctx); err != nil {
		return err
	}
	if err := a.DeleteIdenticalBranches(ctx); err != nil {
		return err
	}
	return a.RemoveMergedBranches(ctx)
}

// CheckWorkingTree verifies the repository is on a branch with a clean
// working tree
func (a *App) CheckWorkingTree(ctx context.Context) error {
	if _, err := a.repo.CurrentBranch(ctx); err != nil {
		a.ui.LogError("No current branch")
		if errors.Is(err, arborerrors.ErrNotOnBranch) {
			return err
		}
		return fmt.Errorf("%w: %v", arborerrors.ErrNotOnBranch, err)
	}

	hasChanges, err := a.repo.HasUncommittedChanges(ctx)
	if err != nil {
		a.ui.LogError("Failed to get working tree status")
		return err
	}
	if hasChanges {
		a.ui.LogError("Can't work in a tree with uncommitted changes")
		return arborerrors.ErrDirtyWorkTree
	}
	return nil
}

// DefaultBranch returns the resolved default branch, empty before
// FinalizeProtectedBranches
func (a *App) DefaultBranch() string {
	return a.defaultBranch
}

// ProtectedBranches returns the finalized protected branch names, sorted
func (a *App) ProtectedBranches() []string {
	names := make([]string, 0, len(a.protected))
	for name := range a.protected {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (a *App) isProtected(branch string) bool {
	return a.protected[branch]
}
