package app

import (
	"context"
	"errors"
	"fmt"

	arborerrors "arbor.dev/arbor/internal/errors"
)

// Git config keys holding persisted state. The default branch is detected
// once and cached; protected branches can be declared per repository.
const (
	DefaultBranchConfigKey     = "arbor.default-branch"
	ProtectedBranchesConfigKey = "arbor.protected-branches"
)

// FinalizeProtectedBranches resolves the default branch and builds the
// immutable protected set from it, the repository configuration and the
// command line. Classification and deletion must not run before this
// succeeds.
func (a *App) FinalizeProtectedBranches(ctx context.Context) error {
	defaultBranch, err := a.resolveDefaultBranch(ctx)
	if err != nil {
		a.ui.LogError("Could not resolve the default branch")
		return err
	}
	a.defaultBranch = defaultBranch

	protected := map[string]bool{defaultBranch: true}

	configured, err := a.repo.ConfigValues(ctx, ProtectedBranchesConfigKey)
	if err != nil {
		return fmt.Errorf("failed to read protected branches from config: %w", err)
	}
	for _, branch := range configured {
		protected[branch] = true
	}
	for _, branch := range a.opts.Excluded {
		protected[branch] = true
	}

	a.protected = protected
	return nil
}

// resolveDefaultBranch returns the repository's default branch, in order of
// preference: the cached config value, remote HEAD auto-detection, a user
// prompt. Detection and prompt results are persisted so later runs skip this.
func (a *App) resolveDefaultBranch(ctx context.Context) (string, error) {
	values, err := a.repo.ConfigValues(ctx, DefaultBranchConfigKey)
	if err != nil {
		return "", fmt.Errorf("failed to read default branch from config: %w", err)
	}
	if len(values) > 0 && values[0] != "" {
		return values[0], nil
	}

	if branch, err := a.repo.DetectDefaultBranch(ctx); err == nil {
		if err := a.repo.SetConfigValue(ctx, DefaultBranchConfigKey, branch); err != nil {
			return "", err
		}
		return branch, nil
	}

	// No remote HEAD to ask; let the user pick. In batch mode this fails
	// with ErrNoDefaultBranch rather than guessing.
	branches, err := a.repo.ListBranches(ctx)
	if err != nil {
		return "", err
	}
	branch, err := a.ui.SelectDefaultBranch(branches)
	if err != nil {
		if errors.Is(err, arborerrors.ErrNoDefaultBranch) || errors.Is(err, arborerrors.ErrInterrupted) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", arborerrors.ErrInterrupted, err)
	}
	if err := a.repo.SetConfigValue(ctx, DefaultBranchConfigKey, branch); err != nil {
		return "", err
	}
	return branch, nil
}
