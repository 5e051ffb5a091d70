package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	arborerrors "arbor.dev/arbor/internal/errors"
)

// If a branch is checked out in a separate worktree, `git branch` prefixes it
// with this string. Such branches are excluded from every listing: they cannot
// be checked out here and must not be deleted from here.
const worktreeBranchPrefix = "+ "

// Repo is the repository capability used by the app package. Read-only ref
// access goes through go-git; everything that mutates the working tree or
// talks to a remote shells out through the CommandRunner.
type Repo struct {
	runner  *CommandRunner
	gitRepo *gogit.Repository
	path    string
}

// Open opens the git repository at path
func Open(path string) (*Repo, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	gitRepo, err := gogit.PlainOpenWithOptions(absPath, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	return &Repo{
		runner:  NewCommandRunner(absPath),
		gitRepo: gitRepo,
		path:    absPath,
	}, nil
}

// Path returns the repository root directory
func (r *Repo) Path() string {
	return r.path
}

// Fetch fetches and prunes from the default remote
func (r *Repo) Fetch(ctx context.Context) error {
	_, err := r.runner.Run(ctx, "fetch", "--prune")
	if err != nil {
		return fmt.Errorf("failed to fetch: %w", err)
	}
	return nil
}

// listBranchLines runs `git branch` with extra args and returns the output
// lines with worktree-checked-out branches removed and the two leading marker
// characters stripped.
func (r *Repo) listBranchLines(ctx context.Context, extraArgs ...string) ([]string, error) {
	args := append([]string{"branch"}, extraArgs...)
	output, err := r.runner.RunRaw(ctx, args...)
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, line := range strings.Split(output, "\n") {
		if line == "" || strings.HasPrefix(line, worktreeBranchPrefix) {
			continue
		}
		if len(line) < 2 {
			return nil, fmt.Errorf("unexpected branch listing line %q", line)
		}
		lines = append(lines, line[2:])
	}
	return lines, nil
}

// ListBranches returns the names of all local branches, excluding branches
// checked out in other worktrees
func (r *Repo) ListBranches(ctx context.Context) ([]string, error) {
	return r.listBranchLines(ctx)
}

// ListBranchesContaining returns the local branches whose history contains
// the given commit or branch tip
func (r *Repo) ListBranchesContaining(ctx context.Context, commit string) ([]string, error) {
	return r.listBranchLines(ctx, "--contains", commit)
}

// ListTrackingBranches returns the local branches that track a remote branch
// which still exists upstream
func (r *Repo) ListTrackingBranches(ctx context.Context) ([]string, error) {
	lines, err := r.listBranchLines(ctx, "-vv")
	if err != nil {
		return nil, err
	}

	var branches []string
	for _, line := range lines {
		if strings.Contains(line, "[origin/") && !strings.Contains(line, ": gone]") {
			fields := strings.Fields(line)
			if len(fields) > 0 {
				branches = append(branches, fields[0])
			}
		}
	}
	return branches, nil
}

// ListBranchesWithTips returns a map of branch name to tip commit hash.
// Tips come from go-git ref iteration; the result is restricted to the
// branches ListBranches reports, so worktree branches stay excluded.
func (r *Repo) ListBranchesWithTips(ctx context.Context) (map[string]string, error) {
	names, err := r.ListBranches(ctx)
	if err != nil {
		return nil, err
	}
	listed := make(map[string]bool, len(names))
	for _, name := range names {
		listed[name] = true
	}

	refs, err := r.gitRepo.Branches()
	if err != nil {
		return nil, fmt.Errorf("failed to get branches: %w", err)
	}

	tips := make(map[string]string, len(names))
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		if listed[name] {
			tips[name] = ref.Hash().String()
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate branches: %w", err)
	}
	return tips, nil
}

// CurrentBranch returns the currently checked-out branch name.
// Returns ErrNotOnBranch when HEAD is detached.
func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	head, err := r.gitRepo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", arborerrors.ErrNotOnBranch
	}
	return head.Name().Short(), nil
}

// HasUncommittedChanges reports whether the working tree is dirty
func (r *Repo) HasUncommittedChanges(ctx context.Context) (bool, error) {
	output, err := r.runner.Run(ctx, "status", "--short")
	if err != nil {
		return false, fmt.Errorf("failed to get working tree status: %w", err)
	}
	return output != "", nil
}

// Checkout checks out an existing branch
func (r *Repo) Checkout(ctx context.Context, branchName string) error {
	_, err := r.runner.Run(ctx, "checkout", branchName)
	if err != nil {
		return fmt.Errorf("failed to checkout branch %s: %w", branchName, err)
	}
	return nil
}

// FastForwardMerge fast-forwards the current branch to its upstream.
// Returns the merge output; fails if the histories have diverged.
func (r *Repo) FastForwardMerge(ctx context.Context) (string, error) {
	return r.runner.Run(ctx, "merge", "--ff-only")
}

// DeleteBranch force-deletes a local branch
func (r *Repo) DeleteBranch(ctx context.Context, branchName string) error {
	_, err := r.runner.Run(ctx, "branch", "-D", branchName)
	if err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", branchName, err)
	}
	return nil
}

// ConfigValues returns all values set for a git config key.
// An unset key yields an empty slice, not an error.
func (r *Repo) ConfigValues(ctx context.Context, key string) ([]string, error) {
	lines, err := r.runner.RunLines(ctx, "config", "--get-all", key)
	if err != nil {
		// git config exits 1 when the key is not set
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return []string{}, nil
		}
		return nil, err
	}
	return lines, nil
}

// SetConfigValue sets a single-valued git config key
func (r *Repo) SetConfigValue(ctx context.Context, key, value string) error {
	_, err := r.runner.Run(ctx, "config", key, value)
	if err != nil {
		return fmt.Errorf("failed to set config %s: %w", key, err)
	}
	return nil
}

// AddConfigValue appends a value to a multi-valued git config key
func (r *Repo) AddConfigValue(ctx context.Context, key, value string) error {
	_, err := r.runner.Run(ctx, "config", "--add", key, value)
	if err != nil {
		return fmt.Errorf("failed to add config %s: %w", key, err)
	}
	return nil
}

// DetectDefaultBranch resolves the remote HEAD to a local branch name,
// e.g. refs/remotes/origin/HEAD -> main
func (r *Repo) DetectDefaultBranch(ctx context.Context) (string, error) {
	const remoteHeadPrefix = "refs/remotes/origin/"

	output, err := r.runner.Run(ctx, "symbolic-ref", remoteHeadPrefix+"HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to resolve remote HEAD: %w", err)
	}
	if !strings.HasPrefix(output, remoteHeadPrefix) {
		return "", fmt.Errorf("unexpected remote HEAD ref %q", output)
	}
	return strings.TrimPrefix(output, remoteHeadPrefix), nil
}
