// Package testhelpers provides real git repositories for tests.
package testhelpers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// GitRepo represents a git repository created for a single test.
type GitRepo struct {
	Dir string
}

// NewGitRepo initializes a new repository in the given directory with a
// "main" default branch and a test identity configured.
func NewGitRepo(dir string) (*GitRepo, error) {
	repo := &GitRepo{Dir: dir}

	cmd := exec.Command("git", "-c", "init.defaultBranch=main", "-c", "core.autocrlf=false", "init", dir, "-b", "main")
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to init repo: %w", err)
	}

	if err := repo.RunGit("config", "user.name", "Test User"); err != nil {
		return nil, err
	}
	if err := repo.RunGit("config", "user.email", "test@example.com"); err != nil {
		return nil, err
	}

	return repo, nil
}

// NewTestRepo creates a repository under t.TempDir() with one initial commit.
func NewTestRepo(t *testing.T) *GitRepo {
	t.Helper()

	repo, err := NewGitRepo(filepath.Join(t.TempDir(), "repo"))
	if err != nil {
		t.Fatalf("failed to create test repo: %v", err)
	}
	if err := repo.CreateChangeAndCommit("initial"); err != nil {
		t.Fatalf("failed to create initial commit: %v", err)
	}
	return repo
}

// RunGit executes a git command in the repository directory.
func (r *GitRepo) RunGit(args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	// Avoid reading the host's global git config
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git %s failed: %w\n%s", strings.Join(args, " "), err, output)
	}
	return nil
}

// RunGitOutput executes a git command and returns its trimmed output.
func (r *GitRepo) RunGitOutput(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s failed: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(output)), nil
}

// CreateChangeAndCommit writes a uniquely named file and commits it.
func (r *GitRepo) CreateChangeAndCommit(name string) error {
	path := filepath.Join(r.Dir, name+".txt")
	if err := os.WriteFile(path, []byte(name+"\n"), 0o644); err != nil {
		return err
	}
	if err := r.RunGit("add", "."); err != nil {
		return err
	}
	return r.RunGit("commit", "-m", name)
}

// CreateBranch creates a branch at the current commit without checking it out.
func (r *GitRepo) CreateBranch(name string) error {
	return r.RunGit("branch", name)
}

// CreateAndCheckoutBranch creates a branch and switches to it.
func (r *GitRepo) CreateAndCheckoutBranch(name string) error {
	return r.RunGit("checkout", "-b", name)
}

// CheckoutBranch switches to an existing branch.
func (r *GitRepo) CheckoutBranch(name string) error {
	return r.RunGit("checkout", name)
}

// MergeBranch merges the named branch into the current one with a merge
// commit, so the merged branch's tip differs from the result.
func (r *GitRepo) MergeBranch(name string) error {
	return r.RunGit("merge", "--no-ff", "-m", "merge "+name, name)
}

// CurrentBranch returns the name of the checked-out branch.
func (r *GitRepo) CurrentBranch() (string, error) {
	return r.RunGitOutput("rev-parse", "--abbrev-ref", "HEAD")
}

// ListBranches returns the sorted local branch names.
func (r *GitRepo) ListBranches() ([]string, error) {
	output, err := r.RunGitOutput("branch", "--format=%(refname:short)")
	if err != nil {
		return nil, err
	}
	if output == "" {
		return nil, nil
	}
	return strings.Split(output, "\n"), nil
}

// BranchTip returns the commit hash the branch points at.
func (r *GitRepo) BranchTip(name string) (string, error) {
	return r.RunGitOutput("rev-parse", name)
}

// SetConfig sets a repository-local configuration value.
func (r *GitRepo) SetConfig(key, value string) error {
	return r.RunGit("config", key, value)
}

// AddConfig appends a value to a multi-valued configuration key.
func (r *GitRepo) AddConfig(key, value string) error {
	return r.RunGit("config", "--add", key, value)
}

// CloneTo clones the repository into dir; the clone's "origin" remote points
// back at this repository.
func (r *GitRepo) CloneTo(dir string) (*GitRepo, error) {
	cmd := exec.Command("git", "clone", r.Dir, dir)
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("failed to clone repo: %w\n%s", err, output)
	}

	clone := &GitRepo{Dir: dir}
	if err := clone.RunGit("config", "user.name", "Test User"); err != nil {
		return nil, err
	}
	if err := clone.RunGit("config", "user.email", "test@example.com"); err != nil {
		return nil, err
	}
	return clone, nil
}
