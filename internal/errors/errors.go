// Package errors provides sentinel errors and custom error types for arbor.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	// ErrNotOnBranch indicates that HEAD is not on a branch
	ErrNotOnBranch = errors.New("not on a branch")

	// ErrDirtyWorkTree indicates that the working tree has uncommitted changes
	ErrDirtyWorkTree = errors.New("working tree has uncommitted changes")

	// ErrUnsafeDelete indicates that deleting a branch would lose commits
	// not reachable from any other branch
	ErrUnsafeDelete = errors.New("branch contains unique commits")

	// ErrInterrupted indicates that the user aborted a prompt whose answer
	// was mandatory
	ErrInterrupted = errors.New("interrupted by user")

	// ErrNoDefaultBranch indicates that the default branch could not be
	// resolved and no prompt was available to pick one
	ErrNoDefaultBranch = errors.New("no default branch")
)

// UnsafeDeleteError reports an attempt to delete a branch whose history is
// not preserved by any other branch.
type UnsafeDeleteError struct {
	BranchName string
}

func (e *UnsafeDeleteError) Error() string {
	return fmt.Sprintf("deleting %s would lose commits: no other branch contains it", e.BranchName)
}

// Is returns true if the target error is ErrUnsafeDelete
func (e *UnsafeDeleteError) Is(target error) bool {
	return target == ErrUnsafeDelete
}

// NewUnsafeDeleteError creates a new UnsafeDeleteError
func NewUnsafeDeleteError(branchName string) *UnsafeDeleteError {
	return &UnsafeDeleteError{BranchName: branchName}
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}
