package ui

// BranchToDelete is a deletion candidate awaiting confirmation: a branch and
// the surviving branches that contain its whole history.
type BranchToDelete struct {
	Name        string
	ContainedIn []string
}

// UI is the interaction surface the engine talks to. Selection prompts return
// the subset the user confirmed; an empty selection is a valid answer, not an
// error. Prompts whose answer is mandatory return ErrInterrupted (or
// ErrNoDefaultBranch in batch mode) when aborted.
type UI interface {
	LogInfo(msg string)
	LogWarning(msg string)
	LogError(msg string)

	// SelectBranchesToDelete presents merged-branch candidates, all
	// pre-checked, and returns the ones to delete.
	SelectBranchesToDelete(candidates []BranchToDelete) ([]BranchToDelete, error)

	// SelectIdenticalBranchesToDelete presents a group of branches sharing a
	// tip that is preserved elsewhere; deleting all of them is safe.
	SelectIdenticalBranchesToDelete(branches []string) ([]string, error)

	// SelectIdenticalBranchesToDeleteKeepOne presents a group of branches
	// sharing a tip preserved nowhere else. At least one branch must be left
	// unselected.
	SelectIdenticalBranchesToDeleteKeepOne(branches []string) ([]string, error)

	// SelectDefaultBranch asks which branch is the repository's default one.
	SelectDefaultBranch(candidates []string) (string, error)
}
