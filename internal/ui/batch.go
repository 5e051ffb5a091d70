package ui

import (
	"sort"

	arborerrors "arbor.dev/arbor/internal/errors"
)

// BatchUI answers every prompt deterministically: select everything offered,
// and for keep-one groups keep the lexicographically smallest name. Used for
// --yes runs and when stdin is not a terminal.
type BatchUI struct {
	logger *Logger
}

// NewBatchUI creates a batch UI writing through the given logger
func NewBatchUI(logger *Logger) *BatchUI {
	return &BatchUI{logger: logger}
}

func (u *BatchUI) LogInfo(msg string)    { u.logger.Info("%s", msg) }
func (u *BatchUI) LogWarning(msg string) { u.logger.Warning("%s", msg) }
func (u *BatchUI) LogError(msg string)   { u.logger.Error("%s", msg) }

// SelectBranchesToDelete confirms every candidate
func (u *BatchUI) SelectBranchesToDelete(candidates []BranchToDelete) ([]BranchToDelete, error) {
	return candidates, nil
}

// SelectIdenticalBranchesToDelete confirms every branch in the group
func (u *BatchUI) SelectIdenticalBranchesToDelete(branches []string) ([]string, error) {
	return branches, nil
}

// SelectIdenticalBranchesToDeleteKeepOne confirms every branch except the
// lexicographically smallest one
func (u *BatchUI) SelectIdenticalBranchesToDeleteKeepOne(branches []string) ([]string, error) {
	if len(branches) == 0 {
		return nil, nil
	}
	toDelete := append([]string(nil), branches...)
	sort.Strings(toDelete)
	return toDelete[1:], nil
}

// SelectDefaultBranch cannot be answered without a user; the run fails rather
// than guessing
func (u *BatchUI) SelectDefaultBranch(candidates []string) (string, error) {
	return "", arborerrors.ErrNoDefaultBranch
}
