package ui

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	arborerrors "arbor.dev/arbor/internal/errors"
)

// InteractiveUI prompts the user on a terminal. All selection prompts block
// until answered; there is deliberately no timeout.
type InteractiveUI struct {
	logger *Logger
}

// NewInteractiveUI creates an interactive UI writing through the given logger
func NewInteractiveUI(logger *Logger) *InteractiveUI {
	return &InteractiveUI{logger: logger}
}

func (u *InteractiveUI) LogInfo(msg string)    { u.logger.Info("%s", msg) }
func (u *InteractiveUI) LogWarning(msg string) { u.logger.Warning("%s", msg) }
func (u *InteractiveUI) LogError(msg string)   { u.logger.Error("%s", msg) }

// mapPromptErr converts a survey interrupt into ErrInterrupted
func mapPromptErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return arborerrors.ErrInterrupted
	}
	return err
}

// multiSelect shows a pre-checked multi-select prompt and returns the chosen
// items. An empty selection is valid.
func (u *InteractiveUI) multiSelect(message string, items []string) ([]string, error) {
	var selected []string
	prompt := &survey.MultiSelect{
		Message: message,
		Options: items,
		Default: items,
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return nil, mapPromptErr(err)
	}
	return selected, nil
}

func formatBranchToDelete(candidate BranchToDelete) string {
	containers := append([]string(nil), candidate.ContainedIn...)
	sort.Strings(containers)
	return fmt.Sprintf("%s (contained in: %s)", candidate.Name, strings.Join(containers, ", "))
}

// SelectBranchesToDelete presents merged-branch candidates, all pre-checked
func (u *InteractiveUI) SelectBranchesToDelete(candidates []BranchToDelete) ([]BranchToDelete, error) {
	byItem := make(map[string]BranchToDelete, len(candidates))
	items := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		item := formatBranchToDelete(candidate)
		byItem[item] = candidate
		items = append(items, item)
	}
	sort.Strings(items)

	selected, err := u.multiSelect("Select branches to delete", items)
	if err != nil {
		return nil, err
	}

	result := make([]BranchToDelete, 0, len(selected))
	for _, item := range selected {
		result = append(result, byItem[item])
	}
	return result, nil
}

// SelectIdenticalBranchesToDelete presents a group whose shared tip is
// preserved elsewhere, so deleting every member is safe
func (u *InteractiveUI) SelectIdenticalBranchesToDelete(branches []string) ([]string, error) {
	items := append([]string(nil), branches...)
	sort.Strings(items)

	u.LogInfo("These branches point to the same commit, which is contained in another branch, so it is safe to delete them all.")
	return u.multiSelect("Select branches to delete", items)
}

// SelectIdenticalBranchesToDeleteKeepOne presents a group whose shared tip is
// preserved nowhere else; it re-prompts until at least one branch is left
// unselected
func (u *InteractiveUI) SelectIdenticalBranchesToDeleteKeepOne(branches []string) ([]string, error) {
	items := append([]string(nil), branches...)
	sort.Strings(items)

	u.LogInfo("These branches point to the same commit, but no other branch contains this commit, so you can delete all of them but one.")
	for {
		selected, err := u.multiSelect("Select branches to delete", items)
		if err != nil {
			return nil, err
		}
		if len(selected) < len(items) {
			return selected, nil
		}
		u.LogError("You must leave at least one branch unchecked.")
	}
}

// SelectDefaultBranch asks the user to pick the repository's default branch
func (u *InteractiveUI) SelectDefaultBranch(candidates []string) (string, error) {
	items := append([]string(nil), candidates...)
	sort.Strings(items)

	var selected string
	prompt := &survey.Select{
		Message: "Select the default branch of this repository",
		Options: items,
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", mapPromptErr(err)
	}
	return selected, nil
}
