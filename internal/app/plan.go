package app

import (
	"context"
	"sort"

	"arbor.dev/arbor/internal/ui"
)

// buildDeletionPlan turns the containment map into deletion candidates ready
// for confirmation. A branch scheduled for deletion cannot serve as another
// candidate's container, so co-candidates are removed from every containment
// set first; candidates whose set becomes empty are not actually deletable
// and are dropped. The result is sorted by branch name and every ContainedIn
// list is sorted, so plans are deterministic.
func buildDeletionPlan(containment map[string]map[string]bool) []ui.BranchToDelete {
	var plan []ui.BranchToDelete
	for branch, containedIn := range containment {
		var containers []string
		for container := range containedIn {
			if _, isCandidate := containment[container]; isCandidate {
				continue
			}
			containers = append(containers, container)
		}
		if len(containers) == 0 {
			continue
		}
		sort.Strings(containers)
		plan = append(plan, ui.BranchToDelete{
			Name:        branch,
			ContainedIn: containers,
		})
	}

	sort.Slice(plan, func(i, j int) bool {
		return plan[i].Name < plan[j].Name
	})
	return plan
}

// RemoveMergedBranches classifies fully-merged branches, asks which to
// delete, and deletes the confirmed ones. An empty plan and an empty
// selection are both successful outcomes.
func (a *App) RemoveMergedBranches(ctx context.Context) error {
	containment, err := a.mergedBranchContainment(ctx)
	if err != nil {
		return err
	}

	plan := buildDeletionPlan(containment)
	if len(plan) == 0 {
		a.ui.LogInfo("No deletable branches")
		return nil
	}

	selected, err := a.ui.SelectBranchesToDelete(plan)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		return nil
	}

	names := make([]string, 0, len(selected))
	for _, candidate := range selected {
		names = append(names, candidate.Name)
	}
	return a.deleteBranches(ctx, names)
}

// DeleteIdenticalBranches handles groups of branches pointing at the exact
// same commit. Groups containing a protected branch are aliases of that
// branch and are left alone. When the shared tip is preserved outside the
// group the whole group may go; otherwise at least one member must survive.
func (a *App) DeleteIdenticalBranches(ctx context.Context) error {
	groups, err := a.identicalTipGroups(ctx)
	if err != nil {
		return err
	}

	for _, group := range groups {
		if group.HasProtected {
			continue
		}

		var selected []string
		if group.ExternallyReachable {
			selected, err = a.ui.SelectIdenticalBranchesToDelete(group.Branches)
		} else {
			selected, err = a.ui.SelectIdenticalBranchesToDeleteKeepOne(group.Branches)
		}
		if err != nil {
			return err
		}
		if len(selected) == 0 {
			continue
		}
		if err := a.deleteBranches(ctx, selected); err != nil {
			return err
		}
	}
	return nil
}
