package app

import (
	"context"
	"fmt"
	"sort"
)

// The classifier computes the two redundancy shapes a branch can have:
// its history is fully contained in another branch, or its tip is the exact
// same commit as another branch's. Classification failures abort the run;
// with partial containment data no deletion decision is trustworthy.

// mergedBranchContainment maps every unprotected branch to the set of other
// branches that fully contain its history. Branches contained in nothing are
// absent from the result.
func (a *App) mergedBranchContainment(ctx context.Context) (map[string]map[string]bool, error) {
	branches, err := a.repo.ListBranches(ctx)
	if err != nil {
		a.ui.LogError("Failed to list branches")
		return nil, err
	}

	containment := make(map[string]map[string]bool)
	for _, branch := range branches {
		if a.isProtected(branch) {
			continue
		}
		containing, err := a.repo.ListBranchesContaining(ctx, branch)
		if err != nil {
			a.ui.LogError(fmt.Sprintf("Failed to list branches containing %s", branch))
			return nil, err
		}

		containedIn := make(map[string]bool)
		for _, container := range containing {
			if container != branch {
				containedIn[container] = true
			}
		}
		if len(containedIn) > 0 {
			containment[branch] = containedIn
		}
	}
	return containment, nil
}

// identicalGroup is a set of branches sharing one tip commit
type identicalGroup struct {
	Tip      string
	Branches []string // sorted

	// ExternallyReachable is true when the tip is contained in some branch
	// outside the group, so no member holds unique history
	ExternallyReachable bool

	// HasProtected is true when a member is protected; the group is then an
	// alias of a protected branch and left alone
	HasProtected bool
}

// identicalTipGroups groups branches by tip commit and classifies each group
// of two or more. Groups are returned in deterministic order.
func (a *App) identicalTipGroups(ctx context.Context) ([]identicalGroup, error) {
	tips, err := a.repo.ListBranchesWithTips(ctx)
	if err != nil {
		a.ui.LogError("Failed to list branch tips")
		return nil, err
	}

	byTip := make(map[string][]string)
	for branch, tip := range tips {
		byTip[tip] = append(byTip[tip], branch)
	}

	var groups []identicalGroup
	for tip, members := range byTip {
		if len(members) < 2 {
			continue
		}
		sort.Strings(members)

		memberSet := make(map[string]bool, len(members))
		hasProtected := false
		for _, member := range members {
			memberSet[member] = true
			if a.isProtected(member) {
				hasProtected = true
			}
		}

		containing, err := a.repo.ListBranchesContaining(ctx, tip)
		if err != nil {
			a.ui.LogError(fmt.Sprintf("Failed to list branches containing %s", tip))
			return nil, err
		}
		externallyReachable := false
		for _, container := range containing {
			if !memberSet[container] {
				externallyReachable = true
				break
			}
		}

		groups = append(groups, identicalGroup{
			Tip:                 tip,
			Branches:            members,
			ExternallyReachable: externallyReachable,
			HasProtected:        hasProtected,
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Branches[0] < groups[j].Branches[0]
	})
	return groups, nil
}
