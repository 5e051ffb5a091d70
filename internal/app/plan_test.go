package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"arbor.dev/arbor/internal/ui"
)

func TestBuildDeletionPlan(t *testing.T) {
	t.Run("excludes co-candidates from containers", func(t *testing.T) {
		// b is contained in a and main, but a is itself a candidate and
		// cannot vouch for b.
		plan := buildDeletionPlan(map[string]map[string]bool{
			"a": {"main": true},
			"b": {"a": true, "main": true},
		})

		require.Equal(t, []ui.BranchToDelete{
			{Name: "a", ContainedIn: []string{"main"}},
			{Name: "b", ContainedIn: []string{"main"}},
		}, plan)
	})

	t.Run("drops candidates only contained in other candidates", func(t *testing.T) {
		plan := buildDeletionPlan(map[string]map[string]bool{
			"a": {"b": true},
			"b": {"a": true},
		})
		require.Empty(t, plan)
	})

	t.Run("sorts candidates and containers", func(t *testing.T) {
		plan := buildDeletionPlan(map[string]map[string]bool{
			"z": {"main": true, "develop": true},
			"a": {"main": true},
		})

		require.Equal(t, []ui.BranchToDelete{
			{Name: "a", ContainedIn: []string{"main"}},
			{Name: "z", ContainedIn: []string{"develop", "main"}},
		}, plan)
	})

	t.Run("empty containment yields an empty plan", func(t *testing.T) {
		require.Empty(t, buildDeletionPlan(nil))
	})
}

// fakeRepo is an in-memory Repository for exercising executor edge cases
// that are hard to reproduce against a real repository.
type fakeRepo struct {
	branches   []string
	current    string
	containing map[string][]string
	deleted    []string
	checkouts  []string
}

func (r *fakeRepo) Fetch(ctx context.Context) error { return nil }

func (r *fakeRepo) ListBranches(ctx context.Context) ([]string, error) {
	return r.branches, nil
}

func (r *fakeRepo) ListBranchesContaining(ctx context.Context, commit string) ([]string, error) {
	return r.containing[commit], nil
}

func (r *fakeRepo) ListTrackingBranches(ctx context.Context) ([]string, error) { return nil, nil }

func (r *fakeRepo) ListBranchesWithTips(ctx context.Context) (map[string]string, error) {
	return nil, nil
}

func (r *fakeRepo) CurrentBranch(ctx context.Context) (string, error) { return r.current, nil }

func (r *fakeRepo) HasUncommittedChanges(ctx context.Context) (bool, error) { return false, nil }

func (r *fakeRepo) Checkout(ctx context.Context, branchName string) error {
	r.checkouts = append(r.checkouts, branchName)
	r.current = branchName
	return nil
}

func (r *fakeRepo) FastForwardMerge(ctx context.Context) (string, error) { return "", nil }

func (r *fakeRepo) DeleteBranch(ctx context.Context, branchName string) error {
	r.deleted = append(r.deleted, branchName)
	return nil
}

func (r *fakeRepo) ConfigValues(ctx context.Context, key string) ([]string, error) {
	return nil, nil
}

func (r *fakeRepo) SetConfigValue(ctx context.Context, key, value string) error { return nil }

func (r *fakeRepo) DetectDefaultBranch(ctx context.Context) (string, error) { return "main", nil }

type silentUI struct {
	warnings []string
}

func (u *silentUI) LogInfo(msg string)    {}
func (u *silentUI) LogWarning(msg string) { u.warnings = append(u.warnings, msg) }
func (u *silentUI) LogError(msg string)   {}

func (u *silentUI) SelectBranchesToDelete(candidates []ui.BranchToDelete) ([]ui.BranchToDelete, error) {
	return candidates, nil
}

func (u *silentUI) SelectIdenticalBranchesToDelete(branches []string) ([]string, error) {
	return branches, nil
}

func (u *silentUI) SelectIdenticalBranchesToDeleteKeepOne(branches []string) ([]string, error) {
	return branches[1:], nil
}

func (u *silentUI) SelectDefaultBranch(candidates []string) (string, error) { return "", nil }

func TestDeleteBranches(t *testing.T) {
	t.Run("skips a branch whose commits are no longer held elsewhere", func(t *testing.T) {
		// The plan was computed earlier; by execution time "stale" has
		// become the only holder of its history.
		repo := &fakeRepo{
			branches: []string{"main", "ok", "stale"},
			current:  "main",
			containing: map[string][]string{
				"ok":    {"main", "ok"},
				"stale": {"stale"},
			},
		}
		userUI := &silentUI{}
		a := New(repo, userUI, Options{})
		a.protected = map[string]bool{"main": true}
		a.defaultBranch = "main"

		require.NoError(t, a.deleteBranches(context.Background(), []string{"ok", "stale"}))
		require.Equal(t, []string{"ok"}, repo.deleted)
		require.Len(t, userUI.warnings, 1)
		require.Contains(t, userUI.warnings[0], "stale")
	})

	t.Run("abandons deletion of the current branch without a fallback", func(t *testing.T) {
		repo := &fakeRepo{
			branches: []string{"topic"},
			current:  "topic",
			containing: map[string][]string{
				"topic": {"other", "topic"},
			},
		}
		userUI := &silentUI{}
		a := New(repo, userUI, Options{})
		a.protected = map[string]bool{}
		a.defaultBranch = ""

		require.NoError(t, a.deleteBranches(context.Background(), []string{"topic"}))
		require.Empty(t, repo.deleted)
		require.Len(t, userUI.warnings, 1)
	})

	t.Run("switches to the default branch before deleting the current one", func(t *testing.T) {
		repo := &fakeRepo{
			branches: []string{"main", "topic"},
			current:  "topic",
			containing: map[string][]string{
				"topic": {"main", "topic"},
			},
		}
		a := New(repo, &silentUI{}, Options{})
		a.protected = map[string]bool{"main": true}
		a.defaultBranch = "main"

		require.NoError(t, a.deleteBranches(context.Background(), []string{"topic"}))
		require.Equal(t, []string{"topic"}, repo.deleted)
		require.Equal(t, []string{"main"}, repo.checkouts)
		require.Equal(t, "main", repo.current)
	})
}
