package git_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	arborerrors "arbor.dev/arbor/internal/errors"
	"arbor.dev/arbor/internal/git"
	"arbor.dev/arbor/testhelpers"
)

func TestCommandRunner(t *testing.T) {
	t.Run("trims command output", func(t *testing.T) {
		helper := testhelpers.NewTestRepo(t)
		runner := git.NewCommandRunner(helper.Dir)

		output, err := runner.Run(context.Background(), "rev-parse", "--abbrev-ref", "HEAD")
		require.NoError(t, err)
		require.Equal(t, "main", output)
	})

	t.Run("raw output keeps positional markers", func(t *testing.T) {
		helper := testhelpers.NewTestRepo(t)
		runner := git.NewCommandRunner(helper.Dir)

		output, err := runner.RunRaw(context.Background(), "branch")
		require.NoError(t, err)
		// The checked-out branch carries a "* " marker that trimming
		// would destroy on the first line.
		require.True(t, strings.HasPrefix(output, "* main"), "got %q", output)
	})

	t.Run("splits output into lines", func(t *testing.T) {
		helper := testhelpers.NewTestRepo(t)
		require.NoError(t, helper.CreateBranch("feature"))
		runner := git.NewCommandRunner(helper.Dir)

		lines, err := runner.RunLines(context.Background(), "branch", "--format=%(refname:short)")
		require.NoError(t, err)
		require.Equal(t, []string{"feature", "main"}, lines)
	})

	t.Run("empty output yields no lines", func(t *testing.T) {
		helper := testhelpers.NewTestRepo(t)
		runner := git.NewCommandRunner(helper.Dir)

		lines, err := runner.RunLines(context.Background(), "status", "--short")
		require.NoError(t, err)
		require.Empty(t, lines)
	})

	t.Run("failures carry the command and its stderr", func(t *testing.T) {
		helper := testhelpers.NewTestRepo(t)
		runner := git.NewCommandRunner(helper.Dir)

		_, err := runner.Run(context.Background(), "checkout", "no-such-branch")
		require.Error(t, err)

		var cmdErr *arborerrors.GitCommandError
		require.ErrorAs(t, err, &cmdErr)
		require.Equal(t, []string{"checkout", "no-such-branch"}, cmdErr.Args)
		require.Contains(t, cmdErr.Stderr, "no-such-branch")
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		helper := testhelpers.NewTestRepo(t)
		runner := git.NewCommandRunner(helper.Dir)

		ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
		defer cancel()

		_, err := runner.Run(ctx, "status")
		require.Error(t, err)
	})
}
