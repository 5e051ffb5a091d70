package cli_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"arbor.dev/arbor/internal/app"
	"arbor.dev/arbor/internal/cli"
	"arbor.dev/arbor/testhelpers"
)

func TestRootCmd(t *testing.T) {
	t.Run("registers the expected flags", func(t *testing.T) {
		cmd := cli.NewRootCmd("dev", "none", "unknown")

		require.NotNil(t, cmd.Flags().Lookup("exclude"))
		require.Equal(t, "x", cmd.Flags().Lookup("exclude").Shorthand)
		require.NotNil(t, cmd.Flags().Lookup("no-fetch"))
		require.NotNil(t, cmd.Flags().Lookup("yes"))
		require.Equal(t, "y", cmd.Flags().Lookup("yes").Shorthand)
	})

	t.Run("a yes run deletes merged branches", func(t *testing.T) {
		repo := testhelpers.NewTestRepo(t)
		require.NoError(t, repo.SetConfig(app.DefaultBranchConfigKey, "main"))

		require.NoError(t, repo.CreateAndCheckoutBranch("topic"))
		require.NoError(t, repo.CreateChangeAndCommit("topic change"))
		require.NoError(t, repo.CheckoutBranch("main"))
		require.NoError(t, repo.MergeBranch("topic"))

		t.Chdir(repo.Dir)
		cmd := cli.NewRootCmd("dev", "none", "unknown")
		cmd.SetArgs([]string{"--yes", "--no-fetch"})
		require.NoError(t, cmd.Execute())

		branches, err := repo.ListBranches()
		require.NoError(t, err)
		require.Equal(t, []string{"main"}, branches)
	})

	t.Run("excluded branches survive", func(t *testing.T) {
		repo := testhelpers.NewTestRepo(t)
		require.NoError(t, repo.SetConfig(app.DefaultBranchConfigKey, "main"))

		require.NoError(t, repo.CreateAndCheckoutBranch("keep"))
		require.NoError(t, repo.CreateChangeAndCommit("keep change"))
		require.NoError(t, repo.CheckoutBranch("main"))
		require.NoError(t, repo.MergeBranch("keep"))

		t.Chdir(repo.Dir)
		cmd := cli.NewRootCmd("dev", "none", "unknown")
		cmd.SetArgs([]string{"--yes", "--no-fetch", "-x", "keep"})
		require.NoError(t, cmd.Execute())

		branches, err := repo.ListBranches()
		require.NoError(t, err)
		require.Equal(t, []string{"keep", "main"}, branches)
	})

	t.Run("outside a repository the run fails", func(t *testing.T) {
		t.Chdir(t.TempDir())
		cmd := cli.NewRootCmd("dev", "none", "unknown")
		cmd.SetArgs([]string{"--yes", "--no-fetch"})
		require.Error(t, cmd.Execute())
	})
}
