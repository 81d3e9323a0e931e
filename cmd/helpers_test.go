package cmd

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/panliu5000/mypy-dependency-recommender/pkg/testutil"
	"github.com/panliu5000/mypy-dependency-recommender/pkg/verbose"
	"github.com/panliu5000/mypy-dependency-recommender/pkg/warnings"
)

// resetFlags restores every flag to its default so tests sharing the global
// command tree do not leak state into each other.
func resetFlags(t *testing.T) {
	t.Helper()

	reset := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	for _, c := range []*cobra.Command{rootCmd, checkCmd, configCmd, versionCmd} {
		reset(c.Flags())
		reset(c.PersistentFlags())
	}

	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		verbose.Disable()
		warnings.SetQuiet(false)
	})
}

// runCLI executes the root command with args and captures both streams.
func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetFlags(t)

	rootCmd.SetArgs(append([]string{"--skip-build-checks"}, args...))
	stdout, stderr = testutil.CaptureOutput(t, func() {
		err = ExecuteTest()
	})
	return stdout, stderr, err
}
