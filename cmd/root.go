// Package cmd implements the command-line interface for pytyped.
// It provides the check command, which reports which direct dependencies of
// a Python project ship inline type information, plus config and version
// helpers.
package cmd

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/panliu5000/mypy-dependency-recommender/pkg/errors"
	"github.com/panliu5000/mypy-dependency-recommender/pkg/verbose"
	"github.com/panliu5000/mypy-dependency-recommender/pkg/warnings"
)

var exitFunc = os.Exit
var verboseFlag bool
var quietFlag bool
var versionFlag bool
var skipBuildChecksFlag bool

var rootCmd = &cobra.Command{
	Use:   "pytyped",
	Short: "Report which Python dependencies ship inline type information",
	Long: `Download every direct dependency of a Python project and report which
ones ship a py.typed marker, which do not, and which could not be checked.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose.SetWriter(os.Stderr)
		if verboseFlag {
			verbose.Enable()
		} else {
			verbose.Disable()
		}
		warnings.SetQuiet(quietFlag)
		// Build warnings (arch mismatch, dev build) go to stderr ahead of command output
		if !skipBuildChecksFlag && !quietFlag {
			if w := GetBuildWarnings(); w != "" {
				fmt.Fprint(os.Stderr, w)
				fmt.Fprintln(os.Stderr)
			}
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if versionFlag {
			printVersionOutput(os.Stdout)
			return
		}
		_ = cmd.Help()
	},
}

// Execute runs the root command and exits with appropriate code:
//   - 0: Success
//   - 1: Partial failure (some packages could not be checked)
//   - 2: Complete failure
//   - 3: Configuration, manifest or preflight error
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		code := errors.GetExitCode(err)

		var partialErr *errors.PartialSuccessError
		if stderrors.As(err, &partialErr) {
			code = errors.ExitPartialFailure
			verbose.Infof("Exit code %d: partial success - %d succeeded, %d failed", code, partialErr.Succeeded, partialErr.Failed)
		} else {
			verbose.Infof("Exit code %d: %v", code, err)
		}

		errors.PrintErrorWithHints(os.Stderr, []error{err}, verboseFlag)
		exitFunc(code)
	}
}

// ExecuteTest runs the root command for testing (returns error instead of exiting).
//
// Returns:
//   - error: Command execution error, or nil on success
func ExecuteTest() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Enable verbose debug output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress warnings and progress output")
	rootCmd.PersistentFlags().BoolVar(&skipBuildChecksFlag, "skip-build-checks", false, "Skip build validation warnings (dev build, arch mismatch)")

	// -v/--version is local so it only works on the root command
	rootCmd.Flags().BoolVarP(&versionFlag, "version", "v", false, "Show version information")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(checkCmd)
}
