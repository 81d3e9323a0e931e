package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/panliu5000/mypy-dependency-recommender/pkg/config"
	"github.com/panliu5000/mypy-dependency-recommender/pkg/errors"
	"github.com/panliu5000/mypy-dependency-recommender/pkg/inspect"
	"github.com/panliu5000/mypy-dependency-recommender/pkg/output"
	"github.com/panliu5000/mypy-dependency-recommender/pkg/preflight"
	"github.com/panliu5000/mypy-dependency-recommender/pkg/runner"
	"github.com/panliu5000/mypy-dependency-recommender/pkg/verbose"
	"github.com/panliu5000/mypy-dependency-recommender/pkg/warnings"
)

// defaultManifest is checked when no manifest argument is given.
const defaultManifest = "requirements.txt"

var (
	checkConfigFlag        string
	checkDirFlag           string
	checkOutputFlag        string
	checkConcurrencyFlag   int
	checkTimeoutFlag       int
	checkIndexURLFlag      string
	checkPythonVersionFlag string
	checkMarkerFlag        string
	checkSkipPreflight     bool
	checkArchiveFlag       bool
)

// Injection points for tests.
var (
	loadConfigFunc  = config.LoadConfig
	preflightFunc   = func(cfg *config.Config) error { return preflight.ValidateConfig(cfg).Err() }
	newRunnerFunc   = func(cfg *config.Config) *runner.Runner { return runner.New(inspect.New(cfg), cfg.Concurrency) }
	writeReportFunc = output.WriteReport
)

var checkCmd = &cobra.Command{
	Use:   "check [manifest | archive...]",
	Short: "Check which direct dependencies ship a py.typed marker",
	Long: `Download every dependency listed in a requirements file (or the
[project].dependencies of a pyproject.toml) and report which ones ship a
py.typed marker. Defaults to requirements.txt in the working directory.

With --archive the arguments are local wheel, zip or tar.gz files that are
checked directly without downloading anything.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if checkArchiveFlag {
			return cobra.MinimumNArgs(1)(cmd, args)
		}
		return cobra.MaximumNArgs(1)(cmd, args)
	},
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkConfigFlag, "config", "c", "", "Config file path")
	checkCmd.Flags().StringVarP(&checkDirFlag, "directory", "d", ".", "Working directory for commands and config discovery")
	checkCmd.Flags().StringVarP(&checkOutputFlag, "output", "o", string(output.FormatText), "Output format: text, table, json, csv, xml")
	checkCmd.Flags().IntVarP(&checkConcurrencyFlag, "concurrency", "j", 0, "Maximum packages inspected at once (0 = unlimited)")
	checkCmd.Flags().IntVar(&checkTimeoutFlag, "timeout", 0, "Per-command timeout in seconds (0 = none)")
	checkCmd.Flags().StringVar(&checkIndexURLFlag, "index-url", "", "Extra package index passed to the download command")
	checkCmd.Flags().StringVar(&checkPythonVersionFlag, "python-version", "", "Python version passed to the download command")
	checkCmd.Flags().StringVar(&checkMarkerFlag, "marker", "", "Marker file name to look for (default from config: py.typed)")
	checkCmd.Flags().BoolVar(&checkSkipPreflight, "skip-preflight", false, "Skip pre-flight command validation")
	checkCmd.Flags().BoolVar(&checkArchiveFlag, "archive", false, "Treat arguments as local archives and check them directly")
}

// runCheck executes the check command.
//
// Per-package failures are reported in the errored section and turned into
// an exit code afterwards; configuration, manifest and preflight failures
// abort before any package is inspected.
//
// Parameters:
//   - cmd: Cobra command instance
//   - args: Manifest path, or archive paths with --archive
//
// Returns:
//   - error: ExitError with the appropriate code, or nil when every package
//     was inspected
func runCheck(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(checkOutputFlag)
	if err != nil {
		return errors.NewExitError(errors.ExitConfigError, err)
	}

	cfg, err := loadConfigFunc(checkConfigFlag, checkDirFlag)
	if err != nil {
		return errors.NewExitError(errors.ExitConfigError, err)
	}
	cfg.WorkingDir = checkDirFlag
	if err := applyCheckFlags(cmd, cfg); err != nil {
		return errors.NewExitError(errors.ExitConfigError, err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var r *runner.Runner
	if checkArchiveFlag {
		marker := cfg.Marker
		r = runner.New(runner.InspectorFunc(func(_ context.Context, path string) (bool, error) {
			return inspect.ContainsMarker(path, marker)
		}), cfg.Concurrency)
	} else {
		if !checkSkipPreflight {
			if err := preflightFunc(cfg); err != nil {
				if _, ok := errors.IsExitError(err); !ok {
					err = errors.NewExitError(errors.ExitConfigError, err)
				}
				return err
			}
		}
		r = newRunnerFunc(cfg)
	}

	attachProgress(r, format)

	collector := output.NewWarningCollector()
	restoreWarnings := warnings.SetWarningWriter(collector)
	defer restoreWarnings()

	var report *runner.Report
	if checkArchiveFlag {
		report = r.RunPackages(ctx, args)
	} else {
		report, err = r.Run(ctx, manifestPath(args))
		if err != nil {
			return errors.NewExitError(errors.ExitConfigError, err)
		}
	}
	restoreWarnings()
	verbose.Infof("Run %s: %d supported, %d unsupported, %d errored",
		report.RunID, len(report.Supported), len(report.Unsupported), len(report.Errored))

	if err := writeReportFunc(os.Stdout, format, report); err != nil {
		return errors.NewExitError(errors.ExitFailure, fmt.Errorf("failed to write report: %w", err))
	}
	output.PrintWarnings(os.Stderr, collector.Messages())

	return checkExitError(report)
}

// applyCheckFlags copies explicitly set flags over cfg and revalidates it.
func applyCheckFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("concurrency") {
		cfg.Concurrency = checkConcurrencyFlag
	}
	if flags.Changed("timeout") {
		cfg.TimeoutSeconds = checkTimeoutFlag
	}
	if flags.Changed("index-url") {
		cfg.IndexURL = checkIndexURLFlag
	}
	if flags.Changed("python-version") {
		cfg.PythonVersion = checkPythonVersionFlag
	}
	if flags.Changed("marker") {
		cfg.Marker = checkMarkerFlag
	}
	return cfg.Validate()
}

// attachProgress wires a stderr progress line to r unless the output is
// structured or warnings are silenced.
func attachProgress(r *runner.Runner, format output.Format) {
	if output.IsStructuredFormat(format) || quietFlag {
		return
	}
	var p *output.Progress
	remaining := 0
	r.OnStart = func(pkgs []string) {
		p = output.NewProgress(os.Stderr, len(pkgs), "Checking packages")
		remaining = len(pkgs)
	}
	r.Progress = func(o runner.Outcome) {
		p.Observe(o.Err != nil)
		if remaining--; remaining == 0 {
			p.Done()
		}
	}
}

// manifestPath returns the manifest argument or the default file name.
func manifestPath(args []string) string {
	if len(args) == 0 {
		return filepath.Join(checkDirFlag, defaultManifest)
	}
	return args[0]
}

// checkExitError maps errored packages to an exit code: partial failure
// when at least one package was inspected, failure when none were.
// Failures outside the download/archive taxonomy (recovered panics) are
// logged separately since they point at a bug rather than a package.
func checkExitError(report *runner.Report) error {
	if len(report.Errored) == 0 {
		return nil
	}
	errs := report.Errors()
	for _, err := range errs {
		if !errors.IsInspectionError(err) {
			verbose.Infof("Unexpected failure: %v", err)
		}
	}
	succeeded := len(report.Supported) + len(report.Unsupported)
	if succeeded > 0 {
		return errors.NewExitError(errors.ExitPartialFailure,
			errors.NewPartialSuccessError(succeeded, len(errs), errs))
	}
	return errors.NewExitError(errors.ExitFailure, stderrors.Join(errs...))
}
