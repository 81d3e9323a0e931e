package runner

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/panliu5000/mypy-dependency-recommender/pkg/manifest"
	"github.com/panliu5000/mypy-dependency-recommender/pkg/verbose"
)

// Runner inspects every package of a manifest concurrently.
//
// Fields:
//   - Inspector: Per-package check, shared by all workers
//   - Concurrency: Maximum simultaneous inspections; zero or negative means
//     one worker per package with no ceiling
//   - OnStart: Optional callback invoked with the identifiers before any
//     worker starts
//   - Progress: Optional callback invoked once per Outcome as it arrives
type Runner struct {
	Inspector   Inspector
	Concurrency int
	OnStart     func(pkgs []string)
	Progress    func(Outcome)
}

// New creates a Runner.
func New(inspector Inspector, concurrency int) *Runner {
	return &Runner{Inspector: inspector, Concurrency: concurrency}
}

// Run reads the manifest at path and inspects every identifier in it.
//
// Parameters:
//   - ctx: Context passed to every inspection
//   - path: Requirements file or pyproject.toml
//
// Returns:
//   - *Report: Partitioned outcomes
//   - error: *errors.ManifestReadError when the manifest cannot be read;
//     no inspection is started in that case
func (r *Runner) Run(ctx context.Context, path string) (*Report, error) {
	pkgs, err := manifest.Parse(path)
	if err != nil {
		return nil, err
	}
	verbose.Infof("Read %d direct dependencies from %s", len(pkgs), path)
	return r.RunPackages(ctx, pkgs), nil
}

// RunPackages inspects pkgs and partitions the outcomes.
//
// It blocks until every worker has posted its Outcome. Progress, when set,
// is called from the calling goroutine as outcomes arrive.
//
// Parameters:
//   - ctx: Context passed to every inspection
//   - pkgs: Package identifiers, duplicates allowed
//
// Returns:
//   - *Report: Partitioned outcomes, one per element of pkgs
func (r *Runner) RunPackages(ctx context.Context, pkgs []string) *Report {
	if r.OnStart != nil {
		r.OnStart(pkgs)
	}
	results := make(chan Outcome, len(pkgs))

	var g errgroup.Group
	if r.Concurrency > 0 {
		g.SetLimit(r.Concurrency)
	}
	verbose.Debug("starting workers", "packages", len(pkgs), "limit", r.Concurrency)

	go func() {
		for _, pkg := range pkgs {
			pkg := pkg // per-iteration copy; go directive is below 1.22
			g.Go(func() error {
				results <- r.inspect(ctx, pkg)
				return nil
			})
		}
		_ = g.Wait()
		close(results)
	}()

	outcomes := make([]Outcome, 0, len(pkgs))
	for o := range results {
		if r.Progress != nil {
			r.Progress(o)
		}
		outcomes = append(outcomes, o)
	}
	return partition(outcomes)
}

// inspect runs one inspection, converting a panic into an errored Outcome.
func (r *Runner) inspect(ctx context.Context, pkg string) (out Outcome) {
	out.Package = pkg
	defer func() {
		if rec := recover(); rec != nil {
			out.Supported = false
			out.Err = fmt.Errorf("inspection panicked: %v", rec)
		}
	}()

	out.Supported, out.Err = r.Inspector.Inspect(ctx, pkg)
	if out.Err != nil {
		out.Supported = false
	}
	verbose.Debug("inspected package", "package", pkg, "status", out.Status())
	return out
}

// partition builds a Report from outcomes.
func partition(outcomes []Outcome) *Report {
	sort.SliceStable(outcomes, func(i, j int) bool {
		return outcomes[i].Package < outcomes[j].Package
	})

	report := &Report{RunID: uuid.NewString(), Outcomes: outcomes}
	for _, o := range outcomes {
		switch o.Status() {
		case StatusSupported:
			report.Supported = append(report.Supported, o.Package)
		case StatusUnsupported:
			report.Unsupported = append(report.Unsupported, o.Package)
		default:
			report.Errored = append(report.Errored, o.ErrorLine())
		}
	}
	sort.Strings(report.Errored)
	return report
}
