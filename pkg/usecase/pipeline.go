package usecase

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/cistudy/pkg/utils/errutil"
	"github.com/m-mizutani/cistudy/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

type step struct {
	name string
	run  func(ctx context.Context) error
}

func runSteps(ctx context.Context, steps []step) error {
	for i, s := range steps {
		logging.From(ctx).Info("Running step",
			slog.String("step", s.name),
			slog.Int("progress", i+1),
			slog.Int("total", len(steps)),
		)
		if err := s.run(ctx); err != nil {
			return goerr.Wrap(err, "pipeline step failed", goerr.V(errutil.StepKey, s.name))
		}
	}
	return nil
}

func (x *UseCase) filterSteps() []step {
	return []step{
		{"initial_cohort", x.InitialCohort},
		{"filter_forks", x.FilterForks},
		{"filter_languages", x.FilterLanguages},
		{"filter_workflow_files", x.FilterWorkflowFiles},
		{"filter_ci_usage", x.FilterCIUsage},
	}
}

func (x *UseCase) augmentSteps() []step {
	return []step{
		{"resolve_default_branches", x.ResolveDefaultBranches},
		{"filter_default_branch", x.FilterDefaultBranch},
		{"fetch_workflow_runs", x.FetchWorkflowRuns},
		{"filter_run_history", x.FilterRunHistory},
		{"fetch_coverage", x.FetchCoverage},
	}
}

// RunFilter runs stages 0 to 4. Stages whose artifacts already exist are skipped.
func (x *UseCase) RunFilter(ctx context.Context) error {
	return runSteps(ctx, x.filterSteps())
}

// RunAugment resolves default branches, retrieves run histories and coverage, and applies the
// stage 5 and 6 filters in between.
func (x *UseCase) RunAugment(ctx context.Context) error {
	return runSteps(ctx, x.augmentSteps())
}

// RunAll runs every stage and then the analyses
func (x *UseCase) RunAll(ctx context.Context) (*Results, error) {
	steps := append(x.filterSteps(), x.augmentSteps()...)
	if err := runSteps(ctx, steps); err != nil {
		return nil, err
	}
	return x.Analyze(ctx)
}
