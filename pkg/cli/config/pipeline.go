package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/cistudy/pkg/analysis"
	"github.com/m-mizutani/cistudy/pkg/ciusage"
	"github.com/m-mizutani/cistudy/pkg/domain/types"
	"github.com/m-mizutani/cistudy/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Pipeline holds the tuning knobs of the stages
type Pipeline struct {
	workflowPartitions int64
	contentPartitions  int64
	branchPartitions   int64

	runsPerWorkflow int64
	minRuns         int64

	coverageWindow         time.Duration
	buildDurationThreshold time.Duration

	requirePushTrigger bool
	progress           bool
}

func (x *Pipeline) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{
			Name:        "workflow-partitions",
			Usage:       "Number of batches of the workflow listing",
			Category:    "Pipeline",
			Destination: &x.workflowPartitions,
			Value:       usecase.DefaultWorkflowPartitions,
			Sources:     cli.EnvVars("CISTUDY_WORKFLOW_PARTITIONS"),
		},
		&cli.Int64Flag{
			Name:        "content-partitions",
			Usage:       "Number of batches of workflow content retrieval",
			Category:    "Pipeline",
			Destination: &x.contentPartitions,
			Value:       usecase.DefaultContentPartitions,
			Sources:     cli.EnvVars("CISTUDY_CONTENT_PARTITIONS"),
		},
		&cli.Int64Flag{
			Name:        "branch-partitions",
			Usage:       "Number of batches of default branch resolution",
			Category:    "Pipeline",
			Destination: &x.branchPartitions,
			Value:       usecase.DefaultDefaultBranchPartitions,
			Sources:     cli.EnvVars("CISTUDY_BRANCH_PARTITIONS"),
		},
		&cli.Int64Flag{
			Name:        "runs-per-workflow",
			Usage:       "Number of recent runs fetched per workflow",
			Category:    "Pipeline",
			Destination: &x.runsPerWorkflow,
			Value:       usecase.DefaultRunsPerWorkflow,
			Sources:     cli.EnvVars("CISTUDY_RUNS_PER_WORKFLOW"),
		},
		&cli.Int64Flag{
			Name:        "min-runs",
			Usage:       "Minimum number of runs for a workflow to be kept",
			Category:    "Pipeline",
			Destination: &x.minRuns,
			Value:       usecase.DefaultMinRuns,
			Sources:     cli.EnvVars("CISTUDY_MIN_RUNS"),
		},
		&cli.DurationFlag{
			Name:        "coverage-window",
			Usage:       "How far before the latest run a coverage report is accepted",
			Category:    "Pipeline",
			Destination: &x.coverageWindow,
			Value:       usecase.DefaultCoverageWindow,
			Sources:     cli.EnvVars("CISTUDY_COVERAGE_WINDOW"),
		},
		&cli.DurationFlag{
			Name:        "build-duration-threshold",
			Usage:       "Acceptable duration of a single build",
			Category:    "Pipeline",
			Destination: &x.buildDurationThreshold,
			Value:       analysis.DefaultBuildDurationThreshold,
			Sources:     cli.EnvVars("CISTUDY_BUILD_DURATION_THRESHOLD"),
		},
		&cli.BoolFlag{
			Name:        "require-push-trigger",
			Usage:       "Only count workflows triggered on push as CI",
			Category:    "Pipeline",
			Destination: &x.requirePushTrigger,
			Sources:     cli.EnvVars("CISTUDY_REQUIRE_PUSH_TRIGGER"),
		},
		&cli.BoolFlag{
			Name:        "progress",
			Usage:       "Show progress bars on stderr",
			Category:    "Pipeline",
			Destination: &x.progress,
			Sources:     cli.EnvVars("CISTUDY_PROGRESS"),
		},
	}
}

// Options validates the knobs and converts them into usecase options
func (x *Pipeline) Options() ([]usecase.Option, error) {
	for name, v := range map[string]int64{
		"workflow-partitions": x.workflowPartitions,
		"content-partitions":  x.contentPartitions,
		"branch-partitions":   x.branchPartitions,
		"runs-per-workflow":   x.runsPerWorkflow,
	} {
		if v < 1 {
			return nil, goerr.Wrap(types.ErrInvalidOption, "value must be positive", goerr.V("flag", name), goerr.V("value", v))
		}
	}
	if x.minRuns < 0 {
		return nil, goerr.Wrap(types.ErrInvalidOption, "min-runs must not be negative", goerr.V("value", x.minRuns))
	}
	if x.coverageWindow < 0 {
		return nil, goerr.Wrap(types.ErrInvalidOption, "coverage-window must not be negative", goerr.V("value", x.coverageWindow))
	}

	var detectorOptions []ciusage.Option
	if x.requirePushTrigger {
		detectorOptions = append(detectorOptions, ciusage.WithPushTrigger())
	}

	return []usecase.Option{
		usecase.WithPartitions(int(x.workflowPartitions), int(x.contentPartitions), int(x.branchPartitions)),
		usecase.WithRunsPerWorkflow(int(x.runsPerWorkflow)),
		usecase.WithMinRuns(int(x.minRuns)),
		usecase.WithCoverageWindow(x.coverageWindow),
		usecase.WithBuildDurationThreshold(x.buildDurationThreshold),
		usecase.WithDetector(ciusage.New(ciusage.NewDefaultMatcher(), detectorOptions...)),
		usecase.WithProgressBar(x.progress),
	}, nil
}

func (x *Pipeline) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("workflowPartitions", x.workflowPartitions),
		slog.Int64("contentPartitions", x.contentPartitions),
		slog.Int64("branchPartitions", x.branchPartitions),
		slog.Int64("runsPerWorkflow", x.runsPerWorkflow),
		slog.Int64("minRuns", x.minRuns),
		slog.Duration("coverageWindow", x.coverageWindow),
		slog.Duration("buildDurationThreshold", x.buildDurationThreshold),
		slog.Bool("requirePushTrigger", x.requirePushTrigger),
		slog.Bool("progress", x.progress),
	)
}
