package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/cistudy/pkg/usecase"
	"github.com/m-mizutani/cistudy/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func filterCommand() *cli.Command {
	return pipelineCommand("filter", "Build the project cohort of stages 0 to 4", []string{"f"},
		func(ctx context.Context, uc *usecase.UseCase) error {
			return uc.RunFilter(ctx)
		})
}

func augmentCommand() *cli.Command {
	return pipelineCommand("augment", "Resolve default branches, fetch workflow runs and coverage (stages 5 and 6)", []string{"a"},
		func(ctx context.Context, uc *usecase.UseCase) error {
			return uc.RunAugment(ctx)
		})
}

func analyzeCommand() *cli.Command {
	return pipelineCommand("analyze", "Analyze the final cohort and write results", nil,
		func(ctx context.Context, uc *usecase.UseCase) error {
			res, err := uc.Analyze(ctx)
			if err != nil {
				return err
			}
			logResults(ctx, res)
			return nil
		})
}

func exportCommand() *cli.Command {
	return pipelineCommand("export", "Export per-project statistics to BigQuery", []string{"e"},
		func(ctx context.Context, uc *usecase.UseCase) error {
			return uc.ExportStats(ctx)
		})
}

func runCommand() *cli.Command {
	var export bool

	cmd := pipelineCommand("run", "Run every stage and the analyses", []string{"r"},
		func(ctx context.Context, uc *usecase.UseCase) error {
			res, err := uc.RunAll(ctx)
			if err != nil {
				return err
			}
			logResults(ctx, res)

			if export {
				return uc.ExportStats(ctx)
			}
			return nil
		})
	cmd.Flags = append(cmd.Flags, &cli.BoolFlag{
		Name:        "export",
		Usage:       "Export per-project statistics to BigQuery after the analyses",
		Destination: &export,
		Sources:     cli.EnvVars("CISTUDY_EXPORT"),
	})

	return cmd
}

func logResults(ctx context.Context, res *usecase.Results) {
	logging.From(ctx).Info("Analysis results",
		slog.Int("projects_stage0", res.MemberCountsStage0.Summary.Count),
		slog.Int("projects_final", res.MemberCountsFinal.Summary.Count),
		slog.Int("frequent_commit_projects", res.CommitFrequency.Frequent),
		slog.Float64("broken_threshold_seconds", res.BrokenBuilds.ThresholdSeconds),
		slog.Float64("median_build_seconds", res.BuildDurations.Summary.Median),
		slog.Int("covered_projects", res.Coverage.ProjectsCovered),
	)
}
