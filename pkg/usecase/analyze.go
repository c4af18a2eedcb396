package usecase

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/cistudy/pkg/analysis"
	"github.com/m-mizutani/cistudy/pkg/domain/interfaces"
	"github.com/m-mizutani/cistudy/pkg/domain/model"
	"github.com/m-mizutani/cistudy/pkg/domain/types"
	"github.com/m-mizutani/cistudy/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

const (
	resultMemberCountsStage0 = "member_counts_stage0"
	resultMemberCountsFinal  = "member_counts_final"
	resultCommitFrequency    = "commit_frequency"
	resultBrokenBuilds       = "broken_builds"
	resultBuildDurations     = "build_durations"
	resultCoverage           = "coverage"
)

// cohort is the final project set with everything the analyses need
type cohort struct {
	projects  model.Projects
	members   model.MemberCounts
	workflows model.WorkflowContentIndex
	runs      []*analysis.ProjectRuns
	coverage  []*analysis.ProjectCoverage
}

func (x *cohort) attr(p *model.Project) model.ProjectAttr {
	return model.ProjectAttr{Language: p.Language, MemberCount: x.members[p.RepoID]}
}

func (x *UseCase) loadCohort(ctx context.Context) (*cohort, error) {
	store := x.clients.Artifacts()
	if store == nil {
		return nil, goerr.Wrap(types.ErrInvalidOption, "artifact store is not configured")
	}

	for _, name := range []string{projectsArtifact(0), projectsArtifact(6), workflowsStage6Artifact, memberCountsArtifact} {
		found, err := exists(ctx, store, name)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, goerr.Wrap(types.ErrMissingArtifact, "inputs of analysis are missing", goerr.V("missing", name))
		}
	}

	c := &cohort{}
	var err error
	if c.projects, err = loadProjects(ctx, store, projectsArtifact(6)); err != nil {
		return nil, err
	}
	if err := loadJSON(ctx, store, memberCountsArtifact, &c.members); err != nil {
		return nil, err
	}
	if err := loadJSON(ctx, store, workflowsStage6Artifact, &c.workflows); err != nil {
		return nil, err
	}

	var invalid, incomplete int
	for i, p := range c.projects {
		if i%100 == 0 {
			logging.From(ctx).Info("Loading workflow runs", slog.Int("progress", i+1), slog.Int("total", len(c.projects)))
		}

		pr := &analysis.ProjectRuns{
			RepoID:    p.RepoID,
			Attr:      c.attr(p),
			Workflows: make(map[types.WorkflowIndex][]*model.RunOutcome),
		}
		for idx := range c.workflows[p.RepoID] {
			key := model.WorkflowKey{RepoID: p.RepoID, Index: idx}
			var runs model.WorkflowRuns
			if err := loadJSON(ctx, store, workflowRunsArtifact(key), &runs); err != nil {
				return nil, err
			}

			for _, run := range runs {
				if run == nil || !model.IsCompleted(run) {
					incomplete++
					continue
				}
				outcome, err := model.NewRunOutcome(run)
				if err != nil {
					invalid++
					logging.From(ctx).Debug("skipped invalid run", slog.String("key", key.String()), slog.Any("error", err))
					continue
				}
				pr.Workflows[idx] = append(pr.Workflows[idx], outcome)
			}
		}
		c.runs = append(c.runs, pr)

		report, err := loadCoverageReport(ctx, store, p.RepoID)
		if err != nil {
			return nil, err
		}
		c.coverage = append(c.coverage, &analysis.ProjectCoverage{
			RepoID: p.RepoID,
			Attr:   c.attr(p),
			Report: report,
		})
	}

	if invalid > 0 || incomplete > 0 {
		logging.From(ctx).Warn("Skipped runs",
			slog.Int("invalid", invalid),
			slog.Int("not_completed", incomplete),
		)
	}

	return c, nil
}

func loadCoverageReport(ctx context.Context, store interfaces.ArtifactStore, id types.RepoID) (*model.CoverageReport, error) {
	name := projectCoverageArtifact(id)
	found, err := exists(ctx, store, name)
	if err != nil || !found {
		return nil, err
	}

	var report model.CoverageReport
	if err := loadJSON(ctx, store, name, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Results is every analysis of the final cohort
type Results struct {
	MemberCountsStage0 *model.MemberCountResult
	MemberCountsFinal  *model.MemberCountResult
	CommitFrequency    *model.CommitFrequencyResult
	BrokenBuilds       *model.DurationResult
	BuildDurations     *model.DurationResult
	Coverage           *model.CoverageResult
}

type projectMetrics struct {
	commits     map[types.RepoID]analysis.CommitActivity
	frequent    map[types.RepoID]bool
	broken      analysis.ProjectDurations
	brokenLimit float64
	builds      analysis.ProjectDurations
	coverage    map[types.RepoID]*model.CoverageReport
}

func (x *UseCase) analyze(ctx context.Context, c *cohort, stage0 model.Projects) (*Results, *projectMetrics) {
	logger := logging.From(ctx)
	res := &Results{}
	metrics := &projectMetrics{coverage: make(map[types.RepoID]*model.CoverageReport)}

	memberCounts := func(projects model.Projects) []int {
		counts := make([]int, len(projects))
		for i, p := range projects {
			counts[i] = c.members[p.RepoID]
		}
		return counts
	}
	res.MemberCountsStage0 = analysis.MemberCounts(memberCounts(stage0))
	res.MemberCountsFinal = analysis.MemberCounts(memberCounts(c.projects))

	res.CommitFrequency, metrics.commits, metrics.frequent = analysis.CommitFrequency(c.runs)
	logger.Info("Analyzed commit frequency",
		slog.Int("valid", res.CommitFrequency.ValidProjects),
		slog.Int("invalid", res.CommitFrequency.InvalidProjects),
		slog.Int("frequent", res.CommitFrequency.Frequent),
		slog.Float64("mean_rate", res.CommitFrequency.MeanRate),
	)

	var anomalies int
	res.BrokenBuilds, metrics.broken, anomalies = analysis.BrokenBuilds(c.runs)
	metrics.brokenLimit = res.BrokenBuilds.ThresholdSeconds
	logger.Info("Analyzed broken builds",
		slog.Int("intervals", res.BrokenBuilds.Summary.Count),
		slog.Float64("threshold_seconds", res.BrokenBuilds.ThresholdSeconds),
		slog.Int("projects_over_threshold", res.BrokenBuilds.ProjectsOverThreshold),
		slog.Int("projects", res.BrokenBuilds.Projects),
		slog.Int("anomalies", anomalies),
	)

	res.BuildDurations, metrics.builds, anomalies = analysis.BuildDurations(c.runs, x.buildDurationThreshold)
	logger.Info("Analyzed build durations",
		slog.Int("builds", res.BuildDurations.Summary.Count),
		slog.Int("projects_over_threshold", res.BuildDurations.ProjectsOverThreshold),
		slog.Int("projects", res.BuildDurations.Projects),
		slog.Int("anomalies", anomalies),
	)

	res.Coverage = analysis.Coverage(c.coverage)
	for _, pc := range c.coverage {
		metrics.coverage[pc.RepoID] = pc.Report
	}
	logger.Info("Analyzed coverage",
		slog.Int("covered", res.Coverage.ProjectsCovered),
		slog.Int("projects", res.Coverage.Projects),
	)

	return res, metrics
}

// Analyze computes every analysis over the final cohort and writes them into results/
func (x *UseCase) Analyze(ctx context.Context) (*Results, error) {
	c, err := x.loadCohort(ctx)
	if err != nil {
		return nil, err
	}

	store := x.clients.Artifacts()
	stage0, err := loadProjects(ctx, store, projectsArtifact(0))
	if err != nil {
		return nil, err
	}

	res, _ := x.analyze(ctx, c, stage0)

	outputs := []struct {
		name string
		v    any
	}{
		{resultMemberCountsStage0, res.MemberCountsStage0},
		{resultMemberCountsFinal, res.MemberCountsFinal},
		{resultCommitFrequency, res.CommitFrequency},
		{resultBrokenBuilds, res.BrokenBuilds},
		{resultBuildDurations, res.BuildDurations},
		{resultCoverage, res.Coverage},
	}
	for _, out := range outputs {
		if err := saveJSON(ctx, store, resultArtifact(out.name), out.v); err != nil {
			return nil, err
		}
	}

	logging.From(ctx).Info("Wrote results", slog.Int("files", len(outputs)), slog.Int("projects", len(c.projects)))
	return res, nil
}
