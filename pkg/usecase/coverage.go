package usecase

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/m-mizutani/cistudy/pkg/domain/interfaces"
	"github.com/m-mizutani/cistudy/pkg/domain/model"
	"github.com/m-mizutani/cistudy/pkg/domain/types"
	"github.com/m-mizutani/cistudy/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// maxCoveragePages bounds the walk over the build list of a single repository
const maxCoveragePages = 1000

type coverageSearch struct {
	owner  string
	repo   string
	branch types.BranchName
	latest time.Time
	window time.Duration
}

// findCoverage walks the reverse-chronological build list and returns the newest build on the branch
// created within [latest-window, latest]. Newer builds are passed over and the walk stops at the first
// build older than the window. It returns nil when no build qualifies.
func findCoverage(ctx context.Context, client interfaces.Coveralls, s coverageSearch) (*model.CoverallsBuild, error) {
	lower := s.latest.Add(-s.window)

	for page := 1; page <= maxCoveragePages; page++ {
		resp, err := client.ListBuilds(ctx, s.owner, s.repo, page)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to search coverage", goerr.V("owner", s.owner), goerr.V("repo", s.repo))
		}
		if resp == nil || len(resp.Builds) == 0 {
			return nil, nil
		}

		for _, build := range resp.Builds {
			if build == nil {
				continue
			}
			if build.CreatedAt.Before(lower) {
				return nil, nil
			}
			if build.CreatedAt.After(s.latest) {
				continue
			}
			if build.Branch == s.branch.String() {
				return build, nil
			}
		}

		if page >= resp.Pages {
			return nil, nil
		}
	}

	logging.From(ctx).Warn("Gave up coverage search", slog.String("owner", s.owner), slog.String("repo", s.repo), slog.Int("pages", maxCoveragePages))
	return nil, nil
}

// latestRun returns the trigger time of the most recent cached run of the project
func (x *UseCase) latestRun(ctx context.Context, store interfaces.ArtifactStore, keys []model.WorkflowKey) (time.Time, bool, error) {
	var times []time.Time
	for _, key := range keys {
		var runs model.WorkflowRuns
		if err := loadJSON(ctx, store, workflowRunsArtifact(key), &runs); err != nil {
			return time.Time{}, false, err
		}
		for _, run := range runs {
			if run == nil || run.CreatedAt == nil || run.GetHeadSHA() == "" {
				continue
			}
			times = append(times, run.GetCreatedAt().Time)
		}
	}
	if len(times) == 0 {
		return time.Time{}, false, nil
	}

	sort.Slice(times, func(i, j int) bool { return times[i].After(times[j]) })
	return times[0], true, nil
}

// FetchCoverage looks up a Coveralls report for every stage 6 project, anchored at its most recent
// run, and aggregates the covered percents by language. A project without runs or without matching
// report gets an empty report.
func (x *UseCase) FetchCoverage(ctx context.Context) error {
	return x.runStage(ctx, stage{
		name:    "coverage",
		inputs:  []string{projectsArtifact(6), workflowsStage6Artifact, defaultBranchesArtifact},
		outputs: []string{languageCoverageArtifact},
		run: func(ctx context.Context) error {
			store := x.clients.Artifacts()
			projects, err := loadProjects(ctx, store, projectsArtifact(6))
			if err != nil {
				return err
			}
			var contents model.WorkflowContentIndex
			if err := loadJSON(ctx, store, workflowsStage6Artifact, &contents); err != nil {
				return err
			}
			var branches model.DefaultBranchMap
			if err := loadJSON(ctx, store, defaultBranchesArtifact, &branches); err != nil {
				return err
			}

			keysByRepo := make(map[types.RepoID][]model.WorkflowKey)
			for _, key := range contents.Keys() {
				keysByRepo[key.RepoID] = append(keysByRepo[key.RepoID], key)
			}

			bar := x.newProgress("coverage", len(projects))
			defer bar.Finish()

			languages := make(model.LanguageCoverage)
			var found int
			for i, p := range projects {
				report, err := x.projectCoverage(ctx, store, p, keysByRepo[p.RepoID], branches[p.RepoID])
				if err != nil {
					return err
				}
				if percent, ok := report.Percent(); ok {
					found++
					languages[p.Language] = append(languages[p.Language], percent)
				}

				if i%100 == 0 {
					logging.From(ctx).Info("Searching coverage", slog.Int("progress", i+1), slog.Int("total", len(projects)))
				}
				bar.Increment()
			}

			logging.From(ctx).Info("Found coverage reports",
				slog.Int("projects", found),
				slog.Int("total", len(projects)),
			)
			return saveJSON(ctx, store, languageCoverageArtifact, languages)
		},
	})
}

func (x *UseCase) projectCoverage(ctx context.Context, store interfaces.ArtifactStore, p *model.Project, keys []model.WorkflowKey, branch types.BranchName) (*model.CoverageReport, error) {
	name := projectCoverageArtifact(p.RepoID)
	found, err := exists(ctx, store, name)
	if err != nil {
		return nil, err
	}
	if found {
		var report model.CoverageReport
		if err := loadJSON(ctx, store, name, &report); err != nil {
			return nil, err
		}
		return &report, nil
	}

	report := &model.CoverageReport{RepoID: p.RepoID}

	latest, ok, err := x.latestRun(ctx, store, keys)
	if err != nil {
		return nil, err
	}
	if ok {
		if x.clients.Coveralls() == nil {
			return nil, goerr.Wrap(types.ErrInvalidOption, "coveralls client is not configured")
		}
		build, err := findCoverage(ctx, x.clients.Coveralls(), coverageSearch{
			owner:  p.Owner(),
			repo:   p.RepoName(),
			branch: branch,
			latest: latest,
			window: x.coverageWindow,
		})
		if err != nil {
			return nil, err
		}
		report.Build = build
	} else {
		logging.From(ctx).Debug("No run to anchor coverage search", slog.Any("repo_id", p.RepoID))
	}

	if err := saveJSON(ctx, store, name, report); err != nil {
		return nil, err
	}
	return report, nil
}
