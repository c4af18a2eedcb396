package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/m-mizutani/cistudy/pkg/domain/interfaces"
	"github.com/m-mizutani/cistudy/pkg/domain/model"
	"github.com/m-mizutani/cistudy/pkg/domain/types"
	"github.com/m-mizutani/cistudy/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// ResolveDefaultBranches queries the default branch of every stage 4 project in batches and merges
// them into one map.
func (x *UseCase) ResolveDefaultBranches(ctx context.Context) error {
	return x.runStage(ctx, stage{
		name:    "default branches",
		inputs:  []string{projectsArtifact(4)},
		outputs: []string{defaultBranchesArtifact},
		run: func(ctx context.Context) error {
			store := x.clients.Artifacts()
			projects, err := loadProjects(ctx, store, projectsArtifact(4))
			if err != nil {
				return err
			}

			splits, err := runBatches(ctx, x, batchJob[*model.Project, model.DefaultBranchMap]{
				name:     "default branch",
				batches:  partition(projects, x.branchPartitions),
				artifact: defaultBranchesSplit,
				fetch: func(ctx context.Context, batch []*model.Project) (model.DefaultBranchMap, error) {
					return x.clients.GitHub().GetDefaultBranches(ctx, batch)
				},
			})
			if err != nil {
				return err
			}

			branches := make(model.DefaultBranchMap)
			for _, name := range splits {
				var part model.DefaultBranchMap
				if err := loadJSON(ctx, store, name, &part); err != nil {
					return err
				}
				for _, id := range branches.Merge(part) {
					logging.From(ctx).Warn("duplicated default branch across batches, overwriting", slog.Any("repo_id", id), slog.String("artifact", name))
				}
			}

			logging.From(ctx).Info("Resolved default branches",
				slog.Int("resolved", len(branches)),
				slog.Int("total", len(projects)),
			)
			return saveJSON(ctx, store, defaultBranchesArtifact, branches)
		},
	})
}

// FetchWorkflowRuns retrieves the recent push runs on the default branch of every workflow of stage 5
// projects. Each (project, workflow) pair is persisted on its own and pairs already fetched are
// skipped, so an interrupted run resumes where it stopped. Failed pairs are reported together at the end.
func (x *UseCase) FetchWorkflowRuns(ctx context.Context) error {
	store := x.clients.Artifacts()
	if store == nil {
		return goerr.Wrap(types.ErrInvalidOption, "artifact store is not configured")
	}
	logger := logging.From(ctx)

	for _, name := range []string{projectsArtifact(5), workflowsStage4Artifact, defaultBranchesArtifact} {
		found, err := exists(ctx, store, name)
		if err != nil {
			return err
		}
		if !found {
			return goerr.Wrap(types.ErrMissingArtifact, "inputs of workflow run retrieval are missing", goerr.V("missing", name))
		}
	}

	projects, err := loadProjects(ctx, store, projectsArtifact(5))
	if err != nil {
		return err
	}
	var contents model.WorkflowContentIndex
	if err := loadJSON(ctx, store, workflowsStage4Artifact, &contents); err != nil {
		return err
	}
	var branches model.DefaultBranchMap
	if err := loadJSON(ctx, store, defaultBranchesArtifact, &branches); err != nil {
		return err
	}

	byID := make(map[types.RepoID]*model.Project, len(projects))
	for _, p := range projects {
		byID[p.RepoID] = p
	}
	keys := contents.RestrictTo(projects.IDs()).Keys()

	cached, err := listArtifacts(ctx, store, workflowRunsPrefix)
	if err != nil {
		return err
	}

	bar := x.newProgress("workflow runs", len(keys))
	defer bar.Finish()

	var fetched, skipped int
	var failed []string
	for i, key := range keys {
		name := workflowRunsArtifact(key)
		if cached[name] {
			skipped++
			bar.Increment()
			continue
		}

		p := byID[key.RepoID]
		wf := contents[key.RepoID][key.Index]
		logger.Info("Fetching workflow runs",
			slog.Int("progress", i+1),
			slog.Int("total", len(keys)),
			slog.String("repo", p.FullName()),
			slog.String("workflow", wf.Name),
		)

		runs, err := x.clients.GitHub().ListWorkflowRuns(ctx, &interfaces.ListWorkflowRunsInput{
			Owner:    p.Owner(),
			Repo:     p.RepoName(),
			Workflow: wf.Name,
			Branch:   branches[key.RepoID],
			MaxRuns:  x.runsPerWorkflow,
		})
		if err != nil {
			if ctx.Err() != nil {
				return goerr.Wrap(ctx.Err(), "fetching workflow runs canceled")
			}
			if errors.Is(err, types.ErrNotFound) {
				// A workflow removed from the repository has no history
				runs = model.WorkflowRuns{}
			} else {
				logger.Warn("Failed to fetch workflow runs, leaving it for the next run",
					slog.String("key", key.String()),
					slog.Any("error", err),
				)
				failed = append(failed, key.String())
				bar.Increment()
				continue
			}
		}

		if err := saveJSON(ctx, store, name, runs); err != nil {
			return err
		}
		fetched++
		bar.Increment()
	}

	logger.Info("Fetched workflow runs",
		slog.Int("fetched", fetched),
		slog.Int("cached", skipped),
		slog.Int("failed", len(failed)),
		slog.Int("total", len(keys)),
	)

	if len(failed) > 0 {
		return goerr.Wrap(types.ErrIncompleteBatch, "failed to fetch some workflow runs",
			goerr.V("failed", len(failed)),
			goerr.V("total", len(keys)),
			goerr.V("keys", failed),
		)
	}

	return nil
}
