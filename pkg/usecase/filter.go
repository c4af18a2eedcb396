package usecase

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/cistudy/pkg/domain/model"
	"github.com/m-mizutani/cistudy/pkg/domain/types"
	"github.com/m-mizutani/cistudy/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// minMembers is the smallest team size of the initial cohort
const minMembers = 2

func logReduction(ctx context.Context, before, after int) {
	logging.From(ctx).Info("Projects were reduced",
		slog.Int("before", before),
		slog.Int("after", after),
	)
}

// InitialCohort builds stage 0: projects of the dataset having at least two distinct members.
// Member counts of the cohort are persisted for size categorisation.
func (x *UseCase) InitialCohort(ctx context.Context) error {
	return x.runStage(ctx, stage{
		name:    "initial cohort",
		outputs: []string{projectsArtifact(0), memberCountsArtifact},
		run: func(ctx context.Context) error {
			dataset := x.clients.Dataset()
			if dataset == nil {
				return goerr.Wrap(types.ErrInvalidOption, "dataset is not configured")
			}

			var memberships []*model.Membership
			if err := dataset.Memberships(ctx, func(m *model.Membership) error {
				memberships = append(memberships, m)
				return nil
			}); err != nil {
				return goerr.Wrap(err, "failed to read memberships")
			}
			counts := model.CountMembers(memberships)
			logging.From(ctx).Info("Counted members",
				slog.Int("memberships", len(memberships)),
				slog.Int("projects", len(counts)),
			)

			var (
				projects model.Projects
				total    int
				seen     = make(map[types.RepoID]struct{})
				cohort   = make(model.MemberCounts)
			)
			if err := dataset.Projects(ctx, func(p *model.Project) error {
				total++
				if counts[p.RepoID] < minMembers {
					return nil
				}
				if _, ok := seen[p.RepoID]; ok {
					logging.From(ctx).Warn("duplicated project in dataset, keeping the first", slog.Any("repo_id", p.RepoID))
					return nil
				}
				seen[p.RepoID] = struct{}{}
				projects = append(projects, p)
				cohort[p.RepoID] = counts[p.RepoID]
				return nil
			}); err != nil {
				return goerr.Wrap(err, "failed to read projects")
			}
			logReduction(ctx, total, len(projects))

			store := x.clients.Artifacts()
			if err := saveJSON(ctx, store, memberCountsArtifact, cohort); err != nil {
				return err
			}
			return saveProjects(ctx, store, projectsArtifact(0), projects)
		},
	})
}

// filterProjects is a stage that keeps projects of the input stage satisfying keep
func (x *UseCase) filterProjects(ctx context.Context, name string, from, to int, keep func(p *model.Project) bool) error {
	return x.runStage(ctx, stage{
		name:    name,
		inputs:  []string{projectsArtifact(from)},
		outputs: []string{projectsArtifact(to)},
		run: func(ctx context.Context) error {
			store := x.clients.Artifacts()
			projects, err := loadProjects(ctx, store, projectsArtifact(from))
			if err != nil {
				return err
			}

			survivors := projects.Filter(keep)
			logReduction(ctx, len(projects), len(survivors))
			return saveProjects(ctx, store, projectsArtifact(to), survivors)
		},
	})
}

// FilterForks builds stage 1 by dropping forked projects
func (x *UseCase) FilterForks(ctx context.Context) error {
	return x.filterProjects(ctx, "de-fork", 0, 1, func(p *model.Project) bool {
		return !p.IsFork()
	})
}

// FilterLanguages builds stage 2 by dropping projects written in an unsupported language
func (x *UseCase) FilterLanguages(ctx context.Context) error {
	return x.filterProjects(ctx, "language", 1, 2, func(p *model.Project) bool {
		return p.Language.Supported()
	})
}

// FilterWorkflowFiles builds stage 3 by listing .github/workflows of every project in batches and
// dropping projects without a workflow file.
func (x *UseCase) FilterWorkflowFiles(ctx context.Context) error {
	return x.runStage(ctx, stage{
		name:    "workflow files",
		inputs:  []string{projectsArtifact(2)},
		outputs: []string{projectsArtifact(3), workflowsStage3Artifact},
		run: func(ctx context.Context) error {
			store := x.clients.Artifacts()
			projects, err := loadProjects(ctx, store, projectsArtifact(2))
			if err != nil {
				return err
			}

			splits, err := runBatches(ctx, x, batchJob[*model.Project, model.WorkflowFilenameIndex]{
				name:     "workflow listing",
				batches:  partition(projects, x.workflowPartitions),
				artifact: workflowsStage3Split,
				fetch: func(ctx context.Context, batch []*model.Project) (model.WorkflowFilenameIndex, error) {
					return x.clients.GitHub().ListWorkflowFiles(ctx, batch)
				},
			})
			if err != nil {
				return err
			}

			index := make(model.WorkflowFilenameIndex)
			for _, name := range splits {
				var part model.WorkflowFilenameIndex
				if err := loadJSON(ctx, store, name, &part); err != nil {
					return err
				}
				for _, id := range index.Merge(part) {
					logging.From(ctx).Warn("duplicated project across batches, overwriting", slog.Any("repo_id", id), slog.String("artifact", name))
				}
			}

			survivors := projects.Filter(func(p *model.Project) bool {
				return len(index[p.RepoID]) > 0
			})
			ids := survivors.IDs()
			for id := range index {
				if _, ok := ids[id]; !ok {
					delete(index, id)
				}
			}

			logging.From(ctx).Info("Found projects with a workflow file",
				slog.Int("projects", len(survivors)),
				slog.Int("total", len(projects)),
			)
			logReduction(ctx, len(projects), len(survivors))

			if err := saveJSON(ctx, store, workflowsStage3Artifact, index); err != nil {
				return err
			}
			return saveProjects(ctx, store, projectsArtifact(3), survivors)
		},
	})
}

// HydrateWorkflows fetches the YAML text of every workflow of the projects in batches. Each batch is
// persisted as the aliased text map of its response, and the merged texts are turned into a content
// index keeping the workflow index and filename of filenames.
func (x *UseCase) HydrateWorkflows(ctx context.Context, projects model.Projects, filenames model.WorkflowFilenameIndex) (model.WorkflowContentIndex, error) {
	store := x.clients.Artifacts()

	ids := projects.IDs()
	var refs []model.WorkflowRef
	for _, ref := range filenames.Refs() {
		if _, ok := ids[ref.RepoID]; ok {
			refs = append(refs, ref)
		}
	}

	splits, err := runBatches(ctx, x, batchJob[model.WorkflowRef, map[string]string]{
		name:     "workflow content",
		batches:  partition(refs, x.contentPartitions),
		artifact: workflowsStage4Split,
		fetch: func(ctx context.Context, batch []model.WorkflowRef) (map[string]string, error) {
			texts, err := x.clients.GitHub().GetWorkflowContents(ctx, projects, batch)
			if err != nil {
				return nil, err
			}
			out := make(map[string]string, len(texts))
			for key, text := range texts {
				out[key.String()] = text
			}
			return out, nil
		},
	})
	if err != nil {
		return nil, err
	}

	texts := make(map[model.WorkflowKey]string)
	for _, name := range splits {
		var part map[string]string
		if err := loadJSON(ctx, store, name, &part); err != nil {
			return nil, err
		}
		for alias, text := range part {
			id, idx, err := types.ParseWorkflowKey(alias)
			if err != nil {
				logging.From(ctx).Warn("ignored unexpected workflow key", slog.String("artifact", name), slog.String("key", alias))
				continue
			}
			key := model.WorkflowKey{RepoID: id, Index: idx}
			if _, ok := texts[key]; ok {
				logging.From(ctx).Warn("duplicated workflow across batches, overwriting", slog.String("key", alias), slog.String("artifact", name))
			}
			texts[key] = text
		}
	}

	contents := filenames.Hydrate(texts).RestrictTo(ids)
	logging.From(ctx).Info("Hydrated workflows",
		slog.Int("workflows", contents.CountWorkflows()),
		slog.Int("total", len(refs)),
	)

	return contents, nil
}

// FilterCIUsage builds stage 4 by keeping workflows that run a build or test command and dropping
// projects left without such a workflow.
func (x *UseCase) FilterCIUsage(ctx context.Context) error {
	return x.runStage(ctx, stage{
		name:    "ci usage",
		inputs:  []string{projectsArtifact(3), workflowsStage3Artifact},
		outputs: []string{projectsArtifact(4), workflowsStage4Artifact},
		run: func(ctx context.Context) error {
			store := x.clients.Artifacts()
			projects, err := loadProjects(ctx, store, projectsArtifact(3))
			if err != nil {
				return err
			}
			var filenames model.WorkflowFilenameIndex
			if err := loadJSON(ctx, store, workflowsStage3Artifact, &filenames); err != nil {
				return err
			}

			contents, err := x.HydrateWorkflows(ctx, projects, filenames)
			if err != nil {
				return err
			}

			var invalid int
			ciWorkflows := contents.Filter(func(key model.WorkflowKey, wf model.WorkflowContent) bool {
				ok, err := x.detector.UsesCI(wf)
				if err != nil {
					invalid++
					logging.From(ctx).Warn("skipped unparsable workflow",
						slog.String("key", key.String()),
						slog.String("name", wf.Name),
						slog.Any("error", err),
					)
					return false
				}
				return ok
			})

			survivors := projects.Filter(func(p *model.Project) bool {
				return len(ciWorkflows[p.RepoID]) > 0
			})

			logging.From(ctx).Info("Checked workflows for CI usage",
				slog.Int("ci_workflows", ciWorkflows.CountWorkflows()),
				slog.Int("workflows", contents.CountWorkflows()),
				slog.Int("unparsable", invalid),
				slog.Int("ci_projects", len(survivors)),
			)
			logReduction(ctx, len(projects), len(survivors))

			if err := saveJSON(ctx, store, workflowsStage4Artifact, ciWorkflows); err != nil {
				return err
			}
			return saveProjects(ctx, store, projectsArtifact(4), survivors)
		},
	})
}

// FilterDefaultBranch builds stage 5 by dropping projects whose default branch could not be resolved
func (x *UseCase) FilterDefaultBranch(ctx context.Context) error {
	return x.runStage(ctx, stage{
		name:    "default branch",
		inputs:  []string{projectsArtifact(4), defaultBranchesArtifact},
		outputs: []string{projectsArtifact(5)},
		run: func(ctx context.Context) error {
			store := x.clients.Artifacts()
			projects, err := loadProjects(ctx, store, projectsArtifact(4))
			if err != nil {
				return err
			}
			var branches model.DefaultBranchMap
			if err := loadJSON(ctx, store, defaultBranchesArtifact, &branches); err != nil {
				return err
			}

			survivors := projects.Filter(func(p *model.Project) bool {
				return branches.Has(p.RepoID)
			})
			logReduction(ctx, len(projects), len(survivors))
			return saveProjects(ctx, store, projectsArtifact(5), survivors)
		},
	})
}

// FilterRunHistory builds stage 6 by dropping workflows with fewer cached runs than required and
// projects left without workflow. Every run history must have been fetched before; otherwise the stage
// aborts listing every missing pair.
func (x *UseCase) FilterRunHistory(ctx context.Context) error {
	return x.runStage(ctx, stage{
		name:    "run history",
		inputs:  []string{projectsArtifact(5), workflowsStage4Artifact},
		outputs: []string{projectsArtifact(6), workflowsStage6Artifact},
		run: func(ctx context.Context) error {
			store := x.clients.Artifacts()
			projects, err := loadProjects(ctx, store, projectsArtifact(5))
			if err != nil {
				return err
			}
			var contents model.WorkflowContentIndex
			if err := loadJSON(ctx, store, workflowsStage4Artifact, &contents); err != nil {
				return err
			}
			contents = contents.RestrictTo(projects.IDs())

			cached, err := listArtifacts(ctx, store, workflowRunsPrefix)
			if err != nil {
				return err
			}
			var missing []string
			for _, key := range contents.Keys() {
				if !cached[workflowRunsArtifact(key)] {
					missing = append(missing, key.String())
				}
			}
			if len(missing) > 0 {
				return goerr.Wrap(types.ErrMissingArtifact, "run history is missing, fetch workflow runs first",
					goerr.V("missing", missing),
					goerr.V("count", len(missing)),
				)
			}

			keys := contents.Keys()
			counts := make(map[model.WorkflowKey]int, len(keys))
			for i, key := range keys {
				if i%100 == 0 {
					logging.From(ctx).Info("Counting workflow runs", slog.Int("progress", i+1), slog.Int("total", len(keys)))
				}
				var runs model.WorkflowRuns
				if err := loadJSON(ctx, store, workflowRunsArtifact(key), &runs); err != nil {
					return err
				}
				counts[key] = len(runs)
			}

			kept := contents.Filter(func(key model.WorkflowKey, _ model.WorkflowContent) bool {
				return counts[key] >= x.minRuns
			})
			survivors := projects.Filter(func(p *model.Project) bool {
				return len(kept[p.RepoID]) > 0
			})

			logging.From(ctx).Info("Checked run history",
				slog.Int("min_runs", x.minRuns),
				slog.Int("workflows", kept.CountWorkflows()),
				slog.Int("total", contents.CountWorkflows()),
			)
			logReduction(ctx, len(projects), len(survivors))

			if err := saveJSON(ctx, store, workflowsStage6Artifact, kept); err != nil {
				return err
			}
			return saveProjects(ctx, store, projectsArtifact(6), survivors)
		},
	})
}
