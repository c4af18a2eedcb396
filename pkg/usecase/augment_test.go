package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/cistudy/pkg/domain/interfaces"
	"github.com/m-mizutani/cistudy/pkg/domain/mock"
	"github.com/m-mizutani/cistudy/pkg/domain/model"
	"github.com/m-mizutani/cistudy/pkg/domain/types"
	"github.com/m-mizutani/cistudy/pkg/infra"
	"github.com/m-mizutani/cistudy/pkg/usecase"
	"github.com/m-mizutani/cistudy/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestResolveDefaultBranches(t *testing.T) {
	store := newStore(t)
	saveProjects(t, store, 4,
		newProject(1, "a", model.LanguageJava),
		newProject(2, "b", model.LanguageJava),
		newProject(3, "empty", model.LanguageRuby),
	)

	gh := &mock.GitHubMock{
		GetDefaultBranchesFunc: func(ctx context.Context, projects model.Projects) (model.DefaultBranchMap, error) {
			out := make(model.DefaultBranchMap)
			for _, p := range projects {
				if p.RepoID != 3 {
					out[p.RepoID] = "main"
				}
			}
			return out, nil
		},
	}
	uc := usecase.New(infra.New(infra.WithArtifacts(store), infra.WithGitHub(gh)), usecase.WithPartitions(1, 1, 2))
	ctx := context.Background()

	gt.NoError(t, uc.ResolveDefaultBranches(ctx))
	gt.A(t, gh.GetDefaultBranchesCalls()).Length(2)

	var branches model.DefaultBranchMap
	loadJSON(t, store, usecase.DefaultBranchesArtifact, &branches)
	gt.V(t, branches[1]).Equal(types.BranchName("main"))
	gt.False(t, branches.Has(3))

	gt.NoError(t, uc.FilterDefaultBranch(ctx))
	gt.A(t, repoIDs(loadProjects(t, store, 5))).Equal([]types.RepoID{1, 2})
}

func TestFetchWorkflowRuns(t *testing.T) {
	setup := func(t *testing.T) interfaces.ArtifactStore {
		store := newStore(t)
		saveProjects(t, store, 5,
			newProject(1, "a", model.LanguageJava),
			newProject(2, "b", model.LanguagePython),
		)
		saveJSON(t, store, usecase.WorkflowsStage4Artifact, model.WorkflowContentIndex{
			1: {0: {Name: "ci.yml"}, 2: {Name: "test.yml"}},
			2: {0: {Name: "build.yml"}},
			// not in stage 5
			9: {0: {Name: "ci.yml"}},
		})
		saveJSON(t, store, usecase.DefaultBranchesArtifact, model.DefaultBranchMap{1: "main", 2: "develop"})
		return store
	}

	t.Run("every pair is fetched with the default branch", func(t *testing.T) {
		store := setup(t)
		gh := &mock.GitHubMock{
			ListWorkflowRunsFunc: func(ctx context.Context, input *interfaces.ListWorkflowRunsInput) (model.WorkflowRuns, error) {
				return model.WorkflowRuns{
					newRun(1, model.ConclusionSuccess, baseTime, time.Minute, baseTime),
				}, nil
			},
		}
		uc := usecase.New(infra.New(infra.WithArtifacts(store), infra.WithGitHub(gh)), usecase.WithRunsPerWorkflow(30))

		gt.NoError(t, uc.FetchWorkflowRuns(context.Background()))

		calls := gh.ListWorkflowRunsCalls()
		gt.A(t, calls).Length(3)
		gt.V(t, calls[0].Input.Owner).Equal("octo")
		gt.V(t, calls[0].Input.Repo).Equal("a")
		gt.V(t, calls[0].Input.Workflow).Equal("ci.yml")
		gt.V(t, calls[0].Input.Branch).Equal(types.BranchName("main"))
		gt.V(t, calls[0].Input.MaxRuns).Equal(30)
		gt.V(t, calls[1].Input.Workflow).Equal("test.yml")
		gt.V(t, calls[2].Input.Branch).Equal(types.BranchName("develop"))

		gt.True(t, exists(t, store, usecase.WorkflowRunsArtifact(model.WorkflowKey{RepoID: 1, Index: 2})))
		gt.False(t, exists(t, store, usecase.WorkflowRunsArtifact(model.WorkflowKey{RepoID: 9, Index: 0})))

		gt.NoError(t, uc.FetchWorkflowRuns(context.Background()))
		gt.A(t, gh.ListWorkflowRunsCalls()).Length(3)
	})

	t.Run("removed workflow is saved as empty history", func(t *testing.T) {
		store := setup(t)
		gh := &mock.GitHubMock{
			ListWorkflowRunsFunc: func(ctx context.Context, input *interfaces.ListWorkflowRunsInput) (model.WorkflowRuns, error) {
				return nil, goerr.Wrap(types.ErrNotFound, "workflow not found")
			},
		}
		uc := usecase.New(infra.New(infra.WithArtifacts(store), infra.WithGitHub(gh)))

		gt.NoError(t, uc.FetchWorkflowRuns(context.Background()))

		var runs model.WorkflowRuns
		loadJSON(t, store, usecase.WorkflowRunsArtifact(model.WorkflowKey{RepoID: 2, Index: 0}), &runs)
		gt.A(t, runs).Length(0)
	})

	t.Run("failed pairs are left for the next run", func(t *testing.T) {
		store := setup(t)
		gh := &mock.GitHubMock{
			ListWorkflowRunsFunc: func(ctx context.Context, input *interfaces.ListWorkflowRunsInput) (model.WorkflowRuns, error) {
				if input.Repo == "b" {
					return nil, goerr.Wrap(types.ErrRetryExhausted, "server error")
				}
				return model.WorkflowRuns{}, nil
			},
		}
		uc := usecase.New(infra.New(infra.WithArtifacts(store), infra.WithGitHub(gh)))

		err := uc.FetchWorkflowRuns(context.Background())
		gt.Error(t, err)
		gt.True(t, errors.Is(err, types.ErrIncompleteBatch))
		gt.A(t, gh.ListWorkflowRunsCalls()).Length(3)
		gt.True(t, exists(t, store, usecase.WorkflowRunsArtifact(model.WorkflowKey{RepoID: 1, Index: 0})))
		gt.False(t, exists(t, store, usecase.WorkflowRunsArtifact(model.WorkflowKey{RepoID: 2, Index: 0})))
	})

	t.Run("missing input", func(t *testing.T) {
		uc := usecase.New(infra.New(infra.WithArtifacts(newStore(t))))
		err := uc.FetchWorkflowRuns(context.Background())
		gt.True(t, errors.Is(err, types.ErrMissingArtifact))
	})
}

func TestRunAugmentNamesFailedStep(t *testing.T) {
	store := newStore(t)
	gh := &mock.GitHubMock{}
	uc := usecase.New(infra.New(infra.WithArtifacts(store), infra.WithGitHub(gh)))

	err := uc.RunAugment(context.Background())
	gt.True(t, errors.Is(err, types.ErrMissingArtifact))
	gt.V(t, goerr.Values(err)[errutil.StepKey]).Equal(any("resolve_default_branches"))
	gt.A(t, gh.GetDefaultBranchesCalls()).Length(0)
}
