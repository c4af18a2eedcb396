package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/cistudy/pkg/domain/interfaces"
	"github.com/m-mizutani/cistudy/pkg/domain/mock"
	"github.com/m-mizutani/cistudy/pkg/domain/model"
	"github.com/m-mizutani/cistudy/pkg/domain/types"
	"github.com/m-mizutani/cistudy/pkg/infra"
	"github.com/m-mizutani/cistudy/pkg/usecase"
	"github.com/m-mizutani/gt"
)

const week = 7 * 24 * time.Hour

func newBuild(created time.Time, branch string, percent float64) *model.CoverallsBuild {
	return &model.CoverallsBuild{
		CreatedAt:      created,
		Branch:         branch,
		CommitSHA:      "abc",
		CoveredPercent: &percent,
	}
}

func newCoverallsMock(pages ...[]*model.CoverallsBuild) *mock.CoverallsMock {
	return &mock.CoverallsMock{
		ListBuildsFunc: func(ctx context.Context, owner, repo string, page int) (*model.CoverallsPage, error) {
			if page > len(pages) {
				return &model.CoverallsPage{Page: page, Pages: len(pages)}, nil
			}
			return &model.CoverallsPage{Page: page, Pages: len(pages), Builds: pages[page-1]}, nil
		},
	}
}

func TestFindCoverage(t *testing.T) {
	latest := baseTime
	ctx := context.Background()

	t.Run("build exactly at the window edge is included", func(t *testing.T) {
		client := newCoverallsMock([]*model.CoverallsBuild{
			newBuild(latest.Add(-week), "main", 81.5),
		})
		build := gt.R1(usecase.FindCoverageForTest(ctx, client, "octo", "a", "main", latest, week)).NoError(t)
		gt.V(t, build).NotEqual(nil)
		gt.V(t, *build.CoveredPercent).Equal(81.5)
	})

	t.Run("build just outside the window stops the walk", func(t *testing.T) {
		client := newCoverallsMock(
			[]*model.CoverallsBuild{newBuild(latest.Add(-week-time.Second), "main", 50)},
			[]*model.CoverallsBuild{newBuild(latest.Add(-time.Hour), "main", 60)},
		)
		build := gt.R1(usecase.FindCoverageForTest(ctx, client, "octo", "a", "main", latest, week)).NoError(t)
		gt.V(t, build).Equal(nil)
		gt.A(t, client.ListBuildsCalls()).Length(1)
	})

	t.Run("newer builds and other branches are passed over", func(t *testing.T) {
		client := newCoverallsMock(
			[]*model.CoverallsBuild{
				newBuild(latest.Add(time.Hour), "main", 90),
				newBuild(latest.Add(-time.Hour), "feature", 70),
			},
			[]*model.CoverallsBuild{
				newBuild(latest.Add(-2*time.Hour), "main", 65),
			},
		)
		build := gt.R1(usecase.FindCoverageForTest(ctx, client, "octo", "a", "main", latest, week)).NoError(t)
		gt.V(t, build).NotEqual(nil)
		gt.V(t, *build.CoveredPercent).Equal(65.0)
		gt.A(t, client.ListBuildsCalls()).Length(2)
		gt.V(t, client.ListBuildsCalls()[1].Page).Equal(2)
	})

	t.Run("no build at all", func(t *testing.T) {
		client := newCoverallsMock()
		build := gt.R1(usecase.FindCoverageForTest(ctx, client, "octo", "a", "main", latest, week)).NoError(t)
		gt.V(t, build).Equal(nil)
	})

	t.Run("last page without match", func(t *testing.T) {
		client := newCoverallsMock([]*model.CoverallsBuild{newBuild(latest, "develop", 10)})
		build := gt.R1(usecase.FindCoverageForTest(ctx, client, "octo", "a", "main", latest, week)).NoError(t)
		gt.V(t, build).Equal(nil)
		gt.A(t, client.ListBuildsCalls()).Length(1)
	})
}

func TestFetchCoverage(t *testing.T) {
	latest := baseTime.Add(10 * 24 * time.Hour)

	setup := func(t *testing.T) interfaces.ArtifactStore {
		store := newStore(t)
		saveProjects(t, store, 6,
			newProject(1, "a", model.LanguageJava),
			newProject(2, "b", model.LanguageJava),
			newProject(3, "c", model.LanguagePython),
		)
		saveJSON(t, store, usecase.WorkflowsStage6Artifact, model.WorkflowContentIndex{
			1: {0: {Name: "ci.yml"}, 1: {Name: "test.yml"}},
			2: {0: {Name: "ci.yml"}},
			3: {0: {Name: "ci.yml"}},
		})
		saveJSON(t, store, usecase.DefaultBranchesArtifact, model.DefaultBranchMap{1: "main", 2: "main", 3: "master"})

		saveJSON(t, store, usecase.WorkflowRunsArtifact(model.WorkflowKey{RepoID: 1, Index: 0}), model.WorkflowRuns{
			newRun(1, model.ConclusionSuccess, baseTime, time.Minute, baseTime),
		})
		saveJSON(t, store, usecase.WorkflowRunsArtifact(model.WorkflowKey{RepoID: 1, Index: 1}), model.WorkflowRuns{
			newRun(2, model.ConclusionSuccess, latest, time.Minute, latest),
		})
		saveJSON(t, store, usecase.WorkflowRunsArtifact(model.WorkflowKey{RepoID: 2, Index: 0}), model.WorkflowRuns{})
		saveJSON(t, store, usecase.WorkflowRunsArtifact(model.WorkflowKey{RepoID: 3, Index: 0}), model.WorkflowRuns{
			newRun(3, "failure", latest, time.Minute, latest),
		})
		return store
	}

	newClient := func() *mock.CoverallsMock {
		return &mock.CoverallsMock{
			ListBuildsFunc: func(ctx context.Context, owner, repo string, page int) (*model.CoverallsPage, error) {
				switch repo {
				case "a":
					// anchored at the newest run of all workflows
					return &model.CoverallsPage{Page: 1, Pages: 1, Builds: []*model.CoverallsBuild{
						newBuild(latest.Add(-24*time.Hour), "main", 75),
					}}, nil
				case "c":
					return &model.CoverallsPage{Page: 1, Pages: 1, Builds: []*model.CoverallsBuild{
						newBuild(latest.Add(-time.Hour), "main", 40),
					}}, nil
				}
				return &model.CoverallsPage{Page: page}, nil
			},
		}
	}
	ctx := context.Background()

	t.Run("coverage is aggregated by language", func(t *testing.T) {
		store := setup(t)
		coveralls := newClient()
		uc := usecase.New(infra.New(infra.WithArtifacts(store), infra.WithCoveralls(coveralls)))
		gt.NoError(t, uc.FetchCoverage(ctx))

		var languages model.LanguageCoverage
		loadJSON(t, store, usecase.LanguageCoverageArtifact, &languages)
		gt.A(t, languages[model.LanguageJava]).Equal([]float64{75})
		gt.A(t, languages[model.LanguagePython]).Length(0)

		var report model.CoverageReport
		loadJSON(t, store, usecase.ProjectCoverageArtifact(2), &report)
		gt.V(t, report.RepoID).Equal(types.RepoID(2))
		gt.V(t, report.Build).Equal(nil)

		// project without runs is not searched
		gt.A(t, coveralls.ListBuildsCalls()).Length(2)
		for _, call := range coveralls.ListBuildsCalls() {
			gt.V(t, call.Repo).NotEqual("b")
		}
	})

	t.Run("cached project report is reused", func(t *testing.T) {
		store := setup(t)
		percent := 99.0
		saveJSON(t, store, usecase.ProjectCoverageArtifact(1), &model.CoverageReport{
			RepoID: 1,
			Build:  &model.CoverallsBuild{CreatedAt: latest, Branch: "main", CoveredPercent: &percent},
		})
		coveralls := newClient()
		uc := usecase.New(infra.New(infra.WithArtifacts(store), infra.WithCoveralls(coveralls)))
		gt.NoError(t, uc.FetchCoverage(ctx))

		var languages model.LanguageCoverage
		loadJSON(t, store, usecase.LanguageCoverageArtifact, &languages)
		gt.A(t, languages[model.LanguageJava]).Equal([]float64{99})
		gt.A(t, coveralls.ListBuildsCalls()).Length(1)
		gt.V(t, coveralls.ListBuildsCalls()[0].Repo).Equal("c")
	})
}
