package usecase_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-github/v53/github"
	"github.com/m-mizutani/cistudy/pkg/domain/interfaces"
	"github.com/m-mizutani/cistudy/pkg/domain/model"
	"github.com/m-mizutani/cistudy/pkg/domain/types"
	"github.com/m-mizutani/cistudy/pkg/infra"
	"github.com/m-mizutani/cistudy/pkg/repository/memory"
	"github.com/m-mizutani/cistudy/pkg/usecase"
	"github.com/m-mizutani/gt"
)

const buildWorkflow = `
name: CI
on: push
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4
      - run: make test
`

const lintWorkflow = `
name: Lint
on: push
jobs:
  lint:
    runs-on: ubuntu-latest
    steps:
      - run: echo lint
`

var baseTime = time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)

func newProject(id types.RepoID, name string, lang model.Language) *model.Project {
	return &model.Project{
		RepoID:   id,
		URL:      "https://api.github.com/repos/octo/" + name,
		OwnerID:  "1",
		Name:     name,
		Language: lang,
	}
}

func newRun(id int64, conclusion string, created time.Time, d time.Duration, committed time.Time) *github.WorkflowRun {
	return &github.WorkflowRun{
		ID:         github.Int64(id),
		Status:     github.String(model.RunStatusCompleted),
		Conclusion: github.String(conclusion),
		CreatedAt:  &github.Timestamp{Time: created},
		UpdatedAt:  &github.Timestamp{Time: created.Add(d)},
		HeadSHA:    github.String(fmt.Sprintf("sha%d", id)),
		HeadCommit: &github.HeadCommit{
			ID:        github.String(fmt.Sprintf("commit%d", id)),
			Timestamp: &github.Timestamp{Time: committed},
		},
	}
}

func newStore(t *testing.T) interfaces.ArtifactStore {
	t.Helper()
	return memory.New()
}

func saveProjects(t *testing.T, store interfaces.ArtifactStore, stage int, projects ...*model.Project) {
	t.Helper()
	gt.NoError(t, usecase.SaveProjectsForTest(context.Background(), store, usecase.ProjectsArtifact(stage), projects))
}

func loadProjects(t *testing.T, store interfaces.ArtifactStore, stage int) model.Projects {
	t.Helper()
	return gt.R1(usecase.LoadProjectsForTest(context.Background(), store, usecase.ProjectsArtifact(stage))).NoError(t)
}

func saveJSON(t *testing.T, store interfaces.ArtifactStore, name string, v any) {
	t.Helper()
	gt.NoError(t, usecase.SaveJSONForTest(context.Background(), store, name, v))
}

func loadJSON(t *testing.T, store interfaces.ArtifactStore, name string, v any) {
	t.Helper()
	raw := gt.R1(store.Load(context.Background(), name)).NoError(t)
	gt.NoError(t, json.Unmarshal(raw, v))
}

func exists(t *testing.T, store interfaces.ArtifactStore, name string) bool {
	t.Helper()
	return gt.R1(store.Exists(context.Background(), name)).NoError(t)
}

func repoIDs(projects model.Projects) []types.RepoID {
	ids := make([]types.RepoID, len(projects))
	for i, p := range projects {
		ids[i] = p.RepoID
	}
	return ids
}

func TestNew(t *testing.T) {
	t.Run("create new usecase with all clients", func(t *testing.T) {
		clients := infra.New(infra.WithArtifacts(memory.New()))
		uc := usecase.New(clients,
			usecase.WithPartitions(3, 2, 1),
			usecase.WithMinRuns(10),
			usecase.WithRunsPerWorkflow(20),
			usecase.WithCoverageWindow(time.Hour),
			usecase.WithBuildDurationThreshold(time.Minute),
			usecase.WithProgressBar(false),
		)
		gt.V(t, uc).NotEqual(nil)
	})
}

func TestPartition(t *testing.T) {
	items := make([]int, 10)
	for i := range items {
		items[i] = i
	}

	t.Run("sizes differ by at most one and larger come first", func(t *testing.T) {
		parts := usecase.PartitionForTest(items, 3)
		gt.A(t, parts).Length(3)
		gt.A(t, parts[0]).Length(4)
		gt.A(t, parts[1]).Length(3)
		gt.A(t, parts[2]).Length(3)
		gt.A(t, parts[0]).Equal([]int{0, 1, 2, 3})
		gt.A(t, parts[2]).Equal([]int{7, 8, 9})
	})

	t.Run("no empty partition", func(t *testing.T) {
		parts := usecase.PartitionForTest(items[:2], 5)
		gt.A(t, parts).Length(2)
		gt.A(t, parts[0]).Length(1)
		gt.A(t, parts[1]).Length(1)
	})

	t.Run("empty input", func(t *testing.T) {
		gt.A(t, usecase.PartitionForTest(nil, 3)).Length(0)
	})

	t.Run("invalid number of partitions falls back to one", func(t *testing.T) {
		parts := usecase.PartitionForTest(items, 0)
		gt.A(t, parts).Length(1)
		gt.A(t, parts[0]).Length(10)
	})
}
