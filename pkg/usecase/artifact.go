package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/m-mizutani/cistudy/pkg/domain/interfaces"
	"github.com/m-mizutani/cistudy/pkg/domain/model"
	"github.com/m-mizutani/cistudy/pkg/domain/types"
	"github.com/m-mizutani/cistudy/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

const (
	memberCountsArtifact     = "member_counts.json"
	workflowsStage3Artifact  = "workflows_stage_3.json"
	workflowsStage4Artifact  = "workflows_stage_4.json"
	workflowsStage6Artifact  = "workflows_stage_6.json"
	defaultBranchesArtifact  = "default_branches.json"
	languageCoverageArtifact = "language_coverage.json"

	workflowRunsPrefix    = "workflow_runs/"
	projectCoveragePrefix = "project_coverage/"
	resultsPrefix         = "results/"
)

func projectsArtifact(stage int) string {
	return fmt.Sprintf("projects_stage_%d.csv", stage)
}

func workflowsStage3Split(i int) string {
	return fmt.Sprintf("workflows_stage_3_split%d.json", i)
}

func workflowsStage4Split(i int) string {
	return fmt.Sprintf("workflows_stage_4_split%d.json", i)
}

func defaultBranchesSplit(i int) string {
	return fmt.Sprintf("default_branches_split%d.json", i)
}

func workflowRunsArtifact(key model.WorkflowKey) string {
	return fmt.Sprintf("%s%s_workflow%d.json", workflowRunsPrefix, key.RepoID.Key(), key.Index)
}

func projectCoverageArtifact(id types.RepoID) string {
	return projectCoveragePrefix + id.Key() + ".json"
}

func resultArtifact(name string) string {
	return resultsPrefix + name + ".json"
}

func exists(ctx context.Context, store interfaces.ArtifactStore, name string) (bool, error) {
	found, err := store.Exists(ctx, name)
	if err != nil {
		return false, goerr.Wrap(err, "failed to check artifact", goerr.V("artifact", name))
	}
	return found, nil
}

// listArtifacts returns the names stored under prefix as a set
func listArtifacts(ctx context.Context, store interfaces.ArtifactStore, prefix string) (map[string]bool, error) {
	names, err := store.List(ctx, prefix)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list artifacts", goerr.V("prefix", prefix))
	}
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set, nil
}

func loadJSON(ctx context.Context, store interfaces.ArtifactStore, name string, v any) error {
	raw, err := store.Load(ctx, name)
	if err != nil {
		return goerr.Wrap(err, "failed to load artifact", goerr.V("artifact", name))
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return goerr.Wrap(err, "failed to decode artifact", goerr.V("artifact", name))
	}
	return nil
}

func saveJSON(ctx context.Context, store interfaces.ArtifactStore, name string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to encode artifact", goerr.V("artifact", name))
	}
	if err := store.Save(ctx, name, raw); err != nil {
		return goerr.Wrap(err, "failed to save artifact", goerr.V("artifact", name))
	}
	return nil
}

// loadProjects reads a headerless stage CSV. Malformed rows are skipped with a warning.
func loadProjects(ctx context.Context, store interfaces.ArtifactStore, name string) (model.Projects, error) {
	raw, err := store.Load(ctx, name)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load projects", goerr.V("artifact", name))
	}

	r := csv.NewReader(bytes.NewReader(raw))
	r.FieldsPerRecord = len(model.ProjectColumns)
	records, err := r.ReadAll()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read projects", goerr.V("artifact", name))
	}

	projects := make(model.Projects, 0, len(records))
	for _, record := range records {
		p, err := model.ParseProject(record)
		if err != nil {
			logging.From(ctx).Warn("skipped malformed project", slog.String("artifact", name), slog.Any("error", err))
			continue
		}
		projects = append(projects, p)
	}

	logging.From(ctx).Debug("Loaded projects", slog.String("artifact", name), slog.Int("count", len(projects)))
	return projects, nil
}

func saveProjects(ctx context.Context, store interfaces.ArtifactStore, name string, projects model.Projects) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, p := range projects {
		if err := w.Write(p.Record()); err != nil {
			return goerr.Wrap(err, "failed to encode project", goerr.V("repo_id", p.RepoID))
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return goerr.Wrap(err, "failed to encode projects", goerr.V("artifact", name))
	}

	if err := store.Save(ctx, name, buf.Bytes()); err != nil {
		return goerr.Wrap(err, "failed to save projects", goerr.V("artifact", name))
	}

	logging.From(ctx).Info("Wrote projects", slog.String("artifact", name), slog.Int("count", len(projects)))
	return nil
}
