package usecase

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/bqs"
	"github.com/m-mizutani/cistudy/pkg/analysis"
	"github.com/m-mizutani/cistudy/pkg/domain/interfaces"
	"github.com/m-mizutani/cistudy/pkg/domain/model"
	"github.com/m-mizutani/cistudy/pkg/domain/types"
	"github.com/m-mizutani/cistudy/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

const exportChunkSize = 500

// buildProjectStats returns one row per project of the final cohort
func buildProjectStats(runID types.RunID, now time.Time, c *cohort, m *projectMetrics) []*model.ProjectStats {
	rows := make([]*model.ProjectStats, 0, len(c.projects))
	for _, p := range c.projects {
		attr := c.attr(p)
		row := &model.ProjectStats{
			RunID:               runID,
			Timestamp:           now,
			RepoID:              int64(p.RepoID),
			Owner:               p.Owner(),
			Name:                p.RepoName(),
			Language:            string(p.Language),
			LanguageGroup:       string(attr.Bucket().Group),
			SizeCategory:        string(attr.Bucket().Size),
			MemberCount:         attr.MemberCount,
			Workflows:           len(c.workflows[p.RepoID]),
			DailyCommitRate:     m.commits[p.RepoID].DailyRate,
			FrequentCommits:     m.frequent[p.RepoID],
			BrokenIntervals:     len(m.broken[p.RepoID]),
			MaxBrokenSeconds:    m.broken.Max(p.RepoID),
			BrokenOverThreshold: m.broken.CountOver(p.RepoID, m.brokenLimit),
			Builds:              len(m.builds[p.RepoID]),
			MedianBuildSeconds:  analysis.Summarize(m.builds[p.RepoID]).Median,
		}
		if percent, ok := m.coverage[p.RepoID].Percent(); ok {
			row.CoveredPercent = percent
			row.HasCoverage = true
		}
		rows = append(rows, row)
	}
	return rows
}

// ExportStats pushes per-project statistics of the final cohort to BigQuery. The table is created
// when missing and its schema is merged when new fields appear.
func (x *UseCase) ExportStats(ctx context.Context) error {
	bq := x.clients.BigQuery()
	if bq == nil {
		return goerr.Wrap(types.ErrInvalidOption, "BigQuery is not configured")
	}

	c, err := x.loadCohort(ctx)
	if err != nil {
		return err
	}
	stage0, err := loadProjects(ctx, x.clients.Artifacts(), projectsArtifact(0))
	if err != nil {
		return err
	}
	_, metrics := x.analyze(ctx, c, stage0)

	runID, ctx := logging.CtxRunID(ctx)
	rows := buildProjectStats(runID, logging.CtxTime(ctx).UTC(), c, metrics)
	if len(rows) == 0 {
		logging.From(ctx).Warn("No project to export")
		return nil
	}

	if _, err := createOrUpdateBigQueryTable(ctx, bq, rows[0]); err != nil {
		return err
	}

	for start := 0; start < len(rows); start += exportChunkSize {
		end := min(start+exportChunkSize, len(rows))
		if err := bq.Insert(ctx, rows[start:end]); err != nil {
			return goerr.Wrap(err, "failed to insert project stats to BigQuery",
				goerr.V("offset", start),
				goerr.V("total", len(rows)),
			)
		}
		logging.From(ctx).Info("Exported project stats",
			slog.Int("progress", end),
			slog.Int("total", len(rows)),
		)
	}

	return nil
}

func createOrUpdateBigQueryTable(ctx context.Context, bq interfaces.BigQuery, row *model.ProjectStats) (bigquery.Schema, error) {
	schema, err := bqs.Infer(row)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to infer project stats schema")
	}

	metaData, err := bq.GetMetadata(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get BigQuery table metadata")
	}
	if metaData == nil {
		if err := bq.CreateTable(ctx, &bigquery.TableMetadata{
			Schema: schema,
		}); err != nil {
			return nil, goerr.Wrap(err, "failed to create BigQuery table")
		}

		return schema, nil
	}

	if bqs.Equal(metaData.Schema, schema) {
		return schema, nil
	}

	mergedSchema, err := bqs.Merge(metaData.Schema, schema)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to merge BigQuery schema")
	}
	if err := bq.UpdateTable(ctx, bigquery.TableMetadataToUpdate{
		Schema: mergedSchema,
	}, metaData.ETag); err != nil {
		return nil, goerr.Wrap(err, "failed to update BigQuery table")
	}

	return mergedSchema, nil
}
