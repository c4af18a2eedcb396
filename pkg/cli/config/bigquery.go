package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/cistudy/pkg/domain/types"
	"github.com/m-mizutani/cistudy/pkg/infra/bq"
	"github.com/urfave/cli/v3"
)

const defaultBigQueryTable = "project_stats"

type BigQuery struct {
	projectID types.GoogleProjectID
	datasetID types.BQDatasetID
	tableID   types.BQTableID
}

func (x *BigQuery) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "bigquery-project-id",
			Usage:       "BigQuery project ID",
			Category:    "BigQuery",
			Destination: (*string)(&x.projectID),
			Sources:     cli.EnvVars("CISTUDY_BIGQUERY_PROJECT_ID"),
		},
		&cli.StringFlag{
			Name:        "bigquery-dataset-id",
			Usage:       "BigQuery dataset ID",
			Category:    "BigQuery",
			Destination: (*string)(&x.datasetID),
			Sources:     cli.EnvVars("CISTUDY_BIGQUERY_DATASET_ID"),
		},
		&cli.StringFlag{
			Name:        "bigquery-table-id",
			Usage:       "BigQuery table ID of per-project statistics",
			Category:    "BigQuery",
			Destination: (*string)(&x.tableID),
			Value:       defaultBigQueryTable,
			Sources:     cli.EnvVars("CISTUDY_BIGQUERY_TABLE_ID"),
		},
	}
}

// NewClient returns nil if project ID or dataset ID is not set
func (x *BigQuery) NewClient(ctx context.Context) (*bq.Client, error) {
	if x.projectID == "" || x.datasetID == "" {
		return nil, nil
	}
	return bq.New(ctx, x.projectID, x.datasetID, x.tableID)
}

func (x *BigQuery) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("projectID", x.projectID),
		slog.Any("datasetID", x.datasetID),
		slog.Any("tableID", x.tableID),
	)
}
