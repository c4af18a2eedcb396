package config

import (
	"log/slog"

	"github.com/m-mizutani/cistudy/pkg/infra/ghtorrent"
	"github.com/urfave/cli/v3"
)

// Dataset locates the GHTorrent dump
type Dataset struct {
	dir    string
	splits int64
}

func (x *Dataset) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "dataset-dir",
			Usage:       "Directory holding project splits and project_members.csv",
			Category:    "Dataset",
			Destination: &x.dir,
			Sources:     cli.EnvVars("CISTUDY_DATASET_DIR"),
		},
		&cli.Int64Flag{
			Name:        "dataset-splits",
			Usage:       "Number of project split files",
			Category:    "Dataset",
			Destination: &x.splits,
			Value:       ghtorrent.DefaultProjectSplits,
			Sources:     cli.EnvVars("CISTUDY_DATASET_SPLITS"),
		},
	}
}

// New returns nil when no directory is configured
func (x *Dataset) New() (*ghtorrent.Dataset, error) {
	if x.dir == "" {
		return nil, nil
	}
	return ghtorrent.New(x.dir, ghtorrent.WithProjectSplits(int(x.splits)))
}

func (x *Dataset) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("dir", x.dir),
		slog.Int64("splits", x.splits),
	)
}
