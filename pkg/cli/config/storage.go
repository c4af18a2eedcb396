package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/cistudy/pkg/domain/interfaces"
	"github.com/m-mizutani/cistudy/pkg/domain/types"
	"github.com/m-mizutani/cistudy/pkg/repository/fs"
	"github.com/m-mizutani/cistudy/pkg/repository/gcs"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Storage selects where stage artifacts are kept: a local directory or a Cloud Storage bucket
type Storage struct {
	dir       string
	gcsBucket string
	gcsPrefix string
}

func (x *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "artifact-dir",
			Usage:       "Local directory of stage artifacts",
			Category:    "Storage",
			Aliases:     []string{"d"},
			Destination: &x.dir,
			Value:       "data",
			Sources:     cli.EnvVars("CISTUDY_ARTIFACT_DIR"),
		},
		&cli.StringFlag{
			Name:        "gcs-bucket",
			Usage:       "Cloud Storage bucket of stage artifacts. Takes precedence over artifact-dir",
			Category:    "Storage",
			Destination: &x.gcsBucket,
			Sources:     cli.EnvVars("CISTUDY_GCS_BUCKET"),
		},
		&cli.StringFlag{
			Name:        "gcs-prefix",
			Usage:       "Object prefix in the Cloud Storage bucket",
			Category:    "Storage",
			Destination: &x.gcsPrefix,
			Sources:     cli.EnvVars("CISTUDY_GCS_PREFIX"),
		},
	}
}

func (x *Storage) New(ctx context.Context) (interfaces.ArtifactStore, error) {
	if x.gcsBucket != "" {
		return gcs.New(ctx, x.gcsBucket, x.gcsPrefix)
	}
	if x.dir == "" {
		return nil, goerr.Wrap(types.ErrInvalidOption, "artifact-dir or gcs-bucket is required")
	}
	return fs.New(x.dir)
}

func (x *Storage) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("dir", x.dir),
		slog.String("gcsBucket", x.gcsBucket),
		slog.String("gcsPrefix", x.gcsPrefix),
	)
}
