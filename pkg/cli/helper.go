package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/cistudy/pkg/cli/config"
	"github.com/m-mizutani/cistudy/pkg/infra"
	"github.com/m-mizutani/cistudy/pkg/usecase"
	"github.com/m-mizutani/cistudy/pkg/utils/logging"
	"github.com/m-mizutani/gots/slice"
	"github.com/urfave/cli/v3"
)

// settings is the configuration shared by every pipeline command
type settings struct {
	storage   config.Storage
	dataset   config.Dataset
	github    config.GitHub
	coveralls config.Coveralls
	bigQuery  config.BigQuery
	pipeline  config.Pipeline
	sentry    config.Sentry
}

func (x *settings) Flags() []cli.Flag {
	return slice.Flatten(
		x.storage.Flags(),
		x.dataset.Flags(),
		x.github.Flags(),
		x.coveralls.Flags(),
		x.bigQuery.Flags(),
		x.pipeline.Flags(),
		x.sentry.Flags(),
	)
}

func (x *settings) newUseCase(ctx context.Context) (*usecase.UseCase, error) {
	logging.From(ctx).Info("starting cistudy",
		slog.Any("Storage", &x.storage),
		slog.Any("Dataset", &x.dataset),
		slog.Any("GitHub", &x.github),
		slog.Any("Coveralls", &x.coveralls),
		slog.Any("BigQuery", &x.bigQuery),
		slog.Any("Pipeline", &x.pipeline),
		slog.Any("Sentry", &x.sentry),
	)

	if err := x.sentry.Configure(ctx); err != nil {
		return nil, err
	}

	store, err := x.storage.New(ctx)
	if err != nil {
		return nil, err
	}

	gh, err := x.github.New(ctx, store)
	if err != nil {
		return nil, err
	}

	infraOptions := []infra.Option{
		infra.WithArtifacts(store),
		infra.WithGitHub(gh),
		infra.WithCoveralls(x.coveralls.New()),
	}

	if dataset, err := x.dataset.New(); err != nil {
		return nil, err
	} else if dataset != nil {
		infraOptions = append(infraOptions, infra.WithDataset(dataset))
	}

	if bqClient, err := x.bigQuery.NewClient(ctx); err != nil {
		return nil, err
	} else if bqClient != nil {
		infraOptions = append(infraOptions, infra.WithBigQuery(bqClient))
	}

	options, err := x.pipeline.Options()
	if err != nil {
		return nil, err
	}

	return usecase.New(infra.New(infraOptions...), options...), nil
}

// pipelineCommand builds a command that runs action with a fully configured usecase
func pipelineCommand(name, usage string, aliases []string, action func(ctx context.Context, uc *usecase.UseCase) error) *cli.Command {
	var s settings

	return &cli.Command{
		Name:    name,
		Aliases: aliases,
		Usage:   usage,
		Flags:   s.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := s.newUseCase(ctx)
			if err != nil {
				return err
			}
			return action(ctx, uc)
		},
	}
}
