package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/m-mizutani/cistudy/pkg/domain/types"
	"github.com/m-mizutani/cistudy/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// partition splits items into at most n contiguous batches whose sizes differ by at most one. Larger
// batches come first and empty batches are omitted.
func partition[T any](items []T, n int) [][]T {
	if n < 1 {
		n = 1
	}
	if n > len(items) {
		n = len(items)
	}

	parts := make([][]T, 0, n)
	size, rest := 0, 0
	if n > 0 {
		size, rest = len(items)/n, len(items)%n
	}

	start := 0
	for i := 0; i < n; i++ {
		end := start + size
		if i < rest {
			end++
		}
		parts = append(parts, items[start:end])
		start = end
	}

	return parts
}

// batchJob runs fetch for every batch whose split artifact does not exist yet and saves the result as
// that artifact. A batch that exhausted its retries is left without artifact so that a rerun picks it
// up; the job then fails with types.ErrIncompleteBatch after trying every other batch.
type batchJob[T any, R any] struct {
	name     string
	batches  [][]T
	artifact func(i int) string
	fetch    func(ctx context.Context, batch []T) (R, error)
}

func runBatches[T any, R any](ctx context.Context, x *UseCase, job batchJob[T, R]) ([]string, error) {
	store := x.clients.Artifacts()
	logger := logging.From(ctx)
	bar := x.newProgress(job.name, len(job.batches))
	defer bar.Finish()

	names := make([]string, 0, len(job.batches))
	var incomplete []int

	for i, batch := range job.batches {
		name := job.artifact(i)
		names = append(names, name)

		found, err := exists(ctx, store, name)
		if err != nil {
			return nil, err
		}
		if found {
			logger.Debug("Batch already fetched", slog.String("artifact", name))
			bar.Increment()
			continue
		}

		logger.Info("Fetching batch",
			slog.String("job", job.name),
			slog.Int("progress", i+1),
			slog.Int("total", len(job.batches)),
			slog.Int("size", len(batch)),
		)

		result, err := job.fetch(ctx, batch)
		if err != nil {
			if errors.Is(err, types.ErrRetryExhausted) {
				logger.Warn("Batch did not complete, leaving it for the next run",
					slog.String("artifact", name),
					slog.Any("error", err),
				)
				incomplete = append(incomplete, i)
				bar.Increment()
				continue
			}
			return nil, goerr.Wrap(err, "failed to fetch batch", goerr.V("job", job.name), goerr.V("batch", i))
		}

		if err := saveJSON(ctx, store, name, result); err != nil {
			return nil, err
		}
		bar.Increment()
	}

	if len(incomplete) > 0 {
		return nil, goerr.Wrap(types.ErrIncompleteBatch, "some batches did not complete",
			goerr.V("job", job.name),
			goerr.V("incomplete", len(incomplete)),
			goerr.V("total", len(job.batches)),
			goerr.V("batches", incomplete),
		)
	}

	return names, nil
}
