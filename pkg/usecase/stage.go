package usecase

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/m-mizutani/cistudy/pkg/domain/types"
	"github.com/m-mizutani/cistudy/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	progress "gopkg.in/cheggaaa/pb.v1"
)

// stage is a resumable pipeline step. It is a no-op when every output already exists, and it never
// starts while one of its inputs is missing.
type stage struct {
	name    string
	inputs  []string
	outputs []string
	run     func(ctx context.Context) error
}

func (x *UseCase) runStage(ctx context.Context, s stage) error {
	store := x.clients.Artifacts()
	if store == nil {
		return goerr.Wrap(types.ErrInvalidOption, "artifact store is not configured")
	}
	logger := logging.From(ctx).With(slog.String("stage", s.name))

	done := len(s.outputs) > 0
	for _, name := range s.outputs {
		found, err := exists(ctx, store, name)
		if err != nil {
			return err
		}
		if !found {
			done = false
			break
		}
	}
	if done {
		logger.Info("Outputs already exist, skipping", slog.String("outputs", strings.Join(s.outputs, ",")))
		return nil
	}

	var missing []string
	for _, name := range s.inputs {
		found, err := exists(ctx, store, name)
		if err != nil {
			return err
		}
		if !found {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return goerr.Wrap(types.ErrMissingArtifact, "inputs of stage are missing",
			goerr.V("stage", s.name),
			goerr.V("missing", missing),
		)
	}

	logger.Info("Starting stage")
	if err := s.run(logging.With(ctx, logger)); err != nil {
		return goerr.Wrap(err, "stage failed", goerr.V("stage", s.name))
	}
	logger.Info("Done stage")

	return nil
}

type progressBar struct {
	bar *progress.ProgressBar
}

func (x *UseCase) newProgress(prefix string, total int) *progressBar {
	if !x.showProgress || total == 0 {
		return &progressBar{}
	}

	bar := progress.New(total)
	bar.Callback = func(msg string) {
		_, _ = os.Stderr.WriteString("\033[2K\r" + msg)
	}
	bar.NotPrint = true
	bar.ShowSpeed = false
	bar.Prefix(prefix + " ")
	bar.SetMaxWidth(80).Start()
	return &progressBar{bar: bar}
}

func (x *progressBar) Increment() {
	if x.bar != nil {
		x.bar.Increment()
	}
}

func (x *progressBar) Finish() {
	if x.bar != nil {
		x.bar.Finish()
		_, _ = os.Stderr.WriteString("\n")
	}
}
