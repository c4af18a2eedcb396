package ghtorrent

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/m-mizutani/cistudy/pkg/domain/interfaces"
	"github.com/m-mizutani/cistudy/pkg/domain/model"
	"github.com/m-mizutani/cistudy/pkg/domain/types"
	"github.com/m-mizutani/cistudy/pkg/utils/logging"
	"github.com/m-mizutani/cistudy/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

const (
	DefaultProjectSplits = 10

	membersFileName = "project_members.csv"
)

// ProjectFileName returns the name of the i-th project split of the dump
func ProjectFileName(i int) string {
	return fmt.Sprintf("projects_split%d.csv", i)
}

// Dataset reads a GHTorrent dump directory holding projects_split{i}.csv and project_members.csv
type Dataset struct {
	root   string
	splits int
}

var _ interfaces.Dataset = (*Dataset)(nil)

type Option func(*Dataset)

// WithProjectSplits sets how many project split files are read
func WithProjectSplits(n int) Option {
	return func(x *Dataset) {
		x.splits = n
	}
}

func New(root string, options ...Option) (*Dataset, error) {
	if root == "" {
		return nil, goerr.Wrap(types.ErrInvalidOption, "dataset root is empty")
	}

	ds := &Dataset{
		root:   root,
		splits: DefaultProjectSplits,
	}
	for _, opt := range options {
		opt(ds)
	}

	if ds.splits < 1 {
		return nil, goerr.Wrap(types.ErrInvalidOption, "project splits must be positive", goerr.V("splits", ds.splits))
	}

	return ds, nil
}

// Projects streams every parsable project record of all split files. Malformed records are skipped
// with a warning.
func (x *Dataset) Projects(ctx context.Context, fn func(p *model.Project) error) error {
	for i := 0; i < x.splits; i++ {
		path := filepath.Join(x.root, ProjectFileName(i))
		logging.From(ctx).Info("Reading projects", slog.String("path", path),
			slog.Int("progress", i+1),
			slog.Int("total", x.splits),
		)

		err := readRecords(ctx, path, func(record []string) error {
			p, err := model.ParseProject(record)
			if err != nil {
				return err
			}
			return fn(p)
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// Memberships streams every parsable record of project_members.csv
func (x *Dataset) Memberships(ctx context.Context, fn func(m *model.Membership) error) error {
	path := filepath.Join(x.root, membersFileName)
	logging.From(ctx).Info("Reading project members", slog.String("path", path))

	return readRecords(ctx, path, func(record []string) error {
		m, err := model.ParseMembership(record)
		if err != nil {
			return err
		}
		return fn(m)
	})
}

func readRecords(ctx context.Context, path string, fn func(record []string) error) error {
	fd, err := os.Open(filepath.Clean(path))
	if err != nil {
		return goerr.Wrap(err, "failed to open dataset file", goerr.V("path", path))
	}
	defer safe.Close(fd)

	r := csv.NewReader(fd)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = true

	var read, skipped int
	for {
		if err := ctx.Err(); err != nil {
			return goerr.Wrap(err, "reading dataset canceled", goerr.V("path", path))
		}

		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				skipped++
				logging.From(ctx).Warn("skipped unreadable line", slog.String("path", path), slog.Any("error", err))
				continue
			}
			return goerr.Wrap(err, "failed to read dataset file", goerr.V("path", path))
		}
		read++

		if err := fn(record); err != nil {
			if errors.Is(err, types.ErrInvalidRecord) {
				skipped++
				logging.From(ctx).Warn("skipped malformed record", slog.String("path", path), slog.Any("error", err))
				continue
			}
			return err
		}
	}

	logging.From(ctx).Info("Read dataset file",
		slog.String("path", path),
		slog.Int("records", read),
		slog.Int("skipped", skipped),
	)

	return nil
}
