package fs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/m-mizutani/cistudy/pkg/domain/interfaces"
	"github.com/m-mizutani/cistudy/pkg/repository"
	"github.com/m-mizutani/cistudy/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

type artifactStore struct {
	root string
}

var _ interfaces.ArtifactStore = (*artifactStore)(nil)

// New creates an artifact store rooted at dir. The directory is created if it does not exist.
func New(dir string) (interfaces.ArtifactStore, error) {
	if dir == "" {
		return nil, goerr.Wrap(repository.ErrInvalidInput, "data directory is empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, goerr.Wrap(err, "failed to create data directory", goerr.V("dir", dir))
	}

	return &artifactStore{root: filepath.Clean(dir)}, nil
}

func (x *artifactStore) path(name string) (string, error) {
	if err := repository.ValidateName(name); err != nil {
		return "", err
	}
	return filepath.Join(x.root, filepath.FromSlash(name)), nil
}

func (x *artifactStore) Exists(ctx context.Context, name string) (bool, error) {
	p, err := x.path(name)
	if err != nil {
		return false, err
	}

	st, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, goerr.Wrap(err, "failed to stat artifact", goerr.V("name", name))
	}
	return !st.IsDir(), nil
}

func (x *artifactStore) Load(ctx context.Context, name string) ([]byte, error) {
	p, err := x.path(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(repository.ErrNotFound, "artifact not found", goerr.V("name", name))
		}
		return nil, goerr.Wrap(err, "failed to read artifact", goerr.V("name", name))
	}
	return data, nil
}

// Save writes into a temporary file and renames it, so an interrupted run never leaves a partial artifact
func (x *artifactStore) Save(ctx context.Context, name string, data []byte) error {
	p, err := x.path(name)
	if err != nil {
		return err
	}

	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return goerr.Wrap(err, "failed to create artifact directory", goerr.V("dir", dir))
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return goerr.Wrap(err, "failed to create temporary file", goerr.V("dir", dir))
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		safe.Close(tmp)
		safe.Remove(tmpName)
		return goerr.Wrap(err, "failed to write artifact", goerr.V("name", name))
	}
	if err := tmp.Close(); err != nil {
		safe.Remove(tmpName)
		return goerr.Wrap(err, "failed to close artifact", goerr.V("name", name))
	}
	if err := os.Rename(tmpName, p); err != nil {
		safe.Remove(tmpName)
		return goerr.Wrap(err, "failed to rename artifact", goerr.V("name", name))
	}

	return nil
}

func (x *artifactStore) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(x.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".tmp-") {
			return nil
		}

		rel, err := filepath.Rel(x.root, p)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list artifacts", goerr.V("prefix", prefix))
	}

	sort.Strings(names)
	return names, nil
}
