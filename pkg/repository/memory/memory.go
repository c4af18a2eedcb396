package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/m-mizutani/cistudy/pkg/domain/interfaces"
	"github.com/m-mizutani/cistudy/pkg/repository"
	"github.com/m-mizutani/goerr/v2"
)

type artifactStore struct {
	mu    sync.RWMutex
	files map[string][]byte
}

var _ interfaces.ArtifactStore = (*artifactStore)(nil)

// New creates a new in-memory artifact store
func New() interfaces.ArtifactStore {
	return &artifactStore{
		files: make(map[string][]byte),
	}
}

func (r *artifactStore) Exists(ctx context.Context, name string) (bool, error) {
	if err := repository.ValidateName(name); err != nil {
		return false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.files[name]
	return ok, nil
}

func (r *artifactStore) Load(ctx context.Context, name string) ([]byte, error) {
	if err := repository.ValidateName(name); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	data, ok := r.files[name]
	if !ok {
		return nil, goerr.Wrap(repository.ErrNotFound, "artifact not found", goerr.V("name", name))
	}

	return append([]byte(nil), data...), nil
}

func (r *artifactStore) Save(ctx context.Context, name string, data []byte) error {
	if err := repository.ValidateName(name); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.files[name] = append([]byte(nil), data...)
	return nil
}

func (r *artifactStore) List(ctx context.Context, prefix string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for name := range r.files {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	return names, nil
}
