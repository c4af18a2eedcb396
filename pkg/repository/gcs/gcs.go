package gcs

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/cistudy/pkg/domain/interfaces"
	"github.com/m-mizutani/cistudy/pkg/repository"
	"github.com/m-mizutani/cistudy/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

type artifactStore struct {
	client *storage.Client
	bucket string
	prefix string
}

var _ interfaces.ArtifactStore = (*artifactStore)(nil)

// New creates an artifact store on a GCS bucket. Artifacts are stored under prefix.
func New(ctx context.Context, bucket, prefix string, options ...option.ClientOption) (interfaces.ArtifactStore, error) {
	if bucket == "" {
		return nil, goerr.Wrap(repository.ErrInvalidInput, "bucket is empty")
	}

	client, err := storage.NewClient(ctx, options...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucket))
	}

	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	return &artifactStore{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}, nil
}

func (x *artifactStore) object(name string) (*storage.ObjectHandle, error) {
	if err := repository.ValidateName(name); err != nil {
		return nil, err
	}
	return x.client.Bucket(x.bucket).Object(x.prefix + name), nil
}

func (x *artifactStore) Exists(ctx context.Context, name string) (bool, error) {
	obj, err := x.object(name)
	if err != nil {
		return false, err
	}

	if _, err := obj.Attrs(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return false, nil
		}
		return false, goerr.Wrap(err, "failed to get object attributes", goerr.V("bucket", x.bucket), goerr.V("name", name))
	}
	return true, nil
}

func (x *artifactStore) Load(ctx context.Context, name string) ([]byte, error) {
	obj, err := x.object(name)
	if err != nil {
		return nil, err
	}

	r, err := obj.NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, goerr.Wrap(repository.ErrNotFound, "artifact not found", goerr.V("name", name))
		}
		return nil, goerr.Wrap(err, "failed to open object", goerr.V("bucket", x.bucket), goerr.V("name", name))
	}
	defer safe.Close(r)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read object", goerr.V("bucket", x.bucket), goerr.V("name", name))
	}
	return data, nil
}

func (x *artifactStore) Save(ctx context.Context, name string, data []byte) error {
	obj, err := x.object(name)
	if err != nil {
		return err
	}

	w := obj.NewWriter(ctx)
	w.ContentType = "application/octet-stream"
	if strings.HasSuffix(name, ".json") {
		w.ContentType = "application/json"
	}

	if _, err := w.Write(data); err != nil {
		safe.Close(w)
		return goerr.Wrap(err, "failed to write object", goerr.V("bucket", x.bucket), goerr.V("name", name))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to close object writer", goerr.V("bucket", x.bucket), goerr.V("name", name))
	}
	return nil
}

func (x *artifactStore) List(ctx context.Context, prefix string) ([]string, error) {
	it := x.client.Bucket(x.bucket).Objects(ctx, &storage.Query{Prefix: x.prefix + prefix})

	var names []string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list objects", goerr.V("bucket", x.bucket), goerr.V("prefix", prefix))
		}
		names = append(names, strings.TrimPrefix(attrs.Name, x.prefix))
	}

	sort.Strings(names)
	return names, nil
}
