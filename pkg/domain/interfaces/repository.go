package interfaces

import (
	"context"
)

//go:generate moq -out ../mock/artifact_store_mock.go -pkg mock . ArtifactStore

// ArtifactStore persists stage artifacts by name. Names are slash separated relative paths.
type ArtifactStore interface {
	Exists(ctx context.Context, name string) (bool, error)
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
	List(ctx context.Context, prefix string) ([]string, error)
}
