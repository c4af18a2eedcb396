package testhelper

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/m-mizutani/cistudy/pkg/domain/interfaces"
	"github.com/m-mizutani/cistudy/pkg/repository"
	"github.com/m-mizutani/gt"
)

// TestAll runs all test cases for ArtifactStore
// This is the main entry point for testing any ArtifactStore implementation
func TestAll(t *testing.T, store interfaces.ArtifactStore) {
	t.Run("SaveAndLoad", func(t *testing.T) {
		TestSaveAndLoad(t, store)
	})
	t.Run("Overwrite", func(t *testing.T) {
		TestOverwrite(t, store)
	})
	t.Run("NotFound", func(t *testing.T) {
		TestNotFound(t, store)
	})
	t.Run("ListByPrefix", func(t *testing.T) {
		TestListByPrefix(t, store)
	})
	t.Run("InvalidName", func(t *testing.T) {
		TestInvalidName(t, store)
	})
}

func uniqueDir() string {
	return fmt.Sprintf("test-%s", uuid.New().String()[:8])
}

// TestSaveAndLoad tests that a saved artifact exists and can be loaded
func TestSaveAndLoad(t *testing.T, store interfaces.ArtifactStore) {
	ctx := context.Background()
	name := uniqueDir() + "/projects_stage_0.csv"

	exists, err := store.Exists(ctx, name)
	gt.NoError(t, err)
	gt.False(t, exists)

	gt.NoError(t, store.Save(ctx, name, []byte("1,url\n")))

	exists, err = store.Exists(ctx, name)
	gt.NoError(t, err)
	gt.True(t, exists)

	data, err := store.Load(ctx, name)
	gt.NoError(t, err)
	gt.V(t, string(data)).Equal("1,url\n")
}

// TestOverwrite tests that saving the same name replaces the content
func TestOverwrite(t *testing.T, store interfaces.ArtifactStore) {
	ctx := context.Background()
	name := uniqueDir() + "/default_branches.json"

	gt.NoError(t, store.Save(ctx, name, []byte(`{"1":"main"}`)))
	gt.NoError(t, store.Save(ctx, name, []byte(`{"1":"master"}`)))

	data, err := store.Load(ctx, name)
	gt.NoError(t, err)
	gt.V(t, string(data)).Equal(`{"1":"master"}`)
}

// TestNotFound tests that loading a missing artifact returns ErrNotFound
func TestNotFound(t *testing.T, store interfaces.ArtifactStore) {
	ctx := context.Background()

	_, err := store.Load(ctx, uniqueDir()+"/missing.json")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, repository.ErrNotFound))
}

// TestListByPrefix tests that List returns sorted names with the prefix only
func TestListByPrefix(t *testing.T, store interfaces.ArtifactStore) {
	ctx := context.Background()
	dir := uniqueDir()

	for _, name := range []string{
		dir + "/workflow_runs/repo2_workflow0.json",
		dir + "/workflow_runs/repo1_workflow1.json",
		dir + "/workflow_runs/repo1_workflow0.json",
		dir + "/project_coverage/repo1.json",
	} {
		gt.NoError(t, store.Save(ctx, name, []byte("[]")))
	}

	names, err := store.List(ctx, dir+"/workflow_runs/")
	gt.NoError(t, err)
	gt.A(t, names).Equal([]string{
		dir + "/workflow_runs/repo1_workflow0.json",
		dir + "/workflow_runs/repo1_workflow1.json",
		dir + "/workflow_runs/repo2_workflow0.json",
	})

	names, err = store.List(ctx, dir+"/nothing/")
	gt.NoError(t, err)
	gt.A(t, names).Length(0)
}

// TestInvalidName tests that names escaping the store are rejected
func TestInvalidName(t *testing.T, store interfaces.ArtifactStore) {
	ctx := context.Background()

	for _, name := range []string{"", "/abs.json", "../escape.json", "a/../../b.json"} {
		err := store.Save(ctx, name, []byte("x"))
		gt.Error(t, err)
		gt.True(t, errors.Is(err, repository.ErrInvalidInput))
	}
}
