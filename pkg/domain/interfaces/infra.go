package interfaces

//go:generate moq -out ../mock/infra.go -pkg mock . BigQuery GitHub Coveralls Dataset

import (
	"context"

	"cloud.google.com/go/bigquery"

	"github.com/m-mizutani/cistudy/pkg/domain/model"
	"github.com/m-mizutani/cistudy/pkg/domain/types"
)

type BigQuery interface {
	Insert(ctx context.Context, data any) error

	GetMetadata(ctx context.Context) (*bigquery.TableMetadata, error)
	UpdateTable(ctx context.Context, md bigquery.TableMetadataToUpdate, eTag string) error
	CreateTable(ctx context.Context, md *bigquery.TableMetadata) error
}

// GitHub provides batched GraphQL lookups and REST run listings. Batch methods issue one request for
// the whole batch and fail with types.ErrRetryExhausted when the batch did not complete.
type GitHub interface {
	ListWorkflowFiles(ctx context.Context, projects model.Projects) (model.WorkflowFilenameIndex, error)
	GetWorkflowContents(ctx context.Context, projects model.Projects, refs []model.WorkflowRef) (map[model.WorkflowKey]string, error)
	GetDefaultBranches(ctx context.Context, projects model.Projects) (model.DefaultBranchMap, error)
	ListWorkflowRuns(ctx context.Context, input *ListWorkflowRunsInput) (model.WorkflowRuns, error)
}

type ListWorkflowRunsInput struct {
	Owner    string
	Repo     string
	Workflow string
	Branch   types.BranchName
	MaxRuns  int
}

// Coveralls returns one page of the reverse-chronological build list. A missing repository yields an empty page.
type Coveralls interface {
	ListBuilds(ctx context.Context, owner, repo string, page int) (*model.CoverallsPage, error)
}

// Dataset streams records of the source dataset
type Dataset interface {
	Projects(ctx context.Context, fn func(p *model.Project) error) error
	Memberships(ctx context.Context, fn func(m *model.Membership) error) error
}
