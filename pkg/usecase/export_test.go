package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/cistudy/pkg/domain/interfaces"
	"github.com/m-mizutani/cistudy/pkg/domain/model"
	"github.com/m-mizutani/cistudy/pkg/domain/types"
)

// Export unexported functions for testing
var (
	PartitionForTest                   = partition[int]
	LoadProjectsForTest                = loadProjects
	SaveProjectsForTest                = saveProjects
	LoadJSONForTest                    = loadJSON
	SaveJSONForTest                    = saveJSON
	CreateOrUpdateBigQueryTableForTest = createOrUpdateBigQueryTable
)

const (
	MemberCountsArtifact     = memberCountsArtifact
	WorkflowsStage3Artifact  = workflowsStage3Artifact
	WorkflowsStage4Artifact  = workflowsStage4Artifact
	WorkflowsStage6Artifact  = workflowsStage6Artifact
	DefaultBranchesArtifact  = defaultBranchesArtifact
	LanguageCoverageArtifact = languageCoverageArtifact
	MaxCoveragePages         = maxCoveragePages
)

var (
	ProjectsArtifact        = projectsArtifact
	WorkflowsStage3Split    = workflowsStage3Split
	WorkflowRunsArtifact    = workflowRunsArtifact
	ProjectCoverageArtifact = projectCoverageArtifact
	ResultArtifact          = resultArtifact
)

func FindCoverageForTest(ctx context.Context, client interfaces.Coveralls, owner, repo string, branch types.BranchName, latest time.Time, window time.Duration) (*model.CoverallsBuild, error) {
	return findCoverage(ctx, client, coverageSearch{
		owner:  owner,
		repo:   repo,
		branch: branch,
		latest: latest,
		window: window,
	})
}
