package model

import (
	"time"

	"github.com/google/go-github/v53/github"
	"github.com/m-mizutani/cistudy/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

const (
	RunStatusCompleted  = "completed"
	ConclusionSuccess   = "success"
	runMissingFieldsMsg = "workflow run lacks required fields"
)

// WorkflowRuns is the run history of one workflow as returned by the GitHub API
type WorkflowRuns []*github.WorkflowRun

// RunOutcome is the subset of a completed workflow run used by the analyses
type RunOutcome struct {
	RunID           int64
	Conclusion      string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CommitID        string
	CommitTimestamp time.Time
	HeadSHA         types.CommitSHA
}

// Succeeded returns true only for the "success" conclusion. Every other conclusion is a failure.
func (x *RunOutcome) Succeeded() bool {
	return x.Conclusion == ConclusionSuccess
}

// IsCompleted returns true if the run has finished
func IsCompleted(run *github.WorkflowRun) bool {
	return run.GetStatus() == RunStatusCompleted
}

// NewRunOutcome extracts a RunOutcome. It fails with ErrInvalidRecord when a required field is missing.
func NewRunOutcome(run *github.WorkflowRun) (*RunOutcome, error) {
	if run == nil {
		return nil, goerr.Wrap(types.ErrInvalidRecord, "workflow run is nil")
	}

	var missing []string
	if run.Conclusion == nil {
		missing = append(missing, "conclusion")
	}
	if run.CreatedAt == nil {
		missing = append(missing, "created_at")
	}
	if run.UpdatedAt == nil {
		missing = append(missing, "updated_at")
	}
	if run.HeadSHA == nil {
		missing = append(missing, "head_sha")
	}
	if run.HeadCommit == nil || run.HeadCommit.Timestamp == nil {
		missing = append(missing, "head_commit.timestamp")
	}
	if run.HeadCommit == nil || run.HeadCommit.ID == nil {
		missing = append(missing, "head_commit.id")
	}

	if len(missing) > 0 {
		return nil, goerr.Wrap(types.ErrInvalidRecord, runMissingFieldsMsg,
			goerr.V("run_id", run.GetID()),
			goerr.V("missing", missing),
		)
	}

	return &RunOutcome{
		RunID:           run.GetID(),
		Conclusion:      run.GetConclusion(),
		CreatedAt:       run.GetCreatedAt().Time,
		UpdatedAt:       run.GetUpdatedAt().Time,
		CommitID:        run.GetHeadCommit().GetID(),
		CommitTimestamp: run.GetHeadCommit().GetTimestamp().Time,
		HeadSHA:         types.CommitSHA(run.GetHeadSHA()),
	}, nil
}
