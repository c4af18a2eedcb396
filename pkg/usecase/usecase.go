package usecase

import (
	"time"

	"github.com/m-mizutani/cistudy/pkg/analysis"
	"github.com/m-mizutani/cistudy/pkg/ciusage"
	"github.com/m-mizutani/cistudy/pkg/infra"
)

const (
	DefaultWorkflowPartitions      = 1500
	DefaultContentPartitions       = 100
	DefaultDefaultBranchPartitions = 60

	DefaultRunsPerWorkflow = 500
	DefaultMinRuns         = 100
	DefaultCoverageWindow  = 7 * 24 * time.Hour
)

type UseCase struct {
	clients  *infra.Clients
	detector *ciusage.Detector

	workflowPartitions int
	contentPartitions  int
	branchPartitions   int

	runsPerWorkflow int
	minRuns         int

	coverageWindow         time.Duration
	buildDurationThreshold time.Duration

	showProgress bool
}

type Option func(*UseCase)

// WithPartitions sets the number of batches of workflow listing, workflow content and default branch queries
func WithPartitions(workflows, contents, branches int) Option {
	return func(x *UseCase) {
		x.workflowPartitions = workflows
		x.contentPartitions = contents
		x.branchPartitions = branches
	}
}

// WithRunsPerWorkflow sets how many recent runs are fetched per workflow
func WithRunsPerWorkflow(n int) Option {
	return func(x *UseCase) {
		x.runsPerWorkflow = n
	}
}

// WithMinRuns sets how many runs a workflow needs to survive stage 6
func WithMinRuns(n int) Option {
	return func(x *UseCase) {
		x.minRuns = n
	}
}

func WithCoverageWindow(d time.Duration) Option {
	return func(x *UseCase) {
		x.coverageWindow = d
	}
}

func WithBuildDurationThreshold(d time.Duration) Option {
	return func(x *UseCase) {
		x.buildDurationThreshold = d
	}
}

func WithDetector(d *ciusage.Detector) Option {
	return func(x *UseCase) {
		x.detector = d
	}
}

// WithProgressBar draws a progress bar on stderr for batch and per-workflow loops
func WithProgressBar(enabled bool) Option {
	return func(x *UseCase) {
		x.showProgress = enabled
	}
}

func New(clients *infra.Clients, options ...Option) *UseCase {
	uc := &UseCase{
		clients:                clients,
		detector:               ciusage.New(ciusage.NewDefaultMatcher()),
		workflowPartitions:     DefaultWorkflowPartitions,
		contentPartitions:      DefaultContentPartitions,
		branchPartitions:       DefaultDefaultBranchPartitions,
		runsPerWorkflow:        DefaultRunsPerWorkflow,
		minRuns:                DefaultMinRuns,
		coverageWindow:         DefaultCoverageWindow,
		buildDurationThreshold: analysis.DefaultBuildDurationThreshold,
	}

	for _, opt := range options {
		opt(uc)
	}

	return uc
}
