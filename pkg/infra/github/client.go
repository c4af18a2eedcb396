package github

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/go-github/v53/github"
	"github.com/google/uuid"
	"github.com/m-mizutani/cistudy/pkg/domain/interfaces"
	"github.com/m-mizutani/cistudy/pkg/domain/model"
	"github.com/m-mizutani/cistudy/pkg/domain/types"
	"github.com/m-mizutani/cistudy/pkg/infra/gateway"
	"github.com/m-mizutani/cistudy/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

const (
	DefaultBaseURL    = "https://api.github.com"
	DefaultGraphQLURL = "https://api.github.com/graphql"

	// MaxRunsPerPage is the page size limit of the workflow runs API
	MaxRunsPerPage = 100

	workflowDir = ".github/workflows"
)

type Client struct {
	gw         *gateway.Gateway
	baseURL    string
	graphqlURL string
}

var _ interfaces.GitHub = (*Client)(nil)

type Option func(*Client)

// WithBaseURL sets the REST API root, e.g. "https://api.github.com"
func WithBaseURL(baseURL string) Option {
	return func(x *Client) {
		x.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

func WithGraphQLURL(graphqlURL string) Option {
	return func(x *Client) {
		x.graphqlURL = graphqlURL
	}
}

func New(gw *gateway.Gateway, options ...Option) *Client {
	client := &Client{
		gw:         gw,
		baseURL:    DefaultBaseURL,
		graphqlURL: DefaultGraphQLURL,
	}

	for _, opt := range options {
		opt(client)
	}

	return client
}

type graphQLRequest struct {
	Query string `json:"query"`
}

func repositorySelector(p *model.Project) string {
	return fmt.Sprintf("repository(owner: %s, name: %s)", strconv.Quote(p.Owner()), strconv.Quote(p.RepoName()))
}

func buildQuery(fields []string) graphQLRequest {
	return graphQLRequest{Query: "query {\n" + strings.Join(fields, "\n") + "\n}"}
}

// responseArtifact names the raw response of a query when the gateway records responses
func responseArtifact(kind string) string {
	return "responses/" + kind + "/" + uuid.NewString() + ".json"
}

func (x *Client) query(ctx context.Context, kind string, fields []string) (map[string]json.RawMessage, error) {
	data, err := x.gw.PostQuery(ctx, x.graphqlURL, buildQuery(fields), gateway.SaveAs(responseArtifact(kind)))
	if err != nil {
		return nil, err
	}

	var aliases map[string]json.RawMessage
	if err := json.Unmarshal(data, &aliases); err != nil {
		return nil, goerr.Wrap(types.ErrInvalidResponse, "query data is not an object")
	}
	return aliases, nil
}

// BuildWorkflowListQuery returns one aliased sub-query per project requesting its workflow directory entries
func BuildWorkflowListQuery(projects model.Projects) []string {
	fields := make([]string, 0, len(projects))
	for _, p := range projects {
		fields = append(fields, fmt.Sprintf(
			`%s: %s { object(expression: "HEAD:%s") { ... on Tree { entries { name type } } } }`,
			p.RepoID.Key(), repositorySelector(p), workflowDir,
		))
	}
	return fields
}

type treeResult struct {
	Object *struct {
		Entries []struct {
			Name string `json:"name"`
			Type string `json:"type"`
		} `json:"entries"`
	} `json:"object"`
}

// ListWorkflowFiles returns the workflow filenames of each project. Projects that are missing or have no
// workflow file are left out.
func (x *Client) ListWorkflowFiles(ctx context.Context, projects model.Projects) (model.WorkflowFilenameIndex, error) {
	index := make(model.WorkflowFilenameIndex)
	if len(projects) == 0 {
		return index, nil
	}

	aliases, err := x.query(ctx, "workflow_files", BuildWorkflowListQuery(projects))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list workflow files", goerr.V("projects", len(projects)))
	}

	for key, raw := range aliases {
		id, err := types.ParseRepoKey(key)
		if err != nil {
			logging.From(ctx).Warn("ignored unexpected alias", slog.String("alias", key))
			continue
		}

		var repo *treeResult
		if err := json.Unmarshal(raw, &repo); err != nil {
			return nil, goerr.Wrap(types.ErrInvalidResponse, "invalid repository object", goerr.V("alias", key))
		}
		if repo == nil || repo.Object == nil {
			continue
		}

		var files []model.WorkflowFile
		for _, entry := range repo.Object.Entries {
			if entry.Type != "" && entry.Type != "blob" {
				continue
			}
			files = append(files, model.WorkflowFile{Name: entry.Name})
		}
		if len(files) > 0 {
			index[id] = files
		}
	}

	return index, nil
}

// BuildWorkflowContentQuery returns one aliased sub-query per workflow requesting the blob text
func BuildWorkflowContentQuery(projects model.Projects, refs []model.WorkflowRef) []string {
	byID := make(map[types.RepoID]*model.Project, len(projects))
	for _, p := range projects {
		byID[p.RepoID] = p
	}

	fields := make([]string, 0, len(refs))
	for _, ref := range refs {
		p, ok := byID[ref.RepoID]
		if !ok {
			continue
		}
		fields = append(fields, fmt.Sprintf(
			`%s: %s { object(expression: %s) { ... on Blob { text } } }`,
			ref.String(), repositorySelector(p), strconv.Quote("HEAD:"+workflowDir+"/"+ref.Name),
		))
	}
	return fields
}

type blobResult struct {
	Object *struct {
		Text *string `json:"text"`
	} `json:"object"`
}

// GetWorkflowContents returns YAML text keyed by workflow. The filename is not part of the response; the
// caller recovers it from the key.
func (x *Client) GetWorkflowContents(ctx context.Context, projects model.Projects, refs []model.WorkflowRef) (map[model.WorkflowKey]string, error) {
	texts := make(map[model.WorkflowKey]string)
	fields := BuildWorkflowContentQuery(projects, refs)
	if len(fields) == 0 {
		return texts, nil
	}

	aliases, err := x.query(ctx, "workflow_contents", fields)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get workflow contents", goerr.V("workflows", len(fields)))
	}

	for key, raw := range aliases {
		id, idx, err := types.ParseWorkflowKey(key)
		if err != nil {
			logging.From(ctx).Warn("ignored unexpected alias", slog.String("alias", key))
			continue
		}

		var blob *blobResult
		if err := json.Unmarshal(raw, &blob); err != nil {
			return nil, goerr.Wrap(types.ErrInvalidResponse, "invalid blob object", goerr.V("alias", key))
		}
		if blob == nil || blob.Object == nil || blob.Object.Text == nil {
			continue
		}

		texts[model.WorkflowKey{RepoID: id, Index: idx}] = *blob.Object.Text
	}

	return texts, nil
}

// BuildDefaultBranchQuery returns one aliased sub-query per project requesting its default branch name
func BuildDefaultBranchQuery(projects model.Projects) []string {
	fields := make([]string, 0, len(projects))
	for _, p := range projects {
		fields = append(fields, fmt.Sprintf(
			`%s: %s { defaultBranchRef { name } }`,
			p.RepoID.Key(), repositorySelector(p),
		))
	}
	return fields
}

type branchResult struct {
	DefaultBranchRef *struct {
		Name string `json:"name"`
	} `json:"defaultBranchRef"`
}

// GetDefaultBranches resolves default branches. Projects without one are left out.
func (x *Client) GetDefaultBranches(ctx context.Context, projects model.Projects) (model.DefaultBranchMap, error) {
	branches := make(model.DefaultBranchMap)
	if len(projects) == 0 {
		return branches, nil
	}

	aliases, err := x.query(ctx, "default_branches", BuildDefaultBranchQuery(projects))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get default branches", goerr.V("projects", len(projects)))
	}

	for key, raw := range aliases {
		id, err := types.ParseRepoKey(key)
		if err != nil {
			logging.From(ctx).Warn("ignored unexpected alias", slog.String("alias", key))
			continue
		}

		var repo *branchResult
		if err := json.Unmarshal(raw, &repo); err != nil {
			return nil, goerr.Wrap(types.ErrInvalidResponse, "invalid repository object", goerr.V("alias", key))
		}
		if repo == nil || repo.DefaultBranchRef == nil || repo.DefaultBranchRef.Name == "" {
			continue
		}

		branches[id] = types.BranchName(repo.DefaultBranchRef.Name)
	}

	return branches, nil
}

// ListWorkflowRuns returns up to MaxRuns most recent push runs of the workflow on the branch, excluding
// runs triggered by pull requests.
func (x *Client) ListWorkflowRuns(ctx context.Context, input *interfaces.ListWorkflowRunsInput) (model.WorkflowRuns, error) {
	if input == nil || input.Owner == "" || input.Repo == "" || input.Workflow == "" {
		return nil, goerr.Wrap(types.ErrInvalidOption, "owner, repo and workflow are required")
	}
	if input.MaxRuns < 1 {
		return nil, goerr.Wrap(types.ErrInvalidOption, "max runs must be positive", goerr.V("max_runs", input.MaxRuns))
	}

	perPage := min(input.MaxRuns, MaxRunsPerPage)
	maxPages := (input.MaxRuns + perPage - 1) / perPage

	endpoint := fmt.Sprintf("%s/repos/%s/%s/actions/workflows/%s/runs",
		x.baseURL,
		url.PathEscape(input.Owner),
		url.PathEscape(input.Repo),
		url.PathEscape(input.Workflow),
	)
	params := url.Values{
		"event":                 {"push"},
		"exclude_pull_requests": {"true"},
	}
	if input.Branch != "" {
		params.Set("branch", input.Branch.String())
	}

	items, err := x.gw.FetchPaged(ctx, endpoint, params, gateway.PageOptions{
		PerPage:   perPage,
		MaxPages:  maxPages,
		ResultKey: "workflow_runs",
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list workflow runs",
			goerr.V("owner", input.Owner),
			goerr.V("repo", input.Repo),
			goerr.V("workflow", input.Workflow),
		)
	}

	runs := make(model.WorkflowRuns, 0, len(items))
	for _, item := range items {
		var run github.WorkflowRun
		if err := json.Unmarshal(item, &run); err != nil {
			return nil, goerr.Wrap(types.ErrInvalidResponse, "invalid workflow run", goerr.V("workflow", input.Workflow))
		}
		runs = append(runs, &run)
	}
	if len(runs) > input.MaxRuns {
		runs = runs[:input.MaxRuns]
	}

	return runs, nil
}
