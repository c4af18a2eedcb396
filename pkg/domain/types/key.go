package types

import (
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

const (
	repoKeyPrefix     = "repo"
	workflowKeyPrefix = "workflow"
)

// Key returns the alias of the repository used in batched GraphQL queries and artifact names, e.g. "repo123".
func (x RepoID) Key() string {
	return repoKeyPrefix + x.String()
}

// WorkflowKey returns the alias of a workflow of the repository, e.g. "repo123workflow0".
func (x RepoID) WorkflowKey(idx WorkflowIndex) string {
	return x.Key() + workflowKeyPrefix + strconv.Itoa(int(idx))
}

// ParseRepoKey decodes "repo{id}".
func ParseRepoKey(key string) (RepoID, error) {
	if !strings.HasPrefix(key, repoKeyPrefix) {
		return 0, goerr.Wrap(ErrInvalidRecord, "repo key must start with prefix", goerr.V("key", key))
	}

	id, err := strconv.ParseInt(strings.TrimPrefix(key, repoKeyPrefix), 10, 64)
	if err != nil {
		return 0, goerr.Wrap(ErrInvalidRecord, "repo key has no numeric ID", goerr.V("key", key))
	}

	return RepoID(id), nil
}

// ParseWorkflowKey decodes "repo{id}workflow{idx}".
func ParseWorkflowKey(key string) (RepoID, WorkflowIndex, error) {
	repoPart, idxPart, ok := strings.Cut(key, workflowKeyPrefix)
	if !ok {
		return 0, 0, goerr.Wrap(ErrInvalidRecord, "workflow key has no workflow part", goerr.V("key", key))
	}

	repoID, err := ParseRepoKey(repoPart)
	if err != nil {
		return 0, 0, err
	}

	idx, err := strconv.Atoi(idxPart)
	if err != nil || idx < 0 {
		return 0, 0, goerr.Wrap(ErrInvalidRecord, "workflow key has invalid index", goerr.V("key", key))
	}

	return repoID, WorkflowIndex(idx), nil
}
