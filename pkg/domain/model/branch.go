package model

import (
	"github.com/m-mizutani/cistudy/pkg/domain/types"
)

// DefaultBranchMap holds the resolved default branch of each project
type DefaultBranchMap map[types.RepoID]types.BranchName

// Merge copies src into x and returns projects that were already present
func (x DefaultBranchMap) Merge(src DefaultBranchMap) []types.RepoID {
	var dups []types.RepoID
	for _, id := range sortedRepoIDs(src) {
		if _, ok := x[id]; ok {
			dups = append(dups, id)
		}
		x[id] = src[id]
	}
	return dups
}

// Has returns true if a non-empty default branch is known for the project
func (x DefaultBranchMap) Has(id types.RepoID) bool {
	return x[id] != ""
}
