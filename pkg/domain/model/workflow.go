package model

import (
	"path"
	"sort"
	"strings"

	"github.com/m-mizutani/cistudy/pkg/domain/types"
)

// WorkflowFile is an entry of a .github/workflows directory listing
type WorkflowFile struct {
	Name string `json:"name"`
}

// IsYAML returns true for .yml and .yaml files
func (x WorkflowFile) IsYAML() bool {
	ext := strings.ToLower(path.Ext(x.Name))
	return ext == ".yml" || ext == ".yaml"
}

// WorkflowKey identifies a workflow by its position in the listing originally retrieved for the project
type WorkflowKey struct {
	RepoID types.RepoID
	Index  types.WorkflowIndex
}

func (x WorkflowKey) String() string {
	return x.RepoID.WorkflowKey(x.Index)
}

// WorkflowRef is a workflow file to be hydrated with its content
type WorkflowRef struct {
	WorkflowKey
	Name string
}

// WorkflowFilenameIndex holds workflow filenames per project. The slice position is the workflow index.
type WorkflowFilenameIndex map[types.RepoID][]WorkflowFile

// Merge copies src into x. Projects already present are overwritten and returned as duplicates.
func (x WorkflowFilenameIndex) Merge(src WorkflowFilenameIndex) []types.RepoID {
	var dups []types.RepoID
	for _, id := range sortedRepoIDs(src) {
		if _, ok := x[id]; ok {
			dups = append(dups, id)
		}
		x[id] = src[id]
	}
	return dups
}

// Refs lists every workflow ordered by repo ID and index
func (x WorkflowFilenameIndex) Refs() []WorkflowRef {
	var refs []WorkflowRef
	for _, id := range sortedRepoIDs(x) {
		for i, wf := range x[id] {
			refs = append(refs, WorkflowRef{
				WorkflowKey: WorkflowKey{RepoID: id, Index: types.WorkflowIndex(i)},
				Name:        wf.Name,
			})
		}
	}
	return refs
}

// Hydrate builds a WorkflowContentIndex keeping the workflow index of x. The filename comes from x
// because content responses do not carry it. Workflows without text are left out.
func (x WorkflowFilenameIndex) Hydrate(texts map[WorkflowKey]string) WorkflowContentIndex {
	out := make(WorkflowContentIndex)
	for _, ref := range x.Refs() {
		text, ok := texts[ref.WorkflowKey]
		if !ok {
			continue
		}
		out.Set(ref.WorkflowKey, WorkflowContent{Name: ref.Name, Text: text})
	}
	return out
}

// WorkflowContent is a workflow file with its raw YAML
type WorkflowContent struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// WorkflowContentIndex holds workflow contents per project and workflow index
type WorkflowContentIndex map[types.RepoID]map[types.WorkflowIndex]WorkflowContent

func (x WorkflowContentIndex) Set(key WorkflowKey, content WorkflowContent) {
	if _, ok := x[key.RepoID]; !ok {
		x[key.RepoID] = make(map[types.WorkflowIndex]WorkflowContent)
	}
	x[key.RepoID][key.Index] = content
}

// Merge copies src into x. Workflows already present are overwritten and returned as duplicates.
func (x WorkflowContentIndex) Merge(src WorkflowContentIndex) []WorkflowKey {
	var dups []WorkflowKey
	for _, key := range src.Keys() {
		if _, ok := x[key.RepoID][key.Index]; ok {
			dups = append(dups, key)
		}
		x.Set(key, src[key.RepoID][key.Index])
	}
	return dups
}

// Keys lists every workflow ordered by repo ID and index
func (x WorkflowContentIndex) Keys() []WorkflowKey {
	var keys []WorkflowKey
	for _, id := range sortedRepoIDs(x) {
		indices := make([]types.WorkflowIndex, 0, len(x[id]))
		for idx := range x[id] {
			indices = append(indices, idx)
		}
		sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })
		for _, idx := range indices {
			keys = append(keys, WorkflowKey{RepoID: id, Index: idx})
		}
	}
	return keys
}

// Filter returns a new index with workflows satisfying f. Projects left without workflows are dropped.
func (x WorkflowContentIndex) Filter(f func(key WorkflowKey, wf WorkflowContent) bool) WorkflowContentIndex {
	out := make(WorkflowContentIndex)
	for _, key := range x.Keys() {
		wf := x[key.RepoID][key.Index]
		if f(key, wf) {
			out.Set(key, wf)
		}
	}
	return out
}

// RestrictTo returns a new index containing only the given projects
func (x WorkflowContentIndex) RestrictTo(ids map[types.RepoID]struct{}) WorkflowContentIndex {
	return x.Filter(func(key WorkflowKey, _ WorkflowContent) bool {
		_, ok := ids[key.RepoID]
		return ok
	})
}

// CountWorkflows returns the total number of workflows
func (x WorkflowContentIndex) CountWorkflows() int {
	n := 0
	for _, wfs := range x {
		n += len(wfs)
	}
	return n
}

func sortedRepoIDs[V any](m map[types.RepoID]V) []types.RepoID {
	ids := make([]types.RepoID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
