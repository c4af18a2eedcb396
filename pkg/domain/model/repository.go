package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/cistudy/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// NullSymbol is the SQL NULL representation used by the GHTorrent dump
const NullSymbol = `\N`

const projectTimeLayout = "2006-01-02 15:04:05"

// ProjectColumns is the fixed column order of project records. Stage artifacts are written without a header in this order.
var ProjectColumns = []string{
	"repo_id", "url", "owner_id", "name", "descriptor", "language",
	"created_at", "forked_from", "deleted", "updated_at", "dummy",
}

// Project is one GitHub repository of the dataset
type Project struct {
	RepoID     types.RepoID
	URL        string
	OwnerID    string
	Name       string
	Descriptor string
	Language   Language
	CreatedAt  time.Time
	ForkedFrom *types.RepoID
	Deleted    bool
	UpdatedAt  time.Time
	Dummy      string
}

// ParseProject builds a Project from a record in ProjectColumns order
func ParseProject(record []string) (*Project, error) {
	if len(record) < len(ProjectColumns) {
		return nil, goerr.Wrap(types.ErrInvalidRecord, "too few columns in project record",
			goerr.V("expected", len(ProjectColumns)),
			goerr.V("actual", len(record)),
		)
	}

	id, err := strconv.ParseInt(record[0], 10, 64)
	if err != nil {
		return nil, goerr.Wrap(types.ErrInvalidRecord, "invalid repo_id", goerr.V("value", record[0]))
	}

	createdAt, err := parseNullableTime(record[6])
	if err != nil {
		return nil, goerr.Wrap(err, "invalid created_at", goerr.V("repo_id", id))
	}
	updatedAt, err := parseNullableTime(record[9])
	if err != nil {
		return nil, goerr.Wrap(err, "invalid updated_at", goerr.V("repo_id", id))
	}

	p := &Project{
		RepoID:     types.RepoID(id),
		URL:        record[1],
		OwnerID:    record[2],
		Name:       record[3],
		Descriptor: record[4],
		Language:   Language(record[5]),
		CreatedAt:  createdAt,
		Deleted:    record[8] == "1",
		UpdatedAt:  updatedAt,
		Dummy:      record[10],
	}

	if record[7] != NullSymbol && record[7] != "" {
		forked, err := strconv.ParseInt(record[7], 10, 64)
		if err != nil {
			return nil, goerr.Wrap(types.ErrInvalidRecord, "invalid forked_from", goerr.V("repo_id", id), goerr.V("value", record[7]))
		}
		forkedFrom := types.RepoID(forked)
		p.ForkedFrom = &forkedFrom
	}

	return p, nil
}

func parseNullableTime(v string) (time.Time, error) {
	if v == NullSymbol || v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(projectTimeLayout, v)
	if err != nil {
		return time.Time{}, goerr.Wrap(types.ErrInvalidRecord, "invalid timestamp", goerr.V("value", v))
	}
	return t, nil
}

func formatNullableTime(t time.Time) string {
	if t.IsZero() {
		return NullSymbol
	}
	return t.Format(projectTimeLayout)
}

// Record returns the project in ProjectColumns order
func (x *Project) Record() []string {
	forkedFrom := NullSymbol
	if x.ForkedFrom != nil {
		forkedFrom = x.ForkedFrom.String()
	}
	deleted := "0"
	if x.Deleted {
		deleted = "1"
	}

	return []string{
		x.RepoID.String(),
		x.URL,
		x.OwnerID,
		x.Name,
		x.Descriptor,
		string(x.Language),
		formatNullableTime(x.CreatedAt),
		forkedFrom,
		deleted,
		formatNullableTime(x.UpdatedAt),
		x.Dummy,
	}
}

// IsFork returns true if forked_from is not NULL
func (x *Project) IsFork() bool {
	return x.ForkedFrom != nil
}

// Owner returns the owner login, the second to last segment of URL
func (x *Project) Owner() string {
	parts := strings.Split(strings.TrimSuffix(x.URL, "/"), "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-2]
}

// RepoName returns the repository name, the last segment of URL
func (x *Project) RepoName() string {
	parts := strings.Split(strings.TrimSuffix(x.URL, "/"), "/")
	return parts[len(parts)-1]
}

// FullName returns "owner/name"
func (x *Project) FullName() string {
	return x.Owner() + "/" + x.RepoName()
}

// Projects is an ordered list of projects
type Projects []*Project

// IDs returns the set of repo IDs
func (x Projects) IDs() map[types.RepoID]struct{} {
	ids := make(map[types.RepoID]struct{}, len(x))
	for _, p := range x {
		ids[p.RepoID] = struct{}{}
	}
	return ids
}

// Filter returns projects satisfying f, preserving order
func (x Projects) Filter(f func(p *Project) bool) Projects {
	var out Projects
	for _, p := range x {
		if f(p) {
			out = append(out, p)
		}
	}
	return out
}

// Membership is an association between a project and a user
type Membership struct {
	RepoID    types.RepoID
	UserID    int64
	CreatedAt time.Time
}

// ParseMembership builds a Membership from a (repo_id, user_id, created_at) record
func ParseMembership(record []string) (*Membership, error) {
	if len(record) < 3 {
		return nil, goerr.Wrap(types.ErrInvalidRecord, "too few columns in membership record", goerr.V("actual", len(record)))
	}

	repoID, err := strconv.ParseInt(record[0], 10, 64)
	if err != nil {
		return nil, goerr.Wrap(types.ErrInvalidRecord, "invalid repo_id", goerr.V("value", record[0]))
	}
	userID, err := strconv.ParseInt(record[1], 10, 64)
	if err != nil {
		return nil, goerr.Wrap(types.ErrInvalidRecord, "invalid user_id", goerr.V("value", record[1]))
	}
	createdAt, err := parseNullableTime(record[2])
	if err != nil {
		return nil, err
	}

	return &Membership{
		RepoID:    types.RepoID(repoID),
		UserID:    userID,
		CreatedAt: createdAt,
	}, nil
}

// MemberCounts is the number of distinct members per project
type MemberCounts map[types.RepoID]int

// CountMembers de-duplicates (repo_id, user_id) pairs and counts members per project
func CountMembers(memberships []*Membership) MemberCounts {
	type pair struct {
		repo types.RepoID
		user int64
	}
	seen := make(map[pair]struct{}, len(memberships))
	counts := make(MemberCounts)

	for _, m := range memberships {
		key := pair{m.RepoID, m.UserID}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		counts[m.RepoID]++
	}

	return counts
}
