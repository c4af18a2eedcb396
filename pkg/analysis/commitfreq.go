package analysis

import (
	"time"

	"github.com/m-mizutani/cistudy/pkg/domain/model"
	"github.com/m-mizutani/cistudy/pkg/domain/types"
)

const day = 24 * time.Hour

// CommitActivity is the commit rate of one project over its fully observed days
type CommitActivity struct {
	Commits    int
	FullDays   int
	ActiveDays int
	DailyRate  float64
}

// Valid returns true if at least one fully observed day remains after trimming and it has commits
func (x CommitActivity) Valid() bool {
	return x.FullDays >= 1 && x.ActiveDays >= 1
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DailyCommitRate maps commit timestamps to commit IDs across runs, then drops the first and last
// observed calendar days (UTC) because they may be partially observed. The rate is the mean of the
// per-day commit counts over remaining days that have at least one commit.
func DailyCommitRate(runs []*model.RunOutcome) CommitActivity {
	commits := make(map[time.Time]string)
	for _, run := range runs {
		if run == nil {
			continue
		}
		commits[run.CommitTimestamp.UTC()] = run.CommitID
	}
	if len(commits) == 0 {
		return CommitActivity{}
	}

	var minTime, maxTime time.Time
	first := true
	for ts := range commits {
		if first || ts.Before(minTime) {
			minTime = ts
		}
		if first || ts.After(maxTime) {
			maxTime = ts
		}
		first = false
	}

	validFrom := truncateDay(minTime).Add(day)
	validUntil := truncateDay(maxTime)
	fullDays := int(validUntil.Sub(validFrom) / day)
	if fullDays < 1 {
		return CommitActivity{}
	}

	n := 0
	perDay := make(map[time.Time]int)
	for ts := range commits {
		if !ts.Before(validFrom) && ts.Before(validUntil) {
			perDay[truncateDay(ts)]++
			n++
		}
	}
	if len(perDay) == 0 {
		return CommitActivity{FullDays: fullDays}
	}

	return CommitActivity{
		Commits:    n,
		FullDays:   fullDays,
		ActiveDays: len(perDay),
		DailyRate:  float64(n) / float64(len(perDay)),
	}
}

// CommitFrequency classifies valid projects as frequent when their daily rate is at least the mean
// rate of all valid projects.
func CommitFrequency(projects []*ProjectRuns) (*model.CommitFrequencyResult, map[types.RepoID]CommitActivity, map[types.RepoID]bool) {
	activities := make(map[types.RepoID]CommitActivity, len(projects))
	buckets := make(Buckets)
	var rates []float64

	result := &model.CommitFrequencyResult{}
	for _, p := range projects {
		a := DailyCommitRate(p.allRuns())
		activities[p.RepoID] = a
		if !a.Valid() {
			result.InvalidProjects++
			continue
		}
		result.ValidProjects++
		rates = append(rates, a.DailyRate)
		buckets.Add(p.Attr.Bucket(), a.DailyRate)
	}

	result.Rates = Summarize(rates)
	result.MeanRate = result.Rates.Mean
	result.Buckets = buckets.Summaries()

	frequent := make(map[types.RepoID]bool, result.ValidProjects)
	for _, p := range projects {
		a := activities[p.RepoID]
		if !a.Valid() {
			continue
		}
		frequent[p.RepoID] = a.DailyRate >= result.MeanRate
		if frequent[p.RepoID] {
			result.Frequent++
		} else {
			result.Infrequent++
		}
	}

	return result, activities, frequent
}
