package analysis

import (
	"sort"
	"time"

	"github.com/m-mizutani/cistudy/pkg/domain/model"
	"github.com/m-mizutani/cistudy/pkg/domain/types"
)

// BuildTimeline de-duplicates runs by trigger time, where a later run in the input replaces an earlier
// one with the same time, and sorts them in ascending trigger time.
func BuildTimeline(runs []*model.RunOutcome) []*model.RunOutcome {
	byTime := make(map[time.Time]*model.RunOutcome, len(runs))
	order := make([]time.Time, 0, len(runs))

	for _, run := range runs {
		if run == nil {
			continue
		}
		key := run.CreatedAt.UTC()
		if _, ok := byTime[key]; !ok {
			order = append(order, key)
		}
		byTime[key] = run
	}

	sort.Slice(order, func(i, j int) bool { return order[i].Before(order[j]) })

	timeline := make([]*model.RunOutcome, len(order))
	for i, t := range order {
		timeline[i] = byTime[t]
	}
	return timeline
}

// FailureIntervals scans a timeline and returns the broken periods. A period opens at the first failure
// after a success has been observed and closes at the next success; its length is the commit time of
// the last failure minus the commit time of the first one. A negative length is an ordering anomaly and
// is counted instead of recorded. A period still open at the end of the timeline is discarded.
func FailureIntervals(timeline []*model.RunOutcome) (intervals []time.Duration, anomalies int) {
	var (
		failStart        *model.RunOutcome
		prev             *model.RunOutcome
		seenFirstSuccess bool
	)

	for _, run := range timeline {
		if run.Succeeded() {
			seenFirstSuccess = true
			if failStart != nil && prev != nil {
				d := prev.CommitTimestamp.Sub(failStart.CommitTimestamp)
				if d < 0 {
					anomalies++
				} else {
					intervals = append(intervals, d)
				}
			}
			failStart = nil
		} else if failStart == nil && seenFirstSuccess {
			failStart = run
		}

		prev = run
	}

	return intervals, anomalies
}

// ProjectRuns is the completed run history of one project
type ProjectRuns struct {
	RepoID    types.RepoID
	Attr      model.ProjectAttr
	Workflows map[types.WorkflowIndex][]*model.RunOutcome
}

func (x *ProjectRuns) allRuns() []*model.RunOutcome {
	var runs []*model.RunOutcome
	for _, idx := range sortedIndices(x.Workflows) {
		runs = append(runs, x.Workflows[idx]...)
	}
	return runs
}

// ProjectDurations holds per-project durations in seconds
type ProjectDurations map[types.RepoID][]float64

// Max returns the largest duration of the project, or 0
func (x ProjectDurations) Max(id types.RepoID) float64 {
	m := 0.0
	for _, v := range x[id] {
		if v > m {
			m = v
		}
	}
	return m
}

// CountOver returns how many durations of the project exceed threshold
func (x ProjectDurations) CountOver(id types.RepoID, threshold float64) int {
	n := 0
	for _, v := range x[id] {
		if v > threshold {
			n++
		}
	}
	return n
}

// BrokenBuilds reconstructs failure intervals of every workflow, concatenates them per project and
// summarizes them globally. The 75th percentile is the acceptable broken period, and projects having
// an interval above it are counted.
func BrokenBuilds(projects []*ProjectRuns) (*model.DurationResult, ProjectDurations, int) {
	perProject := make(ProjectDurations, len(projects))
	buckets := make(Buckets)
	var all []float64
	anomalies := 0

	for _, p := range projects {
		var durations []float64
		for _, idx := range sortedIndices(p.Workflows) {
			intervals, n := FailureIntervals(BuildTimeline(p.Workflows[idx]))
			anomalies += n
			for _, d := range intervals {
				durations = append(durations, d.Seconds())
			}
		}

		perProject[p.RepoID] = durations
		all = append(all, durations...)
		buckets.Add(p.Attr.Bucket(), durations...)
	}

	summary := Summarize(all)
	result := &model.DurationResult{
		Summary:          summary,
		ThresholdSeconds: summary.P75,
		Projects:         len(projects),
		Buckets:          buckets.Summaries(),
	}
	for _, p := range projects {
		if perProject.CountOver(p.RepoID, result.ThresholdSeconds) > 0 {
			result.ProjectsOverThreshold++
		}
	}

	return result, perProject, anomalies
}

func sortedIndices(m map[types.WorkflowIndex][]*model.RunOutcome) []types.WorkflowIndex {
	indices := make([]types.WorkflowIndex, 0, len(m))
	for idx := range m {
		indices = append(indices, idx)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })
	return indices
}
