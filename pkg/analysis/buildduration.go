package analysis

import (
	"time"

	"github.com/m-mizutani/cistudy/pkg/domain/model"
)

// DefaultBuildDurationThreshold is the acceptable duration of a single build
const DefaultBuildDurationThreshold = 10 * time.Minute

// BuildDurations computes end minus start of every run. Runs whose end is not after their start are
// counted as anomalies and skipped. Projects with a build longer than threshold are counted.
func BuildDurations(projects []*ProjectRuns, threshold time.Duration) (*model.DurationResult, ProjectDurations, int) {
	perProject := make(ProjectDurations, len(projects))
	buckets := make(Buckets)
	var all []float64
	anomalies := 0

	for _, p := range projects {
		var durations []float64
		for _, run := range p.allRuns() {
			if !run.CreatedAt.Before(run.UpdatedAt) {
				anomalies++
				continue
			}
			durations = append(durations, run.UpdatedAt.Sub(run.CreatedAt).Seconds())
		}

		perProject[p.RepoID] = durations
		all = append(all, durations...)
		buckets.Add(p.Attr.Bucket(), durations...)
	}

	result := &model.DurationResult{
		Summary:          Summarize(all),
		ThresholdSeconds: threshold.Seconds(),
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
