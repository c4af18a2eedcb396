package analysis_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/cistudy/pkg/analysis"
	"github.com/m-mizutani/cistudy/pkg/domain/model"
	"github.com/m-mizutani/cistudy/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

var base = time.Date(2023, 3, 1, 12, 0, 0, 0, time.UTC)

func at(d time.Duration) time.Time {
	return base.Add(d)
}

func outcome(conclusion string, created, commit time.Duration) *model.RunOutcome {
	return &model.RunOutcome{
		Conclusion:      conclusion,
		CreatedAt:       at(created),
		UpdatedAt:       at(created + 5*time.Minute),
		CommitTimestamp: at(commit),
		CommitID:        "c" + at(commit).Format(time.RFC3339),
	}
}

func TestSummarize(t *testing.T) {
	t.Run("empty sample", func(t *testing.T) {
		s := analysis.Summarize(nil)
		gt.V(t, s).Equal(model.Summary{})
	})

	t.Run("single value", func(t *testing.T) {
		s := analysis.Summarize([]float64{3})
		gt.V(t, s.Count).Equal(1)
		gt.V(t, s.Median).Equal(3.0)
		gt.V(t, s.StdDev).Equal(0.0)
		gt.V(t, s.Min).Equal(3.0)
		gt.V(t, s.Max).Equal(3.0)
	})

	t.Run("percentiles are monotonic", func(t *testing.T) {
		s := analysis.Summarize([]float64{9, 1, 5, 3, 7, 2, 8, 4, 6, 10})
		gt.V(t, s.Count).Equal(10)
		gt.V(t, s.Min).Equal(1.0)
		gt.V(t, s.Max).Equal(10.0)
		gt.V(t, s.Mean).Equal(5.5)
		gt.V(t, s.Median).Equal(s.P50)
		gt.True(t, s.Min <= s.P50)
		gt.True(t, s.P50 <= s.P75)
		gt.True(t, s.P75 <= s.P90)
		gt.True(t, s.P90 <= s.P95)
		gt.True(t, s.P95 <= s.P99)
		gt.True(t, s.P99 <= s.Max)
		gt.True(t, s.StdDev > 0)
	})

	t.Run("input is not reordered", func(t *testing.T) {
		values := []float64{3, 1, 2}
		analysis.Summarize(values)
		gt.A(t, values).Equal([]float64{3, 1, 2})
	})
}

func TestBuildTimeline(t *testing.T) {
	first := outcome(model.ConclusionSuccess, 2*time.Hour, 0)
	dup := outcome("failure", 2*time.Hour, time.Minute)
	early := outcome(model.ConclusionSuccess, time.Hour, 0)

	timeline := analysis.BuildTimeline([]*model.RunOutcome{first, early, dup, nil})
	gt.A(t, timeline).Length(2)
	gt.V(t, timeline[0]).Equal(early)
	gt.V(t, timeline[1]).Equal(dup)
}

func TestFailureIntervals(t *testing.T) {
	const (
		S = model.ConclusionSuccess
		F = "failure"
	)

	testCases := map[string]struct {
		runs      []*model.RunOutcome
		intervals []time.Duration
		anomalies int
	}{
		"success, failure, failure, success": {
			runs: []*model.RunOutcome{
				outcome(S, 0, 0),
				outcome(F, time.Hour, 10*time.Minute),
				outcome(F, 2*time.Hour, 70*time.Minute),
				outcome(S, 3*time.Hour, 130*time.Minute),
			},
			intervals: []time.Duration{time.Hour},
		},
		"failures before the first success are ignored": {
			runs: []*model.RunOutcome{
				outcome(F, 0, 0),
				outcome(F, time.Hour, time.Hour),
				outcome(S, 2*time.Hour, 2*time.Hour),
			},
		},
		"open interval at the end is discarded": {
			runs: []*model.RunOutcome{
				outcome(S, 0, 0),
				outcome(F, time.Hour, time.Hour),
			},
		},
		"single failure yields zero length": {
			runs: []*model.RunOutcome{
				outcome(S, 0, 0),
				outcome("cancelled", time.Hour, time.Hour),
				outcome(S, 2*time.Hour, 2*time.Hour),
			},
			intervals: []time.Duration{0},
		},
		"negative length is an anomaly": {
			runs: []*model.RunOutcome{
				outcome(S, 0, 0),
				outcome(F, time.Hour, 3*time.Hour),
				outcome(F, 2*time.Hour, time.Hour),
				outcome(S, 3*time.Hour, 4*time.Hour),
			},
			anomalies: 1,
		},
		"two intervals": {
			runs: []*model.RunOutcome{
				outcome(S, 0, 0),
				outcome(F, 1*time.Hour, 1*time.Hour),
				outcome(F, 2*time.Hour, 3*time.Hour),
				outcome(S, 3*time.Hour, 4*time.Hour),
				outcome(F, 4*time.Hour, 5*time.Hour),
				outcome(S, 5*time.Hour, 6*time.Hour),
			},
			intervals: []time.Duration{2 * time.Hour, 0},
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			intervals, anomalies := analysis.FailureIntervals(tc.runs)
			gt.A(t, intervals).Length(len(tc.intervals))
			for i := range tc.intervals {
				gt.V(t, intervals[i]).Equal(tc.intervals[i])
			}
			gt.V(t, anomalies).Equal(tc.anomalies)
		})
	}
}

func TestBrokenBuilds(t *testing.T) {
	projects := []*analysis.ProjectRuns{
		{
			RepoID: 1,
			Attr:   model.ProjectAttr{Language: model.LanguageJava, MemberCount: 3},
			Workflows: map[types.WorkflowIndex][]*model.RunOutcome{
				0: {
					outcome(model.ConclusionSuccess, 0, 0),
					outcome("failure", time.Hour, time.Hour),
					outcome("failure", 2*time.Hour, 3*time.Hour),
					outcome(model.ConclusionSuccess, 3*time.Hour, 4*time.Hour),
				},
			},
		},
		{
			RepoID: 2,
			Attr:   model.ProjectAttr{Language: model.LanguagePython, MemberCount: 30},
			Workflows: map[types.WorkflowIndex][]*model.RunOutcome{
				0: {
					outcome(model.ConclusionSuccess, 0, 0),
					outcome("failure", time.Hour, time.Hour),
					outcome(model.ConclusionSuccess, 2*time.Hour, 2*time.Hour),
				},
				1: {
					outcome(model.ConclusionSuccess, 0, 0),
				},
			},
		},
	}

	result, perProject, anomalies := analysis.BrokenBuilds(projects)
	gt.V(t, anomalies).Equal(0)
	gt.V(t, result.Projects).Equal(2)
	gt.V(t, result.Summary.Count).Equal(2)
	gt.V(t, result.Summary.Max).Equal((2 * time.Hour).Seconds())
	gt.V(t, result.ThresholdSeconds).Equal(result.Summary.P75)
	gt.V(t, result.ProjectsOverThreshold).Equal(1)
	gt.V(t, perProject.Max(1)).Equal((2 * time.Hour).Seconds())
	gt.A(t, perProject[2]).Equal([]float64{0})
	gt.V(t, len(result.Buckets)).Equal(2)
	gt.V(t, result.Buckets["Java/Very Small"].Count).Equal(1)
}

func TestBuildDurations(t *testing.T) {
	long := outcome(model.ConclusionSuccess, time.Hour, 0)
	long.UpdatedAt = long.CreatedAt.Add(15 * time.Minute)
	broken := outcome("failure", 2*time.Hour, 0)
	broken.UpdatedAt = broken.CreatedAt.Add(-time.Second)
	same := outcome("failure", 3*time.Hour, 0)
	same.UpdatedAt = same.CreatedAt

	projects := []*analysis.ProjectRuns{
		{
			RepoID: 1,
			Attr:   model.ProjectAttr{Language: model.LanguageRuby, MemberCount: 6},
			Workflows: map[types.WorkflowIndex][]*model.RunOutcome{
				0: {outcome(model.ConclusionSuccess, 0, 0), long, broken, same},
			},
		},
		{
			RepoID: 2,
			Attr:   model.ProjectAttr{Language: model.LanguageC, MemberCount: 10},
			Workflows: map[types.WorkflowIndex][]*model.RunOutcome{
				0: {outcome(model.ConclusionSuccess, 0, 0)},
			},
		},
	}

	result, perProject, anomalies := analysis.BuildDurations(projects, analysis.DefaultBuildDurationThreshold)
	gt.V(t, anomalies).Equal(2)
	gt.V(t, result.Summary.Count).Equal(3)
	gt.V(t, result.ThresholdSeconds).Equal(600.0)
	gt.V(t, result.ProjectsOverThreshold).Equal(1)
	gt.A(t, perProject[1]).Equal([]float64{300, 900})
	gt.V(t, result.Buckets["C/C++/Medium"].Count).Equal(1)
}

func commitAt(ts time.Time, id string) *model.RunOutcome {
	return &model.RunOutcome{
		Conclusion:      model.ConclusionSuccess,
		CreatedAt:       ts,
		UpdatedAt:       ts.Add(time.Minute),
		CommitID:        id,
		CommitTimestamp: ts,
	}
}

func TestDailyCommitRate(t *testing.T) {
	day1 := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("three days leave one full day", func(t *testing.T) {
		a := analysis.DailyCommitRate([]*model.RunOutcome{
			commitAt(day1.Add(23*time.Hour), "a"),
			commitAt(day1.Add(25*time.Hour), "b"),
			commitAt(day1.Add(30*time.Hour), "c"),
			commitAt(day1.Add(49*time.Hour), "d"),
		})
		gt.True(t, a.Valid())
		gt.V(t, a.FullDays).Equal(1)
		gt.V(t, a.Commits).Equal(2)
		gt.V(t, a.DailyRate).Equal(2.0)
	})

	t.Run("single day is invalid", func(t *testing.T) {
		a := analysis.DailyCommitRate([]*model.RunOutcome{
			commitAt(day1.Add(time.Hour), "a"),
			commitAt(day1.Add(2*time.Hour), "b"),
		})
		gt.False(t, a.Valid())
	})

	t.Run("two adjacent days are invalid", func(t *testing.T) {
		a := analysis.DailyCommitRate([]*model.RunOutcome{
			commitAt(day1.Add(time.Hour), "a"),
			commitAt(day1.Add(26*time.Hour), "b"),
		})
		gt.False(t, a.Valid())
	})

	t.Run("days without commits are not averaged", func(t *testing.T) {
		a := analysis.DailyCommitRate([]*model.RunOutcome{
			commitAt(day1.Add(12*time.Hour), "a"),
			commitAt(day1.Add(36*time.Hour), "b"),
			commitAt(day1.Add(37*time.Hour), "c"),
			commitAt(day1.Add(4*24*time.Hour+12*time.Hour), "d"),
		})
		gt.True(t, a.Valid())
		gt.V(t, a.FullDays).Equal(3)
		gt.V(t, a.ActiveDays).Equal(1)
		gt.V(t, a.Commits).Equal(2)
		gt.V(t, a.DailyRate).Equal(2.0)
	})

	t.Run("rate is averaged over active days", func(t *testing.T) {
		a := analysis.DailyCommitRate([]*model.RunOutcome{
			commitAt(day1, "a"),
			commitAt(day1.Add(25*time.Hour), "b"),
			commitAt(day1.Add(26*time.Hour), "c"),
			commitAt(day1.Add(27*time.Hour), "d"),
			commitAt(day1.Add(3*24*time.Hour+time.Hour), "e"),
			commitAt(day1.Add(5*24*time.Hour), "f"),
		})
		gt.V(t, a.FullDays).Equal(4)
		gt.V(t, a.ActiveDays).Equal(2)
		gt.V(t, a.Commits).Equal(4)
		gt.V(t, a.DailyRate).Equal(2.0)
	})

	t.Run("trimmed window without commits is invalid", func(t *testing.T) {
		a := analysis.DailyCommitRate([]*model.RunOutcome{
			commitAt(day1, "a"),
			commitAt(day1.Add(3*24*time.Hour), "b"),
		})
		gt.V(t, a.FullDays).Equal(2)
		gt.V(t, a.ActiveDays).Equal(0)
		gt.False(t, a.Valid())
		gt.V(t, a.DailyRate).Equal(0.0)
	})

	t.Run("same commit across runs counts once", func(t *testing.T) {
		a := analysis.DailyCommitRate([]*model.RunOutcome{
			commitAt(day1, "a"),
			commitAt(day1.Add(30*time.Hour), "b"),
			commitAt(day1.Add(30*time.Hour), "b"),
			commitAt(day1.Add(50*time.Hour), "c"),
		})
		gt.V(t, a.Commits).Equal(1)
	})

	t.Run("no runs", func(t *testing.T) {
		gt.False(t, analysis.DailyCommitRate(nil).Valid())
	})
}

func TestCommitFrequency(t *testing.T) {
	day1 := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	hours := func(h ...int) []*model.RunOutcome {
		var runs []*model.RunOutcome
		for _, v := range h {
			runs = append(runs, commitAt(day1.Add(time.Duration(v)*time.Hour), day1.Add(time.Duration(v)*time.Hour).String()))
		}
		return runs
	}

	projects := []*analysis.ProjectRuns{
		{
			RepoID:    1,
			Attr:      model.ProjectAttr{Language: model.LanguageJava, MemberCount: 2},
			Workflows: map[types.WorkflowIndex][]*model.RunOutcome{0: hours(0, 25, 26, 27, 49)},
		},
		{
			RepoID:    2,
			Attr:      model.ProjectAttr{Language: model.LanguageJava, MemberCount: 2},
			Workflows: map[types.WorkflowIndex][]*model.RunOutcome{0: hours(0, 25, 49)},
		},
		{
			RepoID:    3,
			Attr:      model.ProjectAttr{Language: model.LanguageJava, MemberCount: 2},
			Workflows: map[types.WorkflowIndex][]*model.RunOutcome{0: hours(0, 1)},
		},
	}

	result, activities, frequent := analysis.CommitFrequency(projects)
	gt.V(t, result.ValidProjects).Equal(2)
	gt.V(t, result.InvalidProjects).Equal(1)
	gt.V(t, result.MeanRate).Equal(2.0)
	gt.V(t, result.Frequent).Equal(1)
	gt.V(t, result.Infrequent).Equal(1)
	gt.V(t, activities[1].DailyRate).Equal(3.0)
	gt.True(t, frequent[1])
	gt.False(t, frequent[2])
	_, ok := frequent[3]
	gt.False(t, ok)
}

func TestCoverage(t *testing.T) {
	pct := func(v float64) *float64 { return &v }
	projects := []*analysis.ProjectCoverage{
		{
			RepoID: 1,
			Attr:   model.ProjectAttr{Language: model.LanguageTypeScript, MemberCount: 4},
			Report: &model.CoverageReport{RepoID: 1, Build: &model.CoverallsBuild{CoveredPercent: pct(80)}},
		},
		{
			RepoID: 2,
			Attr:   model.ProjectAttr{Language: model.LanguageJavaScript, MemberCount: 4},
			Report: &model.CoverageReport{RepoID: 2, Build: &model.CoverallsBuild{CoveredPercent: pct(60)}},
		},
		{
			RepoID: 3,
			Attr:   model.ProjectAttr{Language: model.LanguagePython, MemberCount: 4},
			Report: &model.CoverageReport{RepoID: 3},
		},
		{
			RepoID: 4,
			Attr:   model.ProjectAttr{Language: model.LanguagePython, MemberCount: 4},
		},
	}

	result := analysis.Coverage(projects)
	gt.V(t, result.Projects).Equal(4)
	gt.V(t, result.ProjectsCovered).Equal(2)
	gt.V(t, result.Summary.Mean).Equal(70.0)
	gt.V(t, result.ByLanguage["JavaScript/TypeScript"].Count).Equal(2)
	_, ok := result.ByLanguage["Python"]
	gt.False(t, ok)
}

func TestMemberCounts(t *testing.T) {
	result := analysis.MemberCounts([]int{2, 3, 5, 9, 16, 25, 100, 1})
	gt.V(t, result.Summary.Count).Equal(8)
	gt.V(t, result.Histogram[model.SizeVerySmall]).Equal(2)
	gt.V(t, result.Histogram[model.SizeSmall]).Equal(1)
	gt.V(t, result.Histogram[model.SizeMedium]).Equal(1)
	gt.V(t, result.Histogram[model.SizeLarge]).Equal(1)
	gt.V(t, result.Histogram[model.SizeVeryLarge]).Equal(2)
	gt.V(t, result.Histogram[model.SizeUnknown]).Equal(1)
}
