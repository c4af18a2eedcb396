package model

import (
	"time"

	"github.com/m-mizutani/cistudy/pkg/domain/types"
)

// Summary is a descriptive statistic of a sample
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	P50    float64 `json:"p50"`
	P75    float64 `json:"p75"`
	P90    float64 `json:"p90"`
	P95    float64 `json:"p95"`
	P99    float64 `json:"p99"`
}

// BucketKey groups results by language group and team size
type BucketKey struct {
	Group LanguageGroup
	Size  SizeCategory
}

func (x BucketKey) String() string {
	return string(x.Group) + "/" + string(x.Size)
}

// ProjectAttr is what is needed to place a project in a bucket
type ProjectAttr struct {
	Language    Language
	MemberCount int
}

func (x ProjectAttr) Bucket() BucketKey {
	return BucketKey{
		Group: x.Language.Group(),
		Size:  CategorizeMemberCount(x.MemberCount),
	}
}

// MemberCountResult describes team sizes of a cohort
type MemberCountResult struct {
	Summary   Summary              `json:"summary"`
	Histogram map[SizeCategory]int `json:"histogram"`
}

// CommitFrequencyResult classifies projects by their daily commit rate
type CommitFrequencyResult struct {
	ValidProjects   int                `json:"valid_projects"`
	InvalidProjects int                `json:"invalid_projects"`
	MeanRate        float64            `json:"mean_rate"`
	Frequent        int                `json:"frequent"`
	Infrequent      int                `json:"infrequent"`
	Rates           Summary            `json:"rates"`
	Buckets         map[string]Summary `json:"buckets"`
}

// DurationResult summarizes a list of durations in seconds against a threshold
type DurationResult struct {
	Summary               Summary            `json:"summary"`
	ThresholdSeconds      float64            `json:"threshold_seconds"`
	Projects              int                `json:"projects"`
	ProjectsOverThreshold int                `json:"projects_over_threshold"`
	Buckets               map[string]Summary `json:"buckets"`
}

// CoverageResult summarizes coverage percents of projects having a report
type CoverageResult struct {
	Projects        int                `json:"projects"`
	ProjectsCovered int                `json:"projects_covered"`
	Summary         Summary            `json:"summary"`
	ByLanguage      map[string]Summary `json:"by_language"`
	Buckets         map[string]Summary `json:"buckets"`
}

// ProjectStats is one row of the per-project statistics export
type ProjectStats struct {
	RunID               types.RunID `bigquery:"run_id" json:"run_id"`
	Timestamp           time.Time   `bigquery:"timestamp" json:"timestamp"`
	RepoID              int64       `bigquery:"repo_id" json:"repo_id"`
	Owner               string      `bigquery:"owner" json:"owner"`
	Name                string      `bigquery:"name" json:"name"`
	Language            string      `bigquery:"language" json:"language"`
	LanguageGroup       string      `bigquery:"language_group" json:"language_group"`
	SizeCategory        string      `bigquery:"size_category" json:"size_category"`
	MemberCount         int         `bigquery:"member_count" json:"member_count"`
	Workflows           int         `bigquery:"workflows" json:"workflows"`
	DailyCommitRate     float64     `bigquery:"daily_commit_rate" json:"daily_commit_rate"`
	FrequentCommits     bool        `bigquery:"frequent_commits" json:"frequent_commits"`
	BrokenIntervals     int         `bigquery:"broken_intervals" json:"broken_intervals"`
	MaxBrokenSeconds    float64     `bigquery:"max_broken_seconds" json:"max_broken_seconds"`
	BrokenOverThreshold int         `bigquery:"broken_over_threshold" json:"broken_over_threshold"`
	Builds              int         `bigquery:"builds" json:"builds"`
	MedianBuildSeconds  float64     `bigquery:"median_build_seconds" json:"median_build_seconds"`
	CoveredPercent      float64     `bigquery:"covered_percent" json:"covered_percent"`
	HasCoverage         bool        `bigquery:"has_coverage" json:"has_coverage"`
}
