package model

import (
	"time"

	"github.com/m-mizutani/cistudy/pkg/domain/types"
)

// CoverallsBuild is one entry of the Coveralls build list
type CoverallsBuild struct {
	CreatedAt      time.Time       `json:"created_at"`
	URL            string          `json:"url,omitempty"`
	CommitSHA      types.CommitSHA `json:"commit_sha"`
	Branch         string          `json:"branch"`
	CoveredPercent *float64        `json:"covered_percent"`
	CoverageChange *float64        `json:"coverage_change,omitempty"`
}

// CoverallsPage is the response of the Coveralls repository build list
type CoverallsPage struct {
	Page   int               `json:"page"`
	Pages  int               `json:"pages"`
	Total  int               `json:"total"`
	Builds []*CoverallsBuild `json:"builds"`
}

// CoverageReport is the coverage snapshot retained for a project. Build is nil when no report was found.
type CoverageReport struct {
	RepoID types.RepoID    `json:"repo_id"`
	Build  *CoverallsBuild `json:"build,omitempty"`
}

// Percent returns covered percent and true if the report holds one
func (x *CoverageReport) Percent() (float64, bool) {
	if x == nil || x.Build == nil || x.Build.CoveredPercent == nil {
		return 0, false
	}
	return *x.Build.CoveredPercent, true
}

// LanguageCoverage aggregates coverage percents by project language
type LanguageCoverage map[Language][]float64
