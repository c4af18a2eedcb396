package analysis

import (
	"github.com/m-mizutani/cistudy/pkg/domain/model"
	"github.com/m-mizutani/cistudy/pkg/domain/types"
)

// ProjectCoverage is the coverage report of one project with its bucket attributes
type ProjectCoverage struct {
	RepoID types.RepoID
	Attr   model.ProjectAttr
	Report *model.CoverageReport
}

// Coverage summarizes covered percents of projects having a report, by language and by bucket
func Coverage(projects []*ProjectCoverage) *model.CoverageResult {
	buckets := make(Buckets)
	byLanguage := make(map[string][]float64)
	var all []float64

	for _, p := range projects {
		percent, ok := p.Report.Percent()
		if !ok {
			continue
		}
		all = append(all, percent)
		buckets.Add(p.Attr.Bucket(), percent)
		group := string(p.Attr.Language.Group())
		byLanguage[group] = append(byLanguage[group], percent)
	}

	result := &model.CoverageResult{
		Projects:        len(projects),
		ProjectsCovered: len(all),
		Summary:         Summarize(all),
		ByLanguage:      make(map[string]model.Summary, len(byLanguage)),
		Buckets:         buckets.Summaries(),
	}
	for lang, values := range byLanguage {
		result.ByLanguage[lang] = Summarize(values)
	}

	return result
}
