package analysis

import "github.com/m-mizutani/cistudy/pkg/domain/model"

// MemberCounts summarizes team sizes of the given projects
func MemberCounts(counts []int) *model.MemberCountResult {
	values := make([]float64, len(counts))
	histogram := make(map[model.SizeCategory]int)
	for i, n := range counts {
		values[i] = float64(n)
		histogram[model.CategorizeMemberCount(n)]++
	}

	return &model.MemberCountResult{
		Summary:   Summarize(values),
		Histogram: histogram,
	}
}
