package analysis

import (
	"sort"

	"github.com/m-mizutani/cistudy/pkg/domain/model"
	"gonum.org/v1/gonum/stat"
)

// Summarize computes descriptive statistics of values. Percentiles use linear interpolation of the
// empirical distribution, and the median is the 50th percentile. An empty sample yields a zero Summary.
func Summarize(values []float64) model.Summary {
	if len(values) == 0 {
		return model.Summary{}
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	q := func(p float64) float64 {
		return stat.Quantile(p, stat.LinInterp, sorted, nil)
	}

	s := model.Summary{
		Count: len(sorted),
		Mean:  stat.Mean(sorted, nil),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		P50:   q(0.50),
		P75:   q(0.75),
		P90:   q(0.90),
		P95:   q(0.95),
		P99:   q(0.99),
	}
	s.Median = s.P50
	if len(sorted) > 1 {
		s.StdDev = stat.StdDev(sorted, nil)
	}

	return s
}

// Buckets collects samples per language group and size category
type Buckets map[model.BucketKey][]float64

func (x Buckets) Add(key model.BucketKey, values ...float64) {
	x[key] = append(x[key], values...)
}

// Summaries returns a Summary per bucket keyed by "group/size"
func (x Buckets) Summaries() map[string]model.Summary {
	out := make(map[string]model.Summary, len(x))
	for key, values := range x {
		out[key.String()] = Summarize(values)
	}
	return out
}
