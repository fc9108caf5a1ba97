package analysis

import (
	"math"

	"github.com/spendsight/backend/internal/model"
)

// Population holds cross-user statistics for one spending bucket. Std is
// nil for single-sample populations, where sample standard deviation is
// undefined.
type Population struct {
	Mean    float64
	Std     *float64
	Samples int
}

// ZScore returns how many standard deviations value sits from the
// population mean. The result is nil when the population carries no signal
// (undefined or zero standard deviation); callers must treat nil as "no
// signal", never as zero.
func (p Population) ZScore(value float64) *float64 {
	if p.Std == nil || *p.Std == 0 {
		return nil
	}
	z := (value - p.Mean) / *p.Std
	return &z
}

// newPopulation computes mean and sample standard deviation (n-1) over the
// given values.
func newPopulation(values []float64) Population {
	n := len(values)
	if n == 0 {
		return Population{}
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)

	p := Population{Mean: mean, Samples: n}
	if n < 2 {
		return p
	}

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	std := math.Sqrt(sq / float64(n-1))
	p.Std = &std
	return p
}

// SubcategoryStats computes per-subcategory populations over all users'
// totals. Buckets whose subcategory is the Unknown sentinel are excluded:
// they are a normalization artifact, not a comparable peer group.
func SubcategoryStats(t *SpendingTotals) map[model.CategoryKey]Population {
	values := make(map[model.CategoryKey][]float64)
	for key, total := range t.Sub {
		if !key.Key.HasSub() {
			continue
		}
		values[key.Key] = append(values[key.Key], total.InexactFloat64())
	}

	stats := make(map[model.CategoryKey]Population, len(values))
	for key, vs := range values {
		stats[key] = newPopulation(vs)
	}
	return stats
}

// MainCategoryStats computes per-main-category populations over all users'
// main-level totals.
func MainCategoryStats(t *SpendingTotals) map[string]Population {
	values := make(map[string][]float64)
	for key, total := range t.Main {
		values[key.Primary] = append(values[key.Primary], total.InexactFloat64())
	}

	stats := make(map[string]Population, len(values))
	for primary, vs := range values {
		stats[primary] = newPopulation(vs)
	}
	return stats
}
