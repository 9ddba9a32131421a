// Package analyze computes cross-city comparisons and the correlation
// matrix from joined city datasets. Everything here is a pure function of
// its input.
package analyze

import (
	"math"
	"sort"

	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/model"
)

// Compare computes the per-city net change and the strongest market for each
// comparable metric.
func Compare(datasets []model.CityDataset) []model.ComparisonResult {
	results := make([]model.ComparisonResult, 0, len(model.Metrics))
	for _, metric := range model.Metrics {
		changes := NetChanges(datasets, metric)
		results = append(results, model.ComparisonResult{
			Metric:    metric,
			Strongest: Strongest(changes, metric),
			Changes:   changes,
		})
	}
	return results
}

// NetChanges computes each city's net change for the metric between the
// first and last years carrying a value. Cities with fewer than two data
// points for the metric are skipped. Output is sorted by city name.
func NetChanges(datasets []model.CityDataset, metric model.Metric) []model.MetricChange {
	var changes []model.MetricChange

	for _, d := range datasets {
		var (
			points []model.YearRecord
			values []float64
		)
		for _, r := range d.Records {
			if v, ok := r.MetricValue(metric); ok {
				points = append(points, r)
				values = append(values, v)
			}
		}
		if len(points) < 2 {
			continue
		}

		first, last := points[0], points[len(points)-1]
		start, end := values[0], values[len(values)-1]

		change := model.MetricChange{
			City:       d.Key(),
			StartYear:  first.Year,
			EndYear:    last.Year,
			StartValue: start,
			EndValue:   end,
			NetChange:  end - start,
		}

		switch metric {
		case model.MetricPopulation, model.MetricEmployment:
			change.CAGRPct = cagrPct(start, end, last.Year-first.Year)
			if start != 0 {
				change.TotalGrowthPct = (end - start) / start * 100
			}
		}
		if metric == model.MetricEmployment {
			change.CompositeScore = compositeScore(change.CAGRPct, d)
		}

		changes = append(changes, change)
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].City < changes[j].City })
	return changes
}

// Strongest picks the strongest market for a metric: the largest positive
// net change for population and employment, the largest decrease for the
// crime index. Ties prefer the larger absolute starting value, then the
// lexicographically smaller city name. Returns nil when no city moved in
// the favorable direction.
func Strongest(changes []model.MetricChange, metric model.Metric) *model.MetricChange {
	var best *model.MetricChange
	for i := range changes {
		c := &changes[i]
		if favorable(*c, metric) <= 0 {
			continue
		}
		if best == nil || beats(*c, *best, metric) {
			best = c
		}
	}
	if best == nil {
		return nil
	}
	out := *best
	return &out
}

// favorable maps a net change onto a "bigger is better" scale.
func favorable(c model.MetricChange, metric model.Metric) float64 {
	if metric == model.MetricCrimeIndex {
		return -c.NetChange
	}
	return c.NetChange
}

func beats(a, b model.MetricChange, metric model.Metric) bool {
	fa, fb := favorable(a, metric), favorable(b, metric)
	if fa != fb {
		return fa > fb
	}
	if math.Abs(a.StartValue) != math.Abs(b.StartValue) {
		return math.Abs(a.StartValue) > math.Abs(b.StartValue)
	}
	return a.City < b.City
}

// cagrPct is the compound annual growth rate in percent.
func cagrPct(start, end float64, years int) float64 {
	if years <= 0 || start <= 0 || end <= 0 {
		return 0
	}
	return (math.Pow(end/start, 1/float64(years)) - 1) * 100
}

// compositeScore is the employment CAGR minus twice the unemployment-rate
// change over the dataset's span, weighting unemployment improvement double.
func compositeScore(employmentCAGR float64, d model.CityDataset) float64 {
	var rates []float64
	for _, r := range d.Records {
		if r.UnemploymentRate != nil {
			rates = append(rates, *r.UnemploymentRate)
		}
	}
	if len(rates) < 2 {
		return employmentCAGR
	}
	return employmentCAGR - (rates[len(rates)-1]-rates[0])*2
}
