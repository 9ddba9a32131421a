package analyze

import (
	"math"

	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/model"
)

// CorrelationColumns are the numeric columns the matrix is computed over,
// in matrix order.
var CorrelationColumns = []string{
	"population",
	"median_age",
	"unemployment_rate",
	"employed_population",
	"crime_index",
}

// Correlation computes the pairwise Pearson correlation matrix over the
// numeric columns of every (city, year) record, pooled across cities. Each
// pair uses only rows where both columns are non-null. Entries are NaN when
// a column has zero variance or fewer than two complete observations; the
// diagonal is 1.0 for any non-degenerate column.
func Correlation(datasets []model.CityDataset) *model.CorrelationMatrix {
	var records []model.YearRecord
	for _, d := range datasets {
		records = append(records, d.Records...)
	}

	n := len(CorrelationColumns)
	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			var r float64
			if i == j {
				r = selfCorrelation(records, i)
			} else {
				r = pearson(records, i, j)
			}
			values[i][j] = r
			values[j][i] = r
		}
	}

	return &model.CorrelationMatrix{Columns: CorrelationColumns, Values: values}
}

// columnValue extracts the column at the given index, reporting false for
// null entries.
func columnValue(r model.YearRecord, col int) (float64, bool) {
	switch CorrelationColumns[col] {
	case "population":
		return float64(r.Population), true
	case "median_age":
		return r.MedianAge, true
	case "unemployment_rate":
		if r.UnemploymentRate == nil {
			return 0, false
		}
		return *r.UnemploymentRate, true
	case "employed_population":
		if r.Employed == nil {
			return 0, false
		}
		return *r.Employed, true
	case "crime_index":
		if r.CrimeIndex == nil {
			return 0, false
		}
		return *r.CrimeIndex, true
	default:
		return 0, false
	}
}

// pearson computes the correlation between two columns over rows where both
// are non-null.
func pearson(records []model.YearRecord, i, j int) float64 {
	var xs, ys []float64
	for _, r := range records {
		x, okX := columnValue(r, i)
		y, okY := columnValue(r, j)
		if okX && okY {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	if len(xs) < 2 {
		return math.NaN()
	}

	meanX, meanY := mean(xs), mean(ys)
	var cov, varX, varY float64
	for k := range xs {
		dx, dy := xs[k]-meanX, ys[k]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return math.NaN()
	}
	return cov / math.Sqrt(varX*varY)
}

// selfCorrelation is 1.0 for a column with at least two observations and
// nonzero variance, NaN otherwise.
func selfCorrelation(records []model.YearRecord, col int) float64 {
	var xs []float64
	for _, r := range records {
		if x, ok := columnValue(r, col); ok {
			xs = append(xs, x)
		}
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	m := mean(xs)
	var variance float64
	for _, x := range xs {
		variance += (x - m) * (x - m)
	}
	if variance == 0 {
		return math.NaN()
	}
	return 1.0
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
