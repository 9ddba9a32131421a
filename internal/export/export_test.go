package export

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/model"
)

func floatPtr(v float64) *float64 { return &v }

func sampleResult() *model.RunResult {
	return &model.RunResult{
		RunID: "test-run",
		Datasets: []model.CityDataset{
			{
				City:  "Orlando",
				State: "FL",
				FIPS:  "12095",
				Records: []model.YearRecord{
					{CityID: "Orlando, FL", Year: 2019, Population: 280000, MedianAge: 34.5, UnemploymentRate: floatPtr(3.1), Employed: floatPtr(620000), CrimeIndex: floatPtr(498.7)},
					{CityID: "Orlando, FL", Year: 2020, Population: 285000, MedianAge: 34.8},
				},
			},
		},
		Comparisons: []model.ComparisonResult{
			{
				Metric: model.MetricPopulation,
				Changes: []model.MetricChange{
					{City: "Orlando, FL", StartYear: 2019, EndYear: 2020, StartValue: 280000, EndValue: 285000, NetChange: 5000, CAGRPct: 1.79, TotalGrowthPct: 1.79},
				},
			},
		},
		Correlation: &model.CorrelationMatrix{
			Columns: []string{"population", "median_age"},
			Values: [][]float64{
				{1.0, math.NaN()},
				{math.NaN(), 1.0},
			},
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	paths, err := WriteCSV(sampleResult(), dir)
	require.NoError(t, err)
	require.Len(t, paths, 3)

	yearly := readCSV(t, filepath.Join(dir, "yearly_data.csv"))
	require.Len(t, yearly, 3)
	assert.Equal(t, yearColumns, yearly[0])
	assert.Equal(t, []string{"Orlando, FL", "2019", "280000", "34.50", "3.10", "620000", "498.70"}, yearly[1])
	assert.Equal(t, "", yearly[2][4], "null unemployment renders as empty cell")
	assert.Equal(t, "", yearly[2][6], "null crime index renders as empty cell")

	growth := readCSV(t, filepath.Join(dir, "growth_analysis.csv"))
	require.Len(t, growth, 2)
	assert.Equal(t, "population", growth[1][0])
	assert.Equal(t, "Orlando, FL", growth[1][1])
	assert.Equal(t, "5000", growth[1][6])

	corr := readCSV(t, filepath.Join(dir, "correlation_matrix.csv"))
	require.Len(t, corr, 3)
	assert.Equal(t, []string{"column", "population", "median_age"}, corr[0])
	assert.Equal(t, "1.0000", corr[1][1])
	assert.Equal(t, "", corr[1][2], "NaN renders as empty cell")
}

func TestWriteCSV_NilCorrelation(t *testing.T) {
	result := sampleResult()
	result.Correlation = nil

	dir := t.TempDir()
	_, err := WriteCSV(result, dir)
	require.NoError(t, err)

	corr := readCSV(t, filepath.Join(dir, "correlation_matrix.csv"))
	assert.Len(t, corr, 1)
}

func TestWriteXLSX(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteXLSX(sampleResult(), dir)
	require.NoError(t, err)

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	citySheet, ok := f.Sheet["Orlando, FL"]
	require.True(t, ok, "per-city sheet exists")
	require.GreaterOrEqual(t, len(citySheet.Rows), 3)
	assert.Equal(t, "year", citySheet.Rows[0].Cells[0].String())
	assert.Equal(t, "2019", citySheet.Rows[1].Cells[0].String())

	_, ok = f.Sheet["Growth Analysis"]
	assert.True(t, ok)
	_, ok = f.Sheet["Correlation"]
	assert.True(t, ok)
}

func TestSanitizeSheetName(t *testing.T) {
	assert.Equal(t, "Orlando, FL", sanitizeSheetName("Orlando, FL"))
	assert.Equal(t, "A-B", sanitizeSheetName("A/B"))

	long := sanitizeSheetName("This City Name Is Much Longer Than Thirty-One Characters, XX")
	assert.Len(t, long, 31)
}
