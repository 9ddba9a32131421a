// Package export writes run results to CSV and XLSX artifacts under the
// configured export directory.
package export

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/model"
)

// yearColumns defines the ordered per-city yearly CSV output columns.
var yearColumns = []string{
	"city",
	"year",
	"population",
	"median_age",
	"unemployment_rate",
	"employed_population",
	"crime_index",
}

// changeColumns defines the ordered growth-analysis CSV output columns.
var changeColumns = []string{
	"metric",
	"city",
	"start_year",
	"end_year",
	"start_value",
	"end_value",
	"net_change",
	"cagr_pct",
	"total_growth_pct",
	"composite_score",
}

// WriteCSV writes the yearly data, growth analysis, and correlation matrix
// as three CSV files under dir and returns their paths.
func WriteCSV(result *model.RunResult, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "export: create dir %s", dir)
	}

	paths := []string{
		filepath.Join(dir, "yearly_data.csv"),
		filepath.Join(dir, "growth_analysis.csv"),
		filepath.Join(dir, "correlation_matrix.csv"),
	}

	if err := writeCSVFile(paths[0], yearlyRows(result)); err != nil {
		return nil, err
	}
	if err := writeCSVFile(paths[1], changeRows(result)); err != nil {
		return nil, err
	}
	if err := writeCSVFile(paths[2], correlationRows(result.Correlation)); err != nil {
		return nil, err
	}

	return paths, nil
}

func writeCSVFile(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	defer w.Flush()

	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return eris.Wrapf(err, "export: write %s", path)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrapf(err, "export: flush %s", path)
	}
	return nil
}

// yearlyRows flattens every dataset into one row per (city, year).
func yearlyRows(result *model.RunResult) [][]string {
	rows := [][]string{yearColumns}
	for _, d := range result.Datasets {
		for _, r := range d.Records {
			rows = append(rows, []string{
				d.Key(),
				strconv.Itoa(r.Year),
				strconv.FormatInt(r.Population, 10),
				formatFloat(r.MedianAge),
				formatNullable(r.UnemploymentRate),
				formatNullable(r.Employed),
				formatNullable(r.CrimeIndex),
			})
		}
	}
	return rows
}

// changeRows flattens the per-metric comparisons.
func changeRows(result *model.RunResult) [][]string {
	rows := [][]string{changeColumns}
	for _, cmp := range result.Comparisons {
		for _, c := range cmp.Changes {
			rows = append(rows, []string{
				string(cmp.Metric),
				c.City,
				strconv.Itoa(c.StartYear),
				strconv.Itoa(c.EndYear),
				formatFloat(c.StartValue),
				formatFloat(c.EndValue),
				formatFloat(c.NetChange),
				formatFloat(c.CAGRPct),
				formatFloat(c.TotalGrowthPct),
				formatFloat(c.CompositeScore),
			})
		}
	}
	return rows
}

// correlationRows renders the matrix with column labels on both axes. NaN
// entries become empty cells.
func correlationRows(m *model.CorrelationMatrix) [][]string {
	if m == nil {
		return [][]string{{"column"}}
	}
	header := append([]string{"column"}, m.Columns...)
	rows := [][]string{header}
	for i, col := range m.Columns {
		row := []string{col}
		for j := range m.Columns {
			v := m.At(i, j)
			if math.IsNaN(v) {
				row = append(row, "")
			} else {
				row = append(row, fmt.Sprintf("%.4f", v))
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func formatFloat(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatNullable(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

// sanitizeSheetName trims a city key to a legal XLSX sheet name.
func sanitizeSheetName(name string) string {
	replacer := strings.NewReplacer("/", "-", "\\", "-", "?", "", "*", "", "[", "(", "]", ")", ":", "-")
	s := replacer.Replace(name)
	if len(s) > 31 {
		s = s[:31]
	}
	return s
}
