package export

import (
	"math"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/model"
)

// WriteXLSX writes the run as a single workbook: one sheet per city, a
// growth-analysis sheet, and a correlation sheet. Returns the file path.
func WriteXLSX(result *model.RunResult, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "export: create dir %s", dir)
	}

	f := xlsx.NewFile()

	for _, d := range result.Datasets {
		if err := addCitySheet(f, d); err != nil {
			return "", err
		}
	}
	if err := addChangeSheet(f, result); err != nil {
		return "", err
	}
	if err := addCorrelationSheet(f, result.Correlation); err != nil {
		return "", err
	}

	path := filepath.Join(dir, "city_analysis.xlsx")
	if err := f.Save(path); err != nil {
		return "", eris.Wrapf(err, "export: save %s", path)
	}
	return path, nil
}

func addCitySheet(f *xlsx.File, d model.CityDataset) error {
	sheet, err := f.AddSheet(sanitizeSheetName(d.Key()))
	if err != nil {
		return eris.Wrapf(err, "export: add sheet for %s", d.Key())
	}

	writeStringRow(sheet, yearColumns[1:])
	for _, r := range d.Records {
		row := sheet.AddRow()
		row.AddCell().SetInt(r.Year)
		row.AddCell().SetInt64(r.Population)
		row.AddCell().SetFloat(r.MedianAge)
		setNullable(row, r.UnemploymentRate)
		setNullable(row, r.Employed)
		setNullable(row, r.CrimeIndex)
	}
	return nil
}

func addChangeSheet(f *xlsx.File, result *model.RunResult) error {
	sheet, err := f.AddSheet("Growth Analysis")
	if err != nil {
		return eris.Wrap(err, "export: add growth sheet")
	}

	writeStringRow(sheet, changeColumns)
	for _, cmp := range result.Comparisons {
		for _, c := range cmp.Changes {
			row := sheet.AddRow()
			row.AddCell().SetString(string(cmp.Metric))
			row.AddCell().SetString(c.City)
			row.AddCell().SetInt(c.StartYear)
			row.AddCell().SetInt(c.EndYear)
			row.AddCell().SetFloat(c.StartValue)
			row.AddCell().SetFloat(c.EndValue)
			row.AddCell().SetFloat(c.NetChange)
			row.AddCell().SetFloat(c.CAGRPct)
			row.AddCell().SetFloat(c.TotalGrowthPct)
			row.AddCell().SetFloat(c.CompositeScore)
		}
	}
	return nil
}

func addCorrelationSheet(f *xlsx.File, m *model.CorrelationMatrix) error {
	sheet, err := f.AddSheet("Correlation")
	if err != nil {
		return eris.Wrap(err, "export: add correlation sheet")
	}
	if m == nil {
		return nil
	}

	writeStringRow(sheet, append([]string{""}, m.Columns...))
	for i, col := range m.Columns {
		row := sheet.AddRow()
		row.AddCell().SetString(col)
		for j := range m.Columns {
			cell := row.AddCell()
			if v := m.At(i, j); !math.IsNaN(v) {
				cell.SetFloat(v)
			}
		}
	}
	return nil
}

func writeStringRow(sheet *xlsx.Sheet, values []string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

func setNullable(row *xlsx.Row, v *float64) {
	cell := row.AddCell()
	if v != nil {
		cell.SetFloat(*v)
	}
}
