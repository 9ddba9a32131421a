// Package input builds the selection list from CLI flags or a CSV/YAML
// selections file.
package input

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/fetcher"
	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/model"
)

var titler = cases.Title(language.AmericanEnglish)

// TitleCase normalizes a city name to title case, e.g. "st. augustine" to
// "St. Augustine".
func TitleCase(city string) string {
	return titler.String(strings.TrimSpace(city))
}

// ParseCityFlag splits a "City,ST" flag value into its parts.
func ParseCityFlag(s string) (city, state string, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return "", "", eris.Errorf(`input: city flag %q must look like "Orlando,FL"`, s)
	}
	city = TitleCase(parts[0])
	state = strings.ToUpper(strings.TrimSpace(parts[1]))
	if city == "" || state == "" {
		return "", "", eris.Errorf("input: city flag %q missing city or state", s)
	}
	return city, state, nil
}

// FromFlags builds selections from repeated "City,ST" flag values and a
// shared year range.
func FromFlags(cityFlags []string, startYear, endYear int) ([]model.Selection, error) {
	selections := make([]model.Selection, 0, len(cityFlags))
	for _, flag := range cityFlags {
		city, state, err := ParseCityFlag(flag)
		if err != nil {
			return nil, err
		}
		selections = append(selections, model.Selection{
			City:      city,
			State:     state,
			StartYear: startYear,
			EndYear:   endYear,
		})
	}
	return selections, nil
}

// LoadFile reads selections from a .csv or .yaml/.yml file.
func LoadFile(ctx context.Context, path string) ([]model.Selection, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSV(ctx, path)
	case ".yaml", ".yml":
		return loadYAML(path)
	default:
		return nil, eris.Errorf("input: unsupported selections file %q (want .csv or .yaml)", path)
	}
}

// loadCSV reads selections from a CSV file with a
// city,state,start_year,end_year header.
func loadCSV(ctx context.Context, path string) ([]model.Selection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "input: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	headerCh := make(chan []string, 1)
	rowCh, errCh := fetcher.StreamCSV(ctx, f, fetcher.CSVOptions{
		HasHeader: true,
		HeaderCh:  headerCh,
		TrimSpace: true,
	})

	var rows [][]string
	for row := range rowCh {
		rows = append(rows, row)
	}
	if err := <-errCh; err != nil {
		return nil, eris.Wrapf(err, "input: read %s", path)
	}

	// The header only arrives once a row was read, so an empty file shows up
	// as a missing header here rather than a blocked receive above.
	var header []string
	select {
	case header = <-headerCh:
	default:
		return nil, eris.Errorf("input: %s: empty selections file", path)
	}

	cols := make(map[string]int, len(header))
	for i, col := range header {
		cols[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, required := range []string{"city", "state", "start_year", "end_year"} {
		if _, ok := cols[required]; !ok {
			return nil, eris.Errorf("input: %s: missing column %q", path, required)
		}
	}

	var selections []model.Selection
	for _, row := range rows {
		get := func(name string) string {
			idx := cols[name]
			if idx >= len(row) {
				return ""
			}
			return row[idx]
		}

		start, err := strconv.Atoi(get("start_year"))
		if err != nil {
			return nil, eris.Wrapf(err, "input: %s: bad start_year in row %v", path, row)
		}
		end, err := strconv.Atoi(get("end_year"))
		if err != nil {
			return nil, eris.Wrapf(err, "input: %s: bad end_year in row %v", path, row)
		}

		selections = append(selections, model.Selection{
			City:      TitleCase(get("city")),
			State:     strings.ToUpper(get("state")),
			StartYear: start,
			EndYear:   end,
		})
	}

	return selections, nil
}

// loadYAML reads selections from a YAML list.
func loadYAML(path string) ([]model.Selection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "input: read %s", path)
	}

	var doc struct {
		Cities []model.Selection `yaml:"cities"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrapf(err, "input: parse %s", path)
	}

	for i := range doc.Cities {
		doc.Cities[i].City = TitleCase(doc.Cities[i].City)
		doc.Cities[i].State = strings.ToUpper(strings.TrimSpace(doc.Cities[i].State))
	}
	return doc.Cities, nil
}
