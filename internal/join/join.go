// Package join merges the per-source year fragments for one city into a
// single CityDataset keyed on (city, year).
package join

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/area"
	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/model"
)

// City joins the source fragments into one dataset spanning the requested
// year range. Demographics anchor the join: a year appears only when a
// demographic record exists for it, and zero demographic years inside the
// range fails with model.ErrNoDataForRange. Employment and crime values are
// attached where present; missing crime years are retained with a null index
// and reported through a PartialCrimeData warning.
func City(sel model.Selection, a *area.Area, frags model.SourceFragments) (*model.CityDataset, []model.Warning, error) {
	demoByYear := make(map[int]model.DemographicYear)
	for _, d := range frags.Demographics {
		if d.Year < sel.StartYear || d.Year > sel.EndYear {
			continue
		}
		demoByYear[d.Year] = d
	}
	if len(demoByYear) == 0 {
		return nil, nil, eris.Wrapf(model.ErrNoDataForRange,
			"join: %s: no demographic years in %d-%d", sel.Key(), sel.StartYear, sel.EndYear)
	}

	empByYear := make(map[int]model.EmploymentYear, len(frags.Employment))
	for _, e := range frags.Employment {
		empByYear[e.Year] = e
	}
	crimeByYear := make(map[int]float64, len(frags.Crime))
	for _, c := range frags.Crime {
		crimeByYear[c.Year] = c.CrimeIndex
	}

	dataset := &model.CityDataset{
		City:   a.City,
		State:  a.State,
		County: a.County,
		FIPS:   a.FIPS(),
	}

	var missingCrime []int
	for year, d := range demoByYear {
		rec := model.YearRecord{
			CityID:     sel.Key(),
			Year:       year,
			Population: d.Population,
			MedianAge:  d.MedianAge,
		}
		if e, ok := empByYear[year]; ok {
			rec.UnemploymentRate = e.UnemploymentRate
			rec.Employed = e.Employed
		}
		if idx, ok := crimeByYear[year]; ok {
			v := idx
			rec.CrimeIndex = &v
		} else {
			missingCrime = append(missingCrime, year)
		}
		dataset.Records = append(dataset.Records, rec)
	}
	dataset.Sort()

	var warnings []model.Warning
	if len(missingCrime) > 0 {
		sort.Ints(missingCrime)
		dataset.CrimePartial = true
		warnings = append(warnings, model.Warning{
			Code:   model.WarnPartialCrimeData,
			City:   sel.Key(),
			Source: "crime",
			Detail: fmt.Sprintf("crime index unavailable for %s", formatYears(missingCrime)),
		})
	}

	return dataset, warnings, nil
}

// formatYears renders a sorted year list compactly, collapsing runs.
func formatYears(years []int) string {
	var parts []string
	for i := 0; i < len(years); {
		j := i
		for j+1 < len(years) && years[j+1] == years[j]+1 {
			j++
		}
		if j > i {
			parts = append(parts, fmt.Sprintf("%d-%d", years[i], years[j]))
		} else {
			parts = append(parts, fmt.Sprintf("%d", years[i]))
		}
		i = j + 1
	}
	return strings.Join(parts, ", ")
}
