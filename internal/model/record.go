package model

import "sort"

// Metric identifies one of the comparable per-year series.
type Metric string

const (
	MetricPopulation Metric = "population"
	MetricEmployment Metric = "employed_population"
	MetricCrimeIndex Metric = "crime_index"
)

// Metrics lists the comparable metrics in report order.
var Metrics = []Metric{MetricPopulation, MetricEmployment, MetricCrimeIndex}

// YearRecord is one joined row for a city. Population and median age come
// from the county-level Census data that anchors the join; employment and
// crime fields are nullable because those sources may lack individual years.
type YearRecord struct {
	CityID           string   `json:"city_id"`
	Year             int      `json:"year"`
	Population       int64    `json:"population"`
	MedianAge        float64  `json:"median_age"`
	UnemploymentRate *float64 `json:"unemployment_rate,omitempty"`
	Employed         *float64 `json:"employed_population,omitempty"`
	CrimeIndex       *float64 `json:"crime_index,omitempty"`
}

// MetricValue returns the record's value for the given metric, or false when
// the value is missing for that year.
func (r YearRecord) MetricValue(m Metric) (float64, bool) {
	switch m {
	case MetricPopulation:
		return float64(r.Population), true
	case MetricEmployment:
		if r.Employed == nil {
			return 0, false
		}
		return *r.Employed, true
	case MetricCrimeIndex:
		if r.CrimeIndex == nil {
			return 0, false
		}
		return *r.CrimeIndex, true
	default:
		return 0, false
	}
}

// CityDataset holds the joined per-year records for one city, sorted by year
// ascending with at most one record per year.
type CityDataset struct {
	City         string       `json:"city"`
	State        string       `json:"state"`
	County       string       `json:"county"`
	FIPS         string       `json:"fips"`
	Records      []YearRecord `json:"records"`
	CrimePartial bool         `json:"crime_partial"`
}

// Key returns the "City, ST" identifier used across the run.
func (d CityDataset) Key() string {
	return d.City + ", " + d.State
}

// Record returns the record for the given year, or false when absent.
func (d CityDataset) Record(year int) (YearRecord, bool) {
	for _, r := range d.Records {
		if r.Year == year {
			return r, true
		}
	}
	return YearRecord{}, false
}

// Sort orders the records by year ascending.
func (d *CityDataset) Sort() {
	sort.Slice(d.Records, func(i, j int) bool { return d.Records[i].Year < d.Records[j].Year })
}

// DemographicYear is a per-year fragment from the demographics source.
type DemographicYear struct {
	Year       int
	Population int64
	MedianAge  float64
}

// EmploymentYear is a per-year fragment from the employment source. Either
// series may be missing for a year.
type EmploymentYear struct {
	Year             int
	UnemploymentRate *float64
	Employed         *float64
}

// CrimeYear is a per-year fragment from the crime source.
type CrimeYear struct {
	Year       int
	CrimeIndex float64
}

// SourceFragments groups the three per-source record sets for one city prior
// to joining.
type SourceFragments struct {
	Demographics []DemographicYear
	Employment   []EmploymentYear
	Crime        []CrimeYear
}
