package model

import (
	"encoding/json"
	"math"
	"time"
)

// WarningCode classifies a per-city problem collected into the run report.
type WarningCode string

const (
	WarnCityNotFound      WarningCode = "city_not_found"
	WarnSourceUnavailable WarningCode = "source_unavailable"
	WarnNoDataForRange    WarningCode = "no_data_for_range"
	WarnPartialCrimeData  WarningCode = "partial_crime_data"
)

// Warning records a non-fatal (or city-fatal) problem surfaced to the caller.
// Fatal means the city was dropped from the run; non-fatal warnings accompany
// a city that still appears in the results.
type Warning struct {
	Code   WarningCode `json:"code"`
	City   string      `json:"city"`
	Source string      `json:"source,omitempty"`
	Detail string      `json:"detail"`
	Fatal  bool        `json:"fatal"`
}

// MetricChange is one city's net change for a metric between the first and
// last years that carry a value for that metric.
type MetricChange struct {
	City       string  `json:"city"`
	StartYear  int     `json:"start_year"`
	EndYear    int     `json:"end_year"`
	StartValue float64 `json:"start_value"`
	EndValue   float64 `json:"end_value"`
	NetChange  float64 `json:"net_change"`

	// Growth figures carried alongside the net change. CAGR and total growth
	// apply to population and employment; the composite score (employment
	// CAGR minus twice the unemployment-rate change) only to employment.
	CAGRPct        float64 `json:"cagr_pct,omitempty"`
	TotalGrowthPct float64 `json:"total_growth_pct,omitempty"`
	CompositeScore float64 `json:"composite_score,omitempty"`
}

// ComparisonResult holds, for one metric, the strongest city and the
// per-city change series the decision was made from.
type ComparisonResult struct {
	Metric    Metric         `json:"metric"`
	Strongest *MetricChange  `json:"strongest,omitempty"`
	Changes   []MetricChange `json:"changes"`
}

// CorrelationMatrix is a symmetric matrix of Pearson coefficients over the
// numeric columns. Entries may be NaN where a column has zero variance or
// too few complete observations; NaN serializes as null.
type CorrelationMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// At returns the coefficient for the given column pair.
func (m *CorrelationMatrix) At(i, j int) float64 {
	return m.Values[i][j]
}

// MarshalJSON encodes NaN entries as null, which encoding/json otherwise
// rejects.
func (m *CorrelationMatrix) MarshalJSON() ([]byte, error) {
	values := make([][]*float64, len(m.Values))
	for i, row := range m.Values {
		values[i] = make([]*float64, len(row))
		for j := range row {
			if !math.IsNaN(row[j]) {
				v := row[j]
				values[i][j] = &v
			}
		}
	}
	return json.Marshal(struct {
		Columns []string     `json:"columns"`
		Values  [][]*float64 `json:"values"`
	}{Columns: m.Columns, Values: values})
}

// UnmarshalJSON restores null entries to NaN.
func (m *CorrelationMatrix) UnmarshalJSON(data []byte) error {
	var raw struct {
		Columns []string     `json:"columns"`
		Values  [][]*float64 `json:"values"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Columns = raw.Columns
	m.Values = make([][]float64, len(raw.Values))
	for i, row := range raw.Values {
		m.Values[i] = make([]float64, len(row))
		for j, v := range row {
			if v == nil {
				m.Values[i][j] = math.NaN()
			} else {
				m.Values[i][j] = *v
			}
		}
	}
	return nil
}

// RunResult is the full output of one analysis run.
type RunResult struct {
	RunID       string             `json:"run_id"`
	Selections  []Selection        `json:"selections"`
	Datasets    []CityDataset      `json:"datasets"`
	Comparisons []ComparisonResult `json:"comparisons"`
	Correlation *CorrelationMatrix `json:"correlation,omitempty"`
	Warnings    []Warning          `json:"warnings"`
	StartedAt   time.Time          `json:"started_at"`
	Duration    time.Duration      `json:"duration_ms"`
}

// Dataset returns the dataset for the given "City, ST" key, or nil.
func (r *RunResult) Dataset(key string) *CityDataset {
	for i := range r.Datasets {
		if r.Datasets[i].Key() == key {
			return &r.Datasets[i]
		}
	}
	return nil
}
