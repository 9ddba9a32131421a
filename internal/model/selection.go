package model

import (
	"github.com/rotisserie/eris"
)

// Earliest year for which ACS 5-year estimates are published.
const MinYear = 2009

// Selection is one user-requested (city, state, year range) to analyze.
type Selection struct {
	City      string `json:"city" yaml:"city"`
	State     string `json:"state" yaml:"state"`
	StartYear int    `json:"start_year" yaml:"start_year"`
	EndYear   int    `json:"end_year" yaml:"end_year"`
}

// Key returns the "City, ST" identifier used across the run.
func (s Selection) Key() string {
	return s.City + ", " + s.State
}

// Validate checks the selection is well-formed.
func (s Selection) Validate() error {
	if s.City == "" {
		return eris.New("selection: city is required")
	}
	if len(s.State) != 2 {
		return eris.Errorf("selection: %q: state must be a 2-letter abbreviation, got %q", s.City, s.State)
	}
	if s.StartYear < MinYear {
		return eris.Errorf("selection: %s: start year %d predates available data (%d)", s.Key(), s.StartYear, MinYear)
	}
	if s.EndYear < s.StartYear {
		return eris.Errorf("selection: %s: end year %d before start year %d", s.Key(), s.EndYear, s.StartYear)
	}
	return nil
}
