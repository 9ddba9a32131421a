// Package source implements the per-category data source fetchers: Census
// demographics, BLS employment, and city-data.com crime statistics.
package source

import (
	"context"

	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/area"
	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/model"
)

// YearRange is the inclusive span of years requested for an analysis.
type YearRange struct {
	Start int
	End   int
}

// Contains reports whether the year falls inside the range.
func (r YearRange) Contains(year int) bool {
	return year >= r.Start && year <= r.End
}

// DemographicsSource fetches per-year county population and median age.
type DemographicsSource interface {
	FetchDemographics(ctx context.Context, a *area.Area, years YearRange) ([]model.DemographicYear, error)
}

// EmploymentSource fetches per-year county employment figures.
type EmploymentSource interface {
	FetchEmployment(ctx context.Context, a *area.Area, years YearRange) ([]model.EmploymentYear, error)
}

// CrimeSource fetches per-year city crime index values.
type CrimeSource interface {
	FetchCrime(ctx context.Context, a *area.Area, years YearRange) ([]model.CrimeYear, error)
}
