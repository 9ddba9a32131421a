package model

import "github.com/rotisserie/eris"

// Sentinel errors for the per-city failure taxonomy. Callers classify with
// eris.Is; the pipeline converts them into Warning entries on the run report.
var (
	// ErrCityNotFound: the place could not be resolved to a county.
	ErrCityNotFound = eris.New("city not found")

	// ErrSourceUnavailable: a source fetcher failed or timed out. Fatal for
	// demographics and employment, downgraded to a partial-crime warning for
	// the crime source.
	ErrSourceUnavailable = eris.New("source unavailable")

	// ErrNoDataForRange: the join produced zero usable years.
	ErrNoDataForRange = eris.New("no data for requested range")
)
