package source

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/area"
	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/fetcher"
	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/model"
)

// ACS 5-year estimate variables.
const (
	varTotalPopulation = "B01003_001E"
	varMedianAge       = "B01002_001E"
)

// CensusSource fetches county population and median age from the Census
// Bureau ACS 5-year estimates, one request per year.
type CensusSource struct {
	fetcher fetcher.Fetcher
	baseURL string
	apiKey  string
}

// NewCensusSource creates a CensusSource.
func NewCensusSource(f fetcher.Fetcher, baseURL, apiKey string) *CensusSource {
	return &CensusSource{
		fetcher: f,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// FetchDemographics retrieves one DemographicYear per year in the range.
// Years before the first published ACS 5-year vintage are skipped. Single
// missing years are logged and skipped; the source fails with
// model.ErrSourceUnavailable only when every requested year fails.
func (s *CensusSource) FetchDemographics(ctx context.Context, a *area.Area, years YearRange) ([]model.DemographicYear, error) {
	log := zap.L().With(zap.String("source", "census"), zap.String("county", a.County), zap.String("state", a.State))

	start := years.Start
	if start < model.MinYear {
		log.Warn("clamping start year to first ACS vintage", zap.Int("start", years.Start), zap.Int("min", model.MinYear))
		start = model.MinYear
	}

	var (
		out      []model.DemographicYear
		attempts int
	)
	for year := start; year <= years.End; year++ {
		attempts++

		rec, err := s.fetchYear(ctx, a, year)
		if err != nil {
			log.Warn("skip census year", zap.Int("year", year), zap.Error(err))
			continue
		}
		out = append(out, *rec)
	}

	if attempts > 0 && len(out) == 0 {
		return nil, eris.Wrapf(model.ErrSourceUnavailable, "census: no years retrieved for %s (%s)", a.County, a.FIPS())
	}

	return out, nil
}

func (s *CensusSource) fetchYear(ctx context.Context, a *area.Area, year int) (*model.DemographicYear, error) {
	url := fmt.Sprintf("%s/data/%d/acs/acs5?get=%s,%s&for=county:%s&in=state:%s&key=%s",
		s.baseURL, year, varTotalPopulation, varMedianAge, a.CountyFIPS, a.StateFIPS, s.apiKey)

	body, err := s.fetcher.Download(ctx, url)
	if err != nil {
		return nil, eris.Wrapf(err, "census: fetch year %d", year)
	}
	defer body.Close() //nolint:errcheck

	// The API returns a 2-row array: headers, then values.
	rows, err := fetcher.DecodeJSONObject[[][]string](body)
	if err != nil {
		return nil, eris.Wrapf(err, "census: parse year %d", year)
	}
	if len(*rows) < 2 {
		return nil, eris.Errorf("census: year %d: expected header and value rows, got %d", year, len(*rows))
	}

	cols := indexColumns((*rows)[0])
	values := (*rows)[1]

	pop, err := columnInt64(values, cols, varTotalPopulation)
	if err != nil {
		return nil, eris.Wrapf(err, "census: year %d population", year)
	}
	age, err := columnFloat64(values, cols, varMedianAge)
	if err != nil {
		return nil, eris.Wrapf(err, "census: year %d median age", year)
	}

	return &model.DemographicYear{Year: year, Population: pop, MedianAge: age}, nil
}

func indexColumns(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, col := range header {
		m[strings.TrimSpace(col)] = i
	}
	return m
}

func columnInt64(values []string, cols map[string]int, name string) (int64, error) {
	idx, ok := cols[name]
	if !ok || idx >= len(values) {
		return 0, eris.Errorf("missing column %s", name)
	}
	v, err := strconv.ParseInt(strings.TrimSpace(values[idx]), 10, 64)
	if err != nil {
		return 0, eris.Wrapf(err, "parse column %s", name)
	}
	return v, nil
}

func columnFloat64(values []string, cols map[string]int, name string) (float64, error) {
	idx, ok := cols[name]
	if !ok || idx >= len(values) {
		return 0, eris.Errorf("missing column %s", name)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(values[idx]), 64)
	if err != nil {
		return 0, eris.Wrapf(err, "parse column %s", name)
	}
	return v, nil
}
