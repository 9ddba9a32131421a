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

// LAUS measure codes appended to the LAUCN series prefix.
const (
	measureUnemploymentRate = "03"
	measureEmployed         = "05"
)

// The BLS API rejects requests with more than 50 series.
const blsMaxSeriesPerRequest = 50

// BLSSource fetches county unemployment rate and employment level from the
// BLS Local Area Unemployment Statistics timeseries API.
type BLSSource struct {
	fetcher fetcher.Fetcher
	baseURL string
	apiKey  string
}

// NewBLSSource creates a BLSSource.
func NewBLSSource(f fetcher.Fetcher, baseURL, apiKey string) *BLSSource {
	return &BLSSource{
		fetcher: f,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

type blsRequest struct {
	SeriesID        []string `json:"seriesid"`
	StartYear       string   `json:"startyear"`
	EndYear         string   `json:"endyear"`
	AnnualAverage   bool     `json:"annualaverage"`
	RegistrationKey string   `json:"registrationkey"`
}

type blsResponse struct {
	Status  string   `json:"status"`
	Message []string `json:"message"`
	Results struct {
		Series []blsSeries `json:"series"`
	} `json:"Results"`
}

type blsSeries struct {
	SeriesID string `json:"seriesID"`
	Data     []struct {
		Year   string `json:"year"`
		Period string `json:"period"`
		Value  string `json:"value"`
	} `json:"data"`
}

// FetchEmployment retrieves per-year unemployment rate and employed
// population for the county. Annual averages (period M13) are preferred; the
// latest monthly figure is the fallback for years without one.
func (s *BLSSource) FetchEmployment(ctx context.Context, a *area.Area, years YearRange) ([]model.EmploymentYear, error) {
	log := zap.L().With(zap.String("source", "bls"), zap.String("county", a.County), zap.String("fips", a.FIPS()))

	unempSeries := lausSeriesID(a.FIPS(), measureUnemploymentRate)
	empSeries := lausSeriesID(a.FIPS(), measureEmployed)

	series, err := s.fetchSeries(ctx, []string{unempSeries, empSeries}, years)
	if err != nil {
		return nil, err
	}

	byYear := make(map[int]*model.EmploymentYear)
	record := func(year int) *model.EmploymentYear {
		if r, ok := byYear[year]; ok {
			return r
		}
		r := &model.EmploymentYear{Year: year}
		byYear[year] = r
		return r
	}

	for _, sr := range series {
		for year, value := range annualValues(sr) {
			if !years.Contains(year) {
				continue
			}
			v := value
			switch sr.SeriesID {
			case unempSeries:
				record(year).UnemploymentRate = &v
			case empSeries:
				record(year).Employed = &v
			}
		}
	}

	out := make([]model.EmploymentYear, 0, len(byYear))
	for _, r := range byYear {
		out = append(out, *r)
	}

	log.Debug("employment years retrieved", zap.Int("years", len(out)))
	return out, nil
}

func (s *BLSSource) fetchSeries(ctx context.Context, seriesIDs []string, years YearRange) ([]blsSeries, error) {
	var all []blsSeries

	for start := 0; start < len(seriesIDs); start += blsMaxSeriesPerRequest {
		end := min(start+blsMaxSeriesPerRequest, len(seriesIDs))

		payload := blsRequest{
			SeriesID:        seriesIDs[start:end],
			StartYear:       strconv.Itoa(years.Start),
			EndYear:         strconv.Itoa(years.End),
			AnnualAverage:   true,
			RegistrationKey: s.apiKey,
		}

		body, err := s.fetcher.PostJSON(ctx, s.baseURL+"/timeseries/data/", payload)
		if err != nil {
			return nil, eris.Wrapf(model.ErrSourceUnavailable, "bls: request failed: %v", err)
		}

		resp, err := fetcher.DecodeJSONObject[blsResponse](body)
		_ = body.Close()
		if err != nil {
			return nil, eris.Wrapf(model.ErrSourceUnavailable, "bls: parse response: %v", err)
		}

		if resp.Status != "REQUEST_SUCCEEDED" {
			return nil, eris.Wrapf(model.ErrSourceUnavailable, "bls: request failed: %s", strings.Join(resp.Message, "; "))
		}

		all = append(all, resp.Results.Series...)
	}

	return all, nil
}

// annualValues collapses a series into one value per year: the M13 annual
// average when published, otherwise the first (most recent) monthly value.
func annualValues(sr blsSeries) map[int]float64 {
	values := make(map[int]float64)
	annual := make(map[int]bool)

	for _, dp := range sr.Data {
		year, err := strconv.Atoi(dp.Year)
		if err != nil {
			continue
		}
		v, err := strconv.ParseFloat(dp.Value, 64)
		if err != nil {
			continue
		}

		if dp.Period == "M13" {
			values[year] = v
			annual[year] = true
			continue
		}
		if _, seen := values[year]; !seen && !annual[year] {
			values[year] = v
		}
	}

	return values
}

// lausSeriesID builds a 20-character LAUCN series ID: LAUCN + 5-digit FIPS +
// 8 zeros + 2-digit measure code.
func lausSeriesID(fips, measure string) string {
	return fmt.Sprintf("LAUCN%s%s%s", fips, "00000000", measure)
}
