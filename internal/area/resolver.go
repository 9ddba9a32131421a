package area

import (
	"context"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/fetcher"
	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/model"
)

// Area is a resolved place: the county anchoring the demographic join plus
// the FIPS codes the Census and BLS APIs key on.
type Area struct {
	City       string `json:"city"`
	State      string `json:"state"`
	County     string `json:"county"`
	StateFIPS  string `json:"state_fips"`
	CountyFIPS string `json:"county_fips"`
}

// FIPS returns the combined 5-digit state+county FIPS code.
func (a Area) FIPS() string {
	return CombineFIPS(a.StateFIPS, a.CountyFIPS)
}

// Resolver maps a (city, state) pair to its county.
type Resolver interface {
	Resolve(ctx context.Context, city, state string) (*Area, error)
}

// CityDataResolver resolves counties by scraping the city-data.com breadcrumb
// and matching the county name against the Census Bureau county listing.
type CityDataResolver struct {
	fetcher      fetcher.Fetcher
	cityDataBase string
	censusBase   string
	censusKey    string
}

// NewResolver creates a CityDataResolver.
func NewResolver(f fetcher.Fetcher, cityDataBase, censusBase, censusKey string) *CityDataResolver {
	return &CityDataResolver{
		fetcher:      f,
		cityDataBase: strings.TrimRight(cityDataBase, "/"),
		censusBase:   strings.TrimRight(censusBase, "/"),
		censusKey:    censusKey,
	}
}

// Resolve finds the county for a city. It fails with model.ErrCityNotFound
// when the state is unknown, the city page is missing, the breadcrumb carries
// no county, or the county has no FIPS entry.
func (r *CityDataResolver) Resolve(ctx context.Context, city, state string) (*Area, error) {
	log := zap.L().With(zap.String("city", city), zap.String("state", state))

	stateName, ok := StateName(state)
	if !ok {
		return nil, eris.Wrapf(model.ErrCityNotFound, "area: unknown state abbreviation %q", state)
	}
	stateCode, _ := StateFIPS(state)

	pageURL := fmt.Sprintf("%s/city/%s-%s.html", r.cityDataBase, strings.ReplaceAll(city, " ", "-"), stateName)
	body, err := r.fetcher.Download(ctx, pageURL)
	if err != nil {
		return nil, eris.Wrapf(model.ErrCityNotFound, "area: fetch city page for %s, %s: %v", city, state, err)
	}
	data, err := io.ReadAll(io.LimitReader(body, 2<<20))
	_ = body.Close()
	if err != nil {
		return nil, eris.Wrapf(err, "area: read city page for %s, %s", city, state)
	}

	county, ok := parseBreadcrumbCounty(data)
	if !ok {
		return nil, eris.Wrapf(model.ErrCityNotFound, "area: no county breadcrumb for %s, %s", city, state)
	}

	countyCode, err := r.lookupCountyFIPS(ctx, stateCode, county)
	if err != nil {
		return nil, err
	}

	log.Debug("resolved county",
		zap.String("county", county),
		zap.String("fips", CombineFIPS(stateCode, countyCode)),
	)

	return &Area{
		City:       city,
		State:      strings.ToUpper(state),
		County:     county,
		StateFIPS:  stateCode,
		CountyFIPS: countyCode,
	}, nil
}

// lookupCountyFIPS finds the 3-digit county code by name in the Census
// Bureau county listing for the state. Exact match wins; a containment match
// is accepted as a fallback for variants like "St." vs "Saint".
func (r *CityDataResolver) lookupCountyFIPS(ctx context.Context, stateCode, county string) (string, error) {
	listURL := fmt.Sprintf("%s/data/2010/dec/sf1?get=NAME&for=county:*&in=state:%s&key=%s",
		r.censusBase, stateCode, r.censusKey)

	body, err := r.fetcher.Download(ctx, listURL)
	if err != nil {
		return "", eris.Wrapf(model.ErrSourceUnavailable, "area: county listing for state %s: %v", stateCode, err)
	}
	defer body.Close() //nolint:errcheck

	rows, err := fetcher.DecodeJSONObject[[][]string](body)
	if err != nil {
		return "", eris.Wrapf(err, "area: parse county listing for state %s", stateCode)
	}
	if len(*rows) < 2 {
		return "", eris.Wrapf(model.ErrCityNotFound, "area: empty county listing for state %s", stateCode)
	}

	want := strings.ToLower(trimCounty(county))

	// Skip the header row; columns are NAME, state, county.
	var partial string
	for _, row := range (*rows)[1:] {
		if len(row) < 3 {
			continue
		}
		name := strings.ToLower(trimCounty(strings.SplitN(row[0], ",", 2)[0]))
		if name == want {
			return NormalizeFIPSCounty(row[2]), nil
		}
		if partial == "" && (strings.Contains(name, want) || strings.Contains(want, name)) {
			partial = NormalizeFIPSCounty(row[2])
		}
	}
	if partial != "" {
		return partial, nil
	}

	return "", eris.Wrapf(model.ErrCityNotFound, "area: county %q not in listing for state %s", county, stateCode)
}

var (
	breadcrumbRe = regexp.MustCompile(`(?is)<ol[^>]*class="[^"]*breadcrumb[^"]*"[^>]*>(.*?)</ol>`)
	listItemRe   = regexp.MustCompile(`(?is)<li[^>]*>(.*?)</li>`)
	anchorTextRe = regexp.MustCompile(`(?is)<a[^>]*>(.*?)</a>`)
)

// parseBreadcrumbCounty extracts the county name from the city page
// breadcrumb. The county link is the third item (Home > State > County > City).
func parseBreadcrumbCounty(page []byte) (string, bool) {
	crumb := breadcrumbRe.FindSubmatch(page)
	if crumb == nil {
		return "", false
	}

	items := listItemRe.FindAllSubmatch(crumb[1], -1)
	if len(items) < 3 {
		return "", false
	}

	link := anchorTextRe.FindSubmatch(items[2][1])
	if link == nil {
		return "", false
	}

	county := strings.TrimSpace(html.UnescapeString(string(link[1])))
	if county == "" {
		return "", false
	}
	return county, true
}
