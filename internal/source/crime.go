package source

import (
	"context"
	"fmt"
	"html"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/area"
	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/fetcher"
	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/model"
)

// CrimeDataSource scrapes per-year crime index values from city-data.com.
// The state page lists every city with a link to its detail page; the detail
// page carries the crime table whose footer row is the crime index.
type CrimeDataSource struct {
	fetcher fetcher.Fetcher
	baseURL string
}

// NewCrimeDataSource creates a CrimeDataSource.
func NewCrimeDataSource(f fetcher.Fetcher, baseURL string) *CrimeDataSource {
	return &CrimeDataSource{
		fetcher: f,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// FetchCrime returns the crime index per year for the city. A city missing
// from the state listing or lacking a crime table yields an empty slice and
// no error; transport failures return model.ErrSourceUnavailable so the
// caller can downgrade them to a partial-crime warning.
func (s *CrimeDataSource) FetchCrime(ctx context.Context, a *area.Area, years YearRange) ([]model.CrimeYear, error) {
	log := zap.L().With(zap.String("source", "crime"), zap.String("city", a.City), zap.String("state", a.State))

	stateName, ok := area.StateName(a.State)
	if !ok {
		return nil, eris.Wrapf(model.ErrSourceUnavailable, "crime: unknown state %q", a.State)
	}

	href, found, err := s.findCityLink(ctx, stateName, a.City, a.State)
	if err != nil {
		return nil, err
	}
	if !found {
		log.Warn("city not listed on state crime page")
		return nil, nil
	}

	page, err := s.download(ctx, s.baseURL+"/city/"+strings.TrimPrefix(href, "/city/"))
	if err != nil {
		return nil, eris.Wrapf(model.ErrSourceUnavailable, "crime: fetch city page: %v", err)
	}

	indexByYear, ok := parseCrimeIndex(page)
	if !ok {
		log.Warn("no crime table on city page")
		return nil, nil
	}

	out := make([]model.CrimeYear, 0, len(indexByYear))
	for year, idx := range indexByYear {
		if !years.Contains(year) {
			continue
		}
		out = append(out, model.CrimeYear{Year: year, CrimeIndex: idx})
	}

	log.Debug("crime years retrieved", zap.Int("years", len(out)))
	return out, nil
}

// findCityLink locates the city's detail page href in the state listing.
// Matching is exact on the city name with the ", ST" suffix stripped.
func (s *CrimeDataSource) findCityLink(ctx context.Context, stateName, city, state string) (string, bool, error) {
	page, err := s.download(ctx, fmt.Sprintf("%s/city/%s.html", s.baseURL, stateName))
	if err != nil {
		return "", false, eris.Wrapf(model.ErrSourceUnavailable, "crime: fetch state page: %v", err)
	}

	table := cityTableRe.Find(page)
	if table == nil {
		return "", false, nil
	}

	want := strings.ToLower(city)
	suffix := ", " + strings.ToUpper(state)

	for _, row := range cityRowRe.FindAllSubmatch(table, -1) {
		link := hrefAnchorRe.FindSubmatch(row[1])
		if link == nil {
			continue
		}
		name := strings.TrimSpace(html.UnescapeString(stripTags(string(link[2]))))
		name = strings.TrimSuffix(name, suffix)
		if strings.EqualFold(strings.TrimSpace(name), want) {
			return string(link[1]), true, nil
		}
	}

	return "", false, nil
}

func (s *CrimeDataSource) download(ctx context.Context, url string) ([]byte, error) {
	body, err := s.fetcher.Download(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck
	return io.ReadAll(io.LimitReader(body, 4<<20))
}

var (
	cityTableRe  = regexp.MustCompile(`(?is)<table[^>]*class="[^"]*tabBlue[^"]*tblsort[^"]*tblsticky[^"]*"[^>]*>.*?</table>`)
	cityRowRe    = regexp.MustCompile(`(?is)<tr[^>]*class="rB"[^>]*>(.*?)</tr>`)
	hrefAnchorRe = regexp.MustCompile(`(?is)<a[^>]*href="([^"]+)"[^>]*>(.*?)</a>`)

	crimeTableRe = regexp.MustCompile(`(?is)<table[^>]*class="[^"]*tblsticky[^"]*sortable[^"]*"[^>]*>(.*?)</table>`)
	theadRe      = regexp.MustCompile(`(?is)<thead[^>]*>(.*?)</thead>`)
	tfootRe      = regexp.MustCompile(`(?is)<tfoot[^>]*>(.*?)</tfoot>`)
	thCellRe     = regexp.MustCompile(`(?is)<th[^>]*>(.*?)</th>`)
	tdCellRe     = regexp.MustCompile(`(?is)<td[^>]*>(.*?)</td>`)
	tagRe        = regexp.MustCompile(`(?s)<[^>]*>`)
)

// parseCrimeIndex extracts the per-year crime index from the city crime
// table. The header row carries the years; the footer row carries the index.
func parseCrimeIndex(page []byte) (map[int]float64, bool) {
	table := crimeTableRe.FindSubmatch(page)
	if table == nil {
		return nil, false
	}

	head := theadRe.FindSubmatch(table[1])
	foot := tfootRe.FindSubmatch(table[1])
	if head == nil || foot == nil {
		return nil, false
	}

	// First header cell is the crime-type label column.
	var years []int
	for i, th := range thCellRe.FindAllSubmatch(head[1], -1) {
		if i == 0 {
			continue
		}
		year, err := strconv.Atoi(cellText(th[1]))
		if err != nil {
			years = append(years, 0)
			continue
		}
		years = append(years, year)
	}
	if len(years) == 0 {
		return nil, false
	}

	cells := tdCellRe.FindAllSubmatch(foot[1], -1)
	if len(cells) < 2 {
		return nil, false
	}

	// First footer cell is the "City-Data.com crime index" label.
	out := make(map[int]float64)
	for i, td := range cells[1:] {
		if i >= len(years) || years[i] == 0 {
			continue
		}
		v, err := strconv.ParseFloat(cellText(td[1]), 64)
		if err != nil {
			continue
		}
		out[years[i]] = v
	}

	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

func cellText(cell []byte) string {
	return strings.TrimSpace(html.UnescapeString(stripTags(string(cell))))
}

func stripTags(s string) string {
	return tagRe.ReplaceAllString(s, "")
}
