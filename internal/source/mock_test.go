package source

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/area"
)

// mockFetcher serves canned bodies keyed by exact URL and records POST
// payloads for inspection.
type mockFetcher struct {
	pages    map[string]string
	postBody []byte
	urls     []string
}

func (m *mockFetcher) Download(_ context.Context, url string) (io.ReadCloser, error) {
	m.urls = append(m.urls, url)
	body, ok := m.pages[url]
	if !ok {
		return nil, eris.Errorf("no page for %s", url)
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func (m *mockFetcher) PostJSON(_ context.Context, url string, payload any) (io.ReadCloser, error) {
	m.urls = append(m.urls, url)
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	m.postBody = data

	body, ok := m.pages[url]
	if !ok {
		return nil, eris.Errorf("no page for %s", url)
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

var orangeCounty = &area.Area{
	City:       "Orlando",
	State:      "FL",
	County:     "Orange County",
	StateFIPS:  "12",
	CountyFIPS: "095",
}
