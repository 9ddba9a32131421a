// Package fetcher downloads remote data over HTTP with per-host rate
// limiting, retry, and exponential backoff.
package fetcher

import (
	"context"
	"io"
)

// Fetcher defines the interface for talking to the upstream data sources.
type Fetcher interface {
	// Download fetches the URL with GET and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// PostJSON sends the payload as a JSON body and returns the response body.
	PostJSON(ctx context.Context, url string, payload any) (io.ReadCloser, error)
}
