package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	slogctx "github.com/veqryn/slog-context"
)

type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
}

// NewFetcher creates a fetcher. An empty userAgent sends no User-Agent and
// Accept headers; a zero timeout leaves requests unbounded.
func NewFetcher(httpClient *http.Client, userAgent string, timeout time.Duration) *Fetcher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Fetcher{
		httpClient: httpClient,
		userAgent:  userAgent,
		timeout:    timeout,
	}
}

// Run fetches the endpoints one at a time in order. Failed endpoints are
// logged, recorded in the result and skipped.
func (f *Fetcher) Run(ctx context.Context, endpoints []string) FetchResult {
	result := FetchResult{Posts: []Post{}}

	for _, endpoint := range endpoints {
		shape, posts, err := f.fetchEndpoint(ctx, endpoint)
		if err != nil {
			slogctx.FromCtx(ctx).WarnContext(ctx, "Failed to load endpoint", "endpoint", endpoint, "error", err)
			result.Failures = append(result.Failures, FetchFailure{Endpoint: endpoint, Err: err})
			continue
		}

		slogctx.FromCtx(ctx).DebugContext(ctx, "Endpoint loaded", "endpoint", endpoint, "shape", shape.String(), "posts", len(posts))
		result.Posts = append(result.Posts, posts...)
	}

	return result
}

func (f *Fetcher) fetchEndpoint(ctx context.Context, endpoint string) (Shape, []Post, error) {
	data, err := f.fetch(ctx, endpoint)
	if err != nil {
		return ShapeEmpty, nil, err
	}

	return DecodeResponse(data)
}

func (f *Fetcher) fetch(ctx context.Context, url string) ([]byte, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
		req.Header.Set("Accept", "application/json")
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP error: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
