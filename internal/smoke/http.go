package smoke

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/okian/morsel/internal/domain/model"
	"github.com/okian/morsel/internal/domain/types"
)

const maxBodyBytes = 16 << 20

// HTTPClient wraps http.Client with a base URL.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// NewHTTPClient creates a client for baseURL with the given timeout.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// get performs a GET and returns status and body.
func (c *HTTPClient) get(ctx context.Context, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return 0, nil, fmt.Errorf("build request %s: %w", path, err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read %s: %w", path, err)
	}
	return resp.StatusCode, body, nil
}

// getJSON decodes a 200 response into v.
func (c *HTTPClient) getJSON(ctx context.Context, path string, v any) error {
	status, body, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("GET %s: status %d: %s", path, status, body)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func seriesPath(f model.RegionFilter) string {
	return "/api/series?region=" + url.QueryEscape(f.String())
}

type seriesResult struct {
	filter model.RegionFilter
	series model.DailySeries
	err    error
}

// fetchSeries requests every filter concurrently with at most workers
// requests in flight. Results are keyed by filter.
func fetchSeries(ctx context.Context, c *HTTPClient, filters []model.RegionFilter, workers int) (map[model.RegionFilter]model.DailySeries, error) {
	if workers < 1 {
		workers = 1
	}
	jobs := make(chan model.RegionFilter)
	results := make(chan seriesResult, len(filters))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range jobs {
				var resp types.SeriesResponse
				err := c.getJSON(ctx, seriesPath(f), &resp)
				if err == nil && resp.Region != f.String() {
					err = fmt.Errorf("series for %q answered as %q", f, resp.Region)
				}
				results <- seriesResult{filter: f, series: resp.Series(), err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, f := range filters {
			select {
			case <-ctx.Done():
				return
			case jobs <- f:
			}
		}
	}()

	wg.Wait()
	close(results)

	out := make(map[model.RegionFilter]model.DailySeries, len(filters))
	for r := range results {
		if r.err != nil {
			return nil, r.err
		}
		out[r.filter] = r.series
	}
	if len(out) != len(filters) {
		return nil, fmt.Errorf("fetched %d of %d series: %w", len(out), len(filters), ctx.Err())
	}
	return out, nil
}
