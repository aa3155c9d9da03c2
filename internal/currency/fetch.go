package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Fetcher retrieves a live snapshot.
type Fetcher interface {
	Fetch(ctx context.Context, base string) (Snapshot, error)
}

// HTTPFetcher reads rates from a JSON endpoint answering
// GET <endpoint>?base=USD with {"base": "USD", "timestamp": 1718000000, "rates": {...}}.
// Unsupported codes are dropped. FetchedAt is the time of retrieval.
type HTTPFetcher struct {
	endpoint   string
	httpClient *http.Client
}

func NewHTTPFetcher(endpoint string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, base string) (Snapshot, error) {
	u, err := url.Parse(f.endpoint)
	if err != nil {
		return Snapshot{}, fmt.Errorf("parse fx endpoint: %w", err)
	}
	q := u.Query()
	q.Set("base", Normalize(base))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Snapshot{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return Snapshot{}, fmt.Errorf("fetch fx rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Snapshot{}, fmt.Errorf("fx endpoint returned status %d", resp.StatusCode)
	}

	var body struct {
		Base  string             `json:"base"`
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Snapshot{}, fmt.Errorf("decode fx rates: %w", err)
	}
	if Normalize(body.Base) != Normalize(base) {
		return Snapshot{}, fmt.Errorf("fx endpoint answered base %q, want %q", body.Base, base)
	}

	rates := make(map[string]float64, len(supported))
	for code, r := range body.Rates {
		if Supported(code) && r > 0 {
			rates[Normalize(code)] = r
		}
	}

	return NewSnapshot(base, rates, time.Now().UTC(), SourceLive), nil
}
