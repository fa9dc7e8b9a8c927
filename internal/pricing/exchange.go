package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// RateFetcher fetches the live USD→PHP rate. It never returns an error:
// any failure, or a non-positive rate, yields the configured fallback so
// order pricing always has a usable number.
type RateFetcher struct {
	httpClient *http.Client
	url        string
	fallback   float64
}

func NewRateFetcher(url string, fallback float64) *RateFetcher {
	return &RateFetcher{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		url:        url,
		fallback:   fallback,
	}
}

func (f *RateFetcher) Fallback() float64 { return f.fallback }

func (f *RateFetcher) Rate(ctx context.Context) float64 {
	rate, err := f.fetch(ctx)
	if err != nil {
		log.Warn().Err(err).Float64("fallback", f.fallback).Msg("exchange rate fetch failed, using fallback")
		return f.fallback
	}
	if rate <= 0 {
		log.Warn().Float64("rate", rate).Float64("fallback", f.fallback).Msg("exchange rate non-positive, using fallback")
		return f.fallback
	}
	return rate
}

func (f *RateFetcher) fetch(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build rate request: %w", err)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("rate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rate API returned %d", resp.StatusCode)
	}

	var body struct {
		Rates map[string]float64 `json:"rates"`
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("failed to read rate response: %w", err)
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return 0, fmt.Errorf("failed to decode rate response: %w", err)
	}
	return body.Rates["PHP"], nil
}
