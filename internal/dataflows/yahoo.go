package dataflows

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/piquette/finance-go/quote"
)

// YahooQuoteSource is the primary feed for index and futures changes,
// served by the Yahoo Finance quote API.
type YahooQuoteSource struct {
	Symbol string
}

func (s *YahooQuoteSource) Name() string { return "yahoo-quote" }

// Fetch computes (current - previousClose) / previousClose * 100. The
// quote library has no context support, so the call runs in a goroutine
// and the attempt deadline is enforced here.
func (s *YahooQuoteSource) Fetch(ctx context.Context) (Value, error) {
	type result struct {
		pct float64
		err error
	}
	done := make(chan result, 1)

	go func() {
		q, err := quote.Get(s.Symbol)
		if err != nil {
			done <- result{err: fmt.Errorf("get quote for %s: %w", s.Symbol, err)}
			return
		}
		if q == nil || q.RegularMarketPreviousClose <= 0 {
			done <- result{err: fmt.Errorf("%w: %s quote has no previous close", ErrInvalidResponse, s.Symbol)}
			return
		}
		pct := (q.RegularMarketPrice - q.RegularMarketPreviousClose) / q.RegularMarketPreviousClose * 100
		done <- result{pct: pct}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return Value{}, r.err
		}
		return Value{Pct: r.pct}, nil
	case <-ctx.Done():
		return Value{}, fmt.Errorf("quote fetch for %s: %w", s.Symbol, ctx.Err())
	}
}

// DefaultChartBaseURL is the production Yahoo v8 chart endpoint.
const DefaultChartBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// YahooChartSource is the secondary feed for index and futures changes.
// It hits the v8 chart endpoint, whose response schema differs from the
// quote API, and extracts the change from the result metadata.
type YahooChartSource struct {
	Client  *resty.Client
	BaseURL string
	Symbol  string
}

func (s *YahooChartSource) Name() string { return "yahoo-chart" }

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"previousClose"`
			} `json:"meta"`
		} `json:"result"`
	} `json:"chart"`
}

func (s *YahooChartSource) Fetch(ctx context.Context) (Value, error) {
	base := s.BaseURL
	if base == "" {
		base = DefaultChartBaseURL
	}
	resp, err := s.Client.R().
		SetContext(ctx).
		Get(base + "/" + s.Symbol)
	if err != nil {
		return Value{}, fmt.Errorf("fetch chart for %s: %w", s.Symbol, err)
	}
	if resp.StatusCode() != 200 {
		return Value{}, fmt.Errorf("chart API for %s returned %d", s.Symbol, resp.StatusCode())
	}

	var payload yahooChartResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return Value{}, fmt.Errorf("%w: chart payload for %s: %v", ErrInvalidResponse, s.Symbol, err)
	}
	if len(payload.Chart.Result) == 0 {
		return Value{}, fmt.Errorf("%w: chart payload for %s has no result", ErrInvalidResponse, s.Symbol)
	}

	meta := payload.Chart.Result[0].Meta
	if meta.PreviousClose <= 0 || meta.RegularMarketPrice <= 0 {
		return Value{}, fmt.Errorf("%w: chart meta for %s has invalid prices", ErrInvalidResponse, s.Symbol)
	}

	pct := (meta.RegularMarketPrice - meta.PreviousClose) / meta.PreviousClose * 100
	return Value{Pct: pct}, nil
}
