package dataflows

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"etfradar/internal/config"
)

// Production endpoints for the primary premium chain.
const (
	DefaultEastmoneyBaseURL = "http://push2.eastmoney.com/api/qt/stock/get"
	DefaultFundNavBaseURL   = "http://fundgz.1234567.com.cn/js"
)

// EastmoneySource is the primary premium feed: fund market price from the
// Eastmoney push2 quote API combined with the unit NAV from the fundgz
// endpoint. Premium = (price - nav) / nav * 100.
type EastmoneySource struct {
	Client     *resty.Client
	QuoteURL   string
	NavBaseURL string
	Instrument config.Instrument
}

func (s *EastmoneySource) Name() string { return "eastmoney" }

type eastmoneyQuoteResponse struct {
	Data *struct {
		F43 float64 `json:"f43"`
	} `json:"data"`
}

func (s *EastmoneySource) Fetch(ctx context.Context) (Value, error) {
	price, err := s.fetchPrice(ctx)
	if err != nil {
		return Value{}, err
	}

	nav, err := s.fetchNav(ctx)
	if err != nil {
		return Value{}, err
	}

	premium, _ := price.Sub(nav).Div(nav).Mul(decimal.NewFromInt(100)).Float64()
	return Value{Pct: premium}, nil
}

func (s *EastmoneySource) fetchPrice(ctx context.Context) (decimal.Decimal, error) {
	quoteURL := s.QuoteURL
	if quoteURL == "" {
		quoteURL = DefaultEastmoneyBaseURL
	}

	// secid prefix: 1 = Shanghai, 0 = Shenzhen.
	secid := "0." + s.Instrument.FundCode
	if s.Instrument.Exchange == "SH" {
		secid = "1." + s.Instrument.FundCode
	}

	resp, err := s.Client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"ut":     "fa5fd1943c7b386f172d6893dbfba10b",
			"invt":   "2",
			"fltt":   "2",
			"fields": "f43",
			"secid":  secid,
		}).
		Get(quoteURL)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetch eastmoney quote for %s: %w", s.Instrument.FundCode, err)
	}
	if resp.StatusCode() != 200 {
		return decimal.Zero, fmt.Errorf("eastmoney quote for %s returned %d", s.Instrument.FundCode, resp.StatusCode())
	}

	var payload eastmoneyQuoteResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return decimal.Zero, fmt.Errorf("%w: eastmoney payload for %s: %v", ErrInvalidResponse, s.Instrument.FundCode, err)
	}
	if payload.Data == nil || payload.Data.F43 <= 0 {
		return decimal.Zero, fmt.Errorf("%w: eastmoney quote for %s has no price", ErrInvalidResponse, s.Instrument.FundCode)
	}

	// f43 arrives in cents.
	return decimal.NewFromFloat(payload.Data.F43).Div(decimal.NewFromInt(100)), nil
}

type fundNavPayload struct {
	FundCode string `json:"fundcode"`
	UnitNav  string `json:"dwjz"`
	NavDate  string `json:"jzrq"`
}

func (s *EastmoneySource) fetchNav(ctx context.Context) (decimal.Decimal, error) {
	navBase := s.NavBaseURL
	if navBase == "" {
		navBase = DefaultFundNavBaseURL
	}

	resp, err := s.Client.R().
		SetContext(ctx).
		Get(fmt.Sprintf("%s/%s.js", navBase, s.Instrument.FundCode))
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetch nav for %s: %w", s.Instrument.FundCode, err)
	}
	if resp.StatusCode() != 200 {
		return decimal.Zero, fmt.Errorf("nav endpoint for %s returned %d", s.Instrument.FundCode, resp.StatusCode())
	}

	nav, err := parseFundNav(resp.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: nav payload for %s: %v", ErrInvalidResponse, s.Instrument.FundCode, err)
	}
	return nav, nil
}

// parseFundNav unwraps the jsonpgz(...) callback and decodes the inner
// JSON document. The wrapper is stripped by exact delimiters and the body
// goes through the standard JSON decoder; the payload is never evaluated
// as code.
func parseFundNav(body string) (decimal.Decimal, error) {
	body = strings.TrimSpace(body)

	const prefix, suffix = "jsonpgz(", ");"
	if !strings.HasPrefix(body, prefix) || !strings.HasSuffix(body, suffix) {
		return decimal.Zero, fmt.Errorf("unexpected jsonp wrapper")
	}
	inner := body[len(prefix) : len(body)-len(suffix)]

	var payload fundNavPayload
	if err := json.Unmarshal([]byte(inner), &payload); err != nil {
		return decimal.Zero, fmt.Errorf("decode nav json: %w", err)
	}

	nav, err := strconv.ParseFloat(payload.UnitNav, 64)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse unit nav %q: %w", payload.UnitNav, err)
	}
	if nav <= 0 {
		return decimal.Zero, fmt.Errorf("non-positive unit nav %v", nav)
	}
	return decimal.NewFromFloat(nav), nil
}
