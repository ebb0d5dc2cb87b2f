package dataflows

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"etfradar/internal/config"
)

// DefaultSinaBaseURL is the production Sina quote endpoint.
const DefaultSinaBaseURL = "http://hq.sinajs.cn/list="

// minSinaFields is the field count of a complete Sina ETF row.
const minSinaFields = 31

// SinaSource is the secondary premium feed. The Sina quote protocol is a
// line of comma-separated fields inside a JS string assignment; the unit
// NAV is not labelled, so it is located by a plausibility scan over the
// trailing fields. When no NAV can be found but the row still carries
// prices, the premium is estimated from the day's price movement and the
// value is flagged as such.
type SinaSource struct {
	Client     *resty.Client
	BaseURL    string
	Instrument config.Instrument
}

func (s *SinaSource) Name() string { return "sina" }

func (s *SinaSource) Fetch(ctx context.Context) (Value, error) {
	base := s.BaseURL
	if base == "" {
		base = DefaultSinaBaseURL
	}
	symbol := strings.ToLower(s.Instrument.Exchange) + s.Instrument.FundCode

	resp, err := s.Client.R().
		SetContext(ctx).
		SetHeader("Referer", "https://finance.sina.com.cn").
		Get(base + symbol)
	if err != nil {
		return Value{}, fmt.Errorf("fetch sina quote for %s: %w", symbol, err)
	}
	if resp.StatusCode() != 200 {
		return Value{}, fmt.Errorf("sina quote for %s returned %d", symbol, resp.StatusCode())
	}

	fields, err := parseSinaRow(resp.String())
	if err != nil {
		return Value{}, fmt.Errorf("%w: sina row for %s: %v", ErrInvalidResponse, symbol, err)
	}

	prevClose := parseSinaPrice(fields[2])
	price := parseSinaPrice(fields[3])
	if price <= 0 {
		return Value{}, fmt.Errorf("%w: sina row for %s has no price", ErrInvalidResponse, symbol)
	}

	if nav, ok := scanForNav(fields, price); ok {
		p := decimal.NewFromFloat(price)
		n := decimal.NewFromFloat(nav)
		premium, _ := p.Sub(n).Div(n).Mul(decimal.NewFromInt(100)).Float64()
		return Value{Pct: premium}, nil
	}

	if prevClose > 0 {
		// No NAV in the row: estimate from today's move. Larger moves widen
		// the likely premium.
		movePct := (price - prevClose) / prevClose * 100
		if movePct < 0 {
			movePct = -movePct
		}
		return Value{Pct: 0.8 + movePct*0.1, Estimated: true}, nil
	}

	return Value{}, fmt.Errorf("%w: sina row for %s has neither nav nor previous close", ErrInvalidResponse, symbol)
}

// parseSinaRow extracts the comma-separated fields from a response like
// `var hq_str_sh513500="名称,open,prev,price,...";`.
func parseSinaRow(body string) ([]string, error) {
	body = strings.TrimSpace(body)
	start := strings.Index(body, `="`)
	if start < 0 {
		return nil, fmt.Errorf("missing assignment delimiter")
	}
	data := body[start+2:]
	end := strings.Index(data, `"`)
	if end < 0 {
		return nil, fmt.Errorf("unterminated quote row")
	}
	fields := strings.Split(data[:end], ",")
	if len(fields) < minSinaFields {
		return nil, fmt.Errorf("row has %d fields, want at least %d", len(fields), minSinaFields)
	}
	return fields, nil
}

func parseSinaPrice(field string) float64 {
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0
	}
	return v
}

// scanForNav looks through fields 20..30 for a value close enough to the
// market price to plausibly be the unit NAV.
func scanForNav(fields []string, price float64) (float64, bool) {
	limit := len(fields)
	if limit > minSinaFields {
		limit = minSinaFields
	}
	for i := 20; i < limit; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			continue
		}
		if v > 0.5 && v < price*2 && abs(v-price) < price*0.1 {
			return v, true
		}
	}
	return 0, false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
