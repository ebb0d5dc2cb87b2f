package models

// SignalClass identifies one of the three independent market signals
// an analysis run is built from.
type SignalClass string

const (
	SignalIndex   SignalClass = "index"
	SignalPremium SignalClass = "premium"
	SignalFutures SignalClass = "futures"
)

// IndexQuote holds the daily change of an equity index.
type IndexQuote struct {
	Symbol        string  `json:"symbol"`
	ChangePercent float64 `json:"change_percent"`
}

// PremiumQuote holds a fund's price premium over its net asset value.
// IsEstimated records whether the value came from a real source or a
// fallback heuristic.
type PremiumQuote struct {
	Symbol         string  `json:"symbol"`
	PremiumPercent float64 `json:"premium_percent"`
	IsEstimated    bool    `json:"is_estimated"`
}

// FuturesQuote holds the change of the index's futures contract.
type FuturesQuote struct {
	Symbol        string  `json:"symbol"`
	ChangePercent float64 `json:"change_percent"`
}

// SignalSet bundles the three quotes for one tracked instrument.
type SignalSet struct {
	Index   IndexQuote   `json:"index"`
	Premium PremiumQuote `json:"premium"`
	Futures FuturesQuote `json:"futures"`
}
