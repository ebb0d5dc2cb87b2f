package dataflows

import "context"

// Value is one fetched signal reading. Estimated marks values derived
// from a heuristic rather than a live market quote.
type Value struct {
	Pct       float64
	Estimated bool
}

// Source is one backing feed in a signal's priority chain.
type Source interface {
	Name() string
	// Fetch returns the signal value in percent. The context carries the
	// per-attempt timeout; implementations must respect it.
	Fetch(ctx context.Context) (Value, error)
}
