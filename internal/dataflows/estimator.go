package dataflows

import (
	"context"
	"time"

	"etfradar/internal/config"
)

// PremiumEstimator is the last rung of the premium chain. It derives a
// plausible premium from the instrument's base premium constant plus a
// time-of-day adjustment: premiums are steadier while the US cash session
// is open (late evening through early morning local time) and drift wider
// outside it. It never performs I/O and never fails.
type PremiumEstimator struct {
	Instrument config.Instrument
	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

func (s *PremiumEstimator) Name() string { return "estimator" }

func (s *PremiumEstimator) Fetch(ctx context.Context) (Value, error) {
	base := s.Instrument.BasePremium
	if base <= 0 {
		base = 1.0
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	adjustment := 0.5
	hour := now().Hour()
	if hour >= 22 || hour <= 5 {
		adjustment = 0.2
	}

	return Value{Pct: base + adjustment, Estimated: true}, nil
}
