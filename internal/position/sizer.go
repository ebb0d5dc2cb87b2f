// Package position sizes a purchase plan from the index drop magnitude
// and the caller's risk tier.
package position

import (
	"etfradar/internal/config"
	"etfradar/internal/models"
)

// DefaultExit is the fixed exit rule attached to every plan: stage profit
// taking between +15% and +20%, hard stop at -10%.
var DefaultExit = models.ExitPolicy{
	TakeProfitLowPct:  15,
	TakeProfitHighPct: 20,
	StopLossPct:       -10,
}

// Size maps the index change into a base position ratio, caps it at the
// risk tier's maximum and batches the buy into tranches by drop magnitude.
// It is meant to be called only for actionable score tiers.
func Size(indexChangePct float64, tier config.RiskTier) models.PositionPlan {
	var ratio float64
	var urgency models.Urgency

	switch {
	case indexChangePct >= -0.5:
		ratio, urgency = 0.1, models.UrgencyWatch
	case indexChangePct >= -1.0:
		ratio, urgency = 0.2, models.UrgencyModerate
	case indexChangePct >= -2.0:
		ratio, urgency = 0.3, models.UrgencyActive
	case indexChangePct >= -3.0:
		ratio, urgency = 0.5, models.UrgencyPriority
	default:
		ratio, urgency = 0.7, models.UrgencyBottomFish
	}

	if ratio > tier.MaxPosition {
		ratio = tier.MaxPosition
	}

	return models.PositionPlan{
		Ratio:    ratio,
		Urgency:  urgency,
		RiskTier: tier.Name,
		Tranches: tranchesFor(indexChangePct),
		Exit:     DefaultExit,
	}
}

// tranchesFor splits the buy by absolute drop magnitude. Fractions always
// sum to 1.0.
func tranchesFor(indexChangePct float64) []float64 {
	drop := indexChangePct
	if drop < 0 {
		drop = -drop
	}
	switch {
	case drop >= 2.0:
		return []float64{0.3, 0.4, 0.3}
	case drop >= 1.0:
		return []float64{0.5, 0.5}
	default:
		return []float64{1.0}
	}
}
