// Package scoring combines the three market signals and the event flag
// into a bounded buy score.
package scoring

import (
	"fmt"

	"etfradar/internal/models"
)

const baseScore = 50

// Score is deterministic and stateless: identical inputs always produce
// identical results. Each signal falls into exactly one bucket (first
// match top-down); bucket deltas are summed onto the base score and the
// total is clamped to [0,100].
func Score(indexChangePct, premiumPct, futuresChangePct float64, hasEvent bool) models.ScoreResult {
	score := baseScore
	var adverse []string

	// Index: the deeper the drop, the stronger the dip-buying case.
	switch {
	case indexChangePct <= -3.0:
		score += 30
	case indexChangePct <= -2.0:
		score += 20
	case indexChangePct <= -1.0:
		score += 10
	case indexChangePct <= 0:
		score += 5
	default:
		score -= 10
		adverse = append(adverse, fmt.Sprintf("index up %.2f%%", indexChangePct))
	}

	// Premium: a cheap fund is a better entry than an expensive one.
	switch {
	case premiumPct <= 1.0:
		score += 15
	case premiumPct <= 2.0:
		score += 10
	case premiumPct <= 3.0:
		score += 5
	default:
		score -= 10
		adverse = append(adverse, fmt.Sprintf("premium %.1f%% too high", premiumPct))
	}

	// Futures: overnight direction confirmation.
	switch {
	case futuresChangePct <= -1.0:
		score += 15
	case futuresChangePct <= -0.5:
		score += 10
	case futuresChangePct <= 0:
		score += 5
	default:
		score -= 5
		adverse = append(adverse, fmt.Sprintf("futures up %.2f%%", futuresChangePct))
	}

	if hasEvent {
		score -= 15
		adverse = append(adverse, "major event in the news")
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return models.ScoreResult{
		Score:          score,
		Tier:           tierFor(score),
		AdverseReasons: adverse,
	}
}

func tierFor(score int) models.DecisionTier {
	switch {
	case score >= 80:
		return models.TierStrongBuy
	case score >= 65:
		return models.TierBuy
	case score >= 50:
		return models.TierConsider
	case score >= 35:
		return models.TierHold
	default:
		return models.TierAvoid
	}
}
