package models

// DecisionTier is the buy/hold/avoid verdict derived from a score.
type DecisionTier string

const (
	TierStrongBuy DecisionTier = "strong_buy"
	TierBuy       DecisionTier = "buy"
	TierConsider  DecisionTier = "consider"
	TierHold      DecisionTier = "hold"
	TierAvoid     DecisionTier = "avoid"
)

// Actionable reports whether the tier justifies sizing a position.
func (t DecisionTier) Actionable() bool {
	switch t {
	case TierStrongBuy, TierBuy, TierConsider:
		return true
	}
	return false
}

// Label returns a short human-readable form of the tier.
func (t DecisionTier) Label() string {
	switch t {
	case TierStrongBuy:
		return "Strong Buy"
	case TierBuy:
		return "Buy"
	case TierConsider:
		return "Consider"
	case TierHold:
		return "Hold"
	case TierAvoid:
		return "Avoid"
	}
	return string(t)
}

// ScoreResult is the combined verdict for one instrument.
// Score is always within [0,100]. AdverseReasons collects an explanation
// for each negative bucket that fired, used when the tier rejects a buy.
type ScoreResult struct {
	Score          int          `json:"score"`
	Tier           DecisionTier `json:"tier"`
	AdverseReasons []string     `json:"adverse_reasons,omitempty"`
}
