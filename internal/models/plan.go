package models

// Urgency grades how aggressively a sized position should be entered.
type Urgency string

const (
	UrgencyWatch      Urgency = "watch"       // minor dip, probe only
	UrgencyModerate   Urgency = "moderate"    // small dip, measured add
	UrgencyActive     Urgency = "active"      // medium dip, active add
	UrgencyPriority   Urgency = "priority"    // large dip, priority add
	UrgencyBottomFish Urgency = "bottom_fish" // crash, bottom-fishing window
)

// ExitPolicy is the fixed take-profit / stop-loss rule attached to every plan.
type ExitPolicy struct {
	TakeProfitLowPct  float64 `json:"take_profit_low_pct"`
	TakeProfitHighPct float64 `json:"take_profit_high_pct"`
	StopLossPct       float64 `json:"stop_loss_pct"`
}

// PositionPlan is a sized, batched purchase plan.
// Ratio never exceeds the risk tier's cap and Tranches always sum to 1.0.
type PositionPlan struct {
	Ratio    float64    `json:"ratio"`
	Urgency  Urgency    `json:"urgency"`
	RiskTier string     `json:"risk_tier"`
	Tranches []float64  `json:"tranches"`
	Exit     ExitPolicy `json:"exit"`
}
