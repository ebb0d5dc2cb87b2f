package models

import "time"

// MarketStance summarizes whether the tracked overseas indexes fell today.
type MarketStance string

const (
	StanceDecline MarketStance = "decline"
	StanceAdvance MarketStance = "advance"
)

// Suggestion is one broad-market guidance entry (on-exchange US ETFs,
// on-exchange A-share ETFs, off-exchange funds).
type Suggestion struct {
	Channel string `json:"channel"`
	Advice  string `json:"advice"`
}

// InstrumentDecision is the full verdict for one tracked instrument.
// Plan is nil when the tier is not actionable; RejectionReasons then
// explains why.
type InstrumentDecision struct {
	DisplayName      string        `json:"display_name"`
	IndexSymbol      string        `json:"index_symbol"`
	FundCode         string        `json:"fund_code"`
	Signals          SignalSet     `json:"signals"`
	Score            ScoreResult   `json:"score"`
	Plan             *PositionPlan `json:"plan,omitempty"`
	RejectionReasons []string      `json:"rejection_reasons,omitempty"`
}

// Report is the assembled output of one analysis run. Nothing in it is
// persisted; a fresh Report is built per invocation.
type Report struct {
	GeneratedAt      time.Time            `json:"generated_at"`
	Mode             string               `json:"mode"`
	Instruments      []InstrumentDecision `json:"instruments"`
	Event            EventFlag            `json:"event"`
	Stance           MarketStance         `json:"stance"`
	BroadSuggestions []Suggestion         `json:"broad_suggestions"`
	Themes           []ThemeScore         `json:"themes,omitempty"`
	EstimatedSignals []string             `json:"estimated_signals,omitempty"`
}
