// Package analyzer runs one full analysis pass: signal acquisition for
// every tracked instrument, macro event scanning, scoring, position
// sizing and theme ranking, assembled into a single report.
package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"etfradar/internal/config"
	"etfradar/internal/events"
	"etfradar/internal/models"
	"etfradar/internal/position"
	"etfradar/internal/scoring"
	"etfradar/internal/themes"
)

// SignalProvider yields the three signals for one instrument. Satisfied
// by dataflows.Provider and by test stubs.
type SignalProvider interface {
	Signals(ctx context.Context, inst config.Instrument) (models.SignalSet, []string, error)
}

// Analyzer wires the per-run pipeline together. It holds no state
// between runs; every Run builds a fresh report from live data.
type Analyzer struct {
	cfg      *config.Config
	provider SignalProvider
	log      zerolog.Logger

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

func New(cfg *config.Config, provider SignalProvider, log zerolog.Logger) *Analyzer {
	return &Analyzer{
		cfg:      cfg,
		provider: provider,
		log:      log,
	}
}

// Run performs one analysis over the configured instruments with the
// given news headlines (may be empty). In strict mode the first
// instrument whose data cannot be obtained aborts the run with no
// partial report.
func (a *Analyzer) Run(ctx context.Context, headlines []string) (*models.Report, error) {
	tier, err := a.cfg.RiskTierByName(a.cfg.RiskTier)
	if err != nil {
		return nil, err
	}

	event := events.Scan(headlines, a.cfg.EventKeywords)
	if event.HasEvent {
		a.log.Info().Int("matches", len(event.Matches)).Msg("macro event keywords detected in headlines")
	}

	var (
		decisions []models.InstrumentDecision
		estimated []string
		declined  bool
	)

	for _, inst := range a.cfg.Instruments {
		signals, audit, err := a.provider.Signals(ctx, inst)
		if err != nil {
			return nil, fmt.Errorf("analyze %s: %w", inst.DisplayName, err)
		}
		estimated = append(estimated, audit...)

		score := scoring.Score(
			signals.Index.ChangePercent,
			signals.Premium.PremiumPercent,
			signals.Futures.ChangePercent,
			event.HasEvent,
		)

		decision := models.InstrumentDecision{
			DisplayName: inst.DisplayName,
			IndexSymbol: inst.IndexSymbol,
			FundCode:    inst.FundCode,
			Signals:     signals,
			Score:       score,
		}

		if score.Tier.Actionable() {
			plan := position.Size(signals.Index.ChangePercent, tier)
			decision.Plan = &plan
		} else {
			decision.RejectionReasons = score.AdverseReasons
			if len(decision.RejectionReasons) == 0 {
				decision.RejectionReasons = []string{"score below actionable threshold"}
			}
		}

		if signals.Index.ChangePercent < 0 {
			declined = true
		}

		a.log.Info().
			Str("instrument", inst.DisplayName).
			Int("score", score.Score).
			Str("tier", string(score.Tier)).
			Msg("instrument analyzed")

		decisions = append(decisions, decision)
	}

	stance := models.StanceAdvance
	if declined {
		stance = models.StanceDecline
	}

	now := time.Now
	if a.Now != nil {
		now = a.Now
	}

	report := &models.Report{
		GeneratedAt:      now(),
		Mode:             string(a.cfg.Mode),
		Instruments:      decisions,
		Event:            event,
		Stance:           stance,
		BroadSuggestions: broadSuggestions(stance),
		EstimatedSignals: estimated,
	}

	if len(headlines) > 0 {
		report.Themes = themes.Rank(headlines, a.cfg.Themes, a.cfg.BroadMarketFunds)
	}

	return report, nil
}

// broadSuggestions maps the market stance to channel-level guidance for
// investors who cannot or do not want to trade the tracked QDII funds.
func broadSuggestions(stance models.MarketStance) []models.Suggestion {
	if stance == models.StanceDecline {
		return []models.Suggestion{
			{Channel: "场内QDII", Advice: "溢价回落时分批买入跟踪美股的场内ETF"},
			{Channel: "场内A股", Advice: "关注跟随美股情绪回调的沪深300、中证500等宽基ETF"},
			{Channel: "场外基金", Advice: "场外美股指数基金无溢价问题，可定投补仓"},
		}
	}
	return []models.Suggestion{
		{Channel: "场内QDII", Advice: "指数未回调，持仓观望，等待更好的买点"},
		{Channel: "场外基金", Advice: "可维持既定定投计划，不追高"},
	}
}
