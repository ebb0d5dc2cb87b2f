// Package dataflows acquires the three market signals each analysis run
// is built from. Every signal class has an ordered chain of sources tried
// in priority order; what happens when a chain is exhausted depends on
// the configured strict/lenient mode.
package dataflows

import (
	"context"
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"etfradar/internal/config"
	"etfradar/internal/models"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Provider fetches signal sets for tracked instruments. The three signal
// classes of one instrument are fetched concurrently; sources within one
// class run strictly in priority order with an independent timeout per
// attempt. There are no retries beyond the chain itself.
type Provider struct {
	cfg    config.Config
	client *resty.Client
	log    zerolog.Logger

	// Overridable source endpoints, set by tests.
	ChartBaseURL   string
	EastmoneyURL   string
	FundNavBaseURL string
	SinaBaseURL    string

	// chainOverride replaces the built-in source chains in tests.
	chainOverride func(models.SignalClass, config.Instrument) []Source
}

// NewProvider builds a provider with proxy selection resolved once:
// CI environments force a direct connection, otherwise the configured
// proxy is used when enabled.
func NewProvider(cfg config.Config, log zerolog.Logger) *Provider {
	client := resty.New()
	client.SetTimeout(cfg.SourceTimeout)
	client.SetHeader("User-Agent", userAgent)

	switch {
	case os.Getenv("GITHUB_ACTIONS") == "true":
		log.Debug().Msg("CI environment detected, proxy disabled")
	case cfg.UseProxy && cfg.ProxyURL != "":
		client.SetProxy(cfg.ProxyURL)
		log.Debug().Str("proxy", cfg.ProxyURL).Msg("routing source requests through proxy")
	}

	return &Provider{
		cfg:    cfg,
		client: client,
		log:    log,
	}
}

// Signals fetches index, premium and futures readings for one instrument.
// The returned audit list names the signals whose values are estimates
// (heuristic sources or lenient substitutes).
func (p *Provider) Signals(ctx context.Context, inst config.Instrument) (models.SignalSet, []string, error) {
	type classResult struct {
		class models.SignalClass
		value Value
		err   error
	}

	classes := []models.SignalClass{models.SignalIndex, models.SignalPremium, models.SignalFutures}
	results := make(chan classResult, len(classes))

	for _, class := range classes {
		go func(class models.SignalClass) {
			value, err := p.fetchChain(ctx, class, inst)
			results <- classResult{class: class, value: value, err: err}
		}(class)
	}

	values := make(map[models.SignalClass]Value, len(classes))
	for range classes {
		r := <-results
		if r.err != nil {
			if p.cfg.Mode == config.ModeStrict {
				return models.SignalSet{}, nil, r.err
			}
			r.value = p.lenientSubstitute(r.class)
			p.log.Warn().
				Str("instrument", inst.DisplayName).
				Str("signal", string(r.class)).
				Float64("substitute", r.value.Pct).
				Msg("source chain exhausted, using conservative substitute")
		}
		values[r.class] = r.value
	}

	set := models.SignalSet{
		Index: models.IndexQuote{
			Symbol:        inst.IndexSymbol,
			ChangePercent: values[models.SignalIndex].Pct,
		},
		Premium: models.PremiumQuote{
			Symbol:         inst.FundCode,
			PremiumPercent: values[models.SignalPremium].Pct,
			IsEstimated:    values[models.SignalPremium].Estimated,
		},
		Futures: models.FuturesQuote{
			Symbol:        inst.FuturesSymbol,
			ChangePercent: values[models.SignalFutures].Pct,
		},
	}

	var estimated []string
	for _, class := range classes {
		if values[class].Estimated {
			estimated = append(estimated, fmt.Sprintf("%s/%s", inst.DisplayName, class))
		}
	}
	return set, estimated, nil
}

// fetchChain walks a class's source chain. Errors inside one attempt are
// logged and cause fallthrough to the next source; only exhausting the
// whole chain surfaces an error.
func (p *Provider) fetchChain(ctx context.Context, class models.SignalClass, inst config.Instrument) (Value, error) {
	sources := p.chainFor(class, inst)

	var lastErr error
	for _, source := range sources {
		attemptCtx, cancel := context.WithTimeout(ctx, p.cfg.SourceTimeout)
		value, err := source.Fetch(attemptCtx)
		cancel()

		if err == nil {
			p.log.Debug().
				Str("signal", string(class)).
				Str("source", source.Name()).
				Float64("value", value.Pct).
				Bool("estimated", value.Estimated).
				Msg("signal fetched")
			return value, nil
		}

		lastErr = err
		p.log.Warn().
			Str("signal", string(class)).
			Str("source", source.Name()).
			Err(err).
			Msg("source attempt failed, trying next")
	}

	return Value{}, fmt.Errorf("%w: %s chain exhausted for %s: %v",
		ErrDataUnavailable, class, inst.DisplayName, lastErr)
}

// chainFor returns the ordered source list for one signal class. Only the
// premium class carries a heuristic estimator rung.
func (p *Provider) chainFor(class models.SignalClass, inst config.Instrument) []Source {
	if p.chainOverride != nil {
		return p.chainOverride(class, inst)
	}
	switch class {
	case models.SignalIndex:
		return []Source{
			&YahooQuoteSource{Symbol: inst.IndexSymbol},
			&YahooChartSource{Client: p.client, BaseURL: p.ChartBaseURL, Symbol: inst.IndexSymbol},
		}
	case models.SignalFutures:
		return []Source{
			&YahooQuoteSource{Symbol: inst.FuturesSymbol},
			&YahooChartSource{Client: p.client, BaseURL: p.ChartBaseURL, Symbol: inst.FuturesSymbol},
		}
	case models.SignalPremium:
		return []Source{
			&EastmoneySource{Client: p.client, QuoteURL: p.EastmoneyURL, NavBaseURL: p.FundNavBaseURL, Instrument: inst},
			&SinaSource{Client: p.client, BaseURL: p.SinaBaseURL, Instrument: inst},
			&PremiumEstimator{Instrument: inst},
		}
	}
	return nil
}

func (p *Provider) lenientSubstitute(class models.SignalClass) Value {
	switch class {
	case models.SignalIndex:
		return Value{Pct: p.cfg.Lenient.IndexChangePct, Estimated: true}
	case models.SignalPremium:
		return Value{Pct: p.cfg.Lenient.PremiumPct, Estimated: true}
	case models.SignalFutures:
		return Value{Pct: p.cfg.Lenient.FuturesChangePct, Estimated: true}
	}
	return Value{Estimated: true}
}
