package dataflows

import (
	"context"
	"errors"
	"testing"
	"time"

	"etfradar/internal/config"
	"etfradar/internal/logger"
	"etfradar/internal/models"
)

type stubSource struct {
	name  string
	value Value
	err   error
	calls int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(ctx context.Context) (Value, error) {
	s.calls++
	return s.value, s.err
}

func testProvider(mode config.Mode, chains map[models.SignalClass][]Source) *Provider {
	cfg := *config.DefaultConfig()
	cfg.Mode = mode
	cfg.SourceTimeout = time.Second

	p := NewProvider(cfg, logger.Nop())
	p.chainOverride = func(class models.SignalClass, _ config.Instrument) []Source {
		return chains[class]
	}
	return p
}

func TestFetchChainFallsThrough(t *testing.T) {
	broken := &stubSource{name: "broken", err: errors.New("boom")}
	working := &stubSource{name: "working", value: Value{Pct: -1.5}}

	p := testProvider(config.ModeStrict, map[models.SignalClass][]Source{
		models.SignalIndex: {broken, working},
	})

	value, err := p.fetchChain(context.Background(), models.SignalIndex, testInstrument)
	if err != nil {
		t.Fatalf("fetchChain: %v", err)
	}
	if value.Pct != -1.5 {
		t.Errorf("value = %v, want -1.5", value.Pct)
	}
	if broken.calls != 1 || working.calls != 1 {
		t.Errorf("calls = %d/%d, want 1/1", broken.calls, working.calls)
	}
}

func TestFetchChainStopsAtFirstSuccess(t *testing.T) {
	first := &stubSource{name: "first", value: Value{Pct: 2.0}}
	second := &stubSource{name: "second", value: Value{Pct: 9.0}}

	p := testProvider(config.ModeStrict, map[models.SignalClass][]Source{
		models.SignalPremium: {first, second},
	})

	value, err := p.fetchChain(context.Background(), models.SignalPremium, testInstrument)
	if err != nil {
		t.Fatalf("fetchChain: %v", err)
	}
	if value.Pct != 2.0 {
		t.Errorf("value = %v, want first source's 2.0", value.Pct)
	}
	if second.calls != 0 {
		t.Errorf("second source called %d times after success", second.calls)
	}
}

func TestFetchChainExhaustion(t *testing.T) {
	p := testProvider(config.ModeStrict, map[models.SignalClass][]Source{
		models.SignalFutures: {
			&stubSource{name: "a", err: errors.New("down")},
			&stubSource{name: "b", err: errors.New("also down")},
		},
	})

	_, err := p.fetchChain(context.Background(), models.SignalFutures, testInstrument)
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("err = %v, want ErrDataUnavailable", err)
	}
}

func TestSignalsStrictModeAborts(t *testing.T) {
	ok := &stubSource{name: "ok", value: Value{Pct: -1.0}}
	p := testProvider(config.ModeStrict, map[models.SignalClass][]Source{
		models.SignalIndex:   {ok},
		models.SignalPremium: {&stubSource{name: "down", err: errors.New("down")}},
		models.SignalFutures: {ok},
	})

	_, _, err := p.Signals(context.Background(), testInstrument)
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("err = %v, want ErrDataUnavailable", err)
	}
}

func TestSignalsLenientModeSubstitutes(t *testing.T) {
	p := testProvider(config.ModeLenient, map[models.SignalClass][]Source{
		models.SignalIndex:   {&stubSource{name: "ok", value: Value{Pct: -2.0}}},
		models.SignalPremium: {&stubSource{name: "down", err: errors.New("down")}},
		models.SignalFutures: {&stubSource{name: "down", err: errors.New("down")}},
	})

	set, estimated, err := p.Signals(context.Background(), testInstrument)
	if err != nil {
		t.Fatalf("Signals: %v", err)
	}

	if set.Index.ChangePercent != -2.0 {
		t.Errorf("index = %v, want live -2.0", set.Index.ChangePercent)
	}
	// Exhausted chains pick up the documented conservative substitutes.
	if set.Premium.PremiumPercent != 1.5 || !set.Premium.IsEstimated {
		t.Errorf("premium = %+v, want estimated 1.5", set.Premium)
	}
	if set.Futures.ChangePercent != 0.0 {
		t.Errorf("futures = %v, want substitute 0.0", set.Futures.ChangePercent)
	}

	if len(estimated) != 2 {
		t.Errorf("estimated audit = %v, want premium and futures entries", estimated)
	}
}

func TestSignalsPropagatesEstimatedFlag(t *testing.T) {
	p := testProvider(config.ModeStrict, map[models.SignalClass][]Source{
		models.SignalIndex:   {&stubSource{name: "ok", value: Value{Pct: -1.0}}},
		models.SignalPremium: {&stubSource{name: "est", value: Value{Pct: 1.7, Estimated: true}}},
		models.SignalFutures: {&stubSource{name: "ok", value: Value{Pct: -0.5}}},
	})

	set, estimated, err := p.Signals(context.Background(), testInstrument)
	if err != nil {
		t.Fatalf("Signals: %v", err)
	}
	if !set.Premium.IsEstimated {
		t.Error("premium estimate flag lost")
	}
	if len(estimated) != 1 {
		t.Errorf("estimated audit = %v, want single premium entry", estimated)
	}
}
