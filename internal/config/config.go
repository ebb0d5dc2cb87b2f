package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrConfig marks configuration problems. Config errors are always fatal
// and never degraded into fallback behavior.
var ErrConfig = errors.New("invalid configuration")

// Mode controls what happens when a signal's full source chain is exhausted.
type Mode string

const (
	// ModeStrict aborts the whole analysis on the first exhausted chain.
	ModeStrict Mode = "strict"
	// ModeLenient substitutes a conservative constant and flags it estimated.
	ModeLenient Mode = "lenient"
)

// RiskTier bounds the maximum position ratio the sizer may recommend.
type RiskTier struct {
	Name        string  `json:"name"`
	MaxPosition float64 `json:"max_position"`
}

// Instrument describes one tracked index / domestic fund pairing.
type Instrument struct {
	IndexSymbol   string  `json:"index_symbol"`   // e.g. ^GSPC
	FuturesSymbol string  `json:"futures_symbol"` // e.g. ES=F
	FundCode      string  `json:"fund_code"`      // e.g. 513500
	Exchange      string  `json:"exchange"`       // SH or SZ
	DisplayName   string  `json:"display_name"`
	FundName      string  `json:"fund_name"`
	BasePremium   float64 `json:"base_premium"` // estimator anchor, percent
}

// Theme is one curated thematic sector with its keyword set and
// representative funds. Registry order is the ranking tie-breaker.
type Theme struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Keywords    []string `json:"keywords"`
	Instruments []string `json:"instruments"`
	Note        string   `json:"note"`
}

// LenientDefaults are the documented substitutes used per signal class
// when a chain is exhausted in lenient mode.
type LenientDefaults struct {
	IndexChangePct   float64 `json:"index_change_pct"`
	PremiumPct       float64 `json:"premium_pct"`
	FuturesChangePct float64 `json:"futures_change_pct"`
}

// Config is the process-wide, read-only configuration. It is loaded once
// and passed into each component; nothing mutates it during a run.
type Config struct {
	Mode     Mode   `json:"mode"`
	RiskTier string `json:"risk_tier"`

	ProxyURL      string        `json:"proxy_url"`
	UseProxy      bool          `json:"use_proxy"`
	SourceTimeout time.Duration `json:"source_timeout"`

	Instruments   []Instrument    `json:"instruments"`
	RiskTiers     []RiskTier      `json:"risk_tiers"`
	Themes        []Theme         `json:"themes"`
	EventKeywords []string        `json:"event_keywords"`
	Lenient       LenientDefaults `json:"lenient_defaults"`

	// Broad-market funds recommended when no theme dominates.
	BroadMarketFunds []string `json:"broad_market_funds"`

	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"` // console or json
}

// DefaultConfig returns the built-in configuration: the two tracked
// US-index QDII funds, the three risk tiers, the six-theme registry and
// the macro-event keyword list.
func DefaultConfig() *Config {
	return &Config{
		Mode:          ModeLenient,
		RiskTier:      "moderate",
		ProxyURL:      "http://127.0.0.1:10809",
		UseProxy:      false,
		SourceTimeout: 10 * time.Second,

		Instruments: []Instrument{
			{
				IndexSymbol:   "^GSPC",
				FuturesSymbol: "ES=F",
				FundCode:      "513500",
				Exchange:      "SH",
				DisplayName:   "S&P 500",
				FundName:      "标普500ETF",
				BasePremium:   1.2,
			},
			{
				IndexSymbol:   "^IXIC",
				FuturesSymbol: "NQ=F",
				FundCode:      "159834",
				Exchange:      "SZ",
				DisplayName:   "Nasdaq",
				FundName:      "纳斯达克100ETF",
				BasePremium:   1.4,
			},
		},

		RiskTiers: []RiskTier{
			{Name: "conservative", MaxPosition: 0.3},
			{Name: "moderate", MaxPosition: 0.5},
			{Name: "aggressive", MaxPosition: 0.8},
		},

		Themes: []Theme{
			{
				ID:          "healthcare",
				Name:        "医疗健康",
				Keywords:    []string{"医疗", "医药", "生物科技", "疫苗", "新药", "医院", "诊疗", "健康"},
				Instruments: []string{"512170(中证医疗ETF)", "159928(中证消费ETF)", "512010(医药100ETF)"},
				Note:        "政策利好驱动，关注医保与创新药动向",
			},
			{
				ID:          "tech",
				Name:        "科技",
				Keywords:    []string{"人工智能", "AI", "芯片", "半导体", "5G", "科技", "数字化", "云计算"},
				Instruments: []string{"515050(5G通信ETF)", "512980(传媒ETF)", "159995(芯片ETF)"},
				Note:        "AI热潮推动科技板块持续走强",
			},
			{
				ID:          "new-energy",
				Name:        "新能源",
				Keywords:    []string{"新能源", "电动车", "光伏", "风电", "储能", "锂电池", "碳中和"},
				Instruments: []string{"515030(新能源ETF)", "516950(新能源车ETF)", "159824(光伏ETF)"},
				Note:        "政策扶持下新能源板块机会持续",
			},
			{
				ID:          "consumer",
				Name:        "消费",
				Keywords:    []string{"消费", "零售", "白酒", "食品", "旅游", "餐饮", "奢侈品"},
				Instruments: []string{"159928(中证消费ETF)", "159934(黄金ETF)", "512690(白酒ETF)"},
				Note:        "消费复苏带动相关板块表现",
			},
			{
				ID:          "finance",
				Name:        "金融地产",
				Keywords:    []string{"银行", "保险", "证券", "房地产", "金融", "降准", "利率"},
				Instruments: []string{"510230(金融ETF)", "512800(银行ETF)", "512200(房地产ETF)"},
				Note:        "金融政策调整影响板块走势",
			},
			{
				ID:          "defense",
				Name:        "军工",
				Keywords:    []string{"军工", "国防", "航空", "航天", "军事", "武器"},
				Instruments: []string{"512660(军工ETF)", "512810(中证军工ETF)"},
				Note:        "地缘政治影响军工板块关注度",
			},
		},

		EventKeywords: []string{
			"美联储", "加息", "降息", "通胀", "CPI", "PPI", "非农",
			"就业", "GDP", "贸易战", "制裁", "地缘", "战争", "冲突",
			"央行", "财报", "重大事故", "天灾", "疫情", "封锁",
		},

		Lenient: LenientDefaults{
			IndexChangePct:   0.0,
			PremiumPct:       1.5,
			FuturesChangePct: 0.0,
		},

		BroadMarketFunds: []string{"513500(标普500ETF)", "159919(沪深300ETF)", "159922(中证500ETF)"},

		LogLevel:  "info",
		LogFormat: "console",
	}
}

// RiskTierByName resolves a risk tier name against the configured table.
func (c *Config) RiskTierByName(name string) (RiskTier, error) {
	for _, tier := range c.RiskTiers {
		if tier.Name == name {
			return tier, nil
		}
	}
	return RiskTier{}, fmt.Errorf("%w: unknown risk tier %q", ErrConfig, name)
}

// Validate checks the configuration. Any violation is an ErrConfig and
// aborts startup; malformed config is never silently repaired.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeStrict, ModeLenient:
	default:
		return fmt.Errorf("%w: mode must be strict or lenient, got %q", ErrConfig, c.Mode)
	}

	if len(c.RiskTiers) == 0 {
		return fmt.Errorf("%w: no risk tiers defined", ErrConfig)
	}
	for _, tier := range c.RiskTiers {
		if tier.Name == "" {
			return fmt.Errorf("%w: risk tier with empty name", ErrConfig)
		}
		if tier.MaxPosition <= 0 || tier.MaxPosition > 1 {
			return fmt.Errorf("%w: risk tier %q max_position %.2f outside (0,1]", ErrConfig, tier.Name, tier.MaxPosition)
		}
	}
	if _, err := c.RiskTierByName(c.RiskTier); err != nil {
		return err
	}

	if len(c.Instruments) == 0 {
		return fmt.Errorf("%w: no instruments configured", ErrConfig)
	}
	for _, inst := range c.Instruments {
		if inst.IndexSymbol == "" || inst.FundCode == "" {
			return fmt.Errorf("%w: instrument %q missing index symbol or fund code", ErrConfig, inst.DisplayName)
		}
		if inst.Exchange != "SH" && inst.Exchange != "SZ" {
			return fmt.Errorf("%w: instrument %q exchange must be SH or SZ, got %q", ErrConfig, inst.DisplayName, inst.Exchange)
		}
	}

	seen := make(map[string]bool, len(c.Themes))
	for _, theme := range c.Themes {
		if theme.ID == "" {
			return fmt.Errorf("%w: theme with empty id", ErrConfig)
		}
		if seen[theme.ID] {
			return fmt.Errorf("%w: duplicate theme id %q", ErrConfig, theme.ID)
		}
		seen[theme.ID] = true
		if len(theme.Keywords) == 0 {
			return fmt.Errorf("%w: theme %q has no keywords", ErrConfig, theme.ID)
		}
		if len(theme.Instruments) == 0 {
			return fmt.Errorf("%w: theme %q has no recommended instruments", ErrConfig, theme.ID)
		}
	}

	if c.SourceTimeout <= 0 {
		return fmt.Errorf("%w: source_timeout must be positive", ErrConfig)
	}
	return nil
}
