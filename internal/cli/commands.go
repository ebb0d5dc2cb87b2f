// Package cli wires the cobra command tree and the interactive session.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"etfradar/internal/analyzer"
	"etfradar/internal/config"
	"etfradar/internal/dataflows"
	"etfradar/internal/display"
	"etfradar/internal/logger"
	"etfradar/internal/news"
	"etfradar/internal/themes"
)

const version = "1.0.0"

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "etfradar",
		Short: "ETF buy-the-dip radar for US-index QDII funds",
		Long: `etfradar watches overseas index moves, domestic fund premiums and index
futures, scores the dip-buying opportunity for each tracked fund and sizes
a tiered position plan. Headlines can be scanned for macro event risk and
ranked against a thematic sector registry.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runInteractiveMode(cmd, cfg)
		},
	}

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newThemesCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("config", "", "Configuration file path")

	return rootCmd
}

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run one analysis over the tracked instruments",
		Long: `Run a full analysis pass: fetch index, premium and futures signals for
every tracked instrument, score each one and size position plans.
Example: etfradar analyze --mode=strict --risk=aggressive --news-query=美股`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			opts, err := optionsFromFlags(cmd, cfg)
			if err != nil {
				return err
			}
			return runAnalysis(cmd, cfg, opts)
		},
	}

	cmd.Flags().Bool("json", false, "Emit the report as JSON")
	cmd.Flags().String("mode", "", "Data mode: strict or lenient (default from config)")
	cmd.Flags().String("risk", "", "Risk tier: conservative, moderate or aggressive (default from config)")
	cmd.Flags().String("news-query", "", "Scrape headlines for this query and include event/theme analysis")

	return cmd
}

func newThemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes QUERY",
		Short: "Rank thematic sectors against current headlines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			log, err := buildLogger(cmd, cfg)
			if err != nil {
				return err
			}

			scraper := news.NewScraper(newHTTPClient(cfg), log)
			headlines, err := scraper.Headlines(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("scrape headlines: %w", err)
			}

			ranked := themes.Rank(headlines, cfg.Themes, cfg.BroadMarketFunds)
			for _, t := range ranked {
				if t.Synthetic {
					fmt.Println("无明显主题热点，建议关注宽基指数")
				} else {
					fmt.Printf("%s  %d 条相关  [%s]\n", t.Name, t.HitCount, t.Tier)
				}
				fmt.Printf("  %s\n", t.Strategy)
				if len(t.Instruments) > 0 {
					fmt.Printf("  %s\n", strings.Join(t.Instruments, "  "))
				}
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("etfradar v%s\n", version)
		},
	}
}

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			showConfig(cfg)
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			fmt.Println("configuration OK")
			return nil
		},
	})

	return configCmd
}

// analysisOptions are the per-invocation overrides layered on top of the
// loaded configuration.
type analysisOptions struct {
	asJSON    bool
	newsQuery string
}

func optionsFromFlags(cmd *cobra.Command, cfg *config.Config) (analysisOptions, error) {
	var opts analysisOptions
	opts.asJSON, _ = cmd.Flags().GetBool("json")
	opts.newsQuery, _ = cmd.Flags().GetString("news-query")

	if mode, _ := cmd.Flags().GetString("mode"); mode != "" {
		cfg.Mode = config.Mode(mode)
	}
	if risk, _ := cmd.Flags().GetString("risk"); risk != "" {
		cfg.RiskTier = risk
	}
	if err := cfg.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

// runAnalysis executes the full pipeline and renders the report.
func runAnalysis(cmd *cobra.Command, cfg *config.Config, opts analysisOptions) error {
	log, err := buildLogger(cmd, cfg)
	if err != nil {
		return err
	}

	var headlines []string
	if opts.newsQuery != "" {
		scraper := news.NewScraper(newHTTPClient(cfg), log)
		headlines, err = scraper.Headlines(cmd.Context(), opts.newsQuery)
		if err != nil {
			// Headlines enrich the report but are not required for it.
			log.Warn().Err(err).Msg("headline scrape failed, continuing without headlines")
			headlines = nil
		}
	}

	provider := dataflows.NewProvider(*cfg, log)
	runner := analyzer.New(cfg, provider, log)

	report, err := runner.Run(cmd.Context(), headlines)
	if err != nil {
		return err
	}

	return display.NewRenderer(os.Stdout, opts.asJSON).Render(report)
}

func buildLogger(cmd *cobra.Command, cfg *config.Config) (zerolog.Logger, error) {
	level := cfg.LogLevel
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = "debug"
	}
	return logger.New(level, cfg.LogFormat)
}

func newHTTPClient(cfg *config.Config) *resty.Client {
	client := resty.New()
	client.SetTimeout(cfg.SourceTimeout)
	client.SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	return client
}

// loadConfig resolves the config file (creating it with defaults on first
// run) and returns a mutable copy for flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var opts []config.ManagerOption
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		opts = append(opts, config.WithConfigPath(path))
	}

	mgr, err := config.NewManager(opts...)
	if err != nil {
		return nil, err
	}

	cfg := mgr.Get()
	return &cfg, nil
}

func showConfig(cfg *config.Config) {
	fmt.Println("Current etfradar configuration:")
	fmt.Printf("Mode:           %s\n", cfg.Mode)
	fmt.Printf("Risk tier:      %s\n", cfg.RiskTier)
	fmt.Printf("Source timeout: %s\n", cfg.SourceTimeout)
	fmt.Printf("Proxy:          %s (enabled: %t)\n", cfg.ProxyURL, cfg.UseProxy)
	fmt.Println()

	fmt.Println("Tracked instruments:")
	for _, inst := range cfg.Instruments {
		fmt.Printf("  %-10s index=%s futures=%s fund=%s.%s\n",
			inst.DisplayName, inst.IndexSymbol, inst.FuturesSymbol, inst.Exchange, inst.FundCode)
	}
	fmt.Println()

	fmt.Println("Risk tiers:")
	for _, tier := range cfg.RiskTiers {
		marker := " "
		if tier.Name == cfg.RiskTier {
			marker = "*"
		}
		fmt.Printf("  %s %-12s max position %.0f%%\n", marker, tier.Name, tier.MaxPosition*100)
	}
	fmt.Println()

	fmt.Printf("Themes:         %d registered\n", len(cfg.Themes))
	fmt.Printf("Event keywords: %d configured\n", len(cfg.EventKeywords))
	fmt.Printf("Logging:        %s / %s\n", cfg.LogLevel, cfg.LogFormat)
}
