package cli

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"etfradar/internal/config"
)

// promptForMode asks which data mode to run in.
func promptForMode(current config.Mode) (config.Mode, error) {
	options := []string{
		string(config.ModeLenient) + " - substitute conservative values when sources fail",
		string(config.ModeStrict) + " - abort the run if any signal is unavailable",
	}
	defaultOption := options[0]
	if current == config.ModeStrict {
		defaultOption = options[1]
	}

	var selected string
	prompt := &survey.Select{
		Message: "Select data mode:",
		Options: options,
		Default: defaultOption,
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}

	mode, _, _ := strings.Cut(selected, " ")
	return config.Mode(mode), nil
}

// promptForRiskTier asks which configured risk tier to size positions with.
func promptForRiskTier(cfg *config.Config) (string, error) {
	options := make([]string, len(cfg.RiskTiers))
	defaultOption := ""
	for i, tier := range cfg.RiskTiers {
		options[i] = fmt.Sprintf("%s (max position %.0f%%)", tier.Name, tier.MaxPosition*100)
		if tier.Name == cfg.RiskTier {
			defaultOption = options[i]
		}
	}

	var selected string
	prompt := &survey.Select{
		Message: "Select risk tier:",
		Options: options,
		Default: defaultOption,
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}

	name, _, _ := strings.Cut(selected, " ")
	return name, nil
}

// promptForNewsQuery asks for an optional headline search query.
func promptForNewsQuery() (string, error) {
	var query string
	prompt := &survey.Input{
		Message: "Headline search query (empty to skip event/theme analysis):",
		Help:    "Headlines are scanned for macro event keywords and ranked against the theme registry.",
	}
	if err := survey.AskOne(prompt, &query); err != nil {
		return "", err
	}
	return strings.TrimSpace(query), nil
}

// promptToConfirm asks for a final go-ahead before fetching live data.
func promptToConfirm(cfg *config.Config, query string) (bool, error) {
	summary := fmt.Sprintf("Run analysis (%d instruments, mode=%s, risk=%s", len(cfg.Instruments), cfg.Mode, cfg.RiskTier)
	if query != "" {
		summary += fmt.Sprintf(", news=%q", query)
	}
	summary += ")?"

	confirmed := true
	prompt := &survey.Confirm{
		Message: summary,
		Default: true,
	}
	if err := survey.AskOne(prompt, &confirmed); err != nil {
		return false, err
	}
	return confirmed, nil
}
