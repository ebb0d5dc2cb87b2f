package cli

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"

	"etfradar/internal/config"
)

// runInteractiveMode walks the user through one analysis run: data mode,
// risk tier and an optional headline query, then executes the pipeline.
func runInteractiveMode(cmd *cobra.Command, cfg *config.Config) error {
	fmt.Printf("etfradar v%s - US index dip radar\n", version)
	fmt.Printf("Tracking %d instruments\n\n", len(cfg.Instruments))

	mode, err := promptForMode(cfg.Mode)
	if err != nil {
		return interactiveErr(err)
	}
	cfg.Mode = mode

	tierName, err := promptForRiskTier(cfg)
	if err != nil {
		return interactiveErr(err)
	}
	cfg.RiskTier = tierName

	query, err := promptForNewsQuery()
	if err != nil {
		return interactiveErr(err)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	confirmed, err := promptToConfirm(cfg, query)
	if err != nil {
		return interactiveErr(err)
	}
	if !confirmed {
		fmt.Println("aborted")
		return nil
	}

	return runAnalysis(cmd, cfg, analysisOptions{newsQuery: query})
}

// interactiveErr maps ctrl-c during a prompt to a clean exit.
func interactiveErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		fmt.Println("aborted")
		return nil
	}
	return err
}
