// Package display renders an analysis report for the terminal.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"etfradar/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	buyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#10B981"))

	holdStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))

	avoidStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#EF4444"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)
)

// Renderer writes a human-readable or JSON view of a report.
type Renderer struct {
	out  io.Writer
	json bool
}

func NewRenderer(out io.Writer, asJSON bool) *Renderer {
	return &Renderer{out: out, json: asJSON}
}

// Render writes the full report. In JSON mode the report structure is
// marshaled as-is and nothing else is printed.
func (r *Renderer) Render(report *models.Report) error {
	if r.json {
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	r.header(report)
	r.instruments(report)
	r.eventSection(report)
	r.broadSection(report)
	r.themeSection(report)
	r.footer(report)
	return nil
}

func (r *Renderer) header(report *models.Report) {
	title := fmt.Sprintf("ETF 低吸雷达  %s", report.GeneratedAt.Format("2006-01-02 15:04"))
	fmt.Fprintln(r.out, boxStyle.Render(titleStyle.Render(title)))
	fmt.Fprintln(r.out, dimStyle.Render(fmt.Sprintf("mode: %s", report.Mode)))
	fmt.Fprintln(r.out)
}

func (r *Renderer) instruments(report *models.Report) {
	fmt.Fprintln(r.out, sectionStyle.Render("标的判定"))
	for _, inst := range report.Instruments {
		fmt.Fprintf(r.out, "%s (%s / %s)\n", inst.DisplayName, inst.IndexSymbol, inst.FundCode)
		fmt.Fprintf(r.out, "  指数 %+.2f%%  溢价 %.2f%%%s  期货 %+.2f%%\n",
			inst.Signals.Index.ChangePercent,
			inst.Signals.Premium.PremiumPercent,
			estimatedMark(inst.Signals.Premium.IsEstimated),
			inst.Signals.Futures.ChangePercent,
		)
		fmt.Fprintf(r.out, "  评分 %d  %s\n", inst.Score.Score, tierStyle(inst.Score.Tier).Render(inst.Score.Tier.Label()))

		if inst.Plan != nil {
			fmt.Fprintf(r.out, "  建议仓位 %.0f%% (%s, %s)\n",
				inst.Plan.Ratio*100, inst.Plan.RiskTier, inst.Plan.Urgency)
			fmt.Fprintf(r.out, "  分批 %s\n", tranches(inst.Plan.Tranches))
			fmt.Fprintf(r.out, "  退出 止盈+%.0f%%/+%.0f%% 止损%.0f%%\n",
				inst.Plan.Exit.TakeProfitLowPct, inst.Plan.Exit.TakeProfitHighPct, inst.Plan.Exit.StopLossPct)
		} else if len(inst.RejectionReasons) > 0 {
			fmt.Fprintf(r.out, "  %s\n", dimStyle.Render("暂不建仓: "+strings.Join(inst.RejectionReasons, "; ")))
		}
		fmt.Fprintln(r.out)
	}
}

func (r *Renderer) eventSection(report *models.Report) {
	if !report.Event.HasEvent {
		return
	}
	fmt.Fprintln(r.out, sectionStyle.Render("宏观事件"))
	for _, m := range report.Event.Matches {
		fmt.Fprintf(r.out, "  [%s] %s\n", m.Keyword, m.Title)
	}
	fmt.Fprintln(r.out)
}

func (r *Renderer) broadSection(report *models.Report) {
	if len(report.BroadSuggestions) == 0 {
		return
	}
	fmt.Fprintln(r.out, sectionStyle.Render("宽基替代建议"))
	for _, s := range report.BroadSuggestions {
		fmt.Fprintf(r.out, "  %s: %s\n", s.Channel, s.Advice)
	}
	fmt.Fprintln(r.out)
}

func (r *Renderer) themeSection(report *models.Report) {
	if len(report.Themes) == 0 {
		return
	}
	fmt.Fprintln(r.out, sectionStyle.Render("热点主题"))
	for _, t := range report.Themes {
		if t.Synthetic {
			fmt.Fprintf(r.out, "  %s\n", dimStyle.Render("无明显主题热点，建议关注宽基指数"))
		} else {
			fmt.Fprintf(r.out, "  %s (%d 条相关) [%s]\n", t.Name, t.HitCount, t.Tier)
		}
		fmt.Fprintf(r.out, "    %s\n", t.Strategy)
		if len(t.Instruments) > 0 {
			fmt.Fprintf(r.out, "    %s\n", dimStyle.Render(strings.Join(t.Instruments, "  ")))
		}
	}
	fmt.Fprintln(r.out)
}

func (r *Renderer) footer(report *models.Report) {
	if len(report.EstimatedSignals) > 0 {
		fmt.Fprintln(r.out, dimStyle.Render("以下信号为估算值: "+strings.Join(report.EstimatedSignals, ", ")))
	}
	fmt.Fprintln(r.out, dimStyle.Render("仅供参考，不构成投资建议"))
}

func tierStyle(tier models.DecisionTier) lipgloss.Style {
	switch tier {
	case models.TierStrongBuy, models.TierBuy:
		return buyStyle
	case models.TierConsider, models.TierHold:
		return holdStyle
	default:
		return avoidStyle
	}
}

func estimatedMark(estimated bool) string {
	if estimated {
		return "(估)"
	}
	return ""
}

func tranches(parts []float64) string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = fmt.Sprintf("%.0f%%", p*100)
	}
	return strings.Join(out, " / ")
}
