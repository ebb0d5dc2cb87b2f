// Package themes ranks the configured thematic sectors by how often their
// keywords appear in the supplied headlines.
package themes

import (
	"sort"
	"strings"

	"etfradar/internal/config"
	"etfradar/internal/models"
)

const maxRanked = 3

// NoDominantThemeID identifies the synthetic entry returned when no theme
// matched any headline.
const NoDominantThemeID = "broad-market"

// Rank counts, per theme, the number of distinct headlines containing at
// least one of the theme's keywords (a headline is counted once per theme
// no matter how many of its keywords appear). Themes with zero hits are
// dropped; the rest are sorted by hit count descending with registry order
// breaking ties, and the top three are returned. With no hits at all a
// single synthetic broad-market entry is returned instead of nothing.
func Rank(titles []string, registry []config.Theme, broadMarketFunds []string) []models.ThemeScore {
	var scored []models.ThemeScore
	for _, theme := range registry {
		var matched []string
		for _, title := range titles {
			lower := strings.ToLower(title)
			for _, keyword := range theme.Keywords {
				if strings.Contains(lower, strings.ToLower(keyword)) {
					matched = append(matched, title)
					break
				}
			}
		}
		if len(matched) == 0 {
			continue
		}
		scored = append(scored, models.ThemeScore{
			ThemeID:       theme.ID,
			Name:          theme.Name,
			HitCount:      len(matched),
			MatchedTitles: matched,
			Instruments:   theme.Instruments,
		})
	}

	if len(scored) == 0 {
		return []models.ThemeScore{{
			ThemeID:     NoDominantThemeID,
			Name:        "无明显热点",
			HitCount:    0,
			Tier:        models.ThemeTierLow,
			Instruments: broadMarketFunds,
			Strategy:    "均衡配置，等待明确趋势",
			Synthetic:   true,
		}}
	}

	// Stable sort keeps registry order for equal hit counts.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].HitCount > scored[j].HitCount
	})
	if len(scored) > maxRanked {
		scored = scored[:maxRanked]
	}

	for i := range scored {
		scored[i].Tier, scored[i].Strategy = gradeFor(scored[i].HitCount)
	}
	return scored
}

func gradeFor(hits int) (models.ThemeTier, string) {
	switch {
	case hits >= 3:
		return models.ThemeTierHigh, "重点配置，分批建仓"
	case hits == 2:
		return models.ThemeTierModerate, "适量配置，观察趋势"
	default:
		return models.ThemeTierLow, "小仓位试探"
	}
}
