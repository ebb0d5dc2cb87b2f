package models

// ThemeTier grades how hot a theme currently is.
type ThemeTier string

const (
	ThemeTierHigh     ThemeTier = "high"
	ThemeTierModerate ThemeTier = "moderate"
	ThemeTierLow      ThemeTier = "low"
)

// ThemeScore is one ranked theme with its supporting headlines and the
// instruments recommended for it.
type ThemeScore struct {
	ThemeID       string    `json:"theme_id"`
	Name          string    `json:"name"`
	HitCount      int       `json:"hit_count"`
	MatchedTitles []string  `json:"matched_titles,omitempty"`
	Tier          ThemeTier `json:"tier"`
	Instruments   []string  `json:"instruments"`
	Strategy      string    `json:"strategy"`
	Synthetic     bool      `json:"synthetic,omitempty"`
}
