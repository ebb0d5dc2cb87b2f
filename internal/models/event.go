package models

// EventMatch records one keyword found inside one headline.
type EventMatch struct {
	Keyword string `json:"keyword"`
	Title   string `json:"title"`
}

// EventFlag is the result of scanning headlines for major-event keywords.
// Matches preserve scan order: headlines in input order, keywords in
// configured order within each headline.
type EventFlag struct {
	HasEvent bool         `json:"has_event"`
	Matches  []EventMatch `json:"matches,omitempty"`
}
