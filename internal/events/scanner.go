// Package events detects major-event keywords in news headlines.
package events

import (
	"strings"

	"etfradar/internal/models"
)

// Scan tests every headline against every keyword using case-sensitive
// substring containment. One headline can contribute several matches, one
// per distinct keyword it contains; matches are not deduplicated across
// headlines. Order is stable: headlines in input order, keywords in
// configured order.
func Scan(titles []string, keywords []string) models.EventFlag {
	var matches []models.EventMatch
	for _, title := range titles {
		for _, keyword := range keywords {
			if strings.Contains(title, keyword) {
				matches = append(matches, models.EventMatch{Keyword: keyword, Title: title})
			}
		}
	}
	return models.EventFlag{
		HasEvent: len(matches) > 0,
		Matches:  matches,
	}
}
