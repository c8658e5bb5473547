package entity

import "time"

// DeckTitlePrefix names every generated presentation.
const DeckTitlePrefix = "週次AIニュース"

// DeckTitle returns the presentation title for a run at t, e.g. "週次AIニュース 2024-01-08".
func DeckTitle(t time.Time) string {
	return DeckTitlePrefix + " " + t.Format("2006-01-02")
}
