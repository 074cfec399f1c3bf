package scraper

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	relativeDaysRe = regexp.MustCompile(`^(\d{1,3})\s+days?\s+ago$`)

	// Layouts tried in order after relative forms
	postedLayouts = []string{
		"2006-01-02",
		"2006-01-02T15:04:05Z07:00",
		"January 2, 2006",
		"Jan 2, 2006",
		"2 January 2006",
	}
)

// DateParser turns a card's posted text into a UTC date at midnight.
type DateParser struct {
	now func() time.Time
}

func NewDateParser() *DateParser {
	return &DateParser{now: time.Now}
}

// Parse understands ISO dates, a few English long forms, "today",
// "yesterday" and "N days ago".
func (dp *DateParser) Parse(dateStr string) (time.Time, error) {
	raw := strings.TrimSpace(dateStr)
	dateStr = strings.ToLower(raw)
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}

	today := dp.now().UTC().Truncate(24 * time.Hour)

	switch dateStr {
	case "today", "just posted":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}

	if m := relativeDaysRe.FindStringSubmatch(dateStr); m != nil {
		var days int
		if _, err := fmt.Sscanf(m[1], "%d", &days); err != nil {
			return time.Time{}, fmt.Errorf("invalid day count %q: %w", m[1], err)
		}
		return today.AddDate(0, 0, -days), nil
	}

	// Month names match case-insensitively through a title-cased copy
	for _, candidate := range []string{raw, titleMonth(dateStr)} {
		for _, layout := range postedLayouts {
			t, err := time.Parse(layout, candidate)
			if err == nil {
				return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
			}
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

func titleMonth(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if w != "" && w[0] >= 'a' && w[0] <= 'z' {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
