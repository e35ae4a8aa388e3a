// Package gameevent extracts inline <event>TYPE:VALUE</event> markers from
// model output. Markers may appear anywhere in the text, inside or outside
// the <response> envelope.
package gameevent

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

const (
	TypeHealth    = "HEALTH"
	TypeMana      = "MANA"
	TypeXP        = "XP"
	TypeItemFound = "ITEM_FOUND"
)

var (
	// A marker value never contains '<', so an unterminated marker cannot
	// swallow the one after it.
	markerPattern = regexp.MustCompile(`<event>\s*([A-Za-z0-9_]+)\s*:([^<]*)</event>`)
	anyMarker     = regexp.MustCompile(`<event>[^<]*</event>`)
)

// Event is one inline state delta.
type Event struct {
	Type    string `json:"type"`
	Value   string `json:"value"`
	Amount  int    `json:"amount,omitempty"`
	Display string `json:"display"`
}

// IsNumeric reports whether typ carries an integer delta.
func IsNumeric(typ string) bool {
	switch typ {
	case TypeHealth, TypeMana, TypeXP:
		return true
	}
	return false
}

// Extract returns every well-formed marker in text, in order of occurrence.
// Markers with an empty value, or a numeric type whose value is not an
// integer, are skipped.
func Extract(text string, lang language.Tag) []Event {
	matches := markerPattern.FindAllStringSubmatch(text, -1)
	events := make([]Event, 0, len(matches))
	for _, m := range matches {
		typ := strings.ToUpper(m[1])
		value := strings.TrimSpace(m[2])
		if value == "" {
			continue
		}

		e := Event{Type: typ, Value: value}
		if IsNumeric(typ) {
			n, err := strconv.Atoi(value)
			if err != nil {
				continue
			}
			e.Amount = n
		}
		e.Display = Display(lang, typ, value, e.Amount)
		events = append(events, e)
	}
	return events
}

// Strip removes every <event>...</event> marker from text.
func Strip(text string) string {
	return anyMarker.ReplaceAllString(text, "")
}
