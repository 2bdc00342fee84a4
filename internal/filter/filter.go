// Package filter narrows the event catalog by free-text search, tag
// tokens, and date windows.
package filter

import (
	"strings"
	"time"
	"unicode"

	"github.com/cmarchi/cartaz/internal/dates"
	"github.com/cmarchi/cartaz/internal/model"
	"github.com/cmarchi/cartaz/internal/textnorm"
)

// Preset is a named relative date window.
type Preset string

// Known presets. Anything unrecognized behaves like PresetAll.
const (
	PresetAll   Preset = "all"
	PresetToday Preset = "today"
	Preset7     Preset = "7"
	Preset30    Preset = "30"
	PresetMonth Preset = "month"
)

// Criteria holds the active filter settings. From/To are calendar days;
// a zero value means the bound is unset. When either bound is set the
// preset is ignored entirely.
type Criteria struct {
	Query  string
	Tags   string
	Preset Preset
	From   time.Time
	To     time.Time
}

// Equal reports whether two criteria select the same records. Used to
// detect filter changes that must reset pagination.
func (c Criteria) Equal(o Criteria) bool {
	return c.Query == o.Query &&
		c.Tags == o.Tags &&
		c.Preset == o.Preset &&
		sameDay(c.From, o.From) &&
		sameDay(c.To, o.To)
}

func sameDay(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return a.IsZero() == b.IsZero()
	}
	return a.Equal(b)
}

// Apply returns the events matching c, preserving catalog order. Records
// without a parseable date pass every date clause: missing information
// never hides a record from a range query.
func Apply(events []model.Event, c Criteria) []model.Event {
	return applyAt(events, c, dates.Today())
}

func applyAt(events []model.Event, c Criteria, today time.Time) []model.Event {
	query := textnorm.Fold(c.Query)
	tokens := tagTokens(c.Tags)

	matched := make([]model.Event, 0, len(events))
	for _, ev := range events {
		if !matchText(ev, query) {
			continue
		}
		if !matchTags(ev, tokens) {
			continue
		}
		if !matchDate(ev, c, today) {
			continue
		}
		matched = append(matched, ev)
	}
	return matched
}

// tagTokens splits the raw tag filter on commas and whitespace and
// folds each token.
func tagTokens(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := textnorm.Fold(strings.TrimSpace(f)); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

func matchText(ev model.Event, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(textnorm.Fold(ev.Haystack()), query)
}

// matchTags requires every requested token to appear in the record's tag
// text (AND across tokens).
func matchTags(ev model.Event, tokens []string) bool {
	if len(tokens) == 0 {
		return true
	}
	tagText := textnorm.Fold(ev.Tags)
	for _, tok := range tokens {
		if !strings.Contains(tagText, tok) {
			return false
		}
	}
	return true
}

func matchDate(ev model.Event, c Criteria, today time.Time) bool {
	day, ok := ev.Day()
	if !ok {
		return true
	}

	// An absolute range overrides any preset.
	if !c.From.IsZero() || !c.To.IsZero() {
		if !c.From.IsZero() && day.Before(c.From) {
			return false
		}
		if !c.To.IsZero() && day.After(c.To) {
			return false
		}
		return true
	}

	switch c.Preset {
	case PresetToday:
		return day.Equal(today)
	case Preset7:
		return between(day, today, dates.AddDays(today, 7))
	case Preset30:
		return between(day, today, dates.AddDays(today, 30))
	case PresetMonth:
		first, last := dates.MonthBounds(today)
		return between(day, first, last)
	default:
		return true
	}
}

func between(day, from, to time.Time) bool {
	return !day.Before(from) && !day.After(to)
}
