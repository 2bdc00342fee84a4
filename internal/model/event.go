// Package model defines the event record and its ingestion rules.
package model

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/cmarchi/cartaz/internal/dates"
)

// Event is a catalog record in its fixed, canonical shape. Source
// documents are heterogeneous (the same concept may appear under several
// keys, in Portuguese or English); synonyms are resolved once when the
// record is decoded and never again downstream. All fields are optional;
// Date holds the canonical YYYY-MM-DD string when the source value was
// parseable and the raw source value otherwise.
type Event struct {
	Title       string `json:"title,omitempty"`
	Date        string `json:"data,omitempty"`
	Venue       string `json:"venue,omitempty"`
	Description string `json:"description,omitempty"`
	Tags        string `json:"tags,omitempty"`
	PostURL     string `json:"instagramUrl,omitempty"`
	Shortcode   string `json:"shortcode,omitempty"`
}

// text tolerates JSON numbers where a string is expected; ODS codes in
// source documents show up both ways.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*t = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		// Objects and arrays carry no usable text.
		*t = ""
		return nil
	}
	*t = text(n.String())
	return nil
}

// rawEvent lists every synonym key a source document may use. The field
// order inside resolve is the candidate order: first present, non-empty
// key wins.
type rawEvent struct {
	Titulo      text `json:"titulo"`
	TituloAcc   text `json:"título"`
	Title       text `json:"title"`
	DataEvento  text `json:"data_evento"`
	Data        text `json:"data"`
	DataInicio  text `json:"data_inicio"`
	Start       text `json:"start"`
	DataPost    text `json:"data_post"`
	Local       text `json:"local"`
	Venue       text `json:"venue"`
	Address     text `json:"address"`
	Descricao   text `json:"descricao"`
	Description text `json:"description"`
	Tags        text `json:"tags"`
	Ods         text `json:"ods"`
	OdsUpper    text `json:"ODS"`
	URL         text `json:"url"`
	Instagram   text `json:"instagramUrl"`
	PostURL     text `json:"postUrl"`
	Shortcode   text `json:"shortcode"`
}

// UnmarshalJSON resolves synonym keys into the fixed shape.
func (e *Event) UnmarshalJSON(b []byte) error {
	var raw rawEvent
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*e = raw.resolve()
	return nil
}

func (raw rawEvent) resolve() Event {
	return Event{
		Title:       first(raw.Titulo, raw.TituloAcc, raw.Title),
		Date:        canonicalize(first(raw.DataEvento, raw.Data, raw.DataInicio, raw.Start, raw.DataPost)),
		Venue:       first(raw.Local, raw.Venue, raw.Address),
		Description: first(raw.Descricao, raw.Description),
		Tags:        joinPresent(raw.Tags, raw.Ods, raw.OdsUpper),
		PostURL:     first(raw.URL, raw.Instagram, raw.PostURL),
		Shortcode:   strings.TrimSpace(string(raw.Shortcode)),
	}
}

func first(candidates ...text) string {
	for _, c := range candidates {
		if s := strings.TrimSpace(string(c)); s != "" {
			return s
		}
	}
	return ""
}

func joinPresent(candidates ...text) string {
	var parts []string
	for _, c := range candidates {
		if s := strings.TrimSpace(string(c)); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// canonicalize maps a parseable source date to YYYY-MM-DD and leaves
// anything else untouched; an unparseable date must still round-trip
// through export, it just never constrains a filter.
func canonicalize(s string) string {
	if day, ok := dates.ParseLoose(s); ok {
		return day.Format("2006-01-02")
	}
	return s
}

// Haystack concatenates the record's searchable text. Callers fold it
// before matching.
func (e Event) Haystack() string {
	return strings.Join([]string{e.Title, e.Description, e.Tags, e.Venue}, " ")
}

// Day returns the record's calendar day; ok is false when the record has
// no parseable date.
func (e Event) Day() (time.Time, bool) {
	return dates.ParseLoose(e.Date)
}

// Link is the outbound post URL, synthesized from the shortcode when no
// explicit URL was given.
func (e Event) Link() string {
	if e.PostURL != "" {
		return e.PostURL
	}
	if e.Shortcode != "" {
		return "https://www.instagram.com/p/" + e.Shortcode + "/"
	}
	return ""
}

// TagList splits the free-form tag field on its delimiters (comma,
// semicolon, hash) for display as individual pills.
func (e Event) TagList() []string {
	var tags []string
	for _, t := range strings.FieldsFunc(e.Tags, func(r rune) bool {
		return r == ',' || r == ';' || r == '#'
	}) {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
