// Package eventdoc reads and writes the JSON event document used for
// initial loading, bulk import, and export.
package eventdoc

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/cmarchi/cartaz/internal/model"
)

// ErrBadDocument marks a document that is neither an event array nor a
// wrapper object with an "events" array.
var ErrBadDocument = errors.New("eventdoc: not an event array or {\"events\": [...]} document")

// wrapper is the alternative top-level shape.
type wrapper struct {
	Events *[]model.Event `json:"events"`
}

// Parse decodes a JSON document holding either a bare array of events or
// an object exposing an "events" array. Any other shape is rejected; the
// caller's state must be left untouched on error.
func Parse(r io.Reader) ([]model.Event, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	// A nil slice after a successful Unmarshal means the document was a
	// bare null, which is not an event array; importing it must not
	// wipe the catalog.
	var events []model.Event
	if err := json.Unmarshal(data, &events); err == nil && events != nil {
		return events, nil
	}

	var w wrapper
	if err := json.Unmarshal(data, &w); err == nil && w.Events != nil {
		return *w.Events, nil
	}
	return nil, ErrBadDocument
}

// Export serializes the full collection, pretty-printed, with field
// names as stored. An empty catalog exports as an empty array rather
// than null.
func Export(events []model.Event) ([]byte, error) {
	if events == nil {
		events = []model.Event{}
	}
	out, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return out, nil
}
