package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// EntryID identifies an entry within a collection.
// Stories carry either a numeric CMS id or a custom string id; numeric
// ids round-trip as JSON numbers so manifests stay stable across builds.
type EntryID struct {
	value   string
	numeric bool
}

// StringID returns an EntryID backed by a custom string identifier.
func StringID(s string) EntryID {
	return EntryID{value: s}
}

// NumericID returns an EntryID backed by a native CMS record id.
func NumericID(n int64) EntryID {
	return EntryID{value: strconv.FormatInt(n, 10), numeric: true}
}

// String returns the canonical form used for identity comparison.
func (id EntryID) String() string {
	return id.value
}

// IsZero reports whether the id was never set.
func (id EntryID) IsZero() bool {
	return id.value == ""
}

// IsNumeric reports whether the id serialises as a JSON number.
func (id EntryID) IsNumeric() bool {
	return id.numeric
}

// Same reports whether two ids name the same entry.
// Numeric 42 and string "42" are considered equal.
func (id EntryID) Same(other EntryID) bool {
	return id.value == other.value
}

// MarshalJSON implements json.Marshaler.
func (id EntryID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *EntryID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = EntryID{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("entry id: %w", err)
		}
		*id = StringID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("entry id: %w", err)
	}
	*id = EntryID{value: n.String(), numeric: true}
	return nil
}

// Entry is the canonical content record after source mapping and
// markdown rendering. Optional fields are empty when absent.
type Entry struct {
	// ID is the custom content id when present, else the CMS record id.
	ID EntryID `json:"id"`

	// Title is the entry title. Required.
	Title string `json:"title"`

	// Author is the entry author. Required.
	Author string `json:"author"`

	// Summary is inline-rendered HTML.
	Summary string `json:"summary,omitempty"`

	// Body is block-rendered HTML.
	Body string `json:"body,omitempty"`

	// Category is the video category code.
	Category string `json:"category,omitempty"`

	// Date is the most relevant ISO-8601 timestamp of the content.
	Date string `json:"date"`

	// Hash is a digest of every other field.
	Hash string `json:"hash"`
}

// HasBody reports whether the entry carries renderable body content.
func (e Entry) HasBody() bool {
	return e.Body != ""
}

// VideoEntry is the public projection of an entry inside a video catalog.
type VideoEntry struct {
	ID      EntryID `json:"id"`
	Title   string  `json:"title"`
	Author  string  `json:"author"`
	Summary string  `json:"summary,omitempty"`
	Date    string  `json:"date"`
}

// ToVideoEntry projects an entry for the video catalog.
func (e Entry) ToVideoEntry() VideoEntry {
	return VideoEntry{
		ID:      e.ID,
		Title:   e.Title,
		Author:  e.Author,
		Summary: e.Summary,
		Date:    e.Date,
	}
}
