// Package models defines shared data structures for the curation stages.
package models

import "encoding/json"

// Record is one crawled-page analysis, decoded generically so that fields
// this tool does not interpret survive a rewrite untouched. The crawler
// writes {url, language, title, meta_tags, canonical_url, content_text};
// only url, language, content_text and meta_tags are ever inspected here.
type Record map[string]any

// URL returns the record's url field, or "" if absent or not a string.
func (r Record) URL() string {
	s, _ := r["url"].(string)
	return s
}

// Language returns the record's language field, or "" if absent or not a string.
func (r Record) Language() string {
	s, _ := r["language"].(string)
	return s
}

// ContentText returns the content_text field and whether it is a string.
// A missing or non-string field returns ("", false).
func (r Record) ContentText() (string, bool) {
	s, ok := r["content_text"].(string)
	return s, ok
}

// SetContentText replaces the content_text field.
func (r Record) SetContentText(text string) {
	r["content_text"] = text
}

// MetaTagsEmpty reports whether meta_tags is absent, null, an empty string,
// or an empty array. The field is a string on some older corpus passes and
// an array of {name, content} objects on current ones.
func (r Record) MetaTagsEmpty() bool {
	v, ok := r["meta_tags"]
	if !ok || v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	}
	return false
}

// Marshal serializes the record back to a single JSONL line (no trailing
// newline). Key order is not preserved; consumers key on field names.
func (r Record) Marshal() ([]byte, error) {
	return json.Marshal(map[string]any(r))
}

// LineKind tags the outcome of parsing one JSONL line.
type LineKind int

const (
	// LineParsed means the line decoded into a Record.
	LineParsed LineKind = iota
	// LinePassThrough means the line carries nothing to parse (blank) and
	// must be copied to the output unchanged.
	LinePassThrough
	// LineError means the line failed to decode; Raw holds the original
	// bytes and Err the cause. Callers decide whether to copy it through
	// (cleaning) or skip it (selection, removal) - never drop it silently.
	LineError
)

// Line is the tagged result of parsing one input line, so the three cases
// are handled exhaustively instead of falling through on shape mismatches.
type Line struct {
	Kind   LineKind
	Record Record
	Raw    string
	Err    error
}

// ParseLine decodes a single JSONL line into a tagged outcome.
func ParseLine(raw string) Line {
	if raw == "" {
		return Line{Kind: LinePassThrough, Raw: raw}
	}
	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return Line{Kind: LineError, Raw: raw, Err: err}
	}
	return Line{Kind: LineParsed, Record: rec, Raw: raw}
}
