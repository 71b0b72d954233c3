package models

import (
	"encoding/json"
	"testing"
)

func TestParseLine_Tagging(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want LineKind
	}{
		{"valid record", `{"url":"a","content_text":"x"}`, LineParsed},
		{"blank line", "", LinePassThrough},
		{"malformed json", `{"url":`, LineError},
		{"non-object json", `[1,2,3]`, LineError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := ParseLine(tt.raw)
			if line.Kind != tt.want {
				t.Errorf("ParseLine(%q).Kind = %v, want %v", tt.raw, line.Kind, tt.want)
			}
			if line.Kind == LineError && line.Err == nil {
				t.Error("LineError outcome carries nil Err")
			}
			if line.Raw != tt.raw {
				t.Errorf("Raw = %q, want the original line", line.Raw)
			}
		})
	}
}

func TestRecord_ContentText(t *testing.T) {
	rec := Record{"content_text": "body"}
	if text, ok := rec.ContentText(); !ok || text != "body" {
		t.Errorf("ContentText() = %q, %v, want body, true", text, ok)
	}

	for name, rec := range map[string]Record{
		"absent":     {},
		"non-string": {"content_text": 42.0},
		"null":       {"content_text": nil},
	} {
		if _, ok := rec.ContentText(); ok {
			t.Errorf("%s: ContentText() ok = true, want false", name)
		}
	}
}

func TestRecord_MetaTagsEmpty(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want bool
	}{
		{"absent", Record{}, true},
		{"null", Record{"meta_tags": nil}, true},
		{"empty string", Record{"meta_tags": ""}, true},
		{"empty array", Record{"meta_tags": []any{}}, true},
		{"non-empty string", Record{"meta_tags": "description"}, false},
		{"non-empty array", Record{"meta_tags": []any{map[string]any{"name": "description"}}}, false},
		{"unexpected shape", Record{"meta_tags": 7.0}, false},
	}
	for _, tt := range tests {
		if got := tt.rec.MetaTagsEmpty(); got != tt.want {
			t.Errorf("%s: MetaTagsEmpty() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRecord_MarshalRoundTrip(t *testing.T) {
	raw := `{"url":"a","content_text":"x","title":"T","extra":{"n":1}}`
	line := ParseLine(raw)
	if line.Kind != LineParsed {
		t.Fatalf("ParseLine() kind = %v, want LineParsed", line.Kind)
	}

	line.Record.SetContentText("y")
	data, err := line.Record.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("round trip produced invalid JSON: %v", err)
	}
	if got["content_text"] != "y" || got["title"] != "T" {
		t.Errorf("round trip = %v", got)
	}
	if extra, ok := got["extra"].(map[string]any); !ok || extra["n"] != 1.0 {
		t.Errorf("extra field lost: %v", got["extra"])
	}
}
