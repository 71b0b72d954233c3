package rewriter

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func writeBatch(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batch_x.jsonl")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatalf("failed to write batch: %v", err)
	}
	return path
}

func TestRewrite_RemovesExcludedRecords(t *testing.T) {
	path := writeBatch(t,
		`{"url":"u1","content_text":"a"}`,
		`{"url":"u2","content_text":"b"}`,
		`{"url":"u3","content_text":"c"}`,
	)

	exclude := map[string]struct{}{"u1": {}, "u2": {}}
	removed, err := Rewrite(path, exclude, testLogger())
	if err != nil {
		t.Fatalf("Rewrite() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read rewritten file: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("rewritten file has %d lines, want 1", len(lines))
	}

	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("rewritten file is not valid JSONL: %v", err)
	}
	if rec["url"] != "u3" {
		t.Errorf("surviving url = %q, want u3", rec["url"])
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind after rewrite")
	}
}

func TestRewrite_NoMatchesLeavesContentEqual(t *testing.T) {
	original := []string{
		`{"url":"u1","content_text":"a"}`,
		`{"url":"u2","content_text":"b"}`,
	}
	path := writeBatch(t, original...)

	removed, err := Rewrite(path, map[string]struct{}{"absent": {}}, testLogger())
	if err != nil {
		t.Fatalf("Rewrite() error = %v", err)
	}
	if removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}

	data, _ := os.ReadFile(path)
	if got := string(data); got != strings.Join(original, "\n")+"\n" {
		t.Errorf("content changed with no matches:\n%s", got)
	}
}

func TestRewrite_KeepsMalformedLines(t *testing.T) {
	broken := `{"url": broken`
	path := writeBatch(t,
		`{"url":"u1","content_text":"a"}`,
		broken,
	)

	removed, err := Rewrite(path, map[string]struct{}{"u1": {}}, testLogger())
	if err != nil {
		t.Fatalf("Rewrite() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	data, _ := os.ReadFile(path)
	if got := strings.TrimSuffix(string(data), "\n"); got != broken {
		t.Errorf("rewritten file = %q, want only the malformed line", got)
	}
}

func TestReplaceFile_FailedFallbackKeepsTemporary(t *testing.T) {
	dir := t.TempDir()
	tmpPath := filepath.Join(dir, "batch_x.jsonl.tmp")
	filtered := `{"url":"u3","content_text":"c"}` + "\n"
	if err := os.WriteFile(tmpPath, []byte(filtered), 0644); err != nil {
		t.Fatalf("failed to write temporary: %v", err)
	}

	// A non-empty directory at the destination defeats both the rename and
	// the fallback copy.
	dst := filepath.Join(dir, "batch_x.jsonl")
	if err := os.MkdirAll(filepath.Join(dst, "occupied"), 0755); err != nil {
		t.Fatalf("failed to create destination directory: %v", err)
	}

	if err := replaceFile(tmpPath, dst, testLogger()); err == nil {
		t.Fatal("replaceFile() onto a directory returned nil error")
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		t.Fatalf("temporary file gone after failed fallback: %v", err)
	}
	if string(data) != filtered {
		t.Errorf("temporary content = %q, want the filtered data intact", data)
	}
}

func TestRewrite_MissingFile(t *testing.T) {
	_, err := Rewrite(filepath.Join(t.TempDir(), "absent.jsonl"), nil, testLogger())
	if err == nil {
		t.Fatal("Rewrite() on missing file returned nil error")
	}
}
