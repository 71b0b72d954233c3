package walker

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte("{}\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}

func TestWalk_FindsNestedBatchFiles(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "partition=0a", "batch_1.jsonl"))
	touch(t, filepath.Join(root, "partition=0a", "batch_2.jsonl"))
	touch(t, filepath.Join(root, "partition=ff", "batch_3.jsonl"))
	touch(t, filepath.Join(root, "partition=ff", "notes.txt"))
	touch(t, filepath.Join(root, "README.md"))

	got := Collect(Walk(root, testLogger()))
	sort.Strings(got)

	if len(got) != 3 {
		t.Fatalf("found %d files, want 3: %v", len(got), got)
	}
	for _, p := range got {
		if filepath.Ext(p) != ".jsonl" {
			t.Errorf("found non-jsonl file %s", p)
		}
		if !filepath.IsAbs(p) {
			t.Errorf("path %s is not absolute", p)
		}
	}
	if base := filepath.Base(got[0]); base != "batch_1.jsonl" {
		t.Errorf("first file = %s, want batch_1.jsonl", base)
	}
}

func TestWalk_EmptyTree(t *testing.T) {
	got := Collect(Walk(t.TempDir(), testLogger()))
	if len(got) != 0 {
		t.Errorf("found %d files in empty tree, want 0", len(got))
	}
}

func TestWalk_MissingRootYieldsNothing(t *testing.T) {
	got := Collect(Walk(filepath.Join(t.TempDir(), "absent"), testLogger()))
	if len(got) != 0 {
		t.Errorf("found %d files under missing root, want 0", len(got))
	}
}
