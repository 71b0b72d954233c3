// Package manifest persists top-K selections and loads them back for removal.
//
// The manifest file is the only state carried between the selection run and
// the deletion run, so it keys records by (source file base name, url) rather
// than absolute paths: the two runs may happen on different machines or
// against relocated corpus roots.
package manifest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/crawldeck/corpus-curator/pkg/topk"
)

// Removal maps a source-file base name to the set of URLs slated for
// deletion from that file.
type Removal map[string]map[string]struct{}

// URLs returns the exclusion set for a batch file base name.
func (r Removal) URLs(base string) (map[string]struct{}, bool) {
	urls, ok := r[base]
	return urls, ok
}

// WriteTopK writes entries to path as JSONL, one entry per line, in the
// order given (the selector already holds them largest-first).
func WriteTopK(path string, entries []topk.Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create manifest: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to serialize manifest entry: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("failed to write manifest: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("failed to write manifest: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// Load reads a top-K manifest and groups its URLs by source-file base name.
// Lines that fail to parse are skipped with a logged error. Two different
// source files sharing a base name collide under this keying; batch names
// embed a UUID so a collision means the corpus itself is suspect, and Load
// warns rather than resolving it silently.
func Load(path string, logger *slog.Logger) (Removal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	removal := make(Removal)
	seenSource := make(map[string]string)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var e topk.Entry
		if err := json.Unmarshal(raw, &e); err != nil {
			logger.Error("failed to parse manifest line, skipping", "path", path, "line", lineNum, "error", err)
			continue
		}
		base := filepath.Base(e.SourceFile)
		if prev, ok := seenSource[base]; ok && prev != e.SourceFile {
			logger.Warn("source file base name collision in manifest", "base", base, "first", prev, "second", e.SourceFile)
		}
		seenSource[base] = e.SourceFile

		urls, ok := removal[base]
		if !ok {
			urls = make(map[string]struct{})
			removal[base] = urls
		}
		urls[e.URL] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return removal, nil
}
