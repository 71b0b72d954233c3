// Package walker enumerates partition batch files under a corpus root.
package walker

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
)

// Walk returns a lazy stream of absolute paths of every *.jsonl file under
// root, recursing through all subdirectories. The channel is closed when the
// tree is exhausted; the sequence is not restartable. A subdirectory that
// cannot be listed is logged and skipped, and its siblings continue.
func Walk(root string, logger *slog.Logger) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				logger.Warn("failed to list directory, skipping subtree", "path", path, "error", err)
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if !strings.HasSuffix(d.Name(), ".jsonl") {
				return nil
			}
			abs, absErr := filepath.Abs(path)
			if absErr != nil {
				abs = path
			}
			out <- abs
			return nil
		})
	}()
	return out
}

// Collect drains a walk into a slice. The stages need the full file list up
// front to size the worker pool and to reject empty input trees.
func Collect(paths <-chan string) []string {
	var all []string
	for p := range paths {
		all = append(all, p)
	}
	return all
}
