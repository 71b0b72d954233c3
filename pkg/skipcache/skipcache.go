// Package skipcache decides whether a cleaned output file is already fresh.
package skipcache

import (
	"log/slog"
	"os"
)

// Cache answers skip/process questions for input/output file pairs. It is an
// explicit object with caller-controlled lifetime rather than module-level
// state, so long-running batch jobs cannot leak decisions across runs.
type Cache struct {
	logger *slog.Logger
}

// New returns a Cache logging stat failures through logger.
func New(logger *slog.Logger) *Cache {
	return &Cache{logger: logger}
}

// ShouldSkip reports whether reprocessing input into output is unnecessary:
// the output exists, is non-empty, and its mtime is strictly newer than the
// input's. Any stat failure fails open (process) with a logged warning, so a
// flaky filesystem can cost redundant work but never a stale output.
func (c *Cache) ShouldSkip(input, output string) bool {
	outInfo, err := os.Stat(output)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Warn("failed to stat output, reprocessing", "path", output, "error", err)
		}
		return false
	}
	if outInfo.Size() == 0 {
		return false
	}
	inInfo, err := os.Stat(input)
	if err != nil {
		c.logger.Warn("failed to stat input, reprocessing", "path", input, "error", err)
		return false
	}
	return outInfo.ModTime().After(inInfo.ModTime())
}
