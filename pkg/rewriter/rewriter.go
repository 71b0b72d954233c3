// Package rewriter removes named records from a batch file in place without
// risking the original on a crash.
package rewriter

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/crawldeck/corpus-curator/models"
)

const maxLineBytes = 64 * 1024 * 1024

// Rewrite streams path line by line, drops every record whose url is in
// exclude, and atomically replaces the original file. Lines that fail to
// parse are kept, with a logged error. The write goes to a temporary sibling
// first; a mid-stream failure removes the temporary and leaves the original
// untouched. If the final rename fails (cross-device moves, for one), the
// temporary is copied over the original and then deleted.
//
// It returns how many records were removed.
func Rewrite(path string, exclude map[string]struct{}, logger *slog.Logger) (int, error) {
	in, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer in.Close()

	tmpPath := path + ".tmp"
	tmp, err := os.Create(tmpPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create temporary file: %w", err)
	}

	removed, err := filterLines(in, tmp, exclude, path, logger)
	if closeErr := tmp.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close temporary file: %w", closeErr)
	}
	if err != nil {
		os.Remove(tmpPath)
		return 0, err
	}

	in.Close()
	if err := replaceFile(tmpPath, path, logger); err != nil {
		return 0, err
	}
	return removed, nil
}

// replaceFile moves the filtered temporary over the original, preferring an
// atomic rename with a copy-then-delete fallback. If the fallback copy fails
// the original may already be truncated, so the temporary stays on disk as
// the only complete copy of the filtered data; its path is logged for manual
// recovery.
func replaceFile(tmpPath, path string, logger *slog.Logger) error {
	err := os.Rename(tmpPath, path)
	if err == nil {
		return nil
	}
	logger.Warn("rename failed, falling back to copy", "path", path, "error", err)
	if err := copyAndDelete(tmpPath, path); err != nil {
		logger.Error("fallback copy failed, keeping temporary file", "tmp", tmpPath, "error", err)
		return err
	}
	return nil
}

func filterLines(in io.Reader, out io.Writer, exclude map[string]struct{}, path string, logger *slog.Logger) (int, error) {
	w := bufio.NewWriter(out)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 1024*1024), maxLineBytes)

	removed := 0
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		raw := scanner.Text()

		line := models.ParseLine(raw)
		if line.Kind == models.LineParsed {
			if _, drop := exclude[line.Record.URL()]; drop {
				removed++
				continue
			}
		} else if line.Kind == models.LineError {
			logger.Error("failed to parse record during rewrite, keeping line", "file", path, "line", lineNum, "error", line.Err)
		}

		if _, err := w.WriteString(raw); err != nil {
			return removed, fmt.Errorf("failed to write temporary file: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return removed, fmt.Errorf("failed to write temporary file: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return removed, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return removed, fmt.Errorf("failed to flush temporary file: %w", err)
	}
	return removed, nil
}

func copyAndDelete(src, dst string) error {
	from, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open temporary file: %w", err)
	}
	defer from.Close()

	to, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to replace %s: %w", dst, err)
	}
	if _, err := io.Copy(to, from); err != nil {
		to.Close()
		return fmt.Errorf("failed to replace %s: %w", dst, err)
	}
	if err := to.Close(); err != nil {
		return fmt.Errorf("failed to replace %s: %w", dst, err)
	}
	return os.Remove(src)
}
