// Package cleaner strips markup noise from record content, one file at a time.
package cleaner

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/crawldeck/corpus-curator/models"
)

// Batch files hold single-line JSON documents with page-sized content, so
// lines run well past bufio's default limit.
const maxLineBytes = 64 * 1024 * 1024

// StripMode selects how markup is removed from content text.
type StripMode int

const (
	// StripRegex applies only the ordered regex pipeline.
	StripRegex StripMode = iota
	// StripDOM extracts readable text from HTML documents and fragments
	// first, then applies the regex pipeline to the result.
	StripDOM
)

// Cleaner transforms batch files. One Cleaner is shared by all workers; it
// holds no mutable state, only configuration.
type Cleaner struct {
	Mode   StripMode
	Logger *slog.Logger
}

// CleanFile streams the input file line by line, cleans each record's
// content_text, drops records that end up with no content and no meta tags,
// and writes the survivors to outPath. It returns the file's stats.
//
// Blank lines, malformed lines, and records whose content_text is not a
// string are copied through unchanged, never dropped silently.
//
// The output goes to a temporary sibling first and is renamed into place only
// after a clean finish: a mid-stream failure must not leave a fresh partial
// file behind for the skip cache to trust on the next run.
func (c *Cleaner) CleanFile(inPath, outPath string) (Stats, error) {
	stats := NewStats()

	in, err := os.Open(inPath)
	if err != nil {
		return stats, fmt.Errorf("failed to open input: %w", err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return stats, fmt.Errorf("failed to create output directory: %w", err)
	}
	tmpPath := outPath + ".tmp"
	tmp, err := os.Create(tmpPath)
	if err != nil {
		return stats, fmt.Errorf("failed to create output: %w", err)
	}

	err = c.cleanLines(in, tmp, inPath, &stats)
	if closeErr := tmp.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close output: %w", closeErr)
	}
	if err != nil {
		os.Remove(tmpPath)
		return stats, err
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		os.Remove(tmpPath)
		return stats, fmt.Errorf("failed to finalize output: %w", err)
	}
	stats.Processed = 1
	return stats, nil
}

func (c *Cleaner) cleanLines(in io.Reader, out io.Writer, inPath string, stats *Stats) error {
	w := bufio.NewWriter(out)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 1024*1024), maxLineBytes)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		raw := scanner.Text()

		line := models.ParseLine(raw)
		switch line.Kind {
		case models.LinePassThrough:
			if err := writeLine(w, raw); err != nil {
				return err
			}
			continue
		case models.LineError:
			c.Logger.Warn("failed to parse record, passing line through", "file", inPath, "line", lineNum, "error", line.Err)
			if err := writeLine(w, raw); err != nil {
				return err
			}
			continue
		}

		rec := line.Record
		text, isString := rec.ContentText()
		if !isString {
			if err := writeLine(w, raw); err != nil {
				return err
			}
			continue
		}

		stats.SizeBefore += int64(len(text))
		cleaned := c.clean(text, stats.ByRule)
		stats.SizeAfter += int64(len(cleaned))

		if cleaned == "" && rec.MetaTagsEmpty() {
			continue
		}

		rec.SetContentText(cleaned)
		data, err := rec.Marshal()
		if err != nil {
			c.Logger.Warn("failed to serialize record, passing line through", "file", inPath, "line", lineNum, "error", err)
			if err := writeLine(w, raw); err != nil {
				return err
			}
			continue
		}
		if err := writeLine(w, string(data)); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", inPath, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}

func (c *Cleaner) clean(text string, byRule map[string]int64) string {
	if c.Mode == StripDOM {
		text = stripMarkupDOM(text, byRule, c.Logger)
	}
	text = ApplyRules(text, byRule)
	return strings.TrimSpace(text)
}

func writeLine(w *bufio.Writer, line string) error {
	if _, err := w.WriteString(line); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := w.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
