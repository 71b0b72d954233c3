// Package largest implements the top-K selection stage CLI command.
package largest

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/crawldeck/corpus-curator/models"
	"github.com/crawldeck/corpus-curator/pkg/langid"
	"github.com/crawldeck/corpus-curator/pkg/manifest"
	"github.com/crawldeck/corpus-curator/pkg/pool"
	"github.com/crawldeck/corpus-curator/pkg/topk"
	"github.com/crawldeck/corpus-curator/pkg/walker"
)

const maxLineBytes = 64 * 1024 * 1024

// Action runs the selection stage: find the K largest records across the
// corpus and write them to the manifest file.
func Action(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("top") {
		cfg.TopK = c.Int("top")
	}
	if c.IsSet("out") {
		cfg.ManifestPath = c.String("out")
	}
	if c.IsSet("detect-language") {
		cfg.DetectLanguage = c.Bool("detect-language")
	}

	root := c.Args().First()
	if root == "" {
		root = "analyses"
	}

	_, err = Run(root, cfg, logger)
	return err
}

// Run executes the selection stage against root with the given config and
// returns the selected entries, largest first.
func Run(root string, cfg models.Config, logger *slog.Logger) ([]topk.Entry, error) {
	start := time.Now()

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, cli.Exit(fmt.Sprintf("input directory %q is missing or not a directory", root), 1)
	}

	files := walker.Collect(walker.Walk(root, logger))
	if len(files) == 0 {
		return nil, cli.Exit(fmt.Sprintf("no .jsonl files found under %q", root), 1)
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = pool.Default()
	}
	waveSize := pool.WaveSize(workers)
	logger.Info("starting selection stage", "files", len(files), "workers", workers, "wave_size", waveSize, "top_k", cfg.TopK)

	var detector *langid.Detector
	if cfg.DetectLanguage {
		detector = langid.New()
	}

	// Waves bound how many per-file selectors pile up before a merge; the
	// merge itself happens only here in the coordinator.
	global := topk.New(cfg.TopK)
	failed := 0
	for _, wave := range pool.Waves(files, waveSize) {
		results := pool.Run(wave, workers, func(path string) (*topk.Selector, error) {
			return scanFile(path, cfg.TopK, detector, logger)
		})
		for _, r := range results {
			if r.Err != nil {
				logger.Error("failed to scan file", "file", r.Job, "error", r.Err)
				failed++
				continue
			}
			global.Merge(r.Value)
		}
	}

	entries := global.Entries()
	if err := manifest.WriteTopK(cfg.ManifestPath, entries); err != nil {
		return nil, cli.Exit(err.Error(), 1)
	}

	printSummary(entries, cfg.ManifestPath, failed, time.Since(start))
	return entries, nil
}

// scanFile builds a per-file selector; the worker owns it alone, so no
// synchronization is needed until the coordinator merges.
func scanFile(path string, k int, detector *langid.Detector, logger *slog.Logger) (*topk.Selector, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	sel := topk.New(k)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), maxLineBytes)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := models.ParseLine(scanner.Text())
		switch line.Kind {
		case models.LinePassThrough:
			continue
		case models.LineError:
			logger.Error("failed to parse record, skipping", "file", path, "line", lineNum, "error", line.Err)
			continue
		}

		text, ok := line.Record.ContentText()
		if !ok {
			continue
		}

		// Cheap rejection before touching language detection.
		if sel.Len() == k && len(text) <= sel.Threshold() {
			continue
		}

		language := line.Record.Language()
		if language == "" && detector != nil {
			language = detector.Detect(text)
		}

		sel.Admit(topk.Entry{
			ContentLength: len(text),
			Language:      language,
			URL:           line.Record.URL(),
			SourceFile:    path,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return sel, nil
}

func printSummary(entries []topk.Entry, path string, failed int, elapsed time.Duration) {
	fmt.Println("--- Largest Content Summary ---")
	fmt.Printf("Selected %d record(s), written to %s\n", len(entries), path)

	top := entries
	if len(top) > 5 {
		top = top[:5]
	}
	for i, e := range top {
		fmt.Printf("%d. %d bytes  %s  (%s)\n", i+1, e.ContentLength, e.URL, e.SourceFile)
	}

	if failed > 0 {
		fmt.Printf("Files failed: %d\n", failed)
	}
	fmt.Printf("Duration: %s\n", elapsed.Round(time.Millisecond))
}
