// Package clean implements the cleaning stage CLI command.
package clean

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/crawldeck/corpus-curator/models"
	"github.com/crawldeck/corpus-curator/pkg/cleaner"
	"github.com/crawldeck/corpus-curator/pkg/pool"
	"github.com/crawldeck/corpus-curator/pkg/skipcache"
	"github.com/crawldeck/corpus-curator/pkg/walker"
)

// Action runs the cleaning stage: walk the input tree, clean every batch
// file whose output is stale, and print run statistics.
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
	if c.IsSet("output-dir") {
		cfg.OutputDir = c.String("output-dir")
	}
	if c.IsSet("strip-mode") {
		cfg.StripMode = c.String("strip-mode")
	}

	root := c.Args().First()
	if root == "" {
		root = "analyses"
	}

	_, err = Run(root, cfg, logger)
	return err
}

// Run executes the cleaning stage against root with the given config and
// returns the merged run statistics.
func Run(root string, cfg models.Config, logger *slog.Logger) (cleaner.Stats, error) {
	start := time.Now()

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return cleaner.Stats{}, cli.Exit(fmt.Sprintf("input directory %q is missing or not a directory", root), 1)
	}
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return cleaner.Stats{}, cli.Exit(fmt.Sprintf("failed to resolve input directory: %v", err), 1)
	}

	var mode cleaner.StripMode
	switch cfg.StripMode {
	case "", "regex":
		mode = cleaner.StripRegex
	case "dom":
		mode = cleaner.StripDOM
	default:
		return cleaner.Stats{}, cli.Exit(fmt.Sprintf("invalid strip mode %q (want regex or dom)", cfg.StripMode), 1)
	}

	files := walker.Collect(walker.Walk(rootAbs, logger))
	if len(files) == 0 {
		return cleaner.Stats{}, cli.Exit(fmt.Sprintf("no .jsonl files found under %q", root), 1)
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = pool.Default()
	}
	logger.Info("starting cleaning stage", "files", len(files), "workers", workers, "strip_mode", cfg.StripMode)

	jobs, skipped, failed := planJobs(rootAbs, files, cfg.OutputDir, skipcache.New(logger), logger)

	cl := &cleaner.Cleaner{Mode: mode, Logger: logger}
	results := pool.Run(jobs, workers, func(j job) (cleaner.Stats, error) {
		return cl.CleanFile(j.in, j.out)
	})

	// Stats merge is commutative, so completion order does not matter.
	total := cleaner.NewStats()
	for _, r := range results {
		if r.Err != nil {
			logger.Error("failed to clean file", "file", r.Job.in, "error", r.Err)
			failed++
			continue
		}
		total.Merge(r.Value)
	}
	total.Skipped = skipped

	printSummary(total, failed, time.Since(start))
	return total, nil
}

type job struct {
	in  string
	out string
}

// planJobs maps every walked file to its mirrored output path and splits the
// list into work, up-to-date skips, and failures. A file whose output path
// cannot be derived counts as failed so the summary totals still cover every
// walked file.
func planJobs(rootAbs string, files []string, outDir string, cache *skipcache.Cache, logger *slog.Logger) (jobs []job, skipped, failed int) {
	for _, in := range files {
		rel, err := filepath.Rel(rootAbs, in)
		if err != nil {
			logger.Error("cannot derive output path, skipping file", "path", in, "error", err)
			failed++
			continue
		}
		out := filepath.Join(outDir, rel)
		if cache.ShouldSkip(in, out) {
			logger.Info("output up to date, skipping", "file", in)
			skipped++
			continue
		}
		jobs = append(jobs, job{in: in, out: out})
	}
	return jobs, skipped, failed
}

func printSummary(total cleaner.Stats, failed int, elapsed time.Duration) {
	fmt.Println("--- Cleaning Summary ---")
	fmt.Printf("Content bytes before: %d\n", total.SizeBefore)
	fmt.Printf("Content bytes after:  %d\n", total.SizeAfter)
	fmt.Printf("Reduction:            %.2f%%\n", total.Reduction())

	names := make([]string, 0, len(total.ByRule))
	for name := range total.ByRule {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return total.ByRule[names[i]] > total.ByRule[names[j]]
	})
	for _, name := range names {
		fmt.Printf("  %-20s %d bytes removed\n", name, total.ByRule[name])
	}

	fmt.Printf("Files processed: %d\n", total.Processed)
	fmt.Printf("Files skipped:   %d\n", total.Skipped)
	if failed > 0 {
		fmt.Printf("Files failed:    %d\n", failed)
	}
	fmt.Printf("Duration: %s\n", elapsed.Round(time.Millisecond))
}
