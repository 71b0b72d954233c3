// Package remove implements the record removal stage CLI command.
package remove

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/crawldeck/corpus-curator/models"
	"github.com/crawldeck/corpus-curator/pkg/manifest"
	"github.com/crawldeck/corpus-curator/pkg/rewriter"
	"github.com/crawldeck/corpus-curator/pkg/walker"
)

// Action runs the removal stage: rewrite every batch file named by the
// manifest, dropping the manifest's records in place.
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
	if c.IsSet("manifest") {
		cfg.ManifestPath = c.String("manifest")
	}

	root := c.Args().First()
	if root == "" {
		root = "analyses"
	}

	_, err = Run(root, cfg, logger)
	return err
}

// Summary reports what a removal run did.
type Summary struct {
	FilesRewritten int
	RecordsRemoved int
	// Missing holds manifest base names with no matching file in the tree.
	Missing []string
}

// Run executes the removal stage against root with the given config.
//
// Files mutate in place one at a time; the rewriter guarantees each file is
// either fully rewritten or left untouched, so a crash mid-run never loses
// records and a re-run simply removes whatever is still present.
func Run(root string, cfg models.Config, logger *slog.Logger) (Summary, error) {
	start := time.Now()

	removal, err := manifest.Load(cfg.ManifestPath, logger)
	if err != nil {
		return Summary{}, cli.Exit(fmt.Sprintf("cannot load manifest %q: %v", cfg.ManifestPath, err), 1)
	}

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return Summary{}, cli.Exit(fmt.Sprintf("input directory %q is missing or not a directory", root), 1)
	}

	logger.Info("starting removal stage", "manifest", cfg.ManifestPath, "files_named", len(removal))

	found := make(map[string]bool)
	totalRemoved := 0
	touched := 0
	failed := 0
	for path := range walker.Walk(root, logger) {
		base := filepath.Base(path)
		urls, ok := removal.URLs(base)
		if !ok {
			continue
		}
		found[base] = true

		removed, err := rewriter.Rewrite(path, urls, logger)
		if err != nil {
			logger.Error("failed to rewrite file", "file", path, "error", err)
			failed++
			continue
		}
		fmt.Printf("%s: removed %d record(s)\n", path, removed)
		totalRemoved += removed
		touched++
	}

	var missing []string
	for base := range removal {
		if !found[base] {
			missing = append(missing, base)
		}
	}
	sort.Strings(missing)
	for _, base := range missing {
		logger.Warn("manifest references a file not present in the tree", "file", base)
	}

	fmt.Println("--- Removal Summary ---")
	fmt.Printf("Files rewritten: %d\n", touched)
	fmt.Printf("Records removed: %d\n", totalRemoved)
	if len(missing) > 0 {
		fmt.Printf("Manifest files not found: %d\n", len(missing))
	}
	if failed > 0 {
		fmt.Printf("Files failed: %d\n", failed)
	}
	fmt.Printf("Duration: %s\n", time.Since(start).Round(time.Millisecond))

	return Summary{
		FilesRewritten: touched,
		RecordsRemoved: totalRemoved,
		Missing:        missing,
	}, nil
}
