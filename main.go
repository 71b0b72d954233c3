// corpus-curator curates a partitioned JSONL corpus of crawled-page records:
// it cleans markup noise out of record content, finds the globally largest
// records, and removes them from their source files in place.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/crawldeck/corpus-curator/internal/clean"
	"github.com/crawldeck/corpus-curator/internal/largest"
	"github.com/crawldeck/corpus-curator/internal/remove"
)

func main() {
	app := &cli.App{
		Name:  "corpus-curator",
		Usage: "clean, rank, and prune a partitioned JSONL crawl corpus",
		Commands: []*cli.Command{
			{
				Name:      "clean",
				Usage:     "strip markup noise from record content into a mirrored output tree",
				ArgsUsage: "[input-dir]",
				Action:    clean.Action,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:  "output-dir",
						Usage: "directory receiving cleaned files (mirrors the input subtree)",
						Value: "analyses_cleaned",
					},
					&cli.StringFlag{
						Name:  "strip-mode",
						Usage: "markup stripping mode: regex or dom",
						Value: "regex",
					},
				),
			},
			{
				Name:      "largest",
				Usage:     "find the K largest records across the corpus and write the manifest",
				ArgsUsage: "[input-dir]",
				Action:    largest.Action,
				Flags: append(commonFlags(),
					&cli.IntFlag{
						Name:  "top",
						Usage: "how many records to select",
						Value: 100,
					},
					&cli.StringFlag{
						Name:  "out",
						Usage: "manifest output path",
						Value: "largest_content.jsonl",
					},
					&cli.BoolFlag{
						Name:  "detect-language",
						Usage: "backfill empty language fields from content text",
					},
				),
			},
			{
				Name:      "remove",
				Usage:     "delete manifest records from their source files in place",
				ArgsUsage: "[input-dir]",
				Action:    remove.Action,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:  "manifest",
						Usage: "manifest file produced by the largest stage",
						Value: "largest_content.jsonl",
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "workers",
			Usage: "concurrency bound (default: available CPU count)",
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "optional YAML config file",
		},
		&cli.BoolFlag{
			Name:  "quiet",
			Usage: "log errors only",
		},
	}
}
