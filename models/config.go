package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration shared by the curation stages.
// Values come from an optional YAML file; CLI flags override whatever the
// file sets.
type Config struct {
	// Workers bounds pool concurrency. Zero means available CPU count.
	Workers int `yaml:"workers"`
	// TopK is the selector capacity for the largest stage.
	TopK int `yaml:"top_k"`
	// OutputDir receives cleaned files, mirroring the input subtree.
	OutputDir string `yaml:"output_dir"`
	// ManifestPath is where the largest stage writes and the remove stage
	// reads the top-K manifest.
	ManifestPath string `yaml:"manifest"`
	// StripMode selects "regex" (default) or "dom" markup stripping.
	StripMode string `yaml:"strip_mode"`
	// DetectLanguage backfills empty language fields during selection.
	DetectLanguage bool `yaml:"detect_language"`
}

// DefaultConfig returns the built-in stage defaults.
func DefaultConfig() Config {
	return Config{
		TopK:         100,
		OutputDir:    "analyses_cleaned",
		ManifestPath: "largest_content.jsonl",
		StripMode:    "regex",
	}
}

// LoadConfig reads a YAML config file over the defaults. An empty path
// returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.StripMode != "regex" && cfg.StripMode != "dom" {
		return cfg, fmt.Errorf("invalid strip_mode %q (want regex or dom)", cfg.StripMode)
	}
	return cfg, nil
}
