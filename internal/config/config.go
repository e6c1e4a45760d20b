// Package config holds all finnerve configuration: where the corpus lives,
// how long to wait for it, and how the viewer presents it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is loaded from an optional YAML file, with environment overrides
// for the corpus location.
type Config struct {
	// Corpus acquisition
	CorpusURL    string `yaml:"corpus_url"`
	FallbackPath string `yaml:"fallback_path"`
	FetchTimeout string `yaml:"fetch_timeout"` // duration string, e.g. "1s"
	CachePath    string `yaml:"cache_path"`

	// Corpus shape
	RecordMarker string `yaml:"record_marker"`

	// Viewer
	TabCount int  `yaml:"tab_count"`
	DarkMode bool `yaml:"dark_mode"`
	Watch    bool `yaml:"watch"`
}

// DefaultFetchTimeout bounds the network retrieval before the fallback
// path engages.
const DefaultFetchTimeout = time.Second

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		CorpusURL:    "",
		FallbackPath: "hallazgos.md",
		FetchTimeout: "1s",
		CachePath:    defaultCachePath(),
		RecordMarker: "Hallazgo",
		TabCount:     10,
	}
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".finnerve", "cache.db")
	}
	return filepath.Join(home, ".finnerve", "cache.db")
}

// Load reads the config file at path over the defaults. A missing file is
// not an error; a malformed file is. FINNERVE_CORPUS_URL overrides the
// corpus URL regardless of source.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults apply.
		case err != nil:
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	if url := os.Getenv("FINNERVE_CORPUS_URL"); url != "" {
		cfg.CorpusURL = url
	}

	if cfg.TabCount <= 0 {
		cfg.TabCount = Default().TabCount
	}
	if cfg.RecordMarker == "" {
		cfg.RecordMarker = Default().RecordMarker
	}
	return cfg, nil
}

// FetchTimeoutDuration parses the configured timeout, falling back to the
// default on malformed or missing values.
func (c Config) FetchTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.FetchTimeout)
	if err != nil || d <= 0 {
		return DefaultFetchTimeout
	}
	return d
}
