package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/genomike/finnerve/cmd/finnerve/viewer"
	"github.com/genomike/finnerve/internal/config"
	"github.com/genomike/finnerve/internal/corpus"
)

var (
	// Global flags
	cfgPath    string
	corpusURL  string
	corpusFile string
	tabCount   int
	watchFlag  bool
	darkFlag   bool
	verbose    bool

	// Logger for non-interactive commands
	logger *zap.Logger
)

// rootCmd launches the interactive viewer by default.
var rootCmd = &cobra.Command{
	Use:   "finnerve",
	Short: "finnerve - terminal viewer for code-review findings",
	Long: `finnerve ingests a semi-structured findings document (one "## Hallazgo N: ..."
record per finding), extracts the named sections of each record, and presents
them in a tab-switched terminal view.

The corpus is retrieved over HTTP with a bounded wait; on timeout or failure
finnerve falls back to the local fetch cache and then to a file picker.

Run without arguments to start the interactive viewer.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The interactive viewer owns the terminal; no logger there.
		if cmd.Use == "finnerve" && cmd.CalledAs() == "finnerve" {
			return nil
		}
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runViewer()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "finnerve.yaml", "path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&corpusURL, "url", "", "corpus URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&corpusFile, "corpus", "", "local corpus file (skips network retrieval)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.Flags().IntVar(&tabCount, "tabs", 0, "number of declared tabs (overrides config)")
	rootCmd.Flags().BoolVar(&watchFlag, "watch", false, "reload when the local corpus file changes")
	rootCmd.Flags().BoolVar(&darkFlag, "dark", false, "force the dark theme")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(exportCmd)
}

// loadConfig resolves config file + flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return cfg, err
	}
	if corpusURL != "" {
		cfg.CorpusURL = corpusURL
	}
	if corpusFile != "" {
		// An explicit file wins over the network entirely.
		cfg.CorpusURL = ""
		cfg.FallbackPath = corpusFile
	}
	if tabCount > 0 {
		cfg.TabCount = tabCount
	}
	if watchFlag {
		cfg.Watch = true
	}
	if darkFlag {
		cfg.DarkMode = true
	}
	return cfg, nil
}

// newLoader wires the loader with its cache. A cache that fails to open
// is skipped, not fatal.
func newLoader(cfg config.Config, log *zap.Logger) *corpus.Loader {
	var cache *corpus.Cache
	if cfg.CachePath != "" {
		c, err := corpus.OpenCache(cfg.CachePath)
		if err == nil {
			cache = c
		} else if log != nil {
			log.Warn("fetch cache unavailable", zap.Error(err))
		}
	}
	return corpus.NewLoader(cfg.CorpusURL, cfg.FetchTimeoutDuration(), cache, log)
}

func runViewer() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	loader := newLoader(cfg, nil)
	model := viewer.New(cfg, loader, nil)

	if cfg.Watch && cfg.FallbackPath != "" {
		if w, werr := corpus.NewWatcher(cfg.FallbackPath, nil); werr == nil {
			model.SetWatcher(w)
			defer w.Close()
		}
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// acquireCorpus obtains the raw corpus for non-interactive commands:
// loader race first, then the configured fallback file.
func acquireCorpus(cfg config.Config, loader *corpus.Loader) (corpus.RawCorpus, corpus.Origin, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	raw, origin, err := loader.Load(ctx)
	if err == nil {
		return raw, origin, nil
	}
	if !errors.Is(err, corpus.ErrNoCorpus) {
		return "", origin, err
	}

	raw, ferr := loader.LoadFile(cfg.FallbackPath)
	if ferr != nil {
		return "", corpus.OriginFile, fmt.Errorf("no corpus available: %w", ferr)
	}
	return raw, corpus.OriginFile, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
