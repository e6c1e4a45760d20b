// Package viewer implements the interactive findings viewer: a fixed
// strip of numbered tabs, one per expected record ordinal, with the
// active tab's record extracted lazily on first visit. The viewer is
// split across files:
//   - model.go: types, construction, Init
//   - update.go: message handling and tab state
//   - view.go: rendering functions
package viewer

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/genomike/finnerve/cmd/finnerve/ui"
	"github.com/genomike/finnerve/internal/config"
	"github.com/genomike/finnerve/internal/corpus"
	"github.com/genomike/finnerve/internal/extract"
)

// phase tracks where the viewer is in the corpus acquisition lifecycle.
type phase int

const (
	phaseLoading phase = iota // retrieval in flight; every tab shows pending
	phasePicking              // fallback: user selects a local file
	phaseReady                // corpus split; tabs populate on demand
	phaseFailed               // nothing to show at all
)

// Model is the bubbletea model for the viewer. Tab state (the single
// active ordinal plus the populated set) is owned here and mutated only
// inside Update.
type Model struct {
	cfg    config.Config
	styles ui.Styles
	tabBar ui.TabBar
	log    *zap.Logger

	loader   *corpus.Loader
	splitter *corpus.Splitter
	watcher  *corpus.Watcher

	viewport   viewport.Model
	spinner    spinner.Model
	filepicker filepicker.Model
	renderer   *glamour.TermRenderer

	phase phase
	err   error

	blocks      map[int]corpus.RecordBlock
	recordCount int
	origin      corpus.Origin
	sourcePath  string // set when the corpus came from a local file

	// Tab state: exactly one active ordinal; populated caches the
	// rendered content per ordinal so re-selection never re-extracts.
	active    int
	populated map[int]string
	records   map[int]extract.StructuredRecord

	// buildFn is swappable in tests to observe extraction counts.
	buildFn    func(corpus.RecordBlock) extract.StructuredRecord
	buildCalls int

	width  int
	height int
	ready  bool
}

// New constructs the viewer model. The loader may have an empty URL, in
// which case acquisition goes straight to the fallback file.
func New(cfg config.Config, loader *corpus.Loader, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}

	theme := ui.DetectTheme()
	if cfg.DarkMode {
		theme = ui.DarkTheme()
	}
	styles := ui.NewStyles(theme)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	vp := viewport.New(80, 20)

	fp := filepicker.New()
	fp.CurrentDirectory = filepath.Dir(cfg.FallbackPath)
	if fp.CurrentDirectory == "" {
		fp.CurrentDirectory = "."
	}
	fp.AllowedTypes = []string{".md", ".txt"}

	var renderer *glamour.TermRenderer
	if theme.IsDark {
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(76),
		)
	} else {
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithStylePath("light"),
			glamour.WithWordWrap(76),
		)
	}

	return Model{
		cfg:        cfg,
		styles:     styles,
		tabBar:     ui.TabBar{Styles: styles, Count: cfg.TabCount},
		log:        log,
		loader:     loader,
		splitter:   corpus.NewSplitter(cfg.RecordMarker, log),
		viewport:   vp,
		spinner:    sp,
		filepicker: fp,
		renderer:   renderer,
		phase:      phaseLoading,
		active:     1,
		populated:  make(map[int]string),
		records:    make(map[int]extract.StructuredRecord),
		buildFn:    extract.Build,
	}
}

// SetWatcher attaches a file watcher whose events trigger a reload of the
// watched corpus file.
func (m *Model) SetWatcher(w *corpus.Watcher) {
	m.watcher = w
}

// Init starts the spinner and the corpus acquisition race. With no URL
// configured and a readable fallback file, acquisition skips straight to
// the file.
func (m Model) Init() tea.Cmd {
	acquire := loadCorpusCmd(m.loader)
	if m.loader.URL == "" && m.cfg.FallbackPath != "" {
		if _, err := os.Stat(m.cfg.FallbackPath); err == nil {
			acquire = readFileCmd(m.loader, m.cfg.FallbackPath)
		}
	}
	cmds := []tea.Cmd{m.spinner.Tick, acquire}
	if m.watcher != nil {
		cmds = append(cmds, watchCmd(m.watcher))
	}
	return tea.Batch(cmds...)
}

// Active returns the currently active tab ordinal.
func (m Model) Active() int {
	return m.active
}

// Populated reports whether a tab's record has been extracted and
// rendered.
func (m Model) Populated(ordinal int) bool {
	_, ok := m.populated[ordinal]
	return ok
}

// BuildCalls returns how many times record extraction ran. Used by tests
// to assert the no-re-extraction invariant.
func (m Model) BuildCalls() int {
	return m.buildCalls
}
