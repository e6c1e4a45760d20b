package viewer

import (
	"strconv"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/genomike/finnerve/internal/corpus"
	"github.com/genomike/finnerve/internal/extract"
)

// Update is the single place tab state mutates. Extraction and rendering
// run synchronously inside it; only corpus acquisition happens off-loop.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 7 // header + tab bar + footer
		m.filepicker.Height = msg.Height - 8
		m.ready = true
		m.refreshContent()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.phase != phaseLoading && m.phase != phasePicking {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case corpusLoadedMsg:
		return m.ingest(msg)

	case corpusFallbackMsg:
		m.log.Warn("automatic retrieval failed, prompting for file", zap.Error(msg.err))
		m.phase = phasePicking
		return m, m.filepicker.Init()

	case loadErrMsg:
		m.phase = phaseFailed
		m.err = msg.err
		return m, nil

	case corpusChangedMsg:
		if m.watcher == nil {
			return m, nil
		}
		cmds := []tea.Cmd{watchCmd(m.watcher)}
		if m.sourcePath != "" {
			cmds = append(cmds, readFileCmd(m.loader, m.sourcePath))
		}
		return m, tea.Batch(cmds...)
	}

	if m.phase == phasePicking {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)
		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			m.phase = phaseLoading
			return m, tea.Batch(cmd, readFileCmd(m.loader, path))
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// ingest splits a freshly acquired corpus and repopulates the active tab.
// A reload (watch or manual) drops all cached extractions: the text they
// were built from is gone.
func (m Model) ingest(msg corpusLoadedMsg) (tea.Model, tea.Cmd) {
	blocks := m.splitter.Split(msg.raw)
	m.blocks = corpus.IndexByOrdinal(blocks)
	m.recordCount = len(blocks)
	m.origin = msg.origin
	if msg.path != "" {
		m.sourcePath = msg.path
	}
	m.phase = phaseReady
	m.err = nil
	m.populated = make(map[int]string)
	m.records = make(map[int]extract.StructuredRecord)
	m.log.Info("corpus ingested",
		zap.Int("records", m.recordCount),
		zap.String("origin", msg.origin.String()))

	m.selectTab(m.active)
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.phase == phasePicking {
		if key == "ctrl+c" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)
		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			m.filepicker = filepicker.New()
			m.phase = phaseLoading
			return m, tea.Batch(cmd, readFileCmd(m.loader, path))
		}
		return m, cmd
	}

	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "left", "h", "shift+tab":
		m.selectTab(m.prevOrdinal())
		return m, nil

	case "right", "l", "tab":
		m.selectTab(m.nextOrdinal())
		return m, nil

	case "r":
		if m.sourcePath != "" {
			m.phase = phaseLoading
			return m, readFileCmd(m.loader, m.sourcePath)
		}
		if m.loader != nil && m.loader.URL != "" {
			m.phase = phaseLoading
			return m, loadCorpusCmd(m.loader)
		}
		return m, nil
	}

	// Digit keys select tabs directly; "0" is tab 10.
	if n, err := strconv.Atoi(key); err == nil {
		if n == 0 {
			n = 10
		}
		if n >= 1 && n <= m.cfg.TabCount {
			m.selectTab(n)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// selectTab deactivates the current tab, activates ordinal, and extracts
// the backing record on first visit only. Selecting an already populated
// tab just swaps the visible content.
func (m *Model) selectTab(ordinal int) {
	if ordinal < 1 || ordinal > m.cfg.TabCount {
		return
	}
	m.active = ordinal

	if m.phase != phaseReady {
		return
	}

	if _, done := m.populated[ordinal]; !done {
		if block, ok := m.blocks[ordinal]; ok {
			rec := m.buildFn(block)
			m.buildCalls++
			m.records[ordinal] = rec
			m.populated[ordinal] = m.renderRecord(rec)
		}
	}
	m.refreshContent()
}

// refreshContent pushes the active tab's content into the viewport.
func (m *Model) refreshContent() {
	if content, ok := m.populated[m.active]; ok {
		m.viewport.SetContent(content)
		m.viewport.GotoTop()
	}
}

func (m Model) prevOrdinal() int {
	if m.active <= 1 {
		return m.cfg.TabCount
	}
	return m.active - 1
}

func (m Model) nextOrdinal() int {
	if m.active >= m.cfg.TabCount {
		return 1
	}
	return m.active + 1
}
