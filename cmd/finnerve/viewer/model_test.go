package viewer

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/genomike/finnerve/internal/config"
	"github.com/genomike/finnerve/internal/corpus"
	"github.com/genomike/finnerve/internal/extract"
)

const testCorpus = `## Hallazgo 1: Primero

### Descripción
texto uno

### Consecuencias
1. a
2. b
3. c

## Hallazgo 2: Segundo

### Descripción
texto dos
`

func testModel(t *testing.T) Model {
	t.Helper()
	cfg := config.Default()
	cfg.TabCount = 5
	loader := corpus.NewLoader("", time.Second, nil, nil)
	m := New(cfg, loader, nil)
	return apply(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
}

func apply(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return nm
}

func key(r rune) tea.Msg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func loaded(raw string) tea.Msg {
	return corpusLoadedMsg{raw: corpus.RawCorpus(raw), origin: corpus.OriginNetwork}
}

func TestPendingBeforeLoad(t *testing.T) {
	m := testModel(t)
	if !strings.Contains(m.View(), "recuperando corpus") {
		t.Fatal("expected pending indicator before the corpus arrives")
	}
}

func TestIngestPopulatesFirstTabOnly(t *testing.T) {
	m := testModel(t)
	m = apply(t, m, loaded(testCorpus))

	if m.Active() != 1 {
		t.Fatalf("expected tab 1 active, got %d", m.Active())
	}
	if !m.Populated(1) {
		t.Fatal("active tab must be populated on ingest")
	}
	if m.Populated(2) {
		t.Fatal("inactive tabs must stay unpopulated until selected")
	}
	if m.BuildCalls() != 1 {
		t.Fatalf("expected 1 build, got %d", m.BuildCalls())
	}
}

func TestExactlyOneActiveTabAfterAnySequence(t *testing.T) {
	m := testModel(t)
	m = apply(t, m, loaded(testCorpus))

	sequence := []tea.Msg{
		key('2'), key('5'),
		tea.KeyMsg{Type: tea.KeyLeft},
		tea.KeyMsg{Type: tea.KeyRight},
		tea.KeyMsg{Type: tea.KeyTab},
		key('1'), key('1'), key('9'), // 9 exceeds TabCount: ignored
	}
	for _, msg := range sequence {
		m = apply(t, m, msg)
		if m.Active() < 1 || m.Active() > 5 {
			t.Fatalf("active tab out of range: %d", m.Active())
		}
	}
	if m.Active() != 1 {
		t.Fatalf("expected tab 1 active at end, got %d", m.Active())
	}
}

func TestSelectingPopulatedTabDoesNotRebuild(t *testing.T) {
	m := testModel(t)

	var calls int
	m.buildFn = func(b corpus.RecordBlock) extract.StructuredRecord {
		calls++
		return extract.Build(b)
	}

	m = apply(t, m, loaded(testCorpus))
	m = apply(t, m, key('2'))
	m = apply(t, m, key('1'))
	m = apply(t, m, key('1')) // re-select: visibility toggle only
	m = apply(t, m, key('2'))

	if calls != 2 {
		t.Fatalf("expected exactly 2 builds (one per backed tab), got %d", calls)
	}
}

func TestTabCycling(t *testing.T) {
	m := testModel(t)
	m = apply(t, m, loaded(testCorpus))

	m = apply(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.Active() != 5 {
		t.Fatalf("left from tab 1 must wrap to 5, got %d", m.Active())
	}
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.Active() != 1 {
		t.Fatalf("right from tab 5 must wrap to 1, got %d", m.Active())
	}
}

func TestUnbackedTabShowsPendingState(t *testing.T) {
	m := testModel(t)
	m = apply(t, m, loaded(testCorpus))
	m = apply(t, m, key('4')) // declared tab, no record 4

	if m.Populated(4) {
		t.Fatal("tab without a backing record must not populate")
	}
	if !strings.Contains(m.View(), "sin contenido") {
		t.Fatal("expected empty-tab message")
	}
	if m.BuildCalls() != 1 {
		t.Fatalf("selecting an unbacked tab must not build, got %d calls", m.BuildCalls())
	}
}

func TestZeroRecordsShowsMessageOnEveryTab(t *testing.T) {
	m := testModel(t)
	m = apply(t, m, loaded("documento sin estructura\n"))

	for _, r := range []rune{'1', '3', '5'} {
		m = apply(t, m, key(r))
		if !strings.Contains(m.View(), "no contiene hallazgos") {
			t.Fatalf("expected structural mismatch message on tab %c", r)
		}
	}
	if m.BuildCalls() != 0 {
		t.Fatalf("no records must mean no builds, got %d", m.BuildCalls())
	}
}

func TestFallbackPromptsForFile(t *testing.T) {
	m := testModel(t)
	m = apply(t, m, corpusFallbackMsg{err: corpus.ErrNoCorpus})

	if !strings.Contains(m.View(), "seleccione un archivo") {
		t.Fatal("expected file picker prompt after fallback")
	}
}

func TestReloadDropsStaleExtractions(t *testing.T) {
	m := testModel(t)
	m = apply(t, m, loaded(testCorpus))
	m = apply(t, m, key('2'))
	if m.BuildCalls() != 2 {
		t.Fatalf("setup expected 2 builds, got %d", m.BuildCalls())
	}

	// A fresh ingest (watch or manual reload) rebuilds on demand.
	m = apply(t, m, loaded(testCorpus))
	if !m.Populated(2) {
		t.Fatal("active tab must repopulate after reload")
	}
	if m.Populated(1) {
		t.Fatal("inactive tabs must not survive a reload")
	}
	if m.BuildCalls() != 3 {
		t.Fatalf("expected 3 builds after reload, got %d", m.BuildCalls())
	}
}

func TestRenderedRecordContainsSections(t *testing.T) {
	m := testModel(t)
	m = apply(t, m, loaded(testCorpus))

	content := m.populated[1]
	if !strings.Contains(content, "Primero") {
		t.Fatalf("title missing from rendered record: %q", content)
	}
	if !strings.Contains(content, "Descripción") || !strings.Contains(content, "Consecuencias") {
		t.Fatal("section headings missing from rendered record")
	}
}
