package viewer

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/genomike/finnerve/internal/corpus"
)

// corpusLoadedMsg carries a successfully acquired corpus. path is set
// when the corpus came from a local file, so reload and watch can re-read
// it later.
type corpusLoadedMsg struct {
	raw    corpus.RawCorpus
	origin corpus.Origin
	path   string
}

// corpusFallbackMsg signals that network and cache both failed and the
// user must supply a file.
type corpusFallbackMsg struct {
	err error
}

// loadErrMsg is a terminal acquisition failure (unreadable file, etc.).
type loadErrMsg struct {
	err error
}

// corpusChangedMsg signals the watched corpus file changed on disk.
type corpusChangedMsg struct{}

// loadCorpusCmd runs the loader's race (network vs timeout vs cache) off
// the update loop.
func loadCorpusCmd(loader *corpus.Loader) tea.Cmd {
	return func() tea.Msg {
		raw, origin, err := loader.Load(context.Background())
		if err != nil {
			if errors.Is(err, corpus.ErrNoCorpus) {
				return corpusFallbackMsg{err: err}
			}
			return loadErrMsg{err: err}
		}
		return corpusLoadedMsg{raw: raw, origin: origin}
	}
}

// readFileCmd reads a user-supplied corpus file.
func readFileCmd(loader *corpus.Loader, path string) tea.Cmd {
	return func() tea.Msg {
		raw, err := loader.LoadFile(path)
		if err != nil {
			return loadErrMsg{err: err}
		}
		return corpusLoadedMsg{raw: raw, origin: corpus.OriginFile, path: path}
	}
}

// watchCmd blocks on the watcher's event channel and converts the next
// change into a message. It is re-issued after every receipt.
func watchCmd(w *corpus.Watcher) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-w.Events(); !ok {
			return nil
		}
		return corpusChangedMsg{}
	}
}
