// Package corpus acquires the raw findings document and partitions it
// into ordered record blocks. Acquisition (network, cache, local file) is
// the only part of the viewer that touches I/O; splitting is a pure
// function of the text.
package corpus

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// RawCorpus is the entire source document. Created once at load time and
// never mutated.
type RawCorpus string

// RecordBlock is one finding carved out of the corpus: its parsed ordinal,
// the heading title, and everything up to the next top-level heading.
type RecordBlock struct {
	Ordinal int
	Title   string
	Body    string
}

// DefaultMarker is the heading word that opens each finding in the corpus
// ("## Hallazgo 3: ...").
const DefaultMarker = "Hallazgo"

// Splitter partitions a corpus into record blocks. The zero-ish value via
// NewSplitter is ready to use; splitting is restartable and carries no
// state between calls.
type Splitter struct {
	headingRe *regexp.Regexp
	log       *zap.Logger
}

// NewSplitter builds a splitter for the given record marker word. A nil
// logger is replaced with a no-op logger.
func NewSplitter(marker string, log *zap.Logger) *Splitter {
	if marker == "" {
		marker = DefaultMarker
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Splitter{
		// Loose ordinal capture: a non-numeric "ordinal" still counts as
		// a record boundary, the block just gets skipped.
		headingRe: regexp.MustCompile(`^##\s+` + regexp.QuoteMeta(marker) + `\s+(\S+?)\s*:\s*(.*)$`),
		log:       log,
	}
}

// Split partitions the corpus in document order. Text before the first
// heading is discarded. A heading whose ordinal does not parse as an
// integer is logged and skipped, never an error. Duplicate ordinals are
// kept; the consumer binds the first occurrence to a tab.
func (s *Splitter) Split(raw RawCorpus) []RecordBlock {
	type boundary struct {
		ordinalText string
		title       string
		bodyStart   int // line index just after the heading
	}

	lines := strings.Split(string(raw), "\n")
	var bounds []boundary
	var lineIdx []int
	for i, line := range lines {
		m := s.headingRe.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		bounds = append(bounds, boundary{ordinalText: m[1], title: strings.TrimSpace(m[2]), bodyStart: i + 1})
		lineIdx = append(lineIdx, i)
	}

	var blocks []RecordBlock
	for i, b := range bounds {
		end := len(lines)
		if i+1 < len(bounds) {
			end = lineIdx[i+1]
		}

		ordinal, err := strconv.Atoi(b.ordinalText)
		if err != nil {
			s.log.Warn("skipping record with unparseable ordinal",
				zap.String("ordinal", b.ordinalText),
				zap.String("title", b.title))
			continue
		}

		blocks = append(blocks, RecordBlock{
			Ordinal: ordinal,
			Title:   b.title,
			Body:    strings.TrimSpace(strings.Join(lines[b.bodyStart:end], "\n")),
		})
	}
	return blocks
}

// Split partitions a corpus using the default marker and no logging.
func Split(raw RawCorpus) []RecordBlock {
	return NewSplitter(DefaultMarker, nil).Split(raw)
}

// IndexByOrdinal maps blocks by ordinal, keeping the first occurrence
// when an ordinal repeats.
func IndexByOrdinal(blocks []RecordBlock) map[int]RecordBlock {
	index := make(map[int]RecordBlock, len(blocks))
	for _, b := range blocks {
		if _, seen := index[b.Ordinal]; seen {
			continue
		}
		index[b.Ordinal] = b
	}
	return index
}
