package extract

import (
	"regexp"
	"strings"
)

// FragmentKind discriminates the display form of a section.
type FragmentKind int

const (
	KindParagraph FragmentKind = iota
	KindOrderedList
	KindUnorderedList
	KindCode
)

func (k FragmentKind) String() string {
	switch k {
	case KindParagraph:
		return "paragraph"
	case KindOrderedList:
		return "ordered_list"
	case KindUnorderedList:
		return "unordered_list"
	case KindCode:
		return "code"
	}
	return "unknown"
}

// Severity is the closed impact vocabulary extracted from the maintenance
// impact section. SeverityUnknown means "omit the badge", not an error.
type Severity int

const (
	SeverityUnknown Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	}
	return "unknown"
}

// ParseSeverity normalizes free-form severity text to the closed
// vocabulary by case- and accent-insensitive containment. Unrecognized
// text maps to SeverityUnknown.
func ParseSeverity(raw string) Severity {
	key := normalizeHeading(raw)
	switch {
	case strings.Contains(key, "alta") || strings.Contains(key, "alto") || strings.Contains(key, "high"):
		return SeverityHigh
	case strings.Contains(key, "media") || strings.Contains(key, "medio") || strings.Contains(key, "medium"):
		return SeverityMedium
	case strings.Contains(key, "baja") || strings.Contains(key, "bajo") || strings.Contains(key, "low"):
		return SeverityLow
	}
	return SeverityUnknown
}

// Fragment is the render-ready form of a section. Exactly one variant is
// populated according to Kind:
//
//	KindParagraph     Text
//	KindOrderedList   Items
//	KindUnorderedList Items
//	KindCode          Lang, Source, FilePath (optional)
//
// Severity and Concern are inline annotations carried only on the
// maintenance impact section's fragment; zero values elsewhere.
type Fragment struct {
	Kind     FragmentKind
	Text     string
	Items    []string
	Lang     string
	Source   string
	FilePath string
	Severity Severity
	Concern  string
}

var (
	orderedItemRe   = regexp.MustCompile(`^\s*\d+\.\s+(.*)$`)
	unorderedItemRe = regexp.MustCompile(`^\s*-\s+(.*)$`)
	filePathRe      = regexp.MustCompile("\\*\\*Archivo:\\*\\*\\s*`([^`\n]+)`")
)

const fenceMarker = "```"

// Format classifies a section's raw text into exactly one fragment
// variant. Priority is fixed: fenced code wins over list shapes, ordered
// lists win over unordered, anything else is a paragraph. Malformed input
// (an unterminated fence, mixed list markers) degrades to the next rule
// instead of failing.
func Format(text string) Fragment {
	if frag, ok := formatCode(text); ok {
		return frag
	}
	if frag, ok := formatList(text, orderedItemRe, KindOrderedList); ok {
		return frag
	}
	if frag, ok := formatList(text, unorderedItemRe, KindUnorderedList); ok {
		return frag
	}
	return Fragment{Kind: KindParagraph, Text: text}
}

// formatCode extracts the first complete fenced span. The opening fence
// line may carry a language tag. An opening fence with no closing pair is
// treated as "no fence found".
func formatCode(text string) (Fragment, bool) {
	open := strings.Index(text, fenceMarker)
	if open < 0 {
		return Fragment{}, false
	}

	rest := text[open+len(fenceMarker):]
	nl := strings.Index(rest, "\n")
	if nl < 0 {
		return Fragment{}, false
	}
	lang := strings.TrimSpace(rest[:nl])
	body := rest[nl+1:]

	closing := strings.Index(body, fenceMarker)
	if closing < 0 {
		// Unterminated fence: fall through to list/paragraph rules.
		return Fragment{}, false
	}
	source := strings.TrimRight(body[:closing], "\n")

	frag := Fragment{Kind: KindCode, Lang: lang, Source: source}

	// The provenance annotation sits immediately around the fence, never
	// inside it.
	surrounding := text[:open] + body[closing+len(fenceMarker):]
	if m := filePathRe.FindStringSubmatch(surrounding); m != nil {
		frag.FilePath = strings.TrimSpace(m[1])
	}
	return frag, true
}

// formatList classifies text as a list when a majority of its non-blank
// lines carry the item marker. Non-matching lines are dropped, not
// rejected.
func formatList(text string, itemRe *regexp.Regexp, kind FragmentKind) (Fragment, bool) {
	var items []string
	nonBlank := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		nonBlank++
		if m := itemRe.FindStringSubmatch(line); m != nil {
			items = append(items, strings.TrimSpace(m[1]))
		}
	}
	if nonBlank == 0 || len(items)*2 <= nonBlank {
		return Fragment{}, false
	}
	return Fragment{Kind: kind, Items: items}, true
}

// Span is a run of item text that is either plain or emphasized. List
// items carry inline "**bold**" markers; the renderer consumes spans so
// the markers never leak into the terminal.
type Span struct {
	Text string
	Bold bool
}

// BoldSpans splits text on "**" emphasis markers. An unpaired trailing
// marker is rendered as plain text.
func BoldSpans(text string) []Span {
	parts := strings.Split(text, "**")
	if len(parts) == 1 {
		return []Span{{Text: text}}
	}
	var spans []Span
	for i, part := range parts {
		if part == "" {
			continue
		}
		bold := i%2 == 1
		if bold && i == len(parts)-1 {
			// Marker never closed; show the raw text.
			part = "**" + part
			bold = false
		}
		spans = append(spans, Span{Text: part, Bold: bold})
	}
	return spans
}
