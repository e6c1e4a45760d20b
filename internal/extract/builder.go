package extract

import (
	"regexp"
	"strings"

	"github.com/genomike/finnerve/internal/corpus"
)

// StructuredRecord is the fully extracted form of one finding. Absent
// sections are simply missing keys. Records are immutable once built;
// building the same block twice yields identical values.
type StructuredRecord struct {
	Ordinal  int
	Title    string
	Sections map[Label]Fragment
}

var (
	severityRe = regexp.MustCompile(`(?im)^\s*\*\*Severidad:\*\*\s*(.+)$`)
	concernRe  = regexp.MustCompile(`(?im)^\s*\*\*Preocupaci[oó]n principal:\*\*\s*(.+)$`)
)

// Build assembles a structured record from a raw block: each of the seven
// section labels is located and formatted, and the maintenance impact
// section additionally yields its inline severity and principal-concern
// annotations. Pure function of the block.
func Build(block corpus.RecordBlock) StructuredRecord {
	rec := StructuredRecord{
		Ordinal:  block.Ordinal,
		Title:    block.Title,
		Sections: make(map[Label]Fragment, len(labelOrder)),
	}

	for _, label := range labelOrder {
		section, ok := Locate(block.Body, label)
		if !ok {
			continue
		}

		text := section.Text
		var severity Severity
		var concern string
		if label == LabelMaintenanceImpact {
			text, severity, concern = extractImpactAnnotations(text)
		}

		frag := Format(text)
		frag.Severity = severity
		frag.Concern = concern
		rec.Sections[label] = frag
	}

	return rec
}

// extractImpactAnnotations pulls the severity tag and one-line principal
// concern out of the maintenance impact text. The matched lines are
// removed so the badge is the only place they surface. No match leaves
// the zero values, which the renderer treats as "omit the badge".
func extractImpactAnnotations(text string) (string, Severity, string) {
	severity := SeverityUnknown
	concern := ""

	if m := severityRe.FindStringSubmatch(text); m != nil {
		severity = ParseSeverity(m[1])
		text = severityRe.ReplaceAllString(text, "")
	}
	if m := concernRe.FindStringSubmatch(text); m != nil {
		concern = strings.TrimSpace(m[1])
		text = concernRe.ReplaceAllString(text, "")
	}

	return strings.TrimSpace(text), severity, concern
}
