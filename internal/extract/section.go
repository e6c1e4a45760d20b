// Package extract carves a finding's body text into named sections and
// converts each section into a typed, display-ready fragment.
// The pipeline is tolerant by construction: a missing section, a heading
// with drifted casing or accents, or an unterminated code fence all
// resolve to absent or default values, never to an error.
package extract

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Label identifies one of the fixed section kinds a finding may contain.
type Label string

const (
	LabelDescription         Label = "description"
	LabelProblematicExample  Label = "problematic_example"
	LabelConsequences        Label = "consequences"
	LabelMaintenanceImpact   Label = "maintenance_impact"
	LabelRecommendedSolution Label = "recommended_solution"
	LabelBenefits            Label = "benefits"
	LabelConclusion          Label = "conclusion"
)

// canonicalHeadings maps each label to the heading text used in the corpus.
// The corpus is authored in Spanish; matching is diacritic- and
// case-insensitive so "Descripcion", "DESCRIPCIÓN" and "Descripción" all
// resolve to the same label.
var canonicalHeadings = map[Label]string{
	LabelDescription:         "Descripción",
	LabelProblematicExample:  "Ejemplo problemático",
	LabelConsequences:        "Consecuencias",
	LabelMaintenanceImpact:   "Impacto en mantenimiento",
	LabelRecommendedSolution: "Solución recomendada",
	LabelBenefits:            "Beneficios",
	LabelConclusion:          "Conclusión",
}

// labelOrder is the fixed presentation order for sections within a record.
var labelOrder = []Label{
	LabelDescription,
	LabelProblematicExample,
	LabelConsequences,
	LabelMaintenanceImpact,
	LabelRecommendedSolution,
	LabelBenefits,
	LabelConclusion,
}

// Labels returns the section labels in presentation order.
func Labels() []Label {
	out := make([]Label, len(labelOrder))
	copy(out, labelOrder)
	return out
}

// Heading returns the canonical corpus heading text for a label.
func Heading(l Label) string {
	return canonicalHeadings[l]
}

// Section is a named span of text located inside a record body.
type Section struct {
	Label Label
	Text  string
}

const subheadingPrefix = "### "

// deaccent strips combining marks after NFD decomposition, so "ó" compares
// equal to "o".
var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeHeading reduces a heading to a canonical comparison key:
// accents removed, lowercased, emphasis markers and trailing colons
// stripped, interior whitespace collapsed.
func normalizeHeading(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "*_")
	s = strings.TrimSuffix(s, ":")
	if out, _, err := transform.String(deaccent, s); err == nil {
		s = out
	}
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

// Locate finds the named section inside a record body. Sub-headings
// ("### ...") delimit sections; the span runs from just after the first
// matching sub-heading to the next sub-heading of any label, or to the end
// of the body. If the label's heading appears more than once only the
// first occurrence is taken. Returns false when the section is absent.
func Locate(body string, label Label) (Section, bool) {
	want := normalizeHeading(canonicalHeadings[label])
	if want == "" {
		return Section{}, false
	}

	lines := strings.Split(body, "\n")
	start := -1
	for i, line := range lines {
		if !isSubheading(line) {
			continue
		}
		if start >= 0 {
			// Next sub-heading of any label closes the span.
			return Section{Label: label, Text: joinSpan(lines[start:i])}, true
		}
		if normalizeHeading(headingText(line)) == want {
			start = i + 1
		}
	}
	if start < 0 {
		return Section{}, false
	}
	return Section{Label: label, Text: joinSpan(lines[start:])}, true
}

func isSubheading(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, subheadingPrefix)
}

func headingText(line string) string {
	trimmed := strings.TrimSpace(line)
	return strings.TrimPrefix(trimmed, subheadingPrefix)
}

func joinSpan(lines []string) string {
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
