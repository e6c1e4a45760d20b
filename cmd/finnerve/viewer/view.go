package viewer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/genomike/finnerve/internal/extract"
	"github.com/genomike/finnerve/internal/highlight"
)

// View renders the full screen: header, tab strip, content area, footer.
func (m Model) View() string {
	if !m.ready {
		return "inicializando..."
	}

	var b strings.Builder
	b.WriteString(m.styles.Header.Render("finnerve · hallazgos de revisión"))
	if m.phase == phaseReady {
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("  (%d registros · %s)", m.recordCount, m.origin)))
	}
	b.WriteString("\n")
	b.WriteString(m.tabBar.Render(m.active, m.backed))
	b.WriteString("\n")
	b.WriteString(m.contentView())
	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render("1-9/0 pestaña · ←/→ cambiar · ↑/↓ desplazar · r recargar · q salir"))
	return b.String()
}

func (m Model) backed(ordinal int) bool {
	_, ok := m.blocks[ordinal]
	return ok
}

func (m Model) contentView() string {
	switch m.phase {
	case phaseLoading:
		return m.styles.Content.Render(
			m.spinner.View() + m.styles.Pending.Render(" recuperando corpus..."))

	case phasePicking:
		prompt := m.styles.Pending.Render("No se pudo recuperar el corpus; seleccione un archivo local:")
		return m.styles.Content.Render(prompt + "\n\n" + m.filepicker.View())

	case phaseFailed:
		return m.styles.Content.Render(
			m.styles.Error.Render("no se pudo cargar el corpus: ") + m.errText())

	case phaseReady:
		if m.recordCount == 0 {
			// Structural mismatch: visible message, never a crash.
			return m.styles.Content.Render(
				m.styles.Error.Render("el documento no contiene hallazgos reconocibles"))
		}
		if _, ok := m.populated[m.active]; !ok {
			// Declared tab with no backing record: permanent pending state.
			return m.styles.Content.Render(
				m.styles.Pending.Render(fmt.Sprintf("sin contenido para la pestaña %d", m.active)))
		}
		return m.viewport.View()
	}
	return ""
}

func (m Model) errText() string {
	if m.err == nil {
		return ""
	}
	return m.styles.Muted.Render(m.err.Error())
}

// renderRecord turns a structured record into the tab's display string.
// Sections appear in the fixed label order; absent sections are simply
// skipped.
func (m Model) renderRecord(rec extract.StructuredRecord) string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(fmt.Sprintf("Hallazgo %d: %s", rec.Ordinal, rec.Title)))
	b.WriteString("\n")

	for _, label := range extract.Labels() {
		frag, ok := rec.Sections[label]
		if !ok {
			continue
		}
		b.WriteString(m.styles.SectionTitle.Render(extract.Heading(label)))
		b.WriteString("\n")
		b.WriteString(m.renderFragment(frag))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderFragment(frag extract.Fragment) string {
	var b strings.Builder

	if badge := m.styles.SeverityBadge(frag.Severity); badge != "" {
		b.WriteString(badge)
		if frag.Concern != "" {
			b.WriteString(" " + m.styles.Muted.Render(frag.Concern))
		}
		b.WriteString("\n")
	} else if frag.Concern != "" {
		b.WriteString(m.styles.Muted.Render(frag.Concern) + "\n")
	}

	switch frag.Kind {
	case extract.KindCode:
		if frag.FilePath != "" {
			b.WriteString(m.styles.FileChip.Render("Archivo: "+frag.FilePath) + "\n")
		}
		source := highlight.Render(frag.Source, frag.Lang, m.styles.Theme.IsDark)
		b.WriteString(m.styles.CodeBlock.Render(source))

	case extract.KindOrderedList:
		for i, item := range frag.Items {
			marker := m.styles.ListMarker.Render(fmt.Sprintf("%d.", i+1))
			b.WriteString(fmt.Sprintf(" %s %s\n", marker, m.renderSpans(item)))
		}

	case extract.KindUnorderedList:
		for _, item := range frag.Items {
			b.WriteString(fmt.Sprintf(" %s %s\n", m.styles.ListMarker.Render("•"), m.renderSpans(item)))
		}

	default:
		b.WriteString(m.renderParagraph(frag.Text))
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// renderParagraph runs narrative text through glamour so inline markdown
// keeps working; on any renderer failure the raw text is shown.
func (m Model) renderParagraph(text string) string {
	if m.renderer != nil {
		if out, err := m.renderer.Render(text); err == nil {
			return strings.TrimSpace(out) + "\n"
		}
	}
	return m.styles.Body.Render(text) + "\n"
}

// renderSpans converts inline bold markers into styled spans.
func (m Model) renderSpans(item string) string {
	parts := make([]string, 0, 2)
	for _, span := range extract.BoldSpans(item) {
		if span.Bold {
			parts = append(parts, m.styles.Bold.Render(span.Text))
		} else {
			parts = append(parts, m.styles.Body.Render(span.Text))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}
