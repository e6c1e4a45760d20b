package ui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// TabBar renders the numbered tab strip. Tabs are declared statically:
// count comes from config, not from how many records the corpus actually
// contains. A tab with no backing record renders in the empty style but
// stays selectable.
type TabBar struct {
	Styles Styles
	Count  int
}

// Render draws the strip with the given active ordinal. backed reports
// whether a record exists for an ordinal.
func (t TabBar) Render(active int, backed func(int) bool) string {
	if t.Count <= 0 {
		return ""
	}
	tabs := make([]string, 0, t.Count)
	for ordinal := 1; ordinal <= t.Count; ordinal++ {
		label := strconv.Itoa(ordinal)
		style := t.Styles.Tab
		switch {
		case ordinal == active:
			style = t.Styles.ActiveTab
		case backed != nil && !backed(ordinal):
			style = t.Styles.EmptyTab
		}
		tabs = append(tabs, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
}
