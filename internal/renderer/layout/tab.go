package layout

// DefaultTabWidth is the tab stop interval used when none is set.
const DefaultTabWidth = 4

// TabExpander replaces tab graphemes with spaces up to the next stop.
type TabExpander struct {
	tabWidth int
}

// NewTabExpander creates a tab expander with the given tab width.
func NewTabExpander(tabWidth int) *TabExpander {
	if tabWidth < 1 {
		tabWidth = DefaultTabWidth
	}
	return &TabExpander{tabWidth: tabWidth}
}

// TabWidth returns the current tab width.
func (t *TabExpander) TabWidth() int {
	return t.tabWidth
}

// NextTabStop returns the next tab stop column after the given column.
func (t *TabExpander) NextTabStop(col int) int {
	return col + t.tabWidth - (col % t.tabWidth)
}

// Expand returns graphemes with every "\t" replaced by spaces.
// The input is returned unchanged when it has no tabs.
func (t *TabExpander) Expand(graphemes []string) []string {
	hasTab := false
	for _, g := range graphemes {
		if g == "\t" {
			hasTab = true
			break
		}
	}
	if !hasTab {
		return graphemes
	}

	out := make([]string, 0, len(graphemes)+t.tabWidth)
	for _, g := range graphemes {
		if g != "\t" {
			out = append(out, g)
			continue
		}
		stop := t.NextTabStop(len(out))
		for len(out) < stop {
			out = append(out, " ")
		}
	}
	return out
}
