// Package layout splits text into grapheme cells and arranges them into
// rows for the renderer: newline handling, tab expansion, word wrapping
// and alignment.
//
// One grapheme cluster occupies exactly one cell.
package layout

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Align selects horizontal placement within a fixed width.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// String returns the alignment name.
func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// ParseAlign resolves an alignment by name. Unknown names are left aligned.
func ParseAlign(name string) Align {
	switch strings.ToLower(name) {
	case "center", "centre":
		return AlignCenter
	case "right":
		return AlignRight
	default:
		return AlignLeft
	}
}

// Options control Layout.
type Options struct {
	// Width is the box width used for wrapping and alignment.
	// Zero disables both.
	Width int

	// Wrap breaks lines longer than Width, preferring spaces.
	Wrap bool

	Align Align

	// TabWidth is the tab stop interval. Zero uses DefaultTabWidth.
	TabWidth int
}

// Line is one laid-out row.
type Line struct {
	Graphemes []string

	// Offset is the column of the first grapheme relative to the origin.
	Offset int
}

// Segment splits text into grapheme clusters.
func Segment(text string) []string {
	if text == "" {
		return nil
	}
	out := make([]string, 0, len(text))
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// Count returns the number of cells text occupies on one row.
func Count(text string) int {
	return uniseg.GraphemeClusterCount(text)
}

// Truncate cuts the line to at most n cells counted from its origin,
// offset included.
func (l Line) Truncate(n int) Line {
	room := max(n-l.Offset, 0)
	if len(l.Graphemes) > room {
		l.Graphemes = l.Graphemes[:room]
	}
	return l
}

// Layout arranges text into rows. Each "\n" starts a new row.
func Layout(text string, opts Options) []Line {
	tabs := NewTabExpander(opts.TabWidth)

	var lines []Line
	for _, para := range strings.Split(text, "\n") {
		gs := tabs.Expand(Segment(strings.TrimSuffix(para, "\r")))

		rows := [][]string{gs}
		if opts.Wrap && opts.Width > 0 {
			rows = Wrap(gs, opts.Width)
		}
		for _, row := range rows {
			lines = append(lines, Line{
				Graphemes: row,
				Offset:    alignOffset(opts.Align, len(row), opts.Width),
			})
		}
	}
	return lines
}

func alignOffset(align Align, n, width int) int {
	if width <= 0 || n >= width {
		return 0
	}
	switch align {
	case AlignCenter:
		return (width - n) / 2
	case AlignRight:
		return width - n
	default:
		return 0
	}
}

// Wrap breaks graphemes into rows of at most width cells. Breaks happen
// at the last space when one exists on the row; otherwise the row is
// cut hard. Spaces at a break are dropped.
func Wrap(graphemes []string, width int) [][]string {
	if width <= 0 || len(graphemes) <= width {
		return [][]string{graphemes}
	}

	var rows [][]string
	row := make([]string, 0, width)
	lastSpace := -1

	for _, g := range graphemes {
		if len(row) == width {
			switch {
			case g == " ":
				rows = append(rows, trimRight(row))
				row = make([]string, 0, width)
				lastSpace = -1
				continue
			case lastSpace > 0:
				rows = append(rows, trimRight(row[:lastSpace]))
				rest := row[lastSpace+1:]
				row = append(make([]string, 0, width), rest...)
			default:
				rows = append(rows, row)
				row = make([]string, 0, width)
			}
			lastSpace = -1
			for i, c := range row {
				if c == " " {
					lastSpace = i
				}
			}
		}
		if g == " " {
			lastSpace = len(row)
		}
		row = append(row, g)
	}
	return append(rows, row)
}

func trimRight(row []string) []string {
	for len(row) > 0 && row[len(row)-1] == " " {
		row = row[:len(row)-1]
	}
	return row
}
