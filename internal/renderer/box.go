package renderer

import (
	"fmt"
	"strings"

	"github.com/dshills/cellgrid/internal/renderer/core"
	"github.com/dshills/cellgrid/internal/renderer/layout"
)

// BoxStyle is a border character set.
type BoxStyle struct {
	Name string

	TopLeft     string
	TopRight    string
	BottomLeft  string
	BottomRight string
	Horizontal  string
	Vertical    string
}

// Built-in border styles.
var (
	BoxSingle  = BoxStyle{"single", "┌", "┐", "└", "┘", "─", "│"}
	BoxDouble  = BoxStyle{"double", "╔", "╗", "╚", "╝", "═", "║"}
	BoxRounded = BoxStyle{"rounded", "╭", "╮", "╰", "╯", "─", "│"}
	BoxHeavy   = BoxStyle{"heavy", "┏", "┓", "┗", "┛", "━", "┃"}
	BoxASCII   = BoxStyle{"ascii", "+", "+", "+", "+", "-", "|"}
)

var boxStyles = []BoxStyle{BoxSingle, BoxDouble, BoxRounded, BoxHeavy, BoxASCII}

// ParseBoxStyle resolves a border style by name.
func ParseBoxStyle(name string) (BoxStyle, error) {
	for _, s := range boxStyles {
		if strings.EqualFold(s.Name, name) {
			return s, nil
		}
	}
	return BoxStyle{}, fmt.Errorf("unknown box style %q", name)
}

// DefaultShadowGlyph is the glyph used for box shadows.
const DefaultShadowGlyph = "░"

// BoxOptions style Box, Border and Rect.
type BoxOptions struct {
	// Style is the border character set. Zero value uses BoxSingle.
	Style BoxStyle

	Fg core.Color
	Bg core.Color

	// Fill paints the interior.
	Fill      bool
	FillGlyph string     // Default " "
	FillFg    core.Color // Unset uses Fg
	FillBg    core.Color // Unset uses Bg

	// Title is written on the top edge, truncated to the inner width.
	Title      string
	TitleAlign layout.Align
	TitleFg    core.Color // Unset uses Fg

	// Shadow draws a one-cell offset shadow on the right and bottom edges.
	Shadow      bool
	ShadowGlyph string     // Default "░"
	ShadowFg    core.Color // Unset uses BrightBlack
	ShadowBg    core.Color
}

func (o *BoxOptions) applyDefaults() {
	if o.Style.Horizontal == "" {
		o.Style = BoxSingle
	}
	if o.FillGlyph == "" {
		o.FillGlyph = " "
	}
	if !o.FillFg.IsSet() {
		o.FillFg = o.Fg
	}
	if !o.FillBg.IsSet() {
		o.FillBg = o.Bg
	}
	if !o.TitleFg.IsSet() {
		o.TitleFg = o.Fg
	}
	if o.ShadowGlyph == "" {
		o.ShadowGlyph = DefaultShadowGlyph
	}
	if !o.ShadowFg.IsSet() {
		o.ShadowFg = core.BrightBlack
	}
}

// Box draws a width x height border at world (x, y) with optional fill,
// title and shadow. Boxes smaller than 1x1 draw nothing.
func (e *Engine) Box(x, y, width, height int, opts BoxOptions) error {
	return e.box("box", x, y, width, height, opts)
}

// Border draws only the border of a box, leaving the interior untouched.
func (e *Engine) Border(x, y, width, height int, opts BoxOptions) error {
	opts.Fill = false
	return e.box("border", x, y, width, height, opts)
}

// Rect draws a filled box.
func (e *Engine) Rect(x, y, width, height int, opts BoxOptions) error {
	opts.Fill = true
	return e.box("rect", x, y, width, height, opts)
}

func (e *Engine) box(op string, x, y, width, height int, opts BoxOptions) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	opts.applyDefaults()
	origin := e.toScreen(x, y)
	area := core.RectFromSize(origin.X, origin.Y, width, height)
	strokes := e.plan()

	area.Each(func(p core.Pos) {
		glyph, edge := borderGlyph(opts.Style, area, p)
		switch {
		case edge:
			strokes = append(strokes, stroke{p: p, cell: core.NewCell(glyph, opts.Fg, opts.Bg)})
		case opts.Fill:
			strokes = append(strokes, stroke{p: p, cell: core.NewCell(opts.FillGlyph, opts.FillFg, opts.FillBg)})
		}
	})

	if opts.Title != "" && width > 2 {
		inner := width - 2
		// Tabs widen the title, so cut after layout.
		lines := e.text.Layout(opts.Title, layout.Options{Width: inner, Align: opts.TitleAlign})
		title := lines[0].Truncate(inner)
		for i, g := range title.Graphemes {
			p := origin.Add(1+title.Offset+i, 0)
			strokes = append(strokes, stroke{p: p, cell: core.NewCell(g, opts.TitleFg, opts.Bg)})
		}
	}

	if opts.Shadow {
		shadow := core.NewCell(opts.ShadowGlyph, opts.ShadowFg, opts.ShadowBg)
		for dy := 1; dy <= height; dy++ {
			strokes = append(strokes, stroke{p: origin.Add(width, dy), cell: shadow})
		}
		for dx := 1; dx < width; dx++ {
			strokes = append(strokes, stroke{p: origin.Add(dx, height), cell: shadow})
		}
	}

	return e.enforce(e.commit(op, strokes))
}

// borderGlyph returns the border glyph at p, or false for interior cells.
func borderGlyph(s BoxStyle, r core.Rect, p core.Pos) (string, bool) {
	top := p.Y == r.Top
	bottom := p.Y == r.Bottom-1
	left := p.X == r.Left
	right := p.X == r.Right-1

	switch {
	case top && left:
		return s.TopLeft, true
	case top && right:
		return s.TopRight, true
	case bottom && left:
		return s.BottomLeft, true
	case bottom && right:
		return s.BottomRight, true
	case top || bottom:
		return s.Horizontal, true
	case left || right:
		return s.Vertical, true
	}
	return "", false
}
