package core

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorKind identifies which of the interchangeable color encodings
// a Color carries.
type ColorKind uint8

const (
	// ColorNone is the unset color; surfaces use their default.
	ColorNone ColorKind = iota
	// ColorNamed is one of the 16 palette colors.
	ColorNamed
	// ColorRGB is an explicit channel triple.
	ColorRGB
)

// Color is a cell color value.
// The zero value is ColorNone (unset / inherit default).
type Color struct {
	Kind ColorKind

	// Index is the palette slot (0-15) for named colors.
	Index uint8

	// R, G, B are channel values in 0-255 for RGB colors.
	// They may be fractional; rounding happens in RGB8.
	R, G, B float64
}

// NoColor is the unset color.
var NoColor = Color{}

// paletteEntry describes one named palette slot.
type paletteEntry struct {
	name    string
	r, g, b float64
}

// palette holds the 16 named colors in terminal palette order.
var palette = [16]paletteEntry{
	{"black", 0, 0, 0},
	{"red", 205, 0, 0},
	{"green", 0, 205, 0},
	{"yellow", 205, 205, 0},
	{"blue", 0, 0, 238},
	{"magenta", 205, 0, 205},
	{"cyan", 0, 205, 205},
	{"white", 229, 229, 229},
	{"brightBlack", 127, 127, 127},
	{"brightRed", 255, 0, 0},
	{"brightGreen", 0, 255, 0},
	{"brightYellow", 255, 255, 0},
	{"brightBlue", 92, 92, 255},
	{"brightMagenta", 255, 0, 255},
	{"brightCyan", 0, 255, 255},
	{"brightWhite", 255, 255, 255},
}

// Named palette colors.
var (
	Black         = Color{Kind: ColorNamed, Index: 0}
	Red           = Color{Kind: ColorNamed, Index: 1}
	Green         = Color{Kind: ColorNamed, Index: 2}
	Yellow        = Color{Kind: ColorNamed, Index: 3}
	Blue          = Color{Kind: ColorNamed, Index: 4}
	Magenta       = Color{Kind: ColorNamed, Index: 5}
	Cyan          = Color{Kind: ColorNamed, Index: 6}
	White         = Color{Kind: ColorNamed, Index: 7}
	BrightBlack   = Color{Kind: ColorNamed, Index: 8}
	BrightRed     = Color{Kind: ColorNamed, Index: 9}
	BrightGreen   = Color{Kind: ColorNamed, Index: 10}
	BrightYellow  = Color{Kind: ColorNamed, Index: 11}
	BrightBlue    = Color{Kind: ColorNamed, Index: 12}
	BrightMagenta = Color{Kind: ColorNamed, Index: 13}
	BrightCyan    = Color{Kind: ColorNamed, Index: 14}
	BrightWhite   = Color{Kind: ColorNamed, Index: 15}
)

// RGB creates a color from channel values in 0-255.
func RGB(r, g, b float64) Color {
	return Color{Kind: ColorRGB, R: r, G: g, B: b}
}

// Named returns the palette color with the given name.
// Matching ignores case and the separators '-', '_' and ' ',
// so "bright_red", "Bright Red" and "brightRed" are equivalent.
func Named(name string) (Color, bool) {
	key := normalizeName(name)
	for i, p := range palette {
		if strings.ToLower(p.name) == key {
			return Color{Kind: ColorNamed, Index: uint8(i)}, true
		}
	}
	return Color{}, false
}

func normalizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', ' ':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(name)))
}

// ParseHex parses a 6-hex-digit color, with or without a leading '#'.
func ParseHex(hex string) (Color, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid hex color length: %q", hex)
	}
	c, err := colorful.Hex("#" + s)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return fromColorful(c), nil
}

// ParseColor parses any string encoding: a palette name or a hex triple.
// The empty string and "none" yield NoColor.
func ParseColor(s string) (Color, error) {
	switch normalizeName(s) {
	case "", "none", "default":
		return NoColor, nil
	}
	if c, ok := Named(s); ok {
		return c, nil
	}
	return ParseHex(s)
}

// MustParseColor is like ParseColor but panics on error.
// Intended for package-level color tables.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// IsSet reports whether the color carries a value.
func (c Color) IsSet() bool {
	return c.Kind != ColorNone
}

// Name returns the palette name of a named color, or "".
func (c Color) Name() string {
	if c.Kind != ColorNamed || int(c.Index) >= len(palette) {
		return ""
	}
	return palette[c.Index].name
}

// Resolve returns the color as an RGB triple.
// Named colors resolve through the palette; unset colors stay unset.
func (c Color) Resolve() Color {
	if c.Kind != ColorNamed {
		return c
	}
	p := palette[c.Index&0x0F]
	return RGB(p.r, p.g, p.b)
}

// RGB8 returns the channels rounded and clamped to 0-255.
// Unset colors return black.
func (c Color) RGB8() (r, g, b uint8) {
	rc := c.Resolve()
	return clampChannel(rc.R), clampChannel(rc.G), clampChannel(rc.B)
}

func clampChannel(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}

// Scale multiplies each channel by f.
// Named colors are resolved first; unset colors are returned unchanged.
func (c Color) Scale(f float64) Color {
	if !c.IsSet() {
		return c
	}
	rc := c.Resolve()
	return RGB(rc.R*f, rc.G*f, rc.B*f)
}

// Blend mixes c toward other by t (0 = c, 1 = other) in RGB space.
func (c Color) Blend(other Color, t float64) Color {
	if !c.IsSet() {
		return other
	}
	if !other.IsSet() {
		return c
	}
	return fromColorful(c.colorful().BlendRgb(other.colorful(), t))
}

// Hex returns the "#rrggbb" form. Unset colors return "".
func (c Color) Hex() string {
	if !c.IsSet() {
		return ""
	}
	r, g, b := c.RGB8()
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}.Hex()
}

// Equals returns true if two colors are identical in kind and value.
func (c Color) Equals(other Color) bool {
	if c.Kind != other.Kind {
		return false
	}
	switch c.Kind {
	case ColorNone:
		return true
	case ColorNamed:
		return c.Index == other.Index
	}
	return c.R == other.R && c.G == other.G && c.B == other.B
}

// String returns a string representation of the color.
func (c Color) String() string {
	switch c.Kind {
	case ColorNone:
		return "none"
	case ColorNamed:
		return c.Name()
	}
	return c.Hex()
}

func (c Color) colorful() colorful.Color {
	rc := c.Resolve()
	return colorful.Color{R: rc.R / 255, G: rc.G / 255, B: rc.B / 255}
}

func fromColorful(c colorful.Color) Color {
	return RGB(c.R*255, c.G*255, c.B*255)
}
