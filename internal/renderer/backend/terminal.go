package backend

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/cellgrid/internal/renderer/core"
)

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventResize
)

// Key represents a keyboard key.
type Key int

const (
	KeyNone Key = iota
	KeyRune     // Regular character (use Rune field)
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlC
)

// Event is a terminal input event.
type Event struct {
	Type EventType

	// Key event fields
	Key  Key
	Rune rune

	// Resize event fields
	Width, Height int
}

// Terminal is a Surface backed by a tcell screen.
// The screen is shared with the input goroutine, so calls are serialized.
type Terminal struct {
	screen        tcell.Screen
	clearStyle    tcell.Style
	resizeHandler func(width, height int)
	mu            sync.Mutex
}

// NewTerminal creates a terminal surface on the controlling tty.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewTerminalWithScreen(screen), nil
}

// NewTerminalWithScreen wraps an existing screen, such as a
// tcell.SimulationScreen in tests.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen, clearStyle: tcell.StyleDefault}
}

// Init initializes the screen. Must be called before painting.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.HideCursor()
	return nil
}

// Shutdown restores the terminal.
func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

// Screen returns the underlying tcell screen.
func (t *Terminal) Screen() tcell.Screen {
	return t.screen
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

// OnResize registers a callback invoked from PollEvent on resize.
func (t *Terminal) OnResize(callback func(width, height int)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.resizeHandler = callback
}

func (t *Terminal) PaintCell(x, y int, glyph string, fg, bg core.Color) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.setContent(x, y, glyph, convertStyle(fg, bg))
}

// PaintScaledCell draws the glyph at the origin and fills the rest of
// the footprint with the glyph's background. A terminal cannot enlarge
// a character.
func (t *Terminal) PaintScaledCell(x, y, scale int, glyph string, fg, bg core.Color) {
	t.mu.Lock()
	defer t.mu.Unlock()

	style := convertStyle(fg, bg)
	for dy := range scale {
		for dx := range scale {
			if dx == 0 && dy == 0 {
				t.setContent(x, y, glyph, style)
				continue
			}
			t.setContent(x+dx, y+dy, " ", style)
		}
	}
}

// setContent writes a grapheme. Caller holds mu.
func (t *Terminal) setContent(x, y int, glyph string, style tcell.Style) {
	width, height := t.screen.Size()
	if x < 0 || y < 0 || x >= width || y >= height {
		return
	}
	runes := []rune(glyph)
	if len(runes) == 0 {
		runes = []rune{' '}
	}
	t.screen.SetContent(x, y, runes[0], runes[1:], style)
}

func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.SetStyle(t.clearStyle)
	t.screen.Clear()
}

// ClearWith clears the screen to an explicit background color.
func (t *Terminal) ClearWith(bg core.Color) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.clearStyle = tcell.StyleDefault.Background(convertColor(bg))
	t.screen.SetStyle(t.clearStyle)
	t.screen.Clear()
}

func (t *Terminal) Flush() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

// Sync forces a full repaint of the physical terminal.
func (t *Terminal) Sync() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Sync()
}

// PollEvent waits for and returns the next terminal event.
// This is a blocking call and returns EventNone once the screen is finalized.
func (t *Terminal) PollEvent() Event {
	ev := t.screen.PollEvent()
	if ev == nil {
		return Event{Type: EventNone}
	}
	return convertEvent(ev, t)
}

// PostKey posts a synthetic key event to the event queue.
func (t *Terminal) PostKey(key Key, r rune) {
	_ = t.screen.PostEvent(tcell.NewEventKey(convertToTcellKey(key), r, tcell.ModNone)) // best-effort; queue may be full
}

// HasTrueColor returns true if the terminal supports 24-bit color.
func (t *Terminal) HasTrueColor() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Colors() > 256
}

// convertStyle converts a color pair to tcell.Style.
func convertStyle(fg, bg core.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(convertColor(fg)).Background(convertColor(bg))
}

// convertColor converts a core color to tcell.
// Named colors map onto the terminal's 16-color palette so user themes apply.
func convertColor(c core.Color) tcell.Color {
	switch c.Kind {
	case core.ColorNamed:
		return tcell.PaletteColor(int(c.Index))
	case core.ColorRGB:
		r, g, b := c.RGB8()
		return tcell.NewRGBColor(int32(r), int32(g), int32(b))
	default:
		return tcell.ColorDefault
	}
}

// convertEvent converts tcell events to our Event type.
func convertEvent(ev tcell.Event, t *Terminal) Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return Event{
			Type: EventKey,
			Key:  convertKey(e.Key()),
			Rune: e.Rune(),
		}

	case *tcell.EventResize:
		w, h := e.Size()
		t.mu.Lock()
		handler := t.resizeHandler
		t.mu.Unlock()
		if handler != nil {
			handler(w, h)
		}
		return Event{
			Type:   EventResize,
			Width:  w,
			Height: h,
		}

	default:
		return Event{Type: EventNone}
	}
}

// convertKey converts tcell key to our Key type.
func convertKey(k tcell.Key) Key {
	switch k {
	case tcell.KeyRune:
		return KeyRune
	case tcell.KeyEscape:
		return KeyEscape
	case tcell.KeyEnter:
		return KeyEnter
	case tcell.KeyTab:
		return KeyTab
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return KeyBackspace
	case tcell.KeyUp:
		return KeyUp
	case tcell.KeyDown:
		return KeyDown
	case tcell.KeyLeft:
		return KeyLeft
	case tcell.KeyRight:
		return KeyRight
	case tcell.KeyCtrlC:
		return KeyCtrlC
	default:
		return KeyNone
	}
}

// convertToTcellKey converts our Key to tcell.Key.
func convertToTcellKey(k Key) tcell.Key {
	switch k {
	case KeyEscape:
		return tcell.KeyEscape
	case KeyEnter:
		return tcell.KeyEnter
	case KeyTab:
		return tcell.KeyTab
	case KeyBackspace:
		return tcell.KeyBackspace2
	case KeyUp:
		return tcell.KeyUp
	case KeyDown:
		return tcell.KeyDown
	case KeyLeft:
		return tcell.KeyLeft
	case KeyRight:
		return tcell.KeyRight
	case KeyCtrlC:
		return tcell.KeyCtrlC
	default:
		return tcell.KeyRune
	}
}
