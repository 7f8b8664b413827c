package renderer

import (
	"slices"
	"time"

	"github.com/dshills/cellgrid/internal/logging"
	"github.com/dshills/cellgrid/internal/renderer/animation"
	"github.com/dshills/cellgrid/internal/renderer/backend"
	"github.com/dshills/cellgrid/internal/renderer/camera"
	"github.com/dshills/cellgrid/internal/renderer/core"
	"github.com/dshills/cellgrid/internal/renderer/layer"
	"github.com/dshills/cellgrid/internal/renderer/layout"
)

// Options configures the engine.
type Options struct {
	// Bounds policy
	SafeMode bool // Return errors for out-of-bounds and invalid writes
	ClipMode bool // Drop out-of-bounds writes (already the default outside safe mode)

	// Frame
	AutoClear  bool       // Clear the surface at the start of each Render
	ClearColor core.Color // Explicit clear color for surfaces that support one

	// Animation
	Clock           animation.Clock  // Time source; nil uses the system clock
	DefaultDuration time.Duration    // Zero uses animation.DefaultDuration
	DefaultEasing   animation.Easing // Easing for animations that leave it unset

	// Logger receives advisories. Nil discards them.
	Logger *logging.Logger

	// TextCacheSize bounds the text layout cache (0 = default).
	TextCacheSize int
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		SafeMode:        false,
		ClipMode:        true,
		AutoClear:       true,
		DefaultDuration: animation.DefaultDuration,
		DefaultEasing:   animation.Linear,
		TextCacheSize:   layout.DefaultCacheSize,
	}
}

// Engine is the rendering facade. It owns one camera, one layer buffer
// and one animation registry, and paints composited frames to a surface.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	surface backend.Surface
	width   int
	height  int

	// Bounds policy and frame flags
	safeMode   bool
	clipMode   bool
	autoClear  bool
	clearColor core.Color

	camera *camera.Camera
	layers *layer.Buffer
	anims  *animation.Registry
	text   *layout.Segmenter
	log    *logging.Logger

	// overlapWarned is set after the first scaled-glyph overlap advisory.
	overlapWarned bool

	// Per-frame scratch, reused across renders.
	frame   layer.Cells
	order   []core.Pos
	handled map[core.Pos]struct{}
	strokes []stroke

	frameCount uint64
}

// New creates an engine painting to surface.
func New(surface backend.Surface, opts Options) *Engine {
	width, height := surface.Size()

	log := opts.Logger
	if log == nil {
		log = logging.Null()
	}

	anims := animation.NewRegistry()
	if opts.Clock != nil {
		anims.SetClock(opts.Clock)
	}
	anims.SetDefaults(opts.DefaultDuration, opts.DefaultEasing)

	return &Engine{
		surface:    surface,
		width:      width,
		height:     height,
		safeMode:   opts.SafeMode,
		clipMode:   opts.ClipMode,
		autoClear:  opts.AutoClear,
		clearColor: opts.ClearColor,
		camera:     camera.New(),
		layers:     layer.New(),
		anims:      anims,
		text:       layout.NewSegmenter(opts.TextCacheSize),
		log:        log.WithComponent("renderer"),
		frame:      make(layer.Cells),
		handled:    make(map[core.Pos]struct{}),
	}
}

// Surface returns the display surface.
func (e *Engine) Surface() backend.Surface {
	return e.surface
}

// Size returns the grid dimensions last read from the surface.
func (e *Engine) Size() (width, height int) {
	return e.width, e.height
}

// Resize re-reads the surface dimensions.
// Cells now outside the grid are kept and skipped by the surface.
func (e *Engine) Resize() {
	e.width, e.height = e.surface.Size()
}

// Camera returns the engine's camera.
func (e *Engine) Camera() *camera.Camera {
	return e.camera
}

// Animations returns the engine's animation registry.
func (e *Engine) Animations() *animation.Registry {
	return e.anims
}

// Logger returns the engine's logger.
func (e *Engine) Logger() *logging.Logger {
	return e.log
}

// SafeMode reports whether violations are returned as errors.
func (e *Engine) SafeMode() bool { return e.safeMode }

// SetSafeMode switches the bounds policy.
func (e *Engine) SetSafeMode(on bool) { e.safeMode = on }

// ClipMode reports the clip-mode flag.
func (e *Engine) ClipMode() bool { return e.clipMode }

// SetClipMode sets the clip-mode flag. Outside safe mode out-of-bounds
// writes are dropped regardless of this flag.
func (e *Engine) SetClipMode(on bool) { e.clipMode = on }

// AutoClear reports whether Render clears the surface first.
func (e *Engine) AutoClear() bool { return e.autoClear }

// SetAutoClear sets whether Render clears the surface first.
func (e *Engine) SetAutoClear(on bool) { e.autoClear = on }

// ClearColor returns the explicit clear color.
func (e *Engine) ClearColor() core.Color { return e.clearColor }

// SetClearColor sets the explicit clear color. NoColor clears to the
// surface default.
func (e *Engine) SetClearColor(c core.Color) { e.clearColor = c }

// FrameCount returns the number of frames rendered.
func (e *Engine) FrameCount() uint64 {
	return e.frameCount
}

// toScreen applies the camera transform.
func (e *Engine) toScreen(x, y int) core.Pos {
	sx, sy := e.camera.WorldToScreen(x, y)
	return core.P(sx, sy)
}

func (e *Engine) inBounds(p core.Pos) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < e.width && p.Y < e.height
}

func (e *Engine) boundsError(op string, p core.Pos) *BoundsError {
	return &BoundsError{Op: op, X: p.X, Y: p.Y, Width: e.width, Height: e.height}
}

// Clear empties the current layer.
func (e *Engine) Clear() {
	e.layers.Clear(e.layers.Current())
}

// ClearAll empties every layer.
func (e *Engine) ClearAll() {
	e.layers.ClearAll()
}

// Composite flattens the visible layers in render order into a new map.
func (e *Engine) Composite() layer.Cells {
	return e.layers.Composite()
}

// Render paints one frame: clear the surface if auto-clear is on,
// composite the layers, paint every cell and flush.
//
// Placeholder cells are never painted. An origin cell claims its whole
// footprint and is painted through the surface's ScaledPainter when it
// has one, otherwise as an ordinary cell at the origin.
func (e *Engine) Render() {
	if e.autoClear {
		if cc, ok := e.surface.(backend.ClearColorer); ok && e.clearColor.IsSet() {
			cc.ClearWith(e.clearColor)
		} else {
			e.surface.Clear()
		}
	}

	e.layers.CompositeInto(e.frame)

	// Row-major order so every origin is seen before its footprint.
	e.order = e.order[:0]
	for p := range e.frame {
		e.order = append(e.order, p)
	}
	slices.SortFunc(e.order, core.Pos.Compare)

	clear(e.handled)
	scaler, canScale := e.surface.(backend.ScaledPainter)

	for _, p := range e.order {
		c := e.frame[p]
		if c.IsMerged() {
			continue
		}
		if _, done := e.handled[p]; done {
			continue
		}

		if c.IsOrigin() {
			c.Footprint(p).Each(func(q core.Pos) {
				e.handled[q] = struct{}{}
			})
			if canScale {
				scaler.PaintScaledCell(p.X, p.Y, c.Role.Scale, c.Glyph, c.Fg, c.Bg)
				continue
			}
		}
		e.surface.PaintCell(p.X, p.Y, c.Glyph, c.Fg, c.Bg)
	}

	e.surface.Flush()
	e.frameCount++
}

// UseLayer switches drawing to the named layer, creating it if unseen.
func (e *Engine) UseLayer(name string) {
	e.layers.Use(name)
}

// CurrentLayer returns the name of the layer drawing calls write into.
func (e *Engine) CurrentLayer() string {
	return e.layers.Current()
}

// SetRenderOrder sets the bottom-to-top compositing order.
func (e *Engine) SetRenderOrder(names ...string) {
	e.layers.SetRenderOrder(names)
}

// RenderOrder returns the compositing order.
func (e *Engine) RenderOrder() []string {
	return e.layers.RenderOrder()
}

// HideLayer excludes a layer from compositing without clearing it.
func (e *Engine) HideLayer(name string) {
	e.layers.Hide(name)
}

// ShowLayer makes a hidden layer visible again.
func (e *Engine) ShowLayer(name string) {
	e.layers.Show(name)
}

// IsLayerVisible reports whether a layer is composited.
func (e *Engine) IsLayerVisible(name string) bool {
	return e.layers.IsVisible(name)
}

// ClearLayer empties the named layer.
func (e *Engine) ClearLayer(name string) {
	e.layers.Clear(name)
}

// Layers returns every layer name, sorted.
func (e *Engine) Layers() []string {
	return e.layers.Names()
}

// LayerCells returns the named layer's cells.
func (e *Engine) LayerCells(name string) (layer.Cells, bool) {
	return e.layers.Layer(name)
}
