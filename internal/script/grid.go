package script

import (
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/cellgrid/internal/renderer"
	"github.com/dshills/cellgrid/internal/renderer/animation"
	"github.com/dshills/cellgrid/internal/renderer/core"
	"github.com/dshills/cellgrid/internal/renderer/layout"
)

// ModuleName is the global the engine is exposed as.
const ModuleName = "grid"

// gridModule implements the grid API. Coordinates are 0-based world
// coordinates, colors are palette names or hex strings, durations are
// milliseconds.
//
// Drawing functions return true, or nil plus a message when the engine
// is in safe mode and rejects the write.
type gridModule struct {
	s *State
	e *renderer.Engine
}

// Bind exposes e to scripts running in s as the global module "grid".
func Bind(s *State, e *renderer.Engine) {
	m := &gridModule{s: s, e: e}
	s.RegisterModule(ModuleName, map[string]lua.LGFunction{
		"set_char":        m.setChar,
		"set_char_scaled": m.setCharScaled,
		"scaled_text":     m.scaledText,
		"get_char":        m.getChar,
		"draw_text":       m.drawText,
		"box":             m.box,
		"fill":            m.fill,
		"line":            m.line,
		"progress":        m.progress,
		"flash":           m.flash,
		"pulse":           m.pulse,
		"animate":         m.animate,
		"stop":            m.stop,
		"stop_all":        m.stopAll,
		"is_active":       m.isActive,
		"layer":           m.layer,
		"render_order":    m.renderOrder,
		"hide":            m.hide,
		"show":            m.show,
		"clear":           m.clear,
		"size":            m.size,
	})
}

// set_char(x, y, glyph [, fg [, bg]]) -> true | nil, err
func (m *gridModule) setChar(L *lua.LState) int {
	x, y := L.CheckInt(1), L.CheckInt(2)
	glyph := L.CheckString(3)
	return result(L, m.e.SetChar(x, y, glyph, optColor(L, 4), optColor(L, 5)))
}

// set_char_scaled(x, y, scale, glyph [, fg [, bg]]) -> true | nil, err
func (m *gridModule) setCharScaled(L *lua.LState) int {
	x, y, scale := L.CheckInt(1), L.CheckInt(2), L.CheckInt(3)
	glyph := L.CheckString(4)
	return result(L, m.e.SetCharScaled(x, y, scale, glyph, optColor(L, 5), optColor(L, 6)))
}

// scaled_text(x, y, scale, text [, fg [, bg]]) -> true | nil, err
func (m *gridModule) scaledText(L *lua.LState) int {
	x, y, scale := L.CheckInt(1), L.CheckInt(2), L.CheckInt(3)
	text := L.CheckString(4)
	return result(L, m.e.ScaledText(x, y, scale, text, optColor(L, 5), optColor(L, 6)))
}

// get_char(x, y) -> glyph, fg, bg | nil
func (m *gridModule) getChar(L *lua.LState) int {
	c, ok := m.e.GetChar(L.CheckInt(1), L.CheckInt(2))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(c.Glyph))
	L.Push(lua.LString(c.Fg.String()))
	L.Push(lua.LString(c.Bg.String()))
	return 3
}

// draw_text(x, y, text [, {fg, bg, width, wrap, align}]) -> true | nil, err
func (m *gridModule) drawText(L *lua.LState) int {
	x, y := L.CheckInt(1), L.CheckInt(2)
	text := L.CheckString(3)
	opts := L.OptTable(4, L.NewTable())
	return result(L, m.e.DrawText(x, y, text, renderer.TextOptions{
		Fg:    fieldColor(L, opts, "fg"),
		Bg:    fieldColor(L, opts, "bg"),
		Width: fieldInt(opts, "width", 0),
		Wrap:  fieldBool(opts, "wrap", false),
		Align: layout.ParseAlign(fieldString(opts, "align", "left")),
	}))
}

// box(x, y, w, h [, {style, fg, bg, fill, fill_glyph, fill_fg, fill_bg,
// title, title_align, title_fg, shadow, shadow_glyph}]) -> true | nil, err
func (m *gridModule) box(L *lua.LState) int {
	x, y, w, h := L.CheckInt(1), L.CheckInt(2), L.CheckInt(3), L.CheckInt(4)
	opts := L.OptTable(5, L.NewTable())

	style, err := renderer.ParseBoxStyle(fieldString(opts, "style", "single"))
	if err != nil {
		L.ArgError(5, err.Error())
		return 0
	}
	return result(L, m.e.Box(x, y, w, h, renderer.BoxOptions{
		Style:       style,
		Fg:          fieldColor(L, opts, "fg"),
		Bg:          fieldColor(L, opts, "bg"),
		Fill:        fieldBool(opts, "fill", false),
		FillGlyph:   fieldString(opts, "fill_glyph", ""),
		FillFg:      fieldColor(L, opts, "fill_fg"),
		FillBg:      fieldColor(L, opts, "fill_bg"),
		Title:       fieldString(opts, "title", ""),
		TitleAlign:  layout.ParseAlign(fieldString(opts, "title_align", "left")),
		TitleFg:     fieldColor(L, opts, "title_fg"),
		Shadow:      fieldBool(opts, "shadow", false),
		ShadowGlyph: fieldString(opts, "shadow_glyph", ""),
	}))
}

// fill(x, y, w, h, glyph [, fg [, bg]]) -> true | nil, err
func (m *gridModule) fill(L *lua.LState) int {
	x, y, w, h := L.CheckInt(1), L.CheckInt(2), L.CheckInt(3), L.CheckInt(4)
	glyph := L.CheckString(5)
	return result(L, m.e.Fill(x, y, w, h, glyph, optColor(L, 6), optColor(L, 7)))
}

// line(x0, y0, x1, y1, glyph [, fg [, bg]]) -> true | nil, err
func (m *gridModule) line(L *lua.LState) int {
	x0, y0, x1, y1 := L.CheckInt(1), L.CheckInt(2), L.CheckInt(3), L.CheckInt(4)
	glyph := L.CheckString(5)
	return result(L, m.e.DrawLine(x0, y0, x1, y1, glyph, optColor(L, 6), optColor(L, 7)))
}

// progress(x, y, length, value [, {filled, empty, fg, bg, empty_fg, empty_bg}])
func (m *gridModule) progress(L *lua.LState) int {
	x, y, length := L.CheckInt(1), L.CheckInt(2), L.CheckInt(3)
	value := float64(L.CheckNumber(4))
	opts := L.OptTable(5, L.NewTable())
	return result(L, m.e.ProgressBar(x, y, length, value, renderer.ProgressOptions{
		Filled:  fieldString(opts, "filled", ""),
		Empty:   fieldString(opts, "empty", ""),
		Fg:      fieldColor(L, opts, "fg"),
		Bg:      fieldColor(L, opts, "bg"),
		EmptyFg: fieldColor(L, opts, "empty_fg"),
		EmptyBg: fieldColor(L, opts, "empty_bg"),
	}))
}

// flash(x, y [, {glyph, count, fg, bg, duration, delay, loop, easing}]) -> id | nil, err
func (m *gridModule) flash(L *lua.LState) int {
	x, y := L.CheckInt(1), L.CheckInt(2)
	opts := L.OptTable(3, L.NewTable())
	id, err := m.e.Flash(x, y, animation.FlashOptions{
		Options: animOptions(L, 3, opts),
		Glyph:   fieldString(opts, "glyph", ""),
		Count:   fieldInt(opts, "count", 0),
		Fg:      fieldColor(L, opts, "fg"),
		Bg:      fieldColor(L, opts, "bg"),
	})
	return idResult(L, id, err)
}

// pulse(x, y [, {color, min, max, target, duration, delay, loop, easing}]) -> id | nil, err
func (m *gridModule) pulse(L *lua.LState) int {
	x, y := L.CheckInt(1), L.CheckInt(2)
	opts := L.OptTable(3, L.NewTable())

	target := animation.PulseForeground
	switch t := fieldString(opts, "target", "fg"); t {
	case "fg":
	case "bg":
		target = animation.PulseBackground
	default:
		L.ArgError(3, "target must be \"fg\" or \"bg\", got "+t)
		return 0
	}

	id, err := m.e.Pulse(x, y, animation.PulseOptions{
		Options:      animOptions(L, 3, opts),
		Color:        fieldColor(L, opts, "color"),
		MinIntensity: fieldNumber(opts, "min", 0),
		MaxIntensity: fieldNumber(opts, "max", 0),
		Target:       target,
	})
	return idResult(L, id, err)
}

// animate(fn [, {duration, delay, loop, easing, done}]) -> id
// fn receives eased progress every frame; done runs once on completion.
func (m *gridModule) animate(L *lua.LState) int {
	fn := L.CheckFunction(1)
	opts := L.OptTable(2, L.NewTable())

	o := animOptions(L, 2, opts)
	if done, ok := opts.RawGetString("done").(*lua.LFunction); ok {
		o.OnComplete = func() {
			err := m.s.run(func() error {
				_, err := m.s.callValue(done)
				return err
			})
			if err != nil {
				m.s.logger.Warn("animation completion callback: %v", err)
			}
		}
	}

	id := m.s.animate(m.e, "<function>", func() lua.LValue { return fn }, o)
	L.Push(lua.LNumber(id))
	return 1
}

// stop(id)
func (m *gridModule) stop(L *lua.LState) int {
	m.e.Stop(animation.ID(L.CheckInt64(1)))
	return 0
}

// stop_all()
func (m *gridModule) stopAll(L *lua.LState) int {
	m.e.StopAll()
	return 0
}

// is_active(id) -> bool
func (m *gridModule) isActive(L *lua.LState) int {
	L.Push(lua.LBool(m.e.IsActive(animation.ID(L.CheckInt64(1)))))
	return 1
}

// layer([name]) -> current
// With a name, makes it the current layer (creating it if needed).
func (m *gridModule) layer(L *lua.LState) int {
	if L.GetTop() >= 1 {
		m.e.UseLayer(L.CheckString(1))
	}
	L.Push(lua.LString(m.e.CurrentLayer()))
	return 1
}

// render_order([name, ...]) -> {name, ...}
func (m *gridModule) renderOrder(L *lua.LState) int {
	if n := L.GetTop(); n > 0 {
		names := make([]string, n)
		for i := range names {
			names[i] = L.CheckString(i + 1)
		}
		m.e.SetRenderOrder(names...)
	}
	order := L.NewTable()
	for _, name := range m.e.RenderOrder() {
		order.Append(lua.LString(name))
	}
	L.Push(order)
	return 1
}

// hide(name)
func (m *gridModule) hide(L *lua.LState) int {
	m.e.HideLayer(L.CheckString(1))
	return 0
}

// show(name)
func (m *gridModule) show(L *lua.LState) int {
	m.e.ShowLayer(L.CheckString(1))
	return 0
}

// clear([name]) clears the current layer, or the named one.
func (m *gridModule) clear(L *lua.LState) int {
	if L.GetTop() >= 1 {
		m.e.ClearLayer(L.CheckString(1))
		return 0
	}
	m.e.Clear()
	return 0
}

// size() -> width, height
func (m *gridModule) size(L *lua.LState) int {
	w, h := m.e.Size()
	L.Push(lua.LNumber(w))
	L.Push(lua.LNumber(h))
	return 2
}

// result pushes true, or nil and the error message.
func result(L *lua.LState, err error) int {
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

func idResult(L *lua.LState, id animation.ID, err error) int {
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	if id == 0 {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(id))
	return 1
}

// optColor reads an optional color argument.
func optColor(L *lua.LState, n int) core.Color {
	v := L.Get(n)
	if v == lua.LNil {
		return core.NoColor
	}
	c, err := core.ParseColor(L.CheckString(n))
	if err != nil {
		L.ArgError(n, err.Error())
	}
	return c
}

// animOptions reads the shared animation fields of an options table.
func animOptions(L *lua.LState, arg int, t *lua.LTable) animation.Options {
	o := animation.Options{
		Duration: fieldMillis(t, "duration"),
		Delay:    fieldMillis(t, "delay"),
		Loop:     fieldBool(t, "loop", false),
	}
	if name := fieldString(t, "easing", ""); name != "" {
		easing, err := animation.ParseEasing(name)
		if err != nil {
			L.ArgError(arg, err.Error())
		}
		o.Easing = easing
	}
	return o
}

func fieldString(t *lua.LTable, key, def string) string {
	if s, ok := t.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return def
}

func fieldNumber(t *lua.LTable, key string, def float64) float64 {
	if n, ok := t.RawGetString(key).(lua.LNumber); ok {
		return float64(n)
	}
	return def
}

func fieldInt(t *lua.LTable, key string, def int) int {
	return int(fieldNumber(t, key, float64(def)))
}

func fieldBool(t *lua.LTable, key string, def bool) bool {
	if b, ok := t.RawGetString(key).(lua.LBool); ok {
		return bool(b)
	}
	return def
}

func fieldMillis(t *lua.LTable, key string) time.Duration {
	return time.Duration(fieldNumber(t, key, 0) * float64(time.Millisecond))
}

func fieldColor(L *lua.LState, t *lua.LTable, key string) core.Color {
	s, ok := t.RawGetString(key).(lua.LString)
	if !ok {
		return core.NoColor
	}
	c, err := core.ParseColor(string(s))
	if err != nil {
		L.RaiseError("%s: %v", key, err)
	}
	return c
}
