// Package renderer provides the character-cell rendering engine.
//
// The engine is responsible for:
//   - Drawing primitives (cells, text, lines, boxes, progress bars)
//   - Multi-cell ("scaled") glyphs spanning an N x N footprint
//   - Layered sparse cell storage with render order and visibility
//   - Camera transform from world to screen coordinates
//   - Time-driven animations that repaint cells frame by frame
//   - Compositing and handing cells to a display surface
//
// Architecture:
//
//	┌─────────────────────────────────────────┐
//	│             Engine (Facade)             │
//	├─────────────────────────────────────────┤
//	│  Camera  │  Layer Buffer │  Animations  │
//	├─────────────────────────────────────────┤
//	│        Display Surface (backend)        │
//	├─────────────────────────────────────────┤
//	│  Terminal (tcell) │ Buffered │ Recorder │
//	└─────────────────────────────────────────┘
//
// The engine is single-threaded. The host calls Update then Render once
// per frame; nothing runs in the background.
//
// Usage:
//
//	term, _ := backend.NewTerminal()
//	_ = term.Init()
//	e := renderer.New(term, renderer.DefaultOptions())
//	e.Box(0, 0, 20, 5, renderer.BoxOptions{Title: "hello"})
//	e.Update(time.Now())
//	e.Render()
package renderer
