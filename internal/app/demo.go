package app

import (
	"errors"
	"time"

	"github.com/dshills/cellgrid/internal/renderer"
	"github.com/dshills/cellgrid/internal/renderer/animation"
	"github.com/dshills/cellgrid/internal/renderer/core"
	"github.com/dshills/cellgrid/internal/renderer/layout"
)

// DemoLayer holds the animated parts of the demo scene.
const DemoLayer = "overlay"

// DrawDemo paints the built-in scene: a framed title in scaled glyphs,
// a pulsing first letter and a looping progress bar. Drawing errors only
// occur in safe mode and are joined into the result.
func DrawDemo(e *renderer.Engine) error {
	w, h := e.Size()
	var errs []error
	add := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	base := e.CurrentLayer()
	e.UseLayer(DemoLayer)
	e.UseLayer(base)

	add(e.Box(0, 0, w, h, renderer.BoxOptions{
		Style:      renderer.BoxRounded,
		Fg:         core.Cyan,
		Title:      " cellgrid ",
		TitleAlign: layout.AlignCenter,
	}))

	scale := 2
	if h < 12 {
		scale = 1
	}
	add(e.ScaledText(2, 2, scale, "GRID", core.BrightYellow, core.NoColor))
	add(e.DrawText(2, h-2, "q quits", renderer.TextOptions{Fg: core.BrightBlack}))

	_, err := e.Pulse(2, 2, animation.PulseOptions{
		Options: animation.Options{Duration: 2 * time.Second, Loop: true},
	})
	add(err)

	barY, barLen := h-3, max(w-4, 0)
	e.Animate(animation.Options{
		Duration: 3 * time.Second,
		Loop:     true,
		Easing:   animation.EaseInOut,
		OnUpdate: func(progress float64) {
			prev := e.CurrentLayer()
			e.UseLayer(DemoLayer)
			_ = e.ProgressBar(2, barY, barLen, progress, renderer.ProgressOptions{
				Empty:   "·",
				Fg:      core.Green,
				EmptyFg: core.BrightBlack,
			})
			e.UseLayer(prev)
		},
	})

	return errors.Join(errs...)
}
