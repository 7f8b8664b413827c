package export

import (
	"slices"

	"github.com/dshills/cellgrid/internal/renderer"
	"github.com/dshills/cellgrid/internal/renderer/core"
)

// Paint draws a snapshot onto the engine's current layer in row-major
// order. Origins become scaled glyphs; their placeholders are skipped.
// Writes follow the engine's bounds policy, so in safe mode the first
// violation stops the replay.
func Paint(e *renderer.Engine, snap *Snapshot) error {
	positions := make([]core.Pos, 0, len(snap.Cells))
	for p, c := range snap.Cells {
		if !c.IsMerged() {
			positions = append(positions, p)
		}
	}
	slices.SortFunc(positions, core.Pos.Compare)

	for _, p := range positions {
		c := snap.Cells[p]
		var err error
		if c.IsOrigin() && c.Role.Scale > 1 {
			err = e.SetCharScaled(p.X, p.Y, c.Role.Scale, c.Glyph, c.Fg, c.Bg)
		} else {
			err = e.SetChar(p.X, p.Y, c.Glyph, c.Fg, c.Bg)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
