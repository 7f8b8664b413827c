package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/cellgrid/internal/renderer"
	"github.com/dshills/cellgrid/internal/renderer/animation"
)

// Animation registers a custom animation on e whose update step calls
// the global Lua function fn with the eased progress (0 to 1).
//
// The function is looked up on every frame, so a script may redefine it
// while the animation runs. If a call fails the error is logged and the
// animation is stopped; opts.OnComplete is not called in that case.
func Animation(s *State, e *renderer.Engine, fn string, opts animation.Options) (animation.ID, error) {
	if !s.HasFunction(fn) {
		return 0, fmt.Errorf("%w: %q", ErrFunctionNotFound, fn)
	}
	return s.animate(e, fn, func() lua.LValue { return s.L.GetGlobal(fn) }, opts), nil
}

// animate wires a Lua callback into an animation. lookup runs with mu held.
func (s *State) animate(e *renderer.Engine, name string, lookup func() lua.LValue, opts animation.Options) animation.ID {
	var id animation.ID
	failed := false

	opts.OnUpdate = func(progress float64) {
		if failed {
			return
		}
		err := s.run(func() error {
			fnVal := lookup()
			if fnVal.Type() != lua.LTFunction {
				return fmt.Errorf("%w: %q", ErrFunctionNotFound, name)
			}
			_, err := s.callValue(fnVal, lua.LNumber(progress))
			return err
		})
		if err != nil {
			failed = true
			s.logger.Warn("animation %d (%s) stopped: %v", id, name, err)
			e.Stop(id)
		}
	}

	id = e.Animate(opts)
	return id
}
