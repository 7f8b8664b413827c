package animation

import (
	"slices"
	"time"

	"github.com/dshills/cellgrid/internal/renderer/core"
)

// DefaultDuration is used when an animation does not set one.
const DefaultDuration = time.Second

// Registry owns every in-flight animation. Callers hold only IDs.
//
// A Registry is single-threaded: Update, the callbacks it invokes and
// all other methods must run on the frame loop's goroutine. Callbacks
// may stop animations but must not start new ones during Update.
type Registry struct {
	anims map[ID]*animation

	// order holds live IDs in creation order.
	order []ID

	nextID ID
	clock  Clock

	defaultDuration time.Duration
	defaultEasing   Easing
}

// NewRegistry creates an empty registry using the system clock.
func NewRegistry() *Registry {
	return &Registry{
		anims:           make(map[ID]*animation),
		clock:           SystemClock{},
		defaultDuration: DefaultDuration,
		defaultEasing:   Linear,
	}
}

// SetClock replaces the time source used for start times and Tick.
func (r *Registry) SetClock(c Clock) {
	if c == nil {
		c = SystemClock{}
	}
	r.clock = c
}

// Clock returns the registry's time source.
func (r *Registry) Clock() Clock {
	return r.clock
}

// SetDefaults sets the duration and easing applied when options leave
// them zero. A non-positive duration keeps the current default and a
// Default easing resets to Linear.
func (r *Registry) SetDefaults(duration time.Duration, easing Easing) {
	if duration > 0 {
		r.defaultDuration = duration
	}
	if easing == Default {
		easing = Linear
	}
	r.defaultEasing = easing
}

// Animate registers a custom animation driven by opts.OnUpdate.
func (r *Registry) Animate(opts Options) ID {
	a := r.newAnimation(KindCustom, opts)
	return r.add(a)
}

// Flash registers a glyph flash on the cell at p.
func (r *Registry) Flash(access CellAccess, p core.Pos, opts FlashOptions) ID {
	a := r.newAnimation(KindFlash, opts.Options)
	a.bind(access, p)

	a.glyph = opts.Glyph
	if a.glyph == "" {
		a.glyph = DefaultFlashGlyph
	}
	a.count = opts.Count
	if a.count <= 0 {
		a.count = DefaultFlashCount
	}
	a.fg = opts.Fg
	a.bg = opts.Bg
	return r.add(a)
}

// Pulse registers a color pulse on the cell at p.
func (r *Registry) Pulse(access CellAccess, p core.Pos, opts PulseOptions) ID {
	a := r.newAnimation(KindPulse, opts.Options)
	a.bind(access, p)

	a.target = opts.Target
	a.color = opts.Color
	if !a.color.IsSet() {
		if opts.Target == PulseBackground {
			a.color = a.original.Bg
		} else {
			a.color = a.original.Fg
		}
	}
	if !a.color.IsSet() {
		a.color = core.White
	}

	a.minI, a.maxI = opts.MinIntensity, opts.MaxIntensity
	if a.minI == 0 && a.maxI == 0 {
		a.minI, a.maxI = DefaultMinIntensity, DefaultMaxIntensity
	}
	return r.add(a)
}

func (r *Registry) newAnimation(kind Kind, opts Options) *animation {
	duration := opts.Duration
	if duration <= 0 {
		duration = r.defaultDuration
	}
	easing := opts.Easing
	if easing == Default {
		easing = r.defaultEasing
	}
	delay := max(opts.Delay, 0)

	return &animation{
		kind:       kind,
		startTime:  r.clock.Now().Add(delay),
		duration:   duration,
		delay:      delay,
		loop:       opts.Loop,
		easing:     easing,
		active:     delay == 0,
		onUpdate:   opts.OnUpdate,
		onComplete: opts.OnComplete,
	}
}

// bind captures the target cell so it can be restored later.
func (a *animation) bind(access CellAccess, p core.Pos) {
	a.access = access
	a.pos = p
	a.original, a.hadOriginal = access.Cell(p)
}

func (r *Registry) add(a *animation) ID {
	r.nextID++
	a.id = r.nextID
	r.anims[a.id] = a
	r.order = append(r.order, a.id)
	return a.id
}

func (r *Registry) remove(id ID) {
	delete(r.anims, id)
	r.order = slices.DeleteFunc(r.order, func(x ID) bool { return x == id })
}

// Tick advances every animation to the clock's current time.
func (r *Registry) Tick() {
	r.Update(r.clock.Now())
}

// Update advances every animation to now, in creation order.
func (r *Registry) Update(now time.Time) {
	if len(r.order) == 0 {
		return
	}

	for _, id := range slices.Clone(r.order) {
		a, ok := r.anims[id]
		if !ok {
			// Stopped by an earlier callback this frame.
			continue
		}

		if !a.active {
			if now.Before(a.startTime) {
				continue
			}
			a.active = true
		}

		elapsed := now.Sub(a.startTime)
		progress := 1.0
		if a.duration > 0 {
			progress = clamp01(float64(elapsed) / float64(a.duration))
		}
		a.step(elapsed, a.easing.Apply(progress))
		if _, ok := r.anims[id]; !ok {
			// Stopped by its own update callback.
			continue
		}

		if progress < 1 {
			continue
		}
		if a.loop {
			a.startTime = now
			continue
		}

		a.completed = true
		if a.kind != KindCustom {
			a.restore()
		}
		r.remove(id)
		if a.onComplete != nil {
			a.onComplete()
		}
	}
}

// Stop removes an animation without running its completion callback.
// Flash and pulse animations restore their target cell.
// Unknown IDs are ignored.
func (r *Registry) Stop(id ID) {
	a, ok := r.anims[id]
	if !ok {
		return
	}
	if a.kind != KindCustom {
		a.restore()
	}
	r.remove(id)
}

// StopAll stops every animation, newest first so that stacked
// animations on one cell unwind to the oldest captured state.
func (r *Registry) StopAll() {
	for i := len(r.order) - 1; i >= 0; i-- {
		a := r.anims[r.order[i]]
		if a.kind != KindCustom {
			a.restore()
		}
	}
	clear(r.anims)
	r.order = r.order[:0]
}

// IsActive returns true while the animation is registered, whether it
// is still waiting out its delay or running.
func (r *Registry) IsActive(id ID) bool {
	_, ok := r.anims[id]
	return ok
}

// ActiveCount returns the number of registered animations.
func (r *Registry) ActiveCount() int {
	return len(r.anims)
}

// Info returns a snapshot of the animation's state.
func (r *Registry) Info(id ID) (Info, bool) {
	a, ok := r.anims[id]
	if !ok {
		return Info{}, false
	}
	return Info{
		ID:        a.id,
		Kind:      a.kind,
		StartTime: a.startTime,
		Duration:  a.duration,
		Delay:     a.delay,
		Loop:      a.loop,
		Easing:    a.easing,
		Active:    a.active,
	}, true
}
