// Package app runs a rendering engine against a live surface: a frame
// ticker drives animation updates and renders, input events arrive on
// their own goroutine, and configuration edits are applied between frames.
package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/cellgrid/internal/config"
	"github.com/dshills/cellgrid/internal/export"
	"github.com/dshills/cellgrid/internal/logging"
	"github.com/dshills/cellgrid/internal/renderer"
	"github.com/dshills/cellgrid/internal/renderer/animation"
	"github.com/dshills/cellgrid/internal/renderer/backend"
	"github.com/dshills/cellgrid/internal/script"
)

// Script hooks called by the player when a script defines them.
const (
	// FrameHook is called as frame(n, dt) before each render.
	FrameHook = "frame"

	// KeyHook is called as key(name) for every key that does not quit.
	KeyHook = "key"
)

// EventSource delivers input events. PollEvent blocks until an event is
// available and returns an EventNone event once the source is closed.
type EventSource interface {
	PollEvent() backend.Event
}

// Options configures a Player.
type Options struct {
	// Config holds the engine and frame settings. Nil uses config.Default().
	Config *config.Config

	// ConfigPath is watched for edits when non-empty.
	ConfigPath string

	// Surface receives rendered frames. Required.
	Surface backend.Surface

	// Events supplies input. Nil runs without input until ctx is done.
	Events EventSource

	// Script is a Lua file run once at startup with the grid module bound.
	Script string

	// Snapshot is painted onto the default layer at startup.
	Snapshot *export.Snapshot

	// Logger receives player, engine and script messages. Nil discards them.
	Logger *logging.Logger

	// Clock drives animations. Nil uses the system clock.
	Clock animation.Clock

	// MaxFrames stops Run after that many frames (0 = unlimited).
	MaxFrames uint64
}

// Player owns one engine and the loop that feeds it.
type Player struct {
	opts    Options
	cfg     *config.Config
	engine  *renderer.Engine
	script  *script.State
	watcher *config.Watcher
	log     *logging.Logger

	interval time.Duration
	reloads  chan *config.Config

	frames uint64
	last   time.Time

	running  atomic.Bool
	done     chan struct{}
	doneOnce sync.Once
	stopOnce sync.Once
}

// New creates a player and prepares its first scene: the snapshot, the
// script, or the built-in demo when neither is given.
func New(opts Options) (*Player, error) {
	if opts.Surface == nil {
		return nil, &InitError{Component: "surface", Err: ErrNoSurface}
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}

	log := opts.Logger
	if log == nil {
		log = logging.Null()
	}

	engineOpts, err := cfg.EngineOptions()
	if err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}
	engineOpts.Logger = log
	engineOpts.Clock = opts.Clock

	p := &Player{
		opts:     opts,
		cfg:      cfg,
		engine:   renderer.New(opts.Surface, engineOpts),
		log:      log.WithComponent("player"),
		interval: cfg.FrameInterval(),
		reloads:  make(chan *config.Config, 1),
		done:     make(chan struct{}),
	}
	cfg.Apply(p.engine)

	if opts.Snapshot != nil {
		if err := export.Paint(p.engine, opts.Snapshot); err != nil {
			return nil, &InitError{Component: "replay", Err: err}
		}
	}

	if opts.Script != "" {
		p.script = script.NewState(script.WithLogger(log.WithComponent("script")))
		script.Bind(p.script, p.engine)
		if err := p.script.DoFile(opts.Script); err != nil {
			_ = p.script.Close()
			return nil, &InitError{Component: "script", Err: err}
		}
	}

	if opts.Snapshot == nil && opts.Script == "" {
		if err := DrawDemo(p.engine); err != nil {
			p.log.Warn("demo scene incomplete: %v", err)
		}
	}

	if opts.ConfigPath != "" {
		w, err := config.NewWatcher(opts.ConfigPath, p.onReload)
		if err != nil {
			p.closeScript()
			return nil, &InitError{Component: "config watcher", Err: err}
		}
		p.watcher = w
	}

	return p, nil
}

// Engine returns the player's engine.
func (p *Player) Engine() *renderer.Engine {
	return p.engine
}

// Config returns the settings currently applied.
func (p *Player) Config() *config.Config {
	return p.cfg
}

// Frames returns the number of frames rendered.
func (p *Player) Frames() uint64 {
	return p.frames
}

// Interval returns the time between frames.
func (p *Player) Interval() time.Duration {
	return p.interval
}

// IsRunning returns true while Run is active.
func (p *Player) IsRunning() bool {
	return p.running.Load()
}

// Run drives the frame loop until ctx is done, a quit key arrives,
// Shutdown is called or MaxFrames frames have been rendered.
func (p *Player) Run(ctx context.Context) error {
	if !p.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer p.running.Store(false)
	defer p.signalDone()

	if p.watcher != nil {
		if err := p.watcher.Start(); err != nil {
			return &InitError{Component: "config watcher", Err: err}
		}
		defer func() { _ = p.watcher.Stop() }()
	}

	var events <-chan backend.Event
	if p.opts.Events != nil {
		events = p.startInputPolling()
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	w, h := p.engine.Size()
	p.log.Info("running %dx%d at %v per frame", w, h, p.interval)

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-p.done:
			return nil

		case cfg := <-p.reloads:
			if p.applyConfig(cfg) {
				ticker.Reset(p.interval)
			}

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if err := p.HandleEvent(ev); errors.Is(err, ErrQuit) {
				p.log.Info("quit after %d frames", p.frames)
				return nil
			}

		case <-ticker.C:
			_ = p.Frame(p.engine.Animations().Clock().Now())
			if p.opts.MaxFrames > 0 && p.frames >= p.opts.MaxFrames {
				return nil
			}
		}
	}
}

// Frame advances animations to now, runs the script's frame hook and
// renders. A hook error is logged and returned; the frame still renders.
func (p *Player) Frame(now time.Time) error {
	var dt float64
	if !p.last.IsZero() {
		dt = now.Sub(p.last).Seconds()
	}
	p.last = now

	// Picks up surface resizes.
	p.engine.Resize()
	p.engine.Update(now)

	var err error
	if p.script != nil && p.script.HasFunction(FrameHook) {
		if _, err = p.script.Call(FrameHook, lua.LNumber(p.frames), lua.LNumber(dt)); err != nil {
			p.log.Warn("frame hook: %v", err)
		}
	}

	p.engine.Render()
	p.frames++
	return err
}

// HandleEvent processes one input event. It returns ErrQuit for q,
// Escape and Ctrl-C.
func (p *Player) HandleEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventResize:
		p.log.Debug("resize to %dx%d", ev.Width, ev.Height)
		if inv, ok := p.engine.Surface().(interface{ Invalidate() }); ok {
			inv.Invalidate()
		}
		p.engine.Resize()

	case backend.EventKey:
		if isQuit(ev) {
			return ErrQuit
		}
		if p.script != nil && p.script.HasFunction(KeyHook) {
			if _, err := p.script.Call(KeyHook, lua.LString(KeyName(ev))); err != nil {
				p.log.Warn("key hook: %v", err)
				return err
			}
		}
	}
	return nil
}

func isQuit(ev backend.Event) bool {
	switch ev.Key {
	case backend.KeyEscape, backend.KeyCtrlC:
		return true
	case backend.KeyRune:
		return ev.Rune == 'q'
	}
	return false
}

// KeyName returns the name passed to the key hook: the character for
// rune keys, otherwise a lowercase key name.
func KeyName(ev backend.Event) string {
	switch ev.Key {
	case backend.KeyRune:
		return string(ev.Rune)
	case backend.KeyEscape:
		return "escape"
	case backend.KeyEnter:
		return "enter"
	case backend.KeyTab:
		return "tab"
	case backend.KeyBackspace:
		return "backspace"
	case backend.KeyUp:
		return "up"
	case backend.KeyDown:
		return "down"
	case backend.KeyLeft:
		return "left"
	case backend.KeyRight:
		return "right"
	case backend.KeyCtrlC:
		return "ctrl+c"
	}
	return ""
}

// onReload runs on the watcher goroutine. Only the newest config waits
// for the frame loop.
func (p *Player) onReload(cfg *config.Config, err error) {
	if err != nil {
		p.log.Warn("config reload rejected: %v", err)
		return
	}
	for {
		select {
		case p.reloads <- cfg:
			return
		default:
		}
		select {
		case <-p.reloads:
		default:
		}
	}
}

// applyConfig pushes reloadable settings onto the engine. It returns
// true when the frame interval changed.
func (p *Player) applyConfig(cfg *config.Config) bool {
	cfg.ApplyFlags(p.engine)
	if easing, err := animation.ParseEasing(cfg.Animation.DefaultEasing); err == nil {
		p.engine.Animations().SetDefaults(cfg.Animation.DefaultDuration.Duration, easing)
	}
	p.log.SetLevel(cfg.LogLevel())
	p.cfg = cfg
	p.log.Info("config reloaded")

	interval := cfg.FrameInterval()
	if interval == p.interval {
		return false
	}
	p.interval = interval
	return true
}

// startInputPolling forwards events from the source until it closes or
// the player stops. PollEvent is blocking, so the goroutine may outlive
// Run until the source is shut down.
func (p *Player) startInputPolling() <-chan backend.Event {
	events := make(chan backend.Event, 64)

	go func() {
		defer close(events)
		for {
			ev := p.opts.Events.PollEvent()
			if ev.Type == backend.EventNone {
				return
			}
			select {
			case events <- ev:
			case <-p.done:
				return
			}
		}
	}()

	return events
}

func (p *Player) signalDone() {
	p.doneOnce.Do(func() { close(p.done) })
}

func (p *Player) closeScript() {
	p.stopOnce.Do(func() {
		if p.script != nil {
			_ = p.script.Close()
		}
	})
}

// Shutdown stops Run and releases the script state. It is safe to call
// more than once and before Run.
func (p *Player) Shutdown() {
	p.signalDone()
	p.closeScript()
}
