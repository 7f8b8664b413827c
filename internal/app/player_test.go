package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/cellgrid/internal/config"
	"github.com/dshills/cellgrid/internal/export"
	"github.com/dshills/cellgrid/internal/logging"
	"github.com/dshills/cellgrid/internal/renderer/animation"
	"github.com/dshills/cellgrid/internal/renderer/backend"
	"github.com/dshills/cellgrid/internal/renderer/core"
	"github.com/dshills/cellgrid/internal/renderer/layer"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// fakeEvents is an EventSource fed from a channel. Closing the channel
// ends the source.
type fakeEvents chan backend.Event

func (f fakeEvents) PollEvent() backend.Event {
	ev, ok := <-f
	if !ok {
		return backend.Event{Type: backend.EventNone}
	}
	return ev
}

func key(r rune) backend.Event {
	return backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: r}
}

func newPlayer(t *testing.T, opts Options) (*Player, *backend.Recorder) {
	t.Helper()
	rec := backend.NewRecorder(40, 12)
	opts.Surface = rec
	if opts.Clock == nil {
		opts.Clock = animation.NewManualClock(epoch)
	}
	p, err := New(opts)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(p.Shutdown)
	return p, rec
}

func writeScript(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.lua")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewRequiresSurface(t *testing.T) {
	_, err := New(Options{})
	if !errors.Is(err, ErrNoSurface) {
		t.Errorf("expected ErrNoSurface, got %v", err)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Frame.FPS = 0

	_, err := New(Options{Surface: backend.NewRecorder(10, 5), Config: cfg})
	var initErr *InitError
	if !errors.As(err, &initErr) {
		t.Fatalf("expected InitError, got %v", err)
	}
	if initErr.Component != "config" {
		t.Errorf("expected component config, got %q", initErr.Component)
	}
}

func TestDemoScene(t *testing.T) {
	p, rec := newPlayer(t, Options{})

	if err := p.Frame(epoch.Add(100 * time.Millisecond)); err != nil {
		t.Fatalf("Frame() failed: %v", err)
	}

	c, ok := rec.Cell(0, 0)
	if !ok || c.Glyph != "╭" {
		t.Errorf("expected rounded corner at origin, got %+v", c)
	}
	if p.Frames() != 1 {
		t.Errorf("expected 1 frame, got %d", p.Frames())
	}
	if _, ok := p.Engine().LayerCells(DemoLayer); !ok {
		t.Errorf("expected %s layer", DemoLayer)
	}
	if p.Engine().ActiveCount() != 2 {
		t.Errorf("expected 2 demo animations, got %d", p.Engine().ActiveCount())
	}
}

func TestScriptHooks(t *testing.T) {
	path := writeScript(t, `
last = nil
function frame(n, dt)
  grid.set_char(0, 0, tostring(n))
  elapsed = dt
end
function key(name)
  last = name
end
`)
	p, _ := newPlayer(t, Options{Script: path})

	if err := p.Frame(epoch); err != nil {
		t.Fatalf("Frame() failed: %v", err)
	}
	if c, _ := p.Engine().GetChar(0, 0); c.Glyph != "0" {
		t.Errorf("expected frame 0 glyph, got %q", c.Glyph)
	}

	if err := p.Frame(epoch.Add(250 * time.Millisecond)); err != nil {
		t.Fatalf("Frame() failed: %v", err)
	}
	if c, _ := p.Engine().GetChar(0, 0); c.Glyph != "1" {
		t.Errorf("expected frame 1 glyph, got %q", c.Glyph)
	}
	if got := p.script.GetGlobal("elapsed").String(); got != "0.25" {
		t.Errorf("expected dt 0.25, got %s", got)
	}

	if err := p.HandleEvent(key('a')); err != nil {
		t.Fatalf("HandleEvent() failed: %v", err)
	}
	if got := p.script.GetGlobal("last").String(); got != "a" {
		t.Errorf("expected last key a, got %s", got)
	}

	p.HandleEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyUp})
	if got := p.script.GetGlobal("last").String(); got != "up" {
		t.Errorf("expected last key up, got %s", got)
	}
}

func TestScriptSkipsDemo(t *testing.T) {
	p, _ := newPlayer(t, Options{Script: writeScript(t, "x = 1")})

	if p.Engine().ActiveCount() != 0 {
		t.Errorf("expected no demo animations, got %d", p.Engine().ActiveCount())
	}
}

func TestFrameHookErrorStillRenders(t *testing.T) {
	p, rec := newPlayer(t, Options{Script: writeScript(t, `
grid.set_char(1, 1, "k")
function frame() error("boom") end
`)})

	if err := p.Frame(epoch); err == nil {
		t.Error("expected frame hook error")
	}
	if c, ok := rec.Cell(1, 1); !ok || c.Glyph != "k" {
		t.Errorf("expected frame rendered despite hook error, got %+v", c)
	}
}

func TestScriptLoadError(t *testing.T) {
	_, err := New(Options{
		Surface: backend.NewRecorder(10, 5),
		Script:  writeScript(t, "this is not lua"),
	})
	var initErr *InitError
	if !errors.As(err, &initErr) || initErr.Component != "script" {
		t.Errorf("expected script InitError, got %v", err)
	}
}

func TestSnapshotReplay(t *testing.T) {
	snap := &export.Snapshot{
		Width:  40,
		Height: 12,
		Cells: layer.Cells{
			core.P(3, 4): core.NewCell("R", core.Red, core.NoColor),
		},
	}
	p, rec := newPlayer(t, Options{Snapshot: snap})

	p.Frame(epoch)
	if c, ok := rec.Cell(3, 4); !ok || c.Glyph != "R" || !c.Fg.Equals(core.Red) {
		t.Errorf("expected replayed cell, got %+v", c)
	}
	if p.Engine().ActiveCount() != 0 {
		t.Error("expected replay to skip the demo scene")
	}
}

func TestHandleEventQuit(t *testing.T) {
	p, _ := newPlayer(t, Options{})

	tests := []struct {
		name string
		ev   backend.Event
		quit bool
	}{
		{"q", key('q'), true},
		{"escape", backend.Event{Type: backend.EventKey, Key: backend.KeyEscape}, true},
		{"ctrl+c", backend.Event{Type: backend.EventKey, Key: backend.KeyCtrlC}, true},
		{"other rune", key('Q'), false},
		{"enter", backend.Event{Type: backend.EventKey, Key: backend.KeyEnter}, false},
		{"resize", backend.Event{Type: backend.EventResize, Width: 80, Height: 24}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.HandleEvent(tt.ev)
			if got := errors.Is(err, ErrQuit); got != tt.quit {
				t.Errorf("expected quit=%v, got %v", tt.quit, err)
			}
		})
	}
}

func TestKeyName(t *testing.T) {
	tests := []struct {
		ev   backend.Event
		want string
	}{
		{key('x'), "x"},
		{key('é'), "é"},
		{backend.Event{Key: backend.KeyTab}, "tab"},
		{backend.Event{Key: backend.KeyBackspace}, "backspace"},
		{backend.Event{Key: backend.KeyLeft}, "left"},
		{backend.Event{Key: backend.KeyNone}, ""},
	}

	for _, tt := range tests {
		if got := KeyName(tt.ev); got != tt.want {
			t.Errorf("KeyName(%+v): expected %q, got %q", tt.ev, tt.want, got)
		}
	}
}

func TestResizeFollowsSurface(t *testing.T) {
	p, rec := newPlayer(t, Options{})

	rec.Resize(60, 20)
	p.HandleEvent(backend.Event{Type: backend.EventResize, Width: 60, Height: 20})
	if w, h := p.Engine().Size(); w != 60 || h != 20 {
		t.Errorf("expected 60x20, got %dx%d", w, h)
	}
}

func TestApplyConfig(t *testing.T) {
	p, _ := newPlayer(t, Options{})

	first := config.Default()
	first.Frame.FPS = 10
	second := config.Default()
	second.Engine.SafeMode = true
	second.Engine.ClearColor = "#112233"
	second.Frame.FPS = 50

	p.onReload(first, nil)
	p.onReload(second, nil)
	p.onReload(nil, errors.New("bad file"))

	got := <-p.reloads
	if got != second {
		t.Fatal("expected only the newest config to be queued")
	}

	if !p.applyConfig(got) {
		t.Error("expected interval change")
	}
	if !p.Engine().SafeMode() {
		t.Error("expected safe mode after reload")
	}
	if want := core.MustParseColor("#112233"); !p.Engine().ClearColor().Equals(want) {
		t.Errorf("expected clear color %v, got %v", want, p.Engine().ClearColor())
	}
	if p.Interval() != 20*time.Millisecond {
		t.Errorf("expected 20ms interval, got %v", p.Interval())
	}
	if p.applyConfig(got) {
		t.Error("expected no interval change on identical config")
	}
}

func TestApplyConfigLogLevelReachesEngine(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: logging.LevelInfo, Output: &buf})
	p, _ := newPlayer(t, Options{Logger: log})

	p.Engine().Logger().Debug("before-reload")
	cfg := config.Default()
	cfg.Log.Level = "debug"
	p.applyConfig(cfg)
	p.Engine().Logger().Debug("engine-debug-line")

	if strings.Contains(buf.String(), "before-reload") {
		t.Error("expected debug dropped at startup level")
	}
	if !strings.Contains(buf.String(), "engine-debug-line") {
		t.Errorf("expected engine debug line after reload, got %q", buf.String())
	}
}

func TestRunStopsOnQuitKey(t *testing.T) {
	events := make(fakeEvents, 4)
	p, _ := newPlayer(t, Options{Events: events, Clock: animation.SystemClock{}})

	events <- key('z')
	events <- key('q')

	done := make(chan error, 1)
	go func() { done <- p.Run(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on quit key")
	}
	close(events)
}

func TestRunMaxFrames(t *testing.T) {
	cfg := config.Default()
	cfg.Frame.FPS = 500
	p, rec := newPlayer(t, Options{Config: cfg, MaxFrames: 3, Clock: animation.SystemClock{}})

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if p.Frames() != 3 {
		t.Errorf("expected 3 frames, got %d", p.Frames())
	}
	if rec.Flushes() != 3 {
		t.Errorf("expected 3 flushes, got %d", rec.Flushes())
	}
}

func TestRunStopsOnContext(t *testing.T) {
	p, _ := newPlayer(t, Options{Clock: animation.SystemClock{}})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := p.Run(ctx); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if p.IsRunning() {
		t.Error("expected player stopped")
	}
}

func TestShutdownIdempotent(t *testing.T) {
	p, _ := newPlayer(t, Options{Script: writeScript(t, "x = 1")})

	p.Shutdown()
	p.Shutdown()

	if err := p.Run(context.Background()); err != nil {
		t.Errorf("expected Run after Shutdown to return nil, got %v", err)
	}
	if !p.script.IsClosed() {
		t.Error("expected script closed")
	}
}
