package animation

import (
	"testing"
	"time"

	"github.com/dshills/cellgrid/internal/renderer/core"
)

// memCells is an in-memory CellAccess.
type memCells map[core.Pos]core.Cell

func (m memCells) Cell(p core.Pos) (core.Cell, bool) {
	c, ok := m[p]
	return c, ok
}

func (m memCells) SetCell(p core.Pos, c core.Cell) { m[p] = c }

func (m memCells) DeleteCell(p core.Pos) { delete(m, p) }

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestRegistry() (*Registry, *ManualClock) {
	clock := NewManualClock(epoch)
	r := NewRegistry()
	r.SetClock(clock)
	return r, clock
}

func TestRegistryCompletesOnce(t *testing.T) {
	r, clock := newTestRegistry()

	calls := 0
	var last float64
	id := r.Animate(Options{
		Duration:   100 * time.Millisecond,
		OnUpdate:   func(p float64) { last = p },
		OnComplete: func() { calls++ },
	})

	clock.Advance(50 * time.Millisecond)
	r.Tick()
	if last != 0.5 {
		t.Errorf("progress = %v, want 0.5", last)
	}
	if !r.IsActive(id) {
		t.Fatal("animation should still be active")
	}

	clock.Advance(60 * time.Millisecond)
	r.Tick()
	if last != 1 {
		t.Errorf("final progress = %v, want 1", last)
	}
	if calls != 1 {
		t.Errorf("OnComplete calls = %d, want 1", calls)
	}
	if r.IsActive(id) {
		t.Error("completed animation should be inactive")
	}

	clock.Advance(time.Second)
	r.Tick()
	if calls != 1 {
		t.Errorf("OnComplete calls after extra frame = %d, want 1", calls)
	}
}

func TestRegistryLoopNeverCompletes(t *testing.T) {
	r, clock := newTestRegistry()

	completed := false
	id := r.Animate(Options{
		Duration:   100 * time.Millisecond,
		Loop:       true,
		OnComplete: func() { completed = true },
	})

	for range 10 {
		clock.Advance(150 * time.Millisecond)
		r.Tick()
	}
	if completed {
		t.Error("looping animation completed")
	}
	if !r.IsActive(id) {
		t.Error("looping animation should stay active")
	}

	info, _ := r.Info(id)
	if !info.StartTime.Equal(clock.Now()) {
		t.Errorf("loop start = %v, want %v", info.StartTime, clock.Now())
	}
}

func TestRegistryDelay(t *testing.T) {
	r, clock := newTestRegistry()

	updates := 0
	id := r.Animate(Options{
		Duration: 100 * time.Millisecond,
		Delay:    50 * time.Millisecond,
		OnUpdate: func(float64) { updates++ },
	})

	info, _ := r.Info(id)
	if info.Active {
		t.Error("delayed animation should not start active")
	}

	clock.Advance(30 * time.Millisecond)
	r.Tick()
	if updates != 0 {
		t.Errorf("updates during delay = %d, want 0", updates)
	}

	clock.Advance(30 * time.Millisecond)
	r.Tick()
	if updates != 1 {
		t.Errorf("updates after delay = %d, want 1", updates)
	}
	info, _ = r.Info(id)
	if !info.Active {
		t.Error("animation should be active after delay")
	}
}

func TestRegistryZeroDurationFallsBackToDefault(t *testing.T) {
	r, _ := newTestRegistry()
	r.SetDefaults(250*time.Millisecond, EaseOut)

	id := r.Animate(Options{})
	info, ok := r.Info(id)
	if !ok {
		t.Fatal("Info not found")
	}
	if info.Duration != 250*time.Millisecond {
		t.Errorf("Duration = %v, want 250ms", info.Duration)
	}
	if info.Easing != EaseOut {
		t.Errorf("Easing = %v, want easeOut", info.Easing)
	}
}

func TestRegistryExplicitLinearKept(t *testing.T) {
	r, _ := newTestRegistry()
	r.SetDefaults(0, EaseOut)

	linear, _ := r.Info(r.Animate(Options{Easing: Linear}))
	if linear.Easing != Linear {
		t.Errorf("Easing = %v, want linear", linear.Easing)
	}
	unset, _ := r.Info(r.Animate(Options{Easing: Default}))
	if unset.Easing != EaseOut {
		t.Errorf("Easing = %v, want easeOut", unset.Easing)
	}

	r.SetDefaults(0, Default)
	reset, _ := r.Info(r.Animate(Options{}))
	if reset.Easing != Linear {
		t.Errorf("Easing = %v, want linear after reset", reset.Easing)
	}
}

func TestRegistryIDsNeverReused(t *testing.T) {
	r, _ := newTestRegistry()

	a := r.Animate(Options{})
	r.Stop(a)
	b := r.Animate(Options{})
	r.StopAll()
	c := r.Animate(Options{})

	if !(a < b && b < c) {
		t.Errorf("IDs not increasing: %d %d %d", a, b, c)
	}
}

func TestRegistryStop(t *testing.T) {
	r, clock := newTestRegistry()

	completed := false
	id := r.Animate(Options{OnComplete: func() { completed = true }})
	r.Stop(id)
	r.Stop(id)
	r.Stop(999)

	clock.Advance(2 * time.Second)
	r.Tick()
	if completed {
		t.Error("stopped animation must not complete")
	}
	if r.ActiveCount() != 0 {
		t.Errorf("ActiveCount = %d, want 0", r.ActiveCount())
	}
}

func TestRegistryStopFromCallback(t *testing.T) {
	r, clock := newTestRegistry()

	var second ID
	secondRan := false
	r.Animate(Options{
		Duration:   10 * time.Millisecond,
		OnComplete: func() { r.Stop(second) },
	})
	second = r.Animate(Options{
		Duration: time.Second,
		OnUpdate: func(float64) { secondRan = true },
	})

	clock.Advance(20 * time.Millisecond)
	r.Tick()
	if secondRan {
		t.Error("animation stopped by earlier callback should not update")
	}
	if r.ActiveCount() != 0 {
		t.Errorf("ActiveCount = %d, want 0", r.ActiveCount())
	}
}

func TestRegistryStopSelfOnFinalFrame(t *testing.T) {
	r, clock := newTestRegistry()

	var id ID
	completed := false
	id = r.Animate(Options{
		Duration:   10 * time.Millisecond,
		OnUpdate:   func(float64) { r.Stop(id) },
		OnComplete: func() { completed = true },
	})

	clock.Advance(50 * time.Millisecond)
	r.Tick()
	if completed {
		t.Error("animation stopped by its own update must not complete")
	}
	if r.IsActive(id) {
		t.Error("expected animation removed")
	}
}

func TestFlashToggles(t *testing.T) {
	r, clock := newTestRegistry()
	cells := memCells{core.P(1, 1): core.NewCell("A", core.Green, core.NoColor)}

	completed := 0
	r.Flash(cells, core.P(1, 1), FlashOptions{
		Options: Options{
			Duration:   600 * time.Millisecond,
			OnComplete: func() { completed++ },
		},
		Count: 3,
	})

	// 3 cycles over 600ms gives 100ms phases.
	steps := []struct {
		at   time.Duration
		want string
	}{
		{50 * time.Millisecond, "*"},
		{150 * time.Millisecond, "A"},
		{250 * time.Millisecond, "*"},
		{350 * time.Millisecond, "A"},
		{450 * time.Millisecond, "*"},
		{550 * time.Millisecond, "A"},
	}
	for _, s := range steps {
		clock.Set(epoch.Add(s.at))
		r.Tick()
		if got := cells[core.P(1, 1)].Glyph; got != s.want {
			t.Errorf("at %v glyph = %q, want %q", s.at, got, s.want)
		}
	}

	clock.Set(epoch.Add(700 * time.Millisecond))
	r.Tick()
	if got := cells[core.P(1, 1)]; !got.Equals(core.NewCell("A", core.Green, core.NoColor)) {
		t.Errorf("after completion cell = %+v, want original", got)
	}
	if completed != 1 {
		t.Errorf("OnComplete calls = %d, want 1", completed)
	}
}

func TestFlashOnEmptyCellRestoresEmpty(t *testing.T) {
	r, clock := newTestRegistry()
	cells := memCells{}

	id := r.Flash(cells, core.P(0, 0), FlashOptions{})
	clock.Advance(10 * time.Millisecond)
	r.Tick()
	if got := cells[core.P(0, 0)].Glyph; got != DefaultFlashGlyph {
		t.Fatalf("flash glyph = %q, want %q", got, DefaultFlashGlyph)
	}

	r.Stop(id)
	if _, ok := cells[core.P(0, 0)]; ok {
		t.Error("stopping a flash on an empty cell should leave it empty")
	}
}

func TestPulseIntensity(t *testing.T) {
	r, clock := newTestRegistry()
	base := core.Color{Kind: core.ColorRGB, R: 1, G: 0.5, B: 0}
	cells := memCells{core.P(0, 0): core.NewCell("@", core.NoColor, core.NoColor)}

	r.Pulse(cells, core.P(0, 0), PulseOptions{
		Options: Options{Duration: time.Second},
		Color:   base,
	})

	clock.Advance(500 * time.Millisecond)
	r.Tick()
	got := cells[core.P(0, 0)]
	if got.Glyph != "@" {
		t.Errorf("pulse changed glyph to %q", got.Glyph)
	}
	if !got.Fg.Equals(base.Scale(DefaultMaxIntensity)) {
		t.Errorf("peak fg = %v, want %v", got.Fg, base.Scale(DefaultMaxIntensity))
	}

	clock.Advance(250 * time.Millisecond)
	r.Tick()
	want := base.Scale(DefaultMinIntensity + (DefaultMaxIntensity-DefaultMinIntensity)*0.5)
	if got := cells[core.P(0, 0)].Fg; !got.Equals(want) {
		t.Errorf("fg at 0.75 = %v, want %v", got, want)
	}

	clock.Advance(time.Second)
	r.Tick()
	if got := cells[core.P(0, 0)]; got.Fg.IsSet() {
		t.Errorf("completed pulse should restore original fg, got %v", got.Fg)
	}
}

func TestPulseBackgroundDefaultsToCellColor(t *testing.T) {
	r, clock := newTestRegistry()
	cells := memCells{core.P(2, 0): core.NewCell("#", core.NoColor, core.Blue)}

	r.Pulse(cells, core.P(2, 0), PulseOptions{
		Options: Options{Duration: time.Second},
		Target:  PulseBackground,
	})
	clock.Advance(500 * time.Millisecond)
	r.Tick()

	if got := cells[core.P(2, 0)].Bg; !got.Equals(core.Blue.Scale(1)) {
		t.Errorf("bg = %v, want %v", got, core.Blue.Scale(1))
	}
}

func TestStopAllRestoresNewestFirst(t *testing.T) {
	r, clock := newTestRegistry()
	orig := core.NewCell("o", core.NoColor, core.NoColor)
	cells := memCells{core.P(0, 0): orig}

	r.Flash(cells, core.P(0, 0), FlashOptions{Glyph: "1"})
	clock.Advance(time.Millisecond)
	r.Tick()
	// Second flash captures the first flash's glyph.
	r.Flash(cells, core.P(0, 0), FlashOptions{Glyph: "2"})
	r.Tick()

	r.StopAll()
	if got := cells[core.P(0, 0)]; !got.Equals(orig) {
		t.Errorf("after StopAll cell = %+v, want %+v", got, orig)
	}
	if r.ActiveCount() != 0 {
		t.Errorf("ActiveCount = %d, want 0", r.ActiveCount())
	}
}
