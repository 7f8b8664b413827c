// Package config loads cellgrid settings.
//
// Settings come from built-in defaults, then an optional TOML file, then
// CELLGRID_* environment variables. The result is a plain Config value;
// a Watcher reloads it when the file changes.
//
// Example file:
//
//	[engine]
//	safe_mode = false
//	clear_color = "#101010"
//	render_order = ["background", "default", "ui"]
//
//	[animation]
//	default_duration = "750ms"
//	default_easing = "easeOut"
//
//	[frame]
//	fps = 30
//
//	[log]
//	level = "info"
//	file = "gridplay.log"
package config

import (
	"fmt"
	"time"

	"github.com/dshills/cellgrid/internal/config/loader"
	"github.com/dshills/cellgrid/internal/logging"
	"github.com/dshills/cellgrid/internal/renderer"
	"github.com/dshills/cellgrid/internal/renderer/animation"
	"github.com/dshills/cellgrid/internal/renderer/core"
	"github.com/dshills/cellgrid/internal/renderer/layer"
)

// DefaultFPS is the frame rate used when none is configured.
const DefaultFPS = 30

// Config is the complete set of cellgrid settings.
type Config struct {
	Engine    EngineConfig    `toml:"engine"`
	Animation AnimationConfig `toml:"animation"`
	Frame     FrameConfig     `toml:"frame"`
	Log       LogConfig       `toml:"log"`
}

// EngineConfig holds the engine's bounds policy and frame flags.
type EngineConfig struct {
	SafeMode     bool     `toml:"safe_mode"`
	ClipMode     bool     `toml:"clip_mode"`
	AutoClear    bool     `toml:"auto_clear"`
	ClearColor   string   `toml:"clear_color"`
	DefaultLayer string   `toml:"default_layer"`
	RenderOrder  []string `toml:"render_order"`
}

// AnimationConfig holds registry defaults.
type AnimationConfig struct {
	DefaultDuration Duration `toml:"default_duration"`
	DefaultEasing   string   `toml:"default_easing"`
}

// FrameConfig controls the host frame loop.
type FrameConfig struct {
	FPS int `toml:"fps"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Duration is a time.Duration written as a string ("750ms", "2s").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			SafeMode:     false,
			ClipMode:     true,
			AutoClear:    true,
			DefaultLayer: layer.DefaultLayer,
		},
		Animation: AnimationConfig{
			DefaultDuration: Duration{animation.DefaultDuration},
			DefaultEasing:   animation.Linear.String(),
		},
		Frame: FrameConfig{FPS: DefaultFPS},
		Log:   LogConfig{Level: "info"},
	}
}

// Loader assembles a Config from its sources.
type Loader struct {
	// FS is the file system the TOML file is read from.
	FS loader.FileSystem
	// LookupEnv reads environment variables.
	LookupEnv func(string) (string, bool)
}

// NewLoader returns a loader for the OS file system and process environment.
func NewLoader() *Loader {
	return &Loader{FS: loader.DefaultFS()}
}

// Load reads path (which may be empty or missing) and the environment
// on top of the defaults. The result is not validated.
func (l *Loader) Load(path string) (*Config, error) {
	cfg := Default()

	merged, err := loader.LoadAll(
		loader.NewTOMLLoaderWithFS(l.FS, path),
		loader.NewEnvLoaderWithLookup(envMapping(), l.LookupEnv),
	)
	if err != nil {
		return nil, err
	}

	source := path
	if source == "" {
		source = "environment"
	}
	if err := loader.Decode(source, merged, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads configuration from path and the process environment.
// A missing file is not an error: the defaults (plus environment) apply.
func Load(path string) (*Config, error) {
	return NewLoader().Load(path)
}

// LoadAndValidate loads and validates in one step.
func LoadAndValidate(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first unacceptable setting as a *ValidationError.
func (c *Config) Validate() error {
	if c.Frame.FPS <= 0 {
		return &ValidationError{
			Path:    "frame.fps",
			Message: "must be greater than zero",
			Value:   c.Frame.FPS,
			Code:    ErrCodeOutOfRange,
		}
	}
	if c.Animation.DefaultDuration.Duration < 0 {
		return &ValidationError{
			Path:    "animation.default_duration",
			Message: "must not be negative",
			Value:   c.Animation.DefaultDuration,
			Code:    ErrCodeOutOfRange,
		}
	}
	if _, err := animation.ParseEasing(c.Animation.DefaultEasing); err != nil {
		return &ValidationError{
			Path:    "animation.default_easing",
			Message: "unknown easing",
			Value:   c.Animation.DefaultEasing,
			Code:    ErrCodeInvalidEnum,
		}
	}
	if _, err := core.ParseColor(c.Engine.ClearColor); err != nil {
		return &ValidationError{
			Path:    "engine.clear_color",
			Message: "not a color name or hex triple",
			Value:   c.Engine.ClearColor,
			Code:    ErrCodeInvalidFormat,
		}
	}
	if _, ok := logging.ParseLevel(c.Log.Level); !ok {
		return &ValidationError{
			Path:    "log.level",
			Message: "unknown log level",
			Value:   c.Log.Level,
			Code:    ErrCodeInvalidEnum,
		}
	}
	return nil
}

// FrameInterval returns the time between frames at the configured rate.
func (c *Config) FrameInterval() time.Duration {
	if c.Frame.FPS <= 0 {
		return time.Second / DefaultFPS
	}
	return time.Second / time.Duration(c.Frame.FPS)
}

// LogLevel returns the parsed log level, info when unrecognized.
func (c *Config) LogLevel() logging.Level {
	level, _ := logging.ParseLevel(c.Log.Level)
	return level
}

// EngineOptions converts the settings into renderer options.
func (c *Config) EngineOptions() (renderer.Options, error) {
	opts := renderer.DefaultOptions()
	opts.SafeMode = c.Engine.SafeMode
	opts.ClipMode = c.Engine.ClipMode
	opts.AutoClear = c.Engine.AutoClear

	bg, err := core.ParseColor(c.Engine.ClearColor)
	if err != nil {
		return opts, fmt.Errorf("engine.clear_color: %w", err)
	}
	opts.ClearColor = bg

	easing, err := animation.ParseEasing(c.Animation.DefaultEasing)
	if err != nil {
		return opts, fmt.Errorf("animation.default_easing: %w", err)
	}
	opts.DefaultEasing = easing
	if c.Animation.DefaultDuration.Duration > 0 {
		opts.DefaultDuration = c.Animation.DefaultDuration.Duration
	}
	return opts, nil
}

// Apply configures a new engine: frame flags plus layer setup.
func (c *Config) Apply(e *renderer.Engine) {
	c.ApplyFlags(e)
	if len(c.Engine.RenderOrder) > 0 {
		e.SetRenderOrder(c.Engine.RenderOrder...)
	}
	if c.Engine.DefaultLayer != "" {
		e.UseLayer(c.Engine.DefaultLayer)
	}
}

// ApplyFlags pushes the reloadable settings onto a running engine.
// An invalid color leaves the current clear color in place.
func (c *Config) ApplyFlags(e *renderer.Engine) {
	e.SetSafeMode(c.Engine.SafeMode)
	e.SetClipMode(c.Engine.ClipMode)
	e.SetAutoClear(c.Engine.AutoClear)
	if bg, err := core.ParseColor(c.Engine.ClearColor); err == nil {
		e.SetClearColor(bg)
	}
}
