package config

import (
	"slices"

	"github.com/dshills/cellgrid/internal/config/loader"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "CELLGRID_"

// envMapping lists the environment overrides. They are applied after
// the configuration file.
func envMapping() map[string]loader.EnvVar {
	return map[string]loader.EnvVar{
		EnvPrefix + "SAFE_MODE":        {Path: "engine.safe_mode", Kind: loader.KindBool},
		EnvPrefix + "CLIP_MODE":        {Path: "engine.clip_mode", Kind: loader.KindBool},
		EnvPrefix + "AUTO_CLEAR":       {Path: "engine.auto_clear", Kind: loader.KindBool},
		EnvPrefix + "CLEAR_COLOR":      {Path: "engine.clear_color", Kind: loader.KindString},
		EnvPrefix + "FPS":              {Path: "frame.fps", Kind: loader.KindInt},
		EnvPrefix + "LOG_LEVEL":        {Path: "log.level", Kind: loader.KindString},
		EnvPrefix + "LOG_FILE":         {Path: "log.file", Kind: loader.KindString},
		EnvPrefix + "DEFAULT_EASING":   {Path: "animation.default_easing", Kind: loader.KindString},
		EnvPrefix + "DEFAULT_DURATION": {Path: "animation.default_duration", Kind: loader.KindDuration},
	}
}

// EnvVars returns the sorted names of the recognized environment variables.
func EnvVars() []string {
	m := envMapping()
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
