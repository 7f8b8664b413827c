package loader

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Kind is the type an environment value is converted to.
type Kind uint8

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindDuration
)

// EnvVar maps one environment variable onto a configuration path.
type EnvVar struct {
	Path string // dot-separated, e.g. "engine.safe_mode"
	Kind Kind
}

// EnvLoader loads configuration from environment variables.
type EnvLoader struct {
	mapping map[string]EnvVar
	lookup  func(string) (string, bool)
}

// NewEnvLoader creates a loader reading the process environment.
func NewEnvLoader(mapping map[string]EnvVar) *EnvLoader {
	return NewEnvLoaderWithLookup(mapping, os.LookupEnv)
}

// NewEnvLoaderWithLookup creates a loader with a custom variable source.
func NewEnvLoaderWithLookup(mapping map[string]EnvVar, lookup func(string) (string, bool)) *EnvLoader {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &EnvLoader{
		mapping: mapping,
		lookup:  lookup,
	}
}

// Load reads the mapped variables. Unset variables are skipped;
// an empty value is a value. A variable that does not convert to its
// kind is an error naming the variable.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)
	for name, v := range l.mapping {
		raw, ok := l.lookup(name)
		if !ok {
			continue
		}
		val, err := parseValue(v.Kind, raw)
		if err != nil {
			return nil, fmt.Errorf("environment %s: %w", name, err)
		}
		setByPath(config, v.Path, val)
	}
	return config, nil
}

// parseValue converts s to the representation Decode expects for kind.
func parseValue(kind Kind, s string) (any, error) {
	s = strings.TrimSpace(s)
	switch kind {
	case KindBool:
		switch strings.ToLower(s) {
		case "true", "yes", "on", "1":
			return true, nil
		case "false", "no", "off", "0":
			return false, nil
		}
		return nil, fmt.Errorf("invalid boolean %q", s)
	case KindInt:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", s)
		}
		return i, nil
	case KindDuration:
		// Durations travel as strings; the target type parses them.
		if _, err := time.ParseDuration(s); err != nil {
			return nil, fmt.Errorf("invalid duration %q", s)
		}
		return s, nil
	default:
		return s, nil
	}
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data

	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}

	current[parts[len(parts)-1]] = value
}
