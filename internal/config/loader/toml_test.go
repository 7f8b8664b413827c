package loader

import (
	"errors"
	"testing"
	"testing/fstest"
)

func TestTOMLLoader_Load(t *testing.T) {
	fsys := fstest.MapFS{
		"cellgrid.toml": {Data: []byte(`
[engine]
safe_mode = true
render_order = ["bg", "fg"]

[frame]
fps = 60
`)},
	}

	config, err := NewTOMLLoaderWithFS(fsys, "cellgrid.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	engine, ok := config["engine"].(map[string]any)
	if !ok {
		t.Fatal("expected engine to be a map")
	}
	if engine["safe_mode"] != true {
		t.Errorf("expected safe_mode true, got %v", engine["safe_mode"])
	}
	order, ok := engine["render_order"].([]any)
	if !ok || len(order) != 2 || order[0] != "bg" {
		t.Errorf("expected render_order [bg fg], got %v", engine["render_order"])
	}

	frame := config["frame"].(map[string]any)
	if frame["fps"] != int64(60) {
		t.Errorf("expected fps 60, got %v (%T)", frame["fps"], frame["fps"])
	}
}

func TestTOMLLoader_LoadNonExistent(t *testing.T) {
	config, err := NewTOMLLoaderWithFS(fstest.MapFS{}, "missing.toml").Load()
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if config != nil {
		t.Error("expected nil config for missing file")
	}
}

func TestTOMLLoader_EmptyPath(t *testing.T) {
	config, err := NewTOMLLoaderWithFS(fstest.MapFS{}, "").Load()
	if err != nil || config != nil {
		t.Errorf("expected nil, nil for empty path, got %v, %v", config, err)
	}
}

func TestTOMLLoader_LoadInvalid(t *testing.T) {
	fsys := fstest.MapFS{
		"bad.toml": {Data: []byte("[engine\nsafe_mode = true\n")},
	}

	_, err := NewTOMLLoaderWithFS(fsys, "bad.toml").Load()
	if err == nil {
		t.Fatal("expected parse error")
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if parseErr.Path != "bad.toml" {
		t.Errorf("expected path bad.toml, got %q", parseErr.Path)
	}
	if parseErr.Line < 1 {
		t.Errorf("expected a line number, got %d", parseErr.Line)
	}
	if parseErr.Unwrap() == nil {
		t.Error("expected wrapped decoder error")
	}
}

func TestDecode(t *testing.T) {
	type section struct {
		Name  string `toml:"name"`
		Count int    `toml:"count"`
	}
	type doc struct {
		A section `toml:"a"`
	}

	v := doc{A: section{Name: "keep", Count: 1}}
	err := Decode("test", map[string]any{
		"a": map[string]any{"count": int64(7)},
	}, &v)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if v.A.Count != 7 {
		t.Errorf("expected count 7, got %d", v.A.Count)
	}
	if v.A.Name != "keep" {
		t.Errorf("expected untouched name, got %q", v.A.Name)
	}

	err = Decode("test", map[string]any{
		"a": map[string]any{"count": "many"},
	}, &v)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError for type mismatch, got %v", err)
	}
	if parseErr.Path != "test" {
		t.Errorf("expected path test, got %q", parseErr.Path)
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"engine": map[string]any{"safe_mode": false, "clip_mode": true},
		"frame":  map[string]any{"fps": int64(30)},
	}
	src := map[string]any{
		"engine": map[string]any{"safe_mode": true},
		"log":    map[string]any{"level": "debug"},
	}

	result := DeepMerge(dst, src)

	engine := result["engine"].(map[string]any)
	if engine["safe_mode"] != true {
		t.Errorf("expected src to override safe_mode, got %v", engine["safe_mode"])
	}
	if engine["clip_mode"] != true {
		t.Errorf("expected clip_mode preserved, got %v", engine["clip_mode"])
	}
	if _, ok := result["log"]; !ok {
		t.Error("expected log section added")
	}
	if result["frame"].(map[string]any)["fps"] != int64(30) {
		t.Error("expected frame section preserved")
	}
}

func TestDeepMerge_ScalarReplacesMap(t *testing.T) {
	result := DeepMerge(
		map[string]any{"a": map[string]any{"b": 1}},
		map[string]any{"a": "flat"},
	)
	if result["a"] != "flat" {
		t.Errorf("expected scalar to replace map, got %v", result["a"])
	}
}

func TestLoadAll_LaterSourcesWin(t *testing.T) {
	fsys := fstest.MapFS{
		"c.toml": {Data: []byte("[frame]\nfps = 24\n[log]\nlevel = \"warn\"\n")},
	}
	env := NewEnvLoaderWithLookup(map[string]EnvVar{
		"FPS": {Path: "frame.fps", Kind: KindInt},
	}, func(name string) (string, bool) {
		if name == "FPS" {
			return "12", true
		}
		return "", false
	})

	merged, err := LoadAll(NewTOMLLoaderWithFS(fsys, "c.toml"), env)
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if got := merged["frame"].(map[string]any)["fps"]; got != int64(12) {
		t.Errorf("expected env fps 12, got %v", got)
	}
	if got := merged["log"].(map[string]any)["level"]; got != "warn" {
		t.Errorf("expected file log level warn, got %v", got)
	}
}
