// Package main is the entry point for gridplay, a terminal host for the
// cellgrid rendering engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/dshills/cellgrid/internal/app"
	"github.com/dshills/cellgrid/internal/config"
	"github.com/dshills/cellgrid/internal/export"
	"github.com/dshills/cellgrid/internal/logging"
	"github.com/dshills/cellgrid/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default grid size for -dump when no snapshot sets one.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

type options struct {
	configPath string
	scriptPath string
	replayPath string
	jsonPath   string
	logLevel   string
	logFile    string
	fps        int
	width      int
	height     int
	safe       bool
	dump       bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logger, closeLog, err := openLogger(cfg, opts.dump || opts.jsonPath != "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	var snap *export.Snapshot
	if opts.replayPath != "" {
		data, err := os.ReadFile(opts.replayPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to read snapshot: %v\n", err)
			return 1
		}
		if snap, err = export.ReadJSON(data); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", opts.replayPath, err)
			return 1
		}
	}

	playerOpts := app.Options{
		Config:   cfg,
		Script:   opts.scriptPath,
		Snapshot: snap,
		Logger:   logger,
	}

	if opts.dump || opts.jsonPath != "" {
		return dump(opts, playerOpts)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintf(os.Stderr, "Error: stdout is not a terminal (use -dump for headless output)\n")
		return 1
	}

	playerOpts.ConfigPath = opts.configPath
	if err := runTerminal(playerOpts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// runTerminal plays on the controlling terminal until a quit key or
// signal. The terminal is restored before any error is returned.
func runTerminal(playerOpts app.Options) error {
	terminal, err := backend.NewTerminal()
	if err != nil {
		return fmt.Errorf("failed to create terminal: %w", err)
	}
	if err := terminal.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	defer terminal.Shutdown()

	playerOpts.Surface = backend.NewBuffered(terminal)
	playerOpts.Events = terminal

	player, err := app.New(playerOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer player.Shutdown()

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	go func() {
		if _, ok := <-signals; ok {
			player.Shutdown()
		}
	}()

	return player.Run(context.Background())
}

// loadConfig reads the file and environment, then applies flag overrides.
func loadConfig(opts options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.fps > 0 {
		cfg.Frame.FPS = opts.fps
	}
	if opts.safe {
		cfg.Engine.SafeMode = true
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logFile != "" {
		cfg.Log.File = opts.logFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openLogger logs to the configured file. Without one, headless runs
// log to stderr and terminal runs discard logs.
func openLogger(cfg *config.Config, headless bool) (*logging.Logger, func(), error) {
	if cfg.Log.File != "" {
		logger, closeFn, err := logging.OpenFile(cfg.Log.File, cfg.LogLevel())
		if err != nil {
			return nil, nil, err
		}
		return logger, func() { _ = closeFn() }, nil
	}
	if headless {
		return logging.New(logging.Config{
			Level:  cfg.LogLevel(),
			Output: os.Stderr,
			Prefix: "gridplay",
		}), func() {}, nil
	}
	return logging.Null(), func() {}, nil
}

// dump renders a single frame to an in-memory surface and writes the
// text and JSON exports.
func dump(opts options, playerOpts app.Options) int {
	width, height := opts.width, opts.height
	if snap := playerOpts.Snapshot; snap != nil {
		if width == 0 {
			width = snap.Width
		}
		if height == 0 {
			height = snap.Height
		}
	}
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	playerOpts.Surface = backend.NewRecorder(width, height)
	player, err := app.New(playerOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer player.Shutdown()

	if err := player.Frame(time.Now()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	cells := player.Engine().Composite()

	if opts.dump {
		fmt.Println(export.Text(cells, width, height))
	}

	if opts.jsonPath != "" {
		data, err := export.JSON(cells, width, height)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		if err := writeOutput(opts.jsonPath, data); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}
	return 0
}

// writeOutput writes data to path, or to stdout when path is "-".
func writeOutput(path string, data []byte) error {
	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file (watched for changes)")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.scriptPath, "script", "", "Lua scene script")
	flag.StringVar(&opts.scriptPath, "s", "", "Lua scene script (shorthand)")
	flag.StringVar(&opts.replayPath, "replay", "", "Paint a JSON snapshot")
	flag.StringVar(&opts.jsonPath, "json", "", "Write one frame as a JSON snapshot (- for stdout)")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.logFile, "log", "", "Log file")
	flag.IntVar(&opts.fps, "fps", 0, "Frames per second")
	flag.IntVar(&opts.width, "width", 0, "Grid width for -dump and -json")
	flag.IntVar(&opts.height, "height", 0, "Grid height for -dump and -json")
	flag.BoolVar(&opts.safe, "safe", false, "Enable safe mode")
	flag.BoolVar(&opts.dump, "dump", false, "Print one frame as text and exit")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "gridplay - cellgrid terminal host\n\n")
		fmt.Fprintf(os.Stderr, "Usage: gridplay [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment:\n  %s\n", strings.Join(config.EnvVars(), "\n  "))
		fmt.Fprintf(os.Stderr, "\nKeys:\n  q, Esc, Ctrl-C    Quit\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  gridplay                           Run the demo scene\n")
		fmt.Fprintf(os.Stderr, "  gridplay -s scene.lua -fps 60      Run a script at 60 fps\n")
		fmt.Fprintf(os.Stderr, "  gridplay -s scene.lua -json out.json\n")
		fmt.Fprintf(os.Stderr, "                                     Save the first frame\n")
		fmt.Fprintf(os.Stderr, "  gridplay -replay out.json -dump    Print a saved frame as text\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("gridplay %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if opts.logLevel != "" {
		if _, ok := logging.ParseLevel(opts.logLevel); !ok {
			fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.logLevel)
			os.Exit(1)
		}
	}
	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unexpected arguments: %s\n", strings.Join(flag.Args(), " "))
		os.Exit(1)
	}

	return opts
}
