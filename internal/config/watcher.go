package config

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after a file event before reloading.
const DefaultDebounce = 100 * time.Millisecond

// ReloadFunc receives the result of each reload. On failure cfg is nil
// and err is a *ParseError, *ValidationError or I/O error.
type ReloadFunc func(cfg *Config, err error)

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the debounce duration. Bursts of events closer
// together than d trigger a single reload.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithLoader sets the loader used for reloads.
func WithLoader(l *Loader) WatcherOption {
	return func(w *Watcher) {
		w.loader = l
	}
}

// Watcher reloads a configuration file when it changes.
//
// It watches the file's directory rather than the file itself so that
// editors which replace the file on save keep triggering reloads.
type Watcher struct {
	path     string
	loader   *Loader
	debounce time.Duration
	onReload ReloadFunc

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	timer   *time.Timer
	running bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// NewWatcher creates a watcher for path. It does nothing until Start.
func NewWatcher(path string, onReload ReloadFunc, opts ...WatcherOption) (*Watcher, error) {
	if path == "" {
		return nil, errors.New("config watcher: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		loader:   NewLoader(),
		debounce: DefaultDebounce,
		onReload: onReload,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Start begins watching. Calling Start on a running watcher is a no-op.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		_ = fsw.Close()
		return err
	}

	w.fsw = fsw
	w.closeCh = make(chan struct{})
	w.running = true

	w.wg.Add(1)
	go w.processLoop(fsw, w.closeCh)
	return nil
}

// Stop stops watching and waits for the event loop to exit.
// A pending debounced reload is cancelled.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	close(w.closeCh)
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	fsw := w.fsw
	w.fsw = nil
	w.mu.Unlock()

	w.wg.Wait()
	return fsw.Close()
}

// IsRunning returns whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Reload loads the file now and reports the result to the handler.
func (w *Watcher) Reload() {
	cfg, err := w.loader.Load(w.path)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		cfg = nil
	}
	w.safeCallHandler(cfg, err)
}

// processLoop handles incoming fsnotify events.
func (w *Watcher) processLoop(fsw *fsnotify.Watcher, closeCh <-chan struct{}) {
	defer w.wg.Done()

	for {
		select {
		case <-closeCh:
			return

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if w.relevant(ev) {
				w.schedule()
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.safeCallHandler(nil, err)
		}
	}
}

// relevant reports whether ev may have changed the watched file.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create)
}

// schedule (re)arms the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	running := w.running
	w.timer = nil
	w.mu.Unlock()
	if running {
		w.Reload()
	}
}

// safeCallHandler calls the handler with panic recovery so a failing
// handler cannot stop the watcher.
func (w *Watcher) safeCallHandler(cfg *Config, err error) {
	if w.onReload == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	w.onReload(cfg, err)
}
