package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeKind classifies which kind of loadable asset a file event touched,
// so hosts can reload just the tuning instead of rebuilding the whole scene.
type ChangeKind int

const (
	ChangeScene ChangeKind = iota
	ChangeTuning
	ChangeScript
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeTuning:
		return "tuning"
	case ChangeScript:
		return "script"
	default:
		return "scene"
	}
}

// Change is one debounced file modification under a watched directory.
type Change struct {
	Kind ChangeKind
	Path string
}

const defaultDebounce = 100 * time.Millisecond

// Watcher reports scene, tuning and script file changes, debounced per path.
// Events and Errors are closed by the watcher goroutine after Close, never
// concurrently with a send.
type Watcher struct {
	fs       *fsnotify.Watcher
	Events   chan Change
	Errors   chan error
	debounce time.Duration
	closeCh  chan struct{}
	once     sync.Once
}

// NewWatcher watches dirs for spec and script edits. A zero debounce uses
// the default window.
func NewWatcher(debounce time.Duration, dirs ...string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fs.Add(dir); err != nil {
			_ = fs.Close()
			return nil, err
		}
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	w := &Watcher{
		fs:       fs,
		Events:   make(chan Change, 16),
		Errors:   make(chan error, 1),
		debounce: debounce,
		closeCh:  make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.Events)
	defer close(w.Errors)
	last := make(map[string]time.Time)
	for {
		select {
		case <-w.closeCh:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			kind, ok := classifyChange(event.Name)
			if !ok {
				continue
			}
			now := time.Now()
			if t, seen := last[event.Name]; seen && now.Sub(t) < w.debounce {
				continue
			}
			last[event.Name] = now
			select {
			case w.Events <- Change{Kind: kind, Path: event.Name}:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			case <-w.closeCh:
				return
			}
		}
	}
}

// classifyChange maps a path to the asset kind it reloads. Tuning files are
// any yaml whose base name starts with "tuning".
func classifyChange(path string) (ChangeKind, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".tengo":
		return ChangeScript, true
	case ".yaml", ".yml":
		if strings.HasPrefix(strings.ToLower(filepath.Base(path)), "tuning") {
			return ChangeTuning, true
		}
		return ChangeScene, true
	}
	return 0, false
}
