package game

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// FileWatcher watches config directories and calls onChange with the path
// of every changed YAML or JSON file. Bursts of events for the same path
// inside the debounce window are collapsed into one call.
type FileWatcher struct {
	Dirs     []string
	Debounce time.Duration
	onChange func(string)

	w      *fsnotify.Watcher
	stopCh chan struct{}
	once   sync.Once

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewFileWatcher creates a watcher for the given directories.
func NewFileWatcher(dirs []string, debounce time.Duration, onChange func(string)) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			_ = w.Close()
			return nil, err
		}
	}
	return &FileWatcher{
		Dirs:     dirs,
		Debounce: debounce,
		onChange: onChange,
		w:        w,
		stopCh:   make(chan struct{}),
		pending:  make(map[string]*time.Timer),
	}, nil
}

// Start begins delivering events in a goroutine.
func (fw *FileWatcher) Start() {
	go func() {
		for {
			select {
			case ev, ok := <-fw.w.Events:
				if !ok {
					return
				}
				if !relevant(ev) {
					continue
				}
				fw.schedule(ev.Name)
			case err, ok := <-fw.w.Errors:
				if !ok {
					return
				}
				log.Warnf("config watcher error: %v", err)
			case <-fw.stopCh:
				return
			}
		}
	}()
}

// Stop terminates the watcher. It is safe to call more than once.
func (fw *FileWatcher) Stop() {
	fw.once.Do(func() {
		close(fw.stopCh)
		_ = fw.w.Close()
		fw.mu.Lock()
		for _, t := range fw.pending {
			t.Stop()
		}
		fw.mu.Unlock()
	})
}

func (fw *FileWatcher) schedule(path string) {
	if fw.Debounce <= 0 {
		fw.fire(path)
		return
	}
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if t, ok := fw.pending[path]; ok {
		t.Reset(fw.Debounce)
		return
	}
	fw.pending[path] = time.AfterFunc(fw.Debounce, func() {
		fw.mu.Lock()
		delete(fw.pending, path)
		fw.mu.Unlock()
		fw.fire(path)
	})
}

func (fw *FileWatcher) fire(path string) {
	select {
	case <-fw.stopCh:
		return
	default:
	}
	if fw.onChange != nil {
		fw.onChange(path)
	}
}

func relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	switch strings.ToLower(filepath.Ext(ev.Name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
