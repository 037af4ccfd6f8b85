package dictionary

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bastiangx/typeahead/pkg/vocab"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 150 * time.Millisecond

// Watcher rebuilds the index whenever the word list at path changes.
// A failed rebuild is logged and the previous index stays in use.
type Watcher struct {
	path     string
	isDir    bool
	debounce time.Duration
	fw       *fsnotify.Watcher
	updates  chan *vocab.Index
}

// NewWatcher watches path, a word list file or a chunk directory.
// A non-positive debounce selects DefaultDebounce.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", abs, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	// Watch the parent of a file so rename-on-save editors keep being seen.
	dir := abs
	if !fi.IsDir() {
		dir = filepath.Dir(abs)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	return &Watcher{
		path:     abs,
		isDir:    fi.IsDir(),
		debounce: debounce,
		fw:       fw,
		updates:  make(chan *vocab.Index, 1),
	}, nil
}

// Updates delivers each successfully rebuilt index. It is closed when Run returns.
func (w *Watcher) Updates() <-chan *vocab.Index {
	return w.updates
}

// Run processes file events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.updates)
	defer w.fw.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) || !w.matches(ev.Name) {
				continue
			}
			log.Debugf("Word list event: %s", ev)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			log.Warnf("File watcher error: %v", err)

		case <-fire:
			fire = nil
			ix, err := LoadIndex(w.path)
			if err != nil {
				log.Errorf("Reload of %s failed, keeping current vocabulary: %v", w.path, err)
				continue
			}
			log.Infof("Reloaded %d words from %s", ix.Len(), w.path)
			select {
			case w.updates <- ix:
			case <-ctx.Done():
				return
			}
		}
	}
}

// Close stops the underlying watcher; Run returns soon after.
func (w *Watcher) Close() error {
	return w.fw.Close()
}

func (w *Watcher) matches(name string) bool {
	name = filepath.Clean(name)
	if !w.isDir {
		return name == w.path
	}
	base := filepath.Base(name)
	return filepath.Dir(name) == w.path && strings.HasPrefix(base, "dict_") && strings.HasSuffix(base, ".bin")
}
