package repository

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"bundle-configurator/catalog"
)

const watchDebounce = 100 * time.Millisecond

// CatalogWatcher reports changes to the kind files of a catalog directory.
// Bursts of events are debounced into a single OnChange call.
type CatalogWatcher struct {
	Dir      string
	OnChange func()

	watcher *fsnotify.Watcher
	done    chan struct{}
	logger  *zap.Logger
}

// NewCatalogWatcher creates a watcher for dir that calls onChange after edits settle
func NewCatalogWatcher(dir string, onChange func(), logger *zap.Logger) (*CatalogWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogWatcher{
		Dir:      dir,
		OnChange: onChange,
		watcher:  fw,
		done:     make(chan struct{}),
		logger:   logger,
	}, nil
}

// Start begins watching the directory. On failure the watcher is closed.
func (w *CatalogWatcher) Start() error {
	if err := w.watcher.Add(w.Dir); err != nil {
		w.watcher.Close()
		close(w.done)
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and waits for the loop to exit
func (w *CatalogWatcher) Stop() {
	w.watcher.Close()
	<-w.done
}

func (w *CatalogWatcher) loop() {
	defer close(w.done)

	var pending time.Time
	ticker := time.NewTicker(watchDebounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isKindFile(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending = time.Now()
			}

		case now := <-ticker.C:
			if !pending.IsZero() && now.Sub(pending) >= watchDebounce {
				pending = time.Time{}
				w.logger.Info("catalog files changed", zap.String("dir", w.Dir))
				w.OnChange()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal.
			w.logger.Warn("catalog watch error", zap.Error(err))
		}
	}
}

func isKindFile(name string) bool {
	base := filepath.Base(name)
	if !strings.HasSuffix(base, ".json") {
		return false
	}
	kind := catalog.Kind(strings.TrimSuffix(base, ".json"))
	for _, k := range catalog.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}
