package agentdesk

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const stateReloadDebounce = 100 * time.Millisecond

// StateFileWatcher reloads the store snapshot when the state file changes
// on disk, so externally edited state is picked up without a restart.
// Reload is idempotent, so the watcher does not distinguish the store's own
// writes from external ones; it only debounces bursts.
type StateFileWatcher struct {
	store   *Store
	path    string
	log     *zap.Logger
	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// WatchStateFile starts watching the state file's directory. The directory is
// watched rather than the file because atomic rename-based saves replace the
// inode and would drop a file-level watch.
func WatchStateFile(store *Store, path string, log *zap.Logger) (*StateFileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	w := &StateFileWatcher{
		store:   store,
		path:    filepath.Clean(path),
		log:     log,
		watcher: watcher,
		done:    make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

func (w *StateFileWatcher) run() {
	defer w.wg.Done()
	var pending *time.Timer
	var pendingC <-chan time.Time
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if pending == nil {
				pending = time.NewTimer(stateReloadDebounce)
				pendingC = pending.C
			} else {
				if !pending.Stop() {
					select {
					case <-pending.C:
					default:
					}
				}
				pending.Reset(stateReloadDebounce)
			}
		case <-pendingC:
			pending = nil
			pendingC = nil
			if err := w.store.Reload(); err != nil {
				w.log.Warn("state file reload failed", zap.String("path", w.path), zap.Error(err))
				continue
			}
			w.log.Info("state file reloaded", zap.String("path", w.path))
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("state file watcher error", zap.Error(err))
		}
	}
}

func (w *StateFileWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}
