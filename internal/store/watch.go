package store

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads the store when another process writes the backing
// file, then notifies the registered callback. This is the cross-tab
// change notification: without it a second tab's writes stay invisible
// until the next process start.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	store    *Store
	onChange func()
	log      *zap.Logger

	debounce time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// NewWatcher builds a watcher for the store's backing file. onChange is
// invoked after each reload; it must be safe to call from the watcher
// goroutine.
func NewWatcher(s *Store, onChange func(), log *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:  fsw,
		store:    s,
		onChange: onChange,
		log:      log,
		debounce: 250 * time.Millisecond,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; events are handled on a
// background goroutine until Stop is called.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	// Watch the directory rather than the file so replace-by-rename
	// writes from other processes are still observed.
	if err := w.watcher.Add(filepath.Dir(w.store.Path())); err != nil {
		return err
	}
	w.running = true

	go w.loop()
	return nil
}

// Stop shuts the watcher down and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	w.watcher.Close()
}

func (w *Watcher) loop() {
	defer close(w.doneCh)

	target := filepath.Clean(w.store.Path())

	// Each matching event re-arms the timer, so the reload runs once
	// the file has been quiet for the debounce window. The reload must
	// happen after the last write of a burst, not the first, or the
	// tail of the burst is lost until the next external write.
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
		case <-timer.C:
			w.log.Debug("store file changed externally, reloading",
				zap.String("path", target))
			w.store.Reload()
			if w.onChange != nil {
				w.onChange()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("store watcher error", zap.Error(err))
		}
	}
}
