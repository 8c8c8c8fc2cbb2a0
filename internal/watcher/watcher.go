package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher emits on Changes once writes to one file have settled.
// The parent directory is watched so editors that save by rename are seen.
type FileWatcher struct {
	path     string
	fs       *fsnotify.Watcher
	debounce *Debouncer
	changes  chan struct{}
	errs     chan error
	done     chan struct{}
	once     sync.Once
}

// Watch starts watching path. Close releases the underlying watcher.
func Watch(path string, debounce time.Duration) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	w := &FileWatcher{
		path:     abs,
		fs:       fsw,
		debounce: NewDebouncer(debounce),
		changes:  make(chan struct{}, 1),
		errs:     make(chan error, 1),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *FileWatcher) Path() string { return w.path }

// Changes receives one value per settled burst. Bursts that arrive while a
// previous notification is still unread are merged into it.
func (w *FileWatcher) Changes() <-chan struct{} { return w.changes }

func (w *FileWatcher) Errors() <-chan error { return w.errs }

// Done is closed by Close.
func (w *FileWatcher) Done() <-chan struct{} { return w.done }

func (w *FileWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		w.debounce.Cancel()
		err = w.fs.Close()
	})
	return err
}

func (w *FileWatcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.debounce.Trigger(w.notify)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}

func (w *FileWatcher) notify() {
	select {
	case <-w.done:
	case w.changes <- struct{}{}:
	default:
	}
}
