package config

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the user config file whenever it changes on disk, so a
// long-running gitline process picks up edits made by another process.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	onChange  func(*Config)
	errs      chan error
}

// NewWatcher starts watching the user config directory and invokes onChange
// with the freshly reloaded Config each time the file is written.
func NewWatcher(onChange func(*Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating filesystem watcher: %w", err)
	}
	dir := userConfigDir()
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	w := &Watcher{fsWatcher: fw, onChange: onChange, errs: make(chan error, 8)}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := Load()
			if err != nil {
				w.errs <- err
				continue
			}
			w.onChange(cfg)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.errs <- err
		}
	}
}

// Errors returns a channel of errors encountered while watching or reloading.
func (w *Watcher) Errors() <-chan error { return w.errs }

// Close stops the watcher.
func (w *Watcher) Close() error { return w.fsWatcher.Close() }
