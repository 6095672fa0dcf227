package config

import (
	"fmt"
	"log"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce coalesces the write bursts editors produce when
// saving a file.
const reloadDebounce = 100 * time.Millisecond

// Watcher reloads the config file on change and hands the result to a
// callback.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onReload func(*Config)
	stop     chan struct{}
}

// Watch starts watching path and invokes onReload with each
// successfully reloaded configuration. The initial load is the
// caller's responsibility.
func Watch(path string, onReload func(*Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(path); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch config file: %w", err)
	}

	w := &Watcher{
		path:     path,
		watcher:  fw,
		onReload: onReload,
		stop:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Stop ends watching.
func (w *Watcher) Stop() {
	close(w.stop)
	w.watcher.Close()
}

func (w *Watcher) loop() {
	debounce := time.NewTimer(0)
	<-debounce.C

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			debounce.Reset(reloadDebounce)
			select {
			case <-debounce.C:
				cfg, err := Load(w.path)
				if err != nil {
					log.Printf("[Config] Failed to reload %s: %v", w.path, err)
					continue
				}
				log.Printf("[Config] Reloaded %s", w.path)
				w.onReload(cfg)
			case <-w.stop:
				return
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[Config] Watcher error: %v", err)

		case <-w.stop:
			return
		}
	}
}
