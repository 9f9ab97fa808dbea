package watcher

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// TemplateChangedHandler is called with a template's name after it is
// reloaded from disk.
type TemplateChangedHandler func(name string)

// Watcher hot-reloads the template library when files in the template
// directory change, so open documents can re-reconcile against the new
// shape on their next render pass.
type Watcher struct {
	watcher  *fsnotify.Watcher
	lib      *TemplateLibrary
	onChange TemplateChangedHandler
}

// New creates a watcher over dir, loading the library's initial
// contents before watching.
func New(dir string, lib *TemplateLibrary, onChange TemplateChangedHandler) (*Watcher, error) {
	if err := lib.LoadDir(dir); err != nil {
		log.Printf("template watcher: initial load: %v", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch template dir: %w", err)
	}

	w := &Watcher{watcher: fsw, lib: lib, onChange: onChange}
	go w.watchLoop()
	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".json") {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				name, err := w.lib.LoadFile(event.Name)
				if err != nil {
					log.Printf("template watcher: reload %s: %v", event.Name, err)
					continue
				}
				if w.onChange != nil {
					w.onChange(name)
				}
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				name := strings.TrimSuffix(filepath.Base(event.Name), ".json")
				w.lib.Remove(name)
				if w.onChange != nil {
					w.onChange(name)
				}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("template watcher: %v", err)
		}
	}
}
