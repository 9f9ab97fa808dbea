package watcher

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"blockdoc/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Template Library — named templates loaded from disk
// ─────────────────────────────────────────────────────────────

// TemplateLibrary holds named nested-list templates. Each *.json file
// in the template directory is one template: a JSON array of template
// nodes, named after the file.
type TemplateLibrary struct {
	mu        sync.RWMutex
	templates map[string][]domain.TemplateNode
}

// NewTemplateLibrary creates an empty library.
func NewTemplateLibrary() *TemplateLibrary {
	return &TemplateLibrary{templates: make(map[string][]domain.TemplateNode)}
}

// Get returns a template by name.
func (l *TemplateLibrary) Get(name string) ([]domain.TemplateNode, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	tmpl, ok := l.templates[name]
	return tmpl, ok
}

// Names returns the sorted-insertion list of loaded template names.
func (l *TemplateLibrary) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.templates))
	for name := range l.templates {
		names = append(names, name)
	}
	return names
}

// LoadDir loads every *.json template in dir, replacing the library's
// contents. Unreadable or malformed files are skipped with an error.
func (l *TemplateLibrary) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read template dir: %w", err)
	}

	loaded := make(map[string][]domain.TemplateNode)
	var firstErr error
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		tmpl, err := loadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		loaded[name] = tmpl
	}

	l.mu.Lock()
	l.templates = loaded
	l.mu.Unlock()
	return firstErr
}

// LoadFile loads (or reloads) a single template file into the library
// and returns the template name.
func (l *TemplateLibrary) LoadFile(path string) (string, error) {
	tmpl, err := loadFile(path)
	if err != nil {
		return "", err
	}
	name := strings.TrimSuffix(filepath.Base(path), ".json")
	l.mu.Lock()
	l.templates[name] = tmpl
	l.mu.Unlock()
	return name, nil
}

// Remove drops a template from the library.
func (l *TemplateLibrary) Remove(name string) {
	l.mu.Lock()
	delete(l.templates, name)
	l.mu.Unlock()
}

func loadFile(path string) ([]domain.TemplateNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", path, err)
	}
	var tmpl []domain.TemplateNode
	if err := json.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parse template %s: %w", path, err)
	}
	return tmpl, nil
}
