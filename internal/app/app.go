package app

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"blockdoc/internal/editor"
	"blockdoc/internal/registry"
	"blockdoc/internal/service"
	"blockdoc/internal/storage"
	"blockdoc/internal/store"
	"blockdoc/internal/watcher"
)

// App is the main Wails application struct.
// All exported methods are available as Wails bindings.
type App struct {
	ctx context.Context

	db        *storage.DB
	docs      *storage.DocumentStore
	registry  *registry.Registry
	store     *store.Store
	surface   *editor.Surface
	lists     *service.ListService
	documents *service.DocumentService
	viewport  *service.ViewportService
	templates *watcher.TemplateLibrary

	tmplWatcher *watcher.Watcher
	scheduler   *cron.Cron

	// Document the autosave scheduler snapshots into
	currentDocID string
}

// New creates a new App.
func New() *App {
	return &App{}
}

// Emit implements service.EventEmitter by forwarding to the frontend.
func (a *App) Emit(ctx context.Context, event string, data any) {
	wailsRuntime.EventsEmit(a.ctx, event, data)
}

// Startup is called when the app starts.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx

	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".local", "share", "blockdoc")
	dbPath := filepath.Join(dataDir, "blockdoc.db")
	templatesDir := filepath.Join(dataDir, "templates")

	db, err := storage.New(dbPath, templatesDir)
	if err != nil {
		wailsRuntime.LogFatalf(ctx, "Failed to open database: %v", err)
		return
	}
	a.db = db

	a.registry = builtinRegistry()
	a.store = store.New(a.registry)
	a.surface = editor.NewSurface(a.store, a.registry)

	a.viewport = service.NewViewportService(db)
	size := a.viewport.LoadViewportSize()
	a.surface.SetViewportWidth(size.Width)

	a.docs = storage.NewDocumentStore(db)
	a.lists = service.NewListService(a.store, a.registry, a.surface, a)
	a.documents = service.NewDocumentService(a.docs, a.store, a)

	// Template files: load once, then hot-reload on change
	a.templates = watcher.NewTemplateLibrary()
	tw, err := watcher.New(templatesDir, a.templates, func(name string) {
		wailsRuntime.EventsEmit(a.ctx, "templates:changed", map[string]string{"name": name})
	})
	if err != nil {
		wailsRuntime.LogErrorf(ctx, "Failed to watch templates: %v", err)
	}
	a.tmplWatcher = tw

	// Autosave the open document every 30s. A save already in flight
	// just skips the tick.
	a.scheduler = cron.New()
	a.scheduler.AddFunc("@every 30s", func() {
		if a.currentDocID != "" {
			a.documents.Autosave(a.ctx, a.currentDocID)
		}
	})
	a.scheduler.Start()
}

// Shutdown is called when the app is closing.
func (a *App) Shutdown(ctx context.Context) {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	// Flush the open document and wait out any in-flight save.
	if a.currentDocID != "" && a.documents != nil {
		a.documents.Save(ctx, a.currentDocID)
	}
	if a.documents != nil {
		waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		a.documents.WaitForSaves(waitCtx)
		cancel()
	}

	if a.tmplWatcher != nil {
		a.tmplWatcher.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}
