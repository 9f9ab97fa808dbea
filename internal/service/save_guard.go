package service

import (
	"context"
	"sync"
)

// ExportedSaveGuard is an exported alias so _test packages can test the guard.
type ExportedSaveGuard = saveGuard

// ─────────────────────────────────────────────────────────────
// saveGuard — prevents concurrent persistence of one document
// ─────────────────────────────────────────────────────────────

// saveGuard ensures an autosave never overlaps an explicit save (or
// another autosave) for the same document id.
type saveGuard struct {
	mu      sync.Mutex
	running map[string]struct{}
	wg      sync.WaitGroup
}

// TryLock attempts to mark docID as being persisted. Returns false if
// a save for that document is already in flight.
func (g *saveGuard) TryLock(docID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running == nil {
		g.running = make(map[string]struct{})
	}
	if _, ok := g.running[docID]; ok {
		return false
	}
	g.running[docID] = struct{}{}
	g.wg.Add(1)
	return true
}

// Unlock releases a save slot. Must be called after TryLock returns true.
func (g *saveGuard) Unlock(docID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.running, docID)
	g.wg.Done()
}

// WaitAll blocks until every in-flight save completes or ctx is
// cancelled. Used on shutdown so the last autosave lands.
func (g *saveGuard) WaitAll(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
