package service

import (
	"context"
	"fmt"

	"blockdoc/internal/domain"
	"blockdoc/internal/storage"
	"blockdoc/internal/store"
)

// ─────────────────────────────────────────────────────────────
// Document Service — snapshot persistence for block documents
// ─────────────────────────────────────────────────────────────

// DocumentService saves and restores whole-document snapshots.
type DocumentService struct {
	docs    *storage.DocumentStore
	store   *store.Store
	emitter EventEmitter
	guard   saveGuard
}

// NewDocumentService creates a DocumentService.
func NewDocumentService(docs *storage.DocumentStore, st *store.Store, emitter EventEmitter) *DocumentService {
	return &DocumentService{docs: docs, store: st, emitter: emitter}
}

// CreateDocument creates an empty persisted document.
func (s *DocumentService) CreateDocument(name string) (*domain.Document, error) {
	return s.docs.CreateDocument(name)
}

// ListDocuments returns all persisted documents.
func (s *DocumentService) ListDocuments() ([]domain.Document, error) {
	return s.docs.ListDocuments()
}

// Save snapshots the live store into the document row.
func (s *DocumentService) Save(ctx context.Context, docID string) error {
	if !s.guard.TryLock(docID) {
		return fmt.Errorf("save document: %q is already being saved", docID)
	}
	defer s.guard.Unlock(docID)

	if err := s.docs.SaveState(docID, s.store.Snapshot()); err != nil {
		return err
	}
	s.emitter.Emit(ctx, "document:saved", map[string]string{"documentId": docID})
	return nil
}

// Autosave is Save minus the error when a save is already running:
// the scheduler just tries again on the next tick.
func (s *DocumentService) Autosave(ctx context.Context, docID string) {
	if !s.guard.TryLock(docID) {
		return
	}
	defer s.guard.Unlock(docID)

	if err := s.docs.SaveState(docID, s.store.Snapshot()); err != nil {
		s.emitter.Emit(ctx, "document:autosave-failed", map[string]string{
			"documentId": docID,
			"error":      err.Error(),
		})
		return
	}
	s.emitter.Emit(ctx, "document:saved", map[string]string{"documentId": docID})
}

// Load replaces the live store contents with a saved snapshot.
func (s *DocumentService) Load(ctx context.Context, docID string) (domain.DocumentState, error) {
	state, err := s.docs.LoadState(docID)
	if err != nil {
		return domain.DocumentState{}, err
	}
	if err := s.store.Restore(state); err != nil {
		return domain.DocumentState{}, fmt.Errorf("load document: %w", err)
	}
	s.emitter.Emit(ctx, "document:loaded", map[string]string{"documentId": docID})
	return state, nil
}

// WaitForSaves blocks until in-flight saves finish or ctx expires.
func (s *DocumentService) WaitForSaves(ctx context.Context) {
	s.guard.WaitAll(ctx)
}
