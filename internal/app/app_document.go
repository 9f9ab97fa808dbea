package app

import (
	"blockdoc/internal/domain"
)

// ============================================================
// Documents
// ============================================================

func (a *App) ListDocuments() ([]domain.Document, error) {
	return a.documents.ListDocuments()
}

func (a *App) CreateDocument(name string) (*domain.Document, error) {
	return a.documents.CreateDocument(name)
}

// OpenDocument loads a document into the live store and makes it the
// autosave target.
func (a *App) OpenDocument(id string) (domain.DocumentState, error) {
	state, err := a.documents.Load(a.ctx, id)
	if err != nil {
		return domain.DocumentState{}, err
	}
	a.currentDocID = id
	return state, nil
}

// SaveDocument snapshots the live store into the document row.
func (a *App) SaveDocument(id string) error {
	return a.documents.Save(a.ctx, id)
}

// GetDocumentState returns the live tree without persisting it.
func (a *App) GetDocumentState() domain.DocumentState {
	return a.lists.DocumentState()
}

func (a *App) RenameDocument(id, name string) error {
	return a.docs.RenameDocument(id, name)
}

func (a *App) DeleteDocument(id string) error {
	if a.currentDocID == id {
		a.currentDocID = ""
	}
	return a.docs.DeleteDocument(id)
}
