package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"blockdoc/internal/domain"
)

// DocumentStore persists document snapshots in SQLite.
type DocumentStore struct {
	db *DB
}

func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// CreateDocument inserts an empty document and returns its metadata.
func (s *DocumentStore) CreateDocument(name string) (*domain.Document, error) {
	doc := &domain.Document{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	_, err := s.db.Conn().Exec(
		`INSERT INTO documents (id, name, state_json, created_at, updated_at) VALUES (?, ?, '{}', ?, ?)`,
		doc.ID, doc.Name, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	return doc, nil
}

// GetDocument returns document metadata by id.
func (s *DocumentStore) GetDocument(id string) (*domain.Document, error) {
	doc := &domain.Document{}
	err := s.db.Conn().QueryRow(
		`SELECT id, name, created_at, updated_at FROM documents WHERE id = ?`, id,
	).Scan(&doc.ID, &doc.Name, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// ListDocuments returns all documents, most recently updated first.
func (s *DocumentStore) ListDocuments() ([]domain.Document, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, name, created_at, updated_at FROM documents ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var d domain.Document
		if err := rows.Scan(&d.ID, &d.Name, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// SaveState stores a document snapshot, replacing the previous one.
func (s *DocumentStore) SaveState(id string, state domain.DocumentState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal document state: %w", err)
	}
	res, err := s.db.Conn().Exec(
		`UPDATE documents SET state_json = ?, updated_at = ? WHERE id = ?`,
		string(data), time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("save document state: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("save document state: unknown document %q", id)
	}
	return nil
}

// LoadState returns the saved snapshot for a document.
func (s *DocumentStore) LoadState(id string) (domain.DocumentState, error) {
	var raw string
	err := s.db.Conn().QueryRow(
		`SELECT state_json FROM documents WHERE id = ?`, id,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return domain.DocumentState{}, fmt.Errorf("load document state: unknown document %q", id)
	}
	if err != nil {
		return domain.DocumentState{}, fmt.Errorf("load document state: %w", err)
	}
	var state domain.DocumentState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return domain.DocumentState{}, fmt.Errorf("decode document state: %w", err)
	}
	return state, nil
}

// RenameDocument updates a document's display name.
func (s *DocumentStore) RenameDocument(id, name string) error {
	_, err := s.db.Conn().Exec(
		`UPDATE documents SET name = ?, updated_at = ? WHERE id = ?`,
		name, time.Now(), id,
	)
	return err
}

// DeleteDocument removes a document and its snapshot.
func (s *DocumentStore) DeleteDocument(id string) error {
	_, err := s.db.Conn().Exec(`DELETE FROM documents WHERE id = ?`, id)
	return err
}
