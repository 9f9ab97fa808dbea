package domain

import "time"

// Document is a persisted block document: metadata plus a saved
// DocumentState snapshot. The live tree is owned by the in-memory
// store; persistence round-trips snapshots through SQLite.
type Document struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
