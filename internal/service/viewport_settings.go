package service

import (
	"database/sql"
	"fmt"

	"blockdoc/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Viewport Persistence
// ─────────────────────────────────────────────────────────────
//
// Saves and restores the main window size between sessions. The width
// also seeds the editor surface's viewport breakpoint on startup, so
// overlays come back click-through when the app reopens small.
//
// Stored in SQLite as key-value rows in app_settings.

// ViewportSize holds the saved window dimensions.
type ViewportSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ViewportService persists window size between sessions.
type ViewportService struct {
	db *storage.DB
}

// NewViewportService creates a ViewportService.
func NewViewportService(db *storage.DB) *ViewportService {
	return &ViewportService{db: db}
}

const (
	settingViewportWidth  = "viewport_width"
	settingViewportHeight = "viewport_height"
	defaultViewportWidth  = 1280
	defaultViewportHeight = 800
)

// LoadViewportSize returns the saved window dimensions, or sensible defaults.
func (s *ViewportService) LoadViewportSize() ViewportSize {
	if s.db == nil {
		return ViewportSize{Width: defaultViewportWidth, Height: defaultViewportHeight}
	}
	conn := s.db.Conn()

	w := defaultViewportWidth
	h := defaultViewportHeight
	row := conn.QueryRow(`SELECT value FROM app_settings WHERE key = ?`, settingViewportWidth)
	row.Scan(&w)
	row = conn.QueryRow(`SELECT value FROM app_settings WHERE key = ?`, settingViewportHeight)
	row.Scan(&h)

	if w < 320 {
		w = defaultViewportWidth
	}
	if h < 240 {
		h = defaultViewportHeight
	}
	return ViewportSize{Width: w, Height: h}
}

// SaveViewportSize persists the current window dimensions.
func (s *ViewportService) SaveViewportSize(width, height int) error {
	if s.db == nil {
		return fmt.Errorf("viewport settings: no db")
	}
	conn := s.db.Conn()
	if err := upsertSetting(conn, settingViewportWidth, width); err != nil {
		return err
	}
	return upsertSetting(conn, settingViewportHeight, height)
}

func upsertSetting(conn *sql.DB, key string, value int) error {
	_, err := conn.Exec(
		`INSERT INTO app_settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}
