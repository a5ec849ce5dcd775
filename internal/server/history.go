package server

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tubeserve/tubeserve/internal/config"
	_ "modernc.org/sqlite"
)

const historyDBFile = "history.db"

// Record is one completed or failed download served by /download.
type Record struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	Quality     string `json:"quality"`
	Backend     string `json:"backend"`
	Status      string `json:"status"` // "completed" or "failed"
	SizeBytes   int64  `json:"size_bytes"`
	StartedAt   int64  `json:"started_at"`   // Unix timestamp
	CompletedAt int64  `json:"completed_at"` // Unix timestamp
	Error       string `json:"error,omitempty"`
}

// HistoryDB manages the SQLite database of download history.
type HistoryDB struct {
	db *sql.DB
	mu sync.RWMutex
}

// DefaultHistoryPath returns the history db location inside the config dir,
// creating the directory if needed.
func DefaultHistoryPath() (string, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config dir: %w", err)
	}
	return filepath.Join(dir, historyDBFile), nil
}

// OpenHistory opens (creating if necessary) the history database at dbPath.
func OpenHistory(dbPath string) (*HistoryDB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS download_history (
			id TEXT PRIMARY KEY,
			url TEXT NOT NULL,
			filename TEXT,
			quality TEXT,
			backend TEXT,
			status TEXT NOT NULL,
			size_bytes INTEGER DEFAULT 0,
			started_at INTEGER NOT NULL,
			completed_at INTEGER NOT NULL,
			error_message TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_completed_at ON download_history(completed_at DESC);
		CREATE INDEX IF NOT EXISTS idx_status ON download_history(status);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history table: %w", err)
	}

	return &HistoryDB{db: db}, nil
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	if h.db != nil {
		return h.db.Close()
	}
	return nil
}

// Add saves one download record.
func (h *HistoryDB) Add(rec Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if rec.CompletedAt == 0 {
		rec.CompletedAt = time.Now().Unix()
	}

	_, err := h.db.Exec(`
		INSERT OR REPLACE INTO download_history
		(id, url, filename, quality, backend, status, size_bytes, started_at, completed_at, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID,
		rec.URL,
		rec.Filename,
		rec.Quality,
		rec.Backend,
		rec.Status,
		rec.SizeBytes,
		rec.StartedAt,
		rec.CompletedAt,
		rec.Error,
	)

	return err
}

// List returns download history, newest first, with pagination.
func (h *HistoryDB) List(limit, offset int) ([]Record, int, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var total int
	err := h.db.QueryRow("SELECT COUNT(*) FROM download_history").Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count history: %w", err)
	}

	rows, err := h.db.Query(`
		SELECT id, url, filename, quality, backend, status, size_bytes, started_at, completed_at, error_message
		FROM download_history
		ORDER BY completed_at DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var r Record
		var errorMsg sql.NullString

		err := rows.Scan(
			&r.ID,
			&r.URL,
			&r.Filename,
			&r.Quality,
			&r.Backend,
			&r.Status,
			&r.SizeBytes,
			&r.StartedAt,
			&r.CompletedAt,
			&errorMsg,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan history row: %w", err)
		}

		if errorMsg.Valid {
			r.Error = errorMsg.String
		}
		records = append(records, r)
	}

	return records, total, nil
}

// Stats returns download statistics.
func (h *HistoryDB) Stats() (completed int, failed int, totalBytes int64, err error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	err = h.db.QueryRow(`
		SELECT
			COUNT(CASE WHEN status = 'completed' THEN 1 END),
			COUNT(CASE WHEN status = 'failed' THEN 1 END),
			COALESCE(SUM(CASE WHEN status = 'completed' THEN size_bytes ELSE 0 END), 0)
		FROM download_history
	`).Scan(&completed, &failed, &totalBytes)

	return
}
