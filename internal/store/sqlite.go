package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Birukzex/NCS/internal/domain"
)

// SQLiteStore implements the Store interface using a local SQLite file.
// It is the default backend: a single-file durable slot with no external
// service requirements.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
	slot   string
}

// NewSQLiteStore creates a new SQLite session store. It creates the database
// file and schema if they don't exist.
func NewSQLiteStore(dbPath, slot string) (*SQLiteStore, error) {
	if slot == "" {
		slot = DefaultSlot
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		dbPath: dbPath,
		slot:   slot,
	}, nil
}

// createSchema creates the session slot table.
func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		slot TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := db.Exec(schema)
	return err
}

// Load reads the aggregate from the slot. Absent or malformed payloads load
// as nil without error.
func (s *SQLiteStore) Load(ctx context.Context) (*domain.PatientData, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM sessions WHERE slot = ?", s.slot,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot: %w", err)
	}

	data := &domain.PatientData{}
	if err := json.Unmarshal([]byte(payload), data); err != nil {
		// Malformed payload is treated as absent.
		return nil, nil
	}
	return data, nil
}

// Save serializes the full aggregate into the slot.
func (s *SQLiteStore) Save(ctx context.Context, data *domain.PatientData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (slot, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (slot) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		s.slot, string(payload), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to write slot: %w", err)
	}
	return nil
}

// Clear deletes the slot.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE slot = ?", s.slot)
	return err
}

// Close closes the store and releases resources.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
