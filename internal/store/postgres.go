package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/Birukzex/NCS/internal/domain"
)

// PostgresStore implements the Store interface using PostgreSQL.
type PostgresStore struct {
	db   *sql.DB
	slot string
}

// NewPostgresStore creates a new PostgreSQL session store.
// It expects the database and schema to already exist (created via migrations).
func NewPostgresStore(db *sql.DB, slot string) (*PostgresStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if slot == "" {
		slot = DefaultSlot
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: db, slot: slot}, nil
}

// NewPostgresStoreFromURL creates a new PostgreSQL session store from a
// connection URL.
func NewPostgresStoreFromURL(databaseURL, slot string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	store, err := NewPostgresStore(db, slot)
	if err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// Load reads the aggregate from the slot. Absent or malformed payloads load
// as nil without error.
func (s *PostgresStore) Load(ctx context.Context) (*domain.PatientData, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM sessions WHERE slot = $1", s.slot,
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

// Save serializes the full aggregate into the slot using an upsert.
func (s *PostgresStore) Save(ctx context.Context, data *domain.PatientData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}

	query := `
		INSERT INTO sessions (slot, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (slot)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()
	`

	if _, err := s.db.ExecContext(ctx, query, s.slot, string(payload)); err != nil {
		return fmt.Errorf("failed to upsert slot: %w", err)
	}
	return nil
}

// Clear deletes the slot.
func (s *PostgresStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE slot = $1", s.slot)
	return err
}

// Close closes the store and releases resources.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
