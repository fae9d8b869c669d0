// Package store persists the PatientData aggregate to a durable key-value
// slot. The serialized form is the JSON aggregate (history, risk factors,
// findings in order); ephemeral review state and save status are never
// persisted.
package store

import (
	"context"

	"github.com/Birukzex/NCS/internal/domain"
)

// DefaultSlot is the fixed slot key the session autosaves under.
const DefaultSlot = "ncs-gp-guide-data"

// Store defines the persistence operations for the session slot.
//
// Load returns (nil, nil) when the slot is absent or its payload fails to
// parse; a malformed slot must never abort startup. Callers fall back to the
// default empty aggregate in both cases.
type Store interface {
	// Load reads the aggregate from the slot.
	Load(ctx context.Context) (*domain.PatientData, error)

	// Save serializes the full aggregate into the slot, replacing any
	// previous payload.
	Save(ctx context.Context, data *domain.PatientData) error

	// Clear deletes the slot.
	Clear(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
