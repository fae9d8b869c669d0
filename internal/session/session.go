// Package session holds the recording-session state machine. All mutation is
// routed through one mutex-ordered entry point so transitions apply strictly
// one at a time, and every transition leaves the derived fields
// (autoClassification, conflict) of every finding consistent before the new
// state becomes observable.
package session

import (
	"time"

	"github.com/Birukzex/NCS/internal/domain"
)

// SaveStatus reports the autosave state of the session.
type SaveStatus string

const (
	StatusSaved   SaveStatus = "saved"
	StatusSaving  SaveStatus = "saving" // reserved for a future async backend
	StatusUnsaved SaveStatus = "unsaved"
)

// ReviewState is the ephemeral state of the external AI review: the last
// received text, a loading flag and the last error message. It is never
// persisted.
type ReviewState struct {
	Text    string `json:"text"`
	Loading bool   `json:"loading"`
	Error   string `json:"error"`
}

// State is the full session state: the persisted PatientData aggregate plus
// the ephemeral review sub-state and save status.
type State struct {
	PatientData *domain.PatientData `json:"patientData"`
	Review      ReviewState         `json:"reviewState"`
	SaveStatus  SaveStatus          `json:"saveStatus"`
}

// clone returns a deep copy of the state.
func (s *State) clone() State {
	return State{
		PatientData: s.PatientData.Clone(),
		Review:      s.Review,
		SaveStatus:  s.SaveStatus,
	}
}

// saveTimeout bounds a single autosave write.
const saveTimeout = 5 * time.Second
