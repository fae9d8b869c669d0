package session

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Birukzex/NCS/internal/domain"
	"github.com/Birukzex/NCS/internal/store"
)

// Manager owns the session state and applies all transitions. Each public
// method is one atomic transition; the mutex keeps transitions strictly
// ordered, and readers only ever see state through Snapshot, which
// deep-copies, so no partial update is observable.
type Manager struct {
	mu    sync.Mutex
	state State
	store store.Store
	log   *logrus.Logger
}

// NewManager creates a session manager, loading the persisted aggregate from
// the store. An absent, malformed or unreadable slot falls back to the
// default empty aggregate; startup never fails on bad persisted data.
func NewManager(ctx context.Context, st store.Store, logger *logrus.Logger) *Manager {
	data, err := st.Load(ctx)
	if err != nil {
		logger.WithError(err).Warn("Failed to load persisted session, starting empty")
		data = nil
	}
	if data == nil {
		data = domain.NewPatientData()
	} else {
		// Recompute derived fields on load so no stale classification from an
		// older payload survives.
		for _, f := range data.Findings {
			f.Reclassify()
		}
		logger.WithFields(logrus.Fields{
			"findings":     len(data.Findings),
			"risk_factors": len(data.RiskFactors),
		}).Info("Restored persisted session")
	}

	m := &Manager{
		state: State{
			PatientData: data,
			SaveStatus:  StatusSaved,
		},
		store: st,
		log:   logger,
	}
	return m
}

// Snapshot returns a deep copy of the current state.
func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// persist autosaves the aggregate after a PatientData mutation. Failures
// degrade to saveStatus unsaved with a log line; the caller's transition
// still succeeds with all locally-held data intact.
func (m *Manager) persist() {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := m.store.Save(ctx, m.state.PatientData); err != nil {
		m.log.WithError(err).Warn("Autosave failed")
		m.state.SaveStatus = StatusUnsaved
		return
	}
	m.state.SaveStatus = StatusSaved
}

// SetHistory replaces the free-text history.
func (m *Manager) SetHistory(text string) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.PatientData.History = text
	m.persist()
	return m.state.clone()
}

// SetRiskFactors replaces the risk-factor set. Duplicates are dropped,
// keeping first occurrence; order is not meaningful.
func (m *Manager) SetRiskFactors(factors []string) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]bool, len(factors))
	deduped := make([]string, 0, len(factors))
	for _, f := range factors {
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		deduped = append(deduped, f)
	}

	m.state.PatientData.RiskFactors = deduped
	m.persist()
	return m.state.clone()
}

// AddBlankFinding appends a placeholder finding row with all defaults.
// Existing findings are untouched.
func (m *Manager) AddBlankFinding() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	f := domain.NewBlankFinding()
	m.state.PatientData.Findings = append(m.state.PatientData.Findings, f)

	m.log.WithField("finding_id", f.ID).Debug("Added blank finding")
	m.persist()
	return m.state.clone()
}

// AddCatalogFinding appends a normal-classified finding for a catalog nerve.
// The action is idempotent by (nerve, side): if such a finding already exists
// and is currently classified normal, nothing changes. This prevents
// duplicate "normal" rows for the same nerve/side.
func (m *Manager) AddCatalogFinding(nerve string, side domain.Side, kind domain.NerveKind, category domain.NerveCategory) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, f := range m.state.PatientData.Findings {
		if f.Nerve == nerve && f.Side == side && f.AutoVerdict == domain.VerdictNormal {
			return m.state.clone()
		}
	}

	f := domain.NewNormalFinding(nerve, side, kind, category)
	m.state.PatientData.Findings = append(m.state.PatientData.Findings, f)

	m.log.WithFields(logrus.Fields{
		"finding_id": f.ID,
		"nerve":      nerve,
		"side":       side.String(),
	}).Debug("Added catalog finding")
	m.persist()
	return m.state.clone()
}

// UpdateFinding applies a partial update to the finding with the given id.
// An unknown id is a silent no-op: UI events may race with deletion and that
// is not an error. Unless only the manual override was touched, the
// automatic classification is recomputed from the updated channel values;
// the conflict flag is always recomputed, because changing the override
// itself can create or resolve a conflict.
func (m *Manager) UpdateFinding(id string, upd domain.FindingUpdate) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	f := m.state.PatientData.FindingByID(id)
	if f == nil {
		return m.state.clone()
	}

	if upd.Nerve != nil {
		f.Nerve = *upd.Nerve
	}
	if upd.Side != nil {
		f.Side = *upd.Side
	}
	if upd.Kind != nil {
		f.Kind = *upd.Kind
	}
	if upd.Amplitude != nil {
		f.Amplitude = *upd.Amplitude
	}
	if upd.Latency != nil {
		f.Latency = *upd.Latency
	}
	if upd.Velocity != nil {
		f.Velocity = *upd.Velocity
	}
	if upd.FWave != nil {
		v := *upd.FWave
		f.FWave = &v
	}
	if upd.HWave != nil {
		v := *upd.HWave
		f.HWave = &v
	}
	switch {
	case upd.ClearOverride:
		f.ManualOverride = nil
	case upd.Override != nil:
		v := *upd.Override
		f.ManualOverride = &v
	}

	if !upd.TouchesOnlyOverride() {
		f.AutoVerdict = domain.Classify(f.Amplitude, f.Latency, f.Velocity)
	}
	f.Conflict = f.InConflict()

	m.log.WithFields(logrus.Fields{
		"finding_id": f.ID,
		"verdict":    f.AutoVerdict.String(),
		"conflict":   f.Conflict,
	}).Debug("Updated finding")
	m.persist()
	return m.state.clone()
}

// RemoveFinding deletes the finding with the given id. An unknown id is a
// silent no-op.
func (m *Manager) RemoveFinding(id string) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	findings := m.state.PatientData.Findings
	for i, f := range findings {
		if f.ID == id {
			m.state.PatientData.Findings = append(findings[:i], findings[i+1:]...)
			m.log.WithField("finding_id", id).Debug("Removed finding")
			m.persist()
			break
		}
	}
	return m.state.clone()
}

// ClearSession discards the persisted slot and resets the session to the
// default empty aggregate, including the ephemeral review state.
func (m *Manager) ClearSession() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := m.store.Clear(ctx); err != nil {
		m.log.WithError(err).Warn("Failed to clear persisted session")
	}

	m.state = State{
		PatientData: domain.NewPatientData(),
		Review:      ReviewState{},
		SaveStatus:  StatusSaved,
	}
	m.log.Info("Session cleared")
	return m.state.clone()
}

// SetReviewLoading marks a review request in flight and clears any previous
// error.
func (m *Manager) SetReviewLoading(loading bool) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.Review.Loading = loading
	m.state.Review.Error = ""
	return m.state.clone()
}

// SetReviewSuccess records a completed review. Outcomes are mutually
// exclusive: success clears both loading and error. When requests are
// superseded, the last arrival wins; there is no cancellation and no stale
// guard.
func (m *Manager) SetReviewSuccess(text string) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.Review = ReviewState{Text: text}
	return m.state.clone()
}

// SetReviewError records a failed review. The previous text is retained so
// the clinician keeps the last good review on screen.
func (m *Manager) SetReviewError(message string) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.Review.Error = message
	m.state.Review.Loading = false
	return m.state.clone()
}
