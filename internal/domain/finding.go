package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// NerveFinding is one recorded nerve/side test with its qualitative channel
// values and derived classification. The ID is assigned at creation and never
// changes or gets reused.
//
// AutoClassification and Conflict are derived fields. They are recomputed by
// the session state machine at the end of every transition so that no stale
// derived state is ever observable.
type NerveFinding struct {
	ID             string            `json:"id"`
	Nerve          string            `json:"nerve"`
	Side           Side              `json:"side"`
	Kind           NerveKind         `json:"kind"`
	Amplitude      QualitativeLevel  `json:"amplitude"`
	Latency        QualitativeLevel  `json:"latency"`
	Velocity       QualitativeLevel  `json:"velocity"`
	FWave          *FWaveLevel       `json:"fWave,omitempty"`
	HWave          *QualitativeLevel `json:"hWave,omitempty"`
	AutoVerdict    PathologyVerdict  `json:"autoClassification"`
	ManualOverride *PathologyVerdict `json:"manualOverride,omitempty"`
	Conflict       bool              `json:"conflict"`
	Category       NerveCategory     `json:"category"`
}

// NewBlankFinding returns a placeholder finding row with every channel at its
// default. The empty nerve name keeps it out of the review transcript until
// the clinician names it.
func NewBlankFinding() *NerveFinding {
	fWave := FWaveNormal
	hWave := LevelNormal
	return &NerveFinding{
		ID:          uuid.NewString(),
		Nerve:       "",
		Side:        SideLeft,
		Kind:        KindMotor,
		Amplitude:   LevelNormal,
		Latency:     LevelNormal,
		Velocity:    LevelNormal,
		FWave:       &fWave,
		HWave:       &hWave,
		AutoVerdict: VerdictUnclassified,
		Category:    CategoryStandard,
	}
}

// NewNormalFinding returns a catalog-backed finding with all channels normal
// and the verdict pre-set to normal. The F-wave channel only applies to motor
// nerves.
func NewNormalFinding(nerve string, side Side, kind NerveKind, category NerveCategory) *NerveFinding {
	hWave := LevelNormal
	f := &NerveFinding{
		ID:          uuid.NewString(),
		Nerve:       nerve,
		Side:        side,
		Kind:        kind,
		Amplitude:   LevelNormal,
		Latency:     LevelNormal,
		Velocity:    LevelNormal,
		HWave:       &hWave,
		AutoVerdict: VerdictNormal,
		Category:    category,
	}
	if kind == KindMotor {
		fWave := FWaveNormal
		f.FWave = &fWave
	}
	return f
}

// EffectiveVerdict returns the verdict to display: the manual override when
// set, the automatic classification otherwise.
func (f *NerveFinding) EffectiveVerdict() PathologyVerdict {
	if f.ManualOverride != nil {
		return *f.ManualOverride
	}
	return f.AutoVerdict
}

// InConflict reports whether the manual override disagrees with the automatic
// classification. The flag is purely advisory; it never blocks a transition.
func (f *NerveFinding) InConflict() bool {
	return f.ManualOverride != nil && *f.ManualOverride != f.AutoVerdict
}

// Reclassify recomputes the derived fields from the current channel values
// and override.
func (f *NerveFinding) Reclassify() {
	f.AutoVerdict = Classify(f.Amplitude, f.Latency, f.Velocity)
	f.Conflict = f.InConflict()
}

// Clone returns a deep copy of the finding.
func (f *NerveFinding) Clone() *NerveFinding {
	c := *f
	if f.FWave != nil {
		v := *f.FWave
		c.FWave = &v
	}
	if f.HWave != nil {
		v := *f.HWave
		c.HWave = &v
	}
	if f.ManualOverride != nil {
		v := *f.ManualOverride
		c.ManualOverride = &v
	}
	return &c
}

// Validate ensures the finding holds only recognised enum values.
func (f *NerveFinding) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("finding validation: ID is required")
	}
	if !f.Side.IsValid() {
		return fmt.Errorf("finding validation: %w", ErrInvalidSide)
	}
	if !f.Kind.IsValid() {
		return fmt.Errorf("finding validation: %w", ErrInvalidKind)
	}
	if !f.Amplitude.IsValid() || !f.Latency.IsValid() || !f.Velocity.IsValid() {
		return fmt.Errorf("finding validation: %w", ErrInvalidLevel)
	}
	if f.FWave != nil && !f.FWave.IsValid() {
		return fmt.Errorf("finding validation: %w", ErrInvalidFWave)
	}
	if f.HWave != nil && !f.HWave.IsValid() {
		return fmt.Errorf("finding validation: %w", ErrInvalidLevel)
	}
	if !f.AutoVerdict.IsValid() {
		return fmt.Errorf("finding validation: %w", ErrInvalidVerdict)
	}
	if f.ManualOverride != nil && !f.ManualOverride.IsValid() {
		return fmt.Errorf("finding validation: %w", ErrInvalidVerdict)
	}
	if !f.Category.IsValid() {
		return fmt.Errorf("finding validation: %w", ErrInvalidCategory)
	}
	return nil
}

// FindingUpdate is a typed partial update for a finding. Each editable field
// is a pointer; nil means "leave unchanged". ClearOverride removes the manual
// override and wins over Override when both are set.
type FindingUpdate struct {
	Nerve         *string           `json:"nerve,omitempty"`
	Side          *Side             `json:"side,omitempty"`
	Kind          *NerveKind        `json:"kind,omitempty"`
	Amplitude     *QualitativeLevel `json:"amplitude,omitempty"`
	Latency       *QualitativeLevel `json:"latency,omitempty"`
	Velocity      *QualitativeLevel `json:"velocity,omitempty"`
	FWave         *FWaveLevel       `json:"fWave,omitempty"`
	HWave         *QualitativeLevel `json:"hWave,omitempty"`
	Override      *PathologyVerdict `json:"manualOverride,omitempty"`
	ClearOverride bool              `json:"clearOverride,omitempty"`
}

// Validate rejects updates carrying unrecognised enum values.
func (u *FindingUpdate) Validate() error {
	if u.Side != nil && !u.Side.IsValid() {
		return fmt.Errorf("finding update: %w", ErrInvalidSide)
	}
	if u.Kind != nil && !u.Kind.IsValid() {
		return fmt.Errorf("finding update: %w", ErrInvalidKind)
	}
	for _, l := range []*QualitativeLevel{u.Amplitude, u.Latency, u.Velocity, u.HWave} {
		if l != nil && !l.IsValid() {
			return fmt.Errorf("finding update: %w", ErrInvalidLevel)
		}
	}
	if u.FWave != nil && !u.FWave.IsValid() {
		return fmt.Errorf("finding update: %w", ErrInvalidFWave)
	}
	if u.Override != nil && !u.Override.IsValid() {
		return fmt.Errorf("finding update: %w", ErrInvalidVerdict)
	}
	return nil
}

// TouchesOverride reports whether the update changes the manual override.
func (u *FindingUpdate) TouchesOverride() bool {
	return u.Override != nil || u.ClearOverride
}

// TouchesOnlyOverride reports whether the update changes nothing but the
// manual override, in which case the automatic classification is left alone.
func (u *FindingUpdate) TouchesOnlyOverride() bool {
	return u.TouchesOverride() &&
		u.Nerve == nil && u.Side == nil && u.Kind == nil &&
		u.Amplitude == nil && u.Latency == nil && u.Velocity == nil &&
		u.FWave == nil && u.HWave == nil
}

// PatientData is the aggregate root for one recording session: free-text
// history, a deduplicated set of risk factors and the ordered finding
// sequence. Finding order is the clinician's display order and is preserved
// through persistence.
type PatientData struct {
	History     string          `json:"history"`
	RiskFactors []string        `json:"riskFactors"`
	Findings    []*NerveFinding `json:"findings"`
}

// NewPatientData returns the default empty aggregate.
func NewPatientData() *PatientData {
	return &PatientData{
		History:     "",
		RiskFactors: []string{},
		Findings:    []*NerveFinding{},
	}
}

// Clone returns a deep copy of the aggregate.
func (p *PatientData) Clone() *PatientData {
	c := &PatientData{
		History:     p.History,
		RiskFactors: append([]string{}, p.RiskFactors...),
		Findings:    make([]*NerveFinding, 0, len(p.Findings)),
	}
	for _, f := range p.Findings {
		c.Findings = append(c.Findings, f.Clone())
	}
	return c
}

// FindingByID returns the finding with the given id, or nil when absent.
func (p *PatientData) FindingByID(id string) *NerveFinding {
	for _, f := range p.Findings {
		if f.ID == id {
			return f
		}
	}
	return nil
}
