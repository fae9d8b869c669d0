// Package domain contains the core entities and types for qualitative
// nerve-conduction-study (NCS) interpretation.
//
// Inputs are a fixed qualitative scale rather than measured latencies or
// velocities; the engine never validates against true medical norms.
package domain

import (
	"errors"
)

// QualitativeLevel is the four-valued qualitative scale used for the
// amplitude, latency, velocity and H-wave channels of a finding.
type QualitativeLevel string

const (
	LevelNormal    QualitativeLevel = "normal"
	LevelIncreased QualitativeLevel = "increased"
	LevelDecreased QualitativeLevel = "decreased"
	LevelAbsent    QualitativeLevel = "absent"
)

// FWaveLevel is the three-valued scale used only for the F-wave channel.
type FWaveLevel string

const (
	FWaveNormal  FWaveLevel = "normal"
	FWaveDelayed FWaveLevel = "delayed"
	FWaveAbsent  FWaveLevel = "absent"
)

// PathologyVerdict is the pathology category assigned to a finding. Verdicts
// are mutually exclusive categories, not a severity scale.
type PathologyVerdict string

const (
	VerdictNormal        PathologyVerdict = "normal"
	VerdictDemyelinating PathologyVerdict = "demyelinating"
	VerdictAxonal        PathologyVerdict = "axonal"
	VerdictMixed         PathologyVerdict = "mixed"
	VerdictUnclassified  PathologyVerdict = "unclassified"
)

// Side identifies which side of the body a nerve was tested on.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// NerveKind is the conduction study modality of a nerve.
type NerveKind string

const (
	KindMotor   NerveKind = "motor"
	KindSensory NerveKind = "sensory"
	KindSpecial NerveKind = "special"
)

// NerveCategory records how a finding row was created.
type NerveCategory string

const (
	CategoryStandard       NerveCategory = "standard"
	CategorySpecial        NerveCategory = "special"
	CategoryBrachialPlexus NerveCategory = "brachial_plexus"
	CategoryRepetitive     NerveCategory = "repetitive"
)

// Validation errors for clinical data integrity.
var (
	ErrInvalidLevel    = errors.New("invalid qualitative level")
	ErrInvalidFWave    = errors.New("invalid F-wave level")
	ErrInvalidVerdict  = errors.New("invalid pathology verdict")
	ErrInvalidSide     = errors.New("invalid side")
	ErrInvalidKind     = errors.New("invalid nerve kind")
	ErrInvalidCategory = errors.New("invalid nerve category")
)

// IsValid reports whether the level is one of the four recognised values.
func (l QualitativeLevel) IsValid() bool {
	switch l {
	case LevelNormal, LevelIncreased, LevelDecreased, LevelAbsent:
		return true
	default:
		return false
	}
}

// String returns the string representation of the level.
func (l QualitativeLevel) String() string {
	return string(l)
}

// IsValid reports whether the F-wave level is recognised.
func (f FWaveLevel) IsValid() bool {
	switch f {
	case FWaveNormal, FWaveDelayed, FWaveAbsent:
		return true
	default:
		return false
	}
}

// String returns the string representation of the F-wave level.
func (f FWaveLevel) String() string {
	return string(f)
}

// IsValid reports whether the verdict is one of the recognised categories.
func (v PathologyVerdict) IsValid() bool {
	switch v {
	case VerdictNormal, VerdictDemyelinating, VerdictAxonal, VerdictMixed, VerdictUnclassified:
		return true
	default:
		return false
	}
}

// String returns the string representation of the verdict.
func (v PathologyVerdict) String() string {
	return string(v)
}

// ClinicalSignificance returns a human-readable description of the verdict
// for display and reporting.
func (v PathologyVerdict) ClinicalSignificance() string {
	switch v {
	case VerdictNormal:
		return "Normal - No conduction abnormality"
	case VerdictDemyelinating:
		return "Demyelinating - Slowed conduction or prolonged latency"
	case VerdictAxonal:
		return "Axonal - Reduced or absent response amplitude"
	case VerdictMixed:
		return "Mixed - Both demyelinating and axonal features"
	case VerdictUnclassified:
		return "Unclassified - Pattern requires manual interpretation"
	default:
		return "Unknown verdict"
	}
}

// IsValid reports whether the side is recognised.
func (s Side) IsValid() bool {
	return s == SideLeft || s == SideRight
}

// String returns the string representation of the side.
func (s Side) String() string {
	return string(s)
}

// IsValid reports whether the nerve kind is recognised.
func (k NerveKind) IsValid() bool {
	switch k {
	case KindMotor, KindSensory, KindSpecial:
		return true
	default:
		return false
	}
}

// String returns the string representation of the kind.
func (k NerveKind) String() string {
	return string(k)
}

// IsValid reports whether the category is recognised.
func (c NerveCategory) IsValid() bool {
	switch c {
	case CategoryStandard, CategorySpecial, CategoryBrachialPlexus, CategoryRepetitive:
		return true
	default:
		return false
	}
}

// String returns the string representation of the category.
func (c NerveCategory) String() string {
	return string(c)
}
