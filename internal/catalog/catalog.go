// Package catalog holds the static nerve reference data used for quick data
// entry. The catalog is read-only at runtime; it is consumed by the
// quick-add-normal action and by display logic.
package catalog

import (
	"github.com/Birukzex/NCS/internal/domain"
)

// Limb groups catalog entries for display.
type Limb string

const (
	UpperLimb Limb = "upper_limb"
	LowerLimb Limb = "lower_limb"
	Other     Limb = "other"
)

// Entry describes one catalog nerve: its study kind, whether an F-wave
// channel applies and the provenance category stamped on findings created
// from it.
type Entry struct {
	Name     string               `json:"name"`
	Kind     domain.NerveKind     `json:"kind"`
	Limb     Limb                 `json:"limb"`
	HasFWave bool                 `json:"hasFWave"`
	Category domain.NerveCategory `json:"category"`
}

// DefaultRiskFactors is the pick-list of common neuropathy risk factors
// offered alongside free-text history.
var DefaultRiskFactors = []string{
	"Diabetes Mellitus",
	"Chronic Alcohol Use",
	"Vitamin B12 Deficiency",
	"Chemotherapy",
	"Renal Failure",
	"Thyroid Disease",
}

// StandardNerves are the routine screening studies.
var StandardNerves = []Entry{
	{Name: "Median Motor", Kind: domain.KindMotor, Limb: UpperLimb, HasFWave: true, Category: domain.CategoryStandard},
	{Name: "Ulnar Motor", Kind: domain.KindMotor, Limb: UpperLimb, HasFWave: true, Category: domain.CategoryStandard},
	{Name: "Median Sensory", Kind: domain.KindSensory, Limb: UpperLimb, HasFWave: false, Category: domain.CategoryStandard},
	{Name: "Ulnar Sensory", Kind: domain.KindSensory, Limb: UpperLimb, HasFWave: false, Category: domain.CategoryStandard},
	{Name: "Peroneal Motor", Kind: domain.KindMotor, Limb: LowerLimb, HasFWave: true, Category: domain.CategoryStandard},
	{Name: "Tibial Motor", Kind: domain.KindMotor, Limb: LowerLimb, HasFWave: true, Category: domain.CategoryStandard},
	{Name: "Sural Sensory", Kind: domain.KindSensory, Limb: LowerLimb, HasFWave: false, Category: domain.CategoryStandard},
}

// SpecialInvestigations are follow-up studies for specific questions.
var SpecialInvestigations = []Entry{
	{Name: "Anterior Tibial Motor Peroneal", Kind: domain.KindMotor, Limb: LowerLimb, HasFWave: true, Category: domain.CategorySpecial},
	{Name: "Superficial Peroneal Sensory", Kind: domain.KindSensory, Limb: LowerLimb, HasFWave: false, Category: domain.CategorySpecial},
	{Name: "Transcarpal Median", Kind: domain.KindSensory, Limb: UpperLimb, HasFWave: false, Category: domain.CategorySpecial},
	{Name: "Ulnar Inching", Kind: domain.KindMotor, Limb: UpperLimb, HasFWave: false, Category: domain.CategorySpecial},
	{Name: "Facial Nerve Motor", Kind: domain.KindMotor, Limb: Other, HasFWave: false, Category: domain.CategorySpecial},
	{Name: "Blink Reflex", Kind: domain.KindSpecial, Limb: Other, HasFWave: false, Category: domain.CategorySpecial},
	{Name: "SSR (Sympathetic Skin Response)", Kind: domain.KindSpecial, Limb: Other, HasFWave: false, Category: domain.CategorySpecial},
	{Name: "Femoral Lateral Cutaneous", Kind: domain.KindSensory, Limb: Other, HasFWave: false, Category: domain.CategorySpecial},
	{Name: "Plantar", Kind: domain.KindSensory, Limb: Other, HasFWave: false, Category: domain.CategorySpecial},
	{Name: "H-Wave Study", Kind: domain.KindSpecial, Limb: Other, HasFWave: false, Category: domain.CategorySpecial},
}

// BrachialPlexusNerves cover focal upper-limb plexopathy workups.
var BrachialPlexusNerves = []Entry{
	{Name: "Musculocutaneous Motor", Kind: domain.KindMotor, Limb: UpperLimb, HasFWave: true, Category: domain.CategoryBrachialPlexus},
	{Name: "Axillary Motor", Kind: domain.KindMotor, Limb: UpperLimb, HasFWave: true, Category: domain.CategoryBrachialPlexus},
	{Name: "Suprascapular Motor", Kind: domain.KindMotor, Limb: UpperLimb, HasFWave: true, Category: domain.CategoryBrachialPlexus},
	{Name: "Dorsal Scapular Motor", Kind: domain.KindMotor, Limb: UpperLimb, HasFWave: true, Category: domain.CategoryBrachialPlexus},
	{Name: "Long Thoracic Motor", Kind: domain.KindMotor, Limb: UpperLimb, HasFWave: true, Category: domain.CategoryBrachialPlexus},
	{Name: "Thoracodorsal Motor", Kind: domain.KindMotor, Limb: UpperLimb, HasFWave: true, Category: domain.CategoryBrachialPlexus},
	{Name: "Medial Pectoral Motor", Kind: domain.KindMotor, Limb: UpperLimb, HasFWave: true, Category: domain.CategoryBrachialPlexus},
	{Name: "Lateral Pectoral Motor", Kind: domain.KindMotor, Limb: UpperLimb, HasFWave: true, Category: domain.CategoryBrachialPlexus},
	{Name: "Subscapular Motor", Kind: domain.KindMotor, Limb: UpperLimb, HasFWave: true, Category: domain.CategoryBrachialPlexus},
	{Name: "Medial Antebrachial Cutaneous", Kind: domain.KindSensory, Limb: UpperLimb, HasFWave: false, Category: domain.CategoryBrachialPlexus},
	{Name: "Lateral Antebrachial Cutaneous", Kind: domain.KindSensory, Limb: UpperLimb, HasFWave: false, Category: domain.CategoryBrachialPlexus},
	{Name: "Posterior Antebrachial Cutaneous", Kind: domain.KindSensory, Limb: UpperLimb, HasFWave: false, Category: domain.CategoryBrachialPlexus},
}

// RepetitiveStimulation studies screen for neuromuscular junction disease.
var RepetitiveStimulation = []Entry{
	{Name: "Repetitive Stimulation - Median", Kind: domain.KindSpecial, Limb: UpperLimb, HasFWave: false, Category: domain.CategoryRepetitive},
	{Name: "Repetitive Stimulation - Ulnar", Kind: domain.KindSpecial, Limb: UpperLimb, HasFWave: false, Category: domain.CategoryRepetitive},
	{Name: "Repetitive Stimulation - Accessory", Kind: domain.KindSpecial, Limb: Other, HasFWave: false, Category: domain.CategoryRepetitive},
	{Name: "Repetitive Stimulation - Facial", Kind: domain.KindSpecial, Limb: Other, HasFWave: false, Category: domain.CategoryRepetitive},
}

// All returns every catalog entry in display order.
func All() []Entry {
	out := make([]Entry, 0, len(StandardNerves)+len(SpecialInvestigations)+len(BrachialPlexusNerves)+len(RepetitiveStimulation))
	out = append(out, StandardNerves...)
	out = append(out, SpecialInvestigations...)
	out = append(out, BrachialPlexusNerves...)
	out = append(out, RepetitiveStimulation...)
	return out
}

// Lookup resolves a nerve name to its catalog entry.
func Lookup(name string) (Entry, bool) {
	for _, e := range All() {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}
