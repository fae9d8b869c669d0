package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQualitativeLevel_IsValid(t *testing.T) {
	valid := []QualitativeLevel{LevelNormal, LevelIncreased, LevelDecreased, LevelAbsent}
	for _, l := range valid {
		assert.True(t, l.IsValid(), "level %s should be valid", l)
	}
	assert.False(t, QualitativeLevel("delayed").IsValid())
	assert.False(t, QualitativeLevel("").IsValid())
}

func TestFWaveLevel_IsValid(t *testing.T) {
	valid := []FWaveLevel{FWaveNormal, FWaveDelayed, FWaveAbsent}
	for _, f := range valid {
		assert.True(t, f.IsValid(), "F-wave level %s should be valid", f)
	}
	// "increased" belongs to the four-valued scale, not the F-wave scale.
	assert.False(t, FWaveLevel("increased").IsValid())
	assert.False(t, FWaveLevel("").IsValid())
}

func TestPathologyVerdict_IsValid(t *testing.T) {
	valid := []PathologyVerdict{
		VerdictNormal, VerdictDemyelinating, VerdictAxonal, VerdictMixed, VerdictUnclassified,
	}
	for _, v := range valid {
		assert.True(t, v.IsValid(), "verdict %s should be valid", v)
	}
	assert.False(t, PathologyVerdict("pathogenic").IsValid())
	assert.False(t, PathologyVerdict("").IsValid())
}

func TestPathologyVerdict_ClinicalSignificance(t *testing.T) {
	for _, v := range []PathologyVerdict{
		VerdictNormal, VerdictDemyelinating, VerdictAxonal, VerdictMixed, VerdictUnclassified,
	} {
		assert.NotEqual(t, "Unknown verdict", v.ClinicalSignificance())
	}
	assert.Equal(t, "Unknown verdict", PathologyVerdict("bogus").ClinicalSignificance())
}

func TestEnumValidation(t *testing.T) {
	assert.True(t, SideLeft.IsValid())
	assert.True(t, SideRight.IsValid())
	assert.False(t, Side("bilateral").IsValid())

	assert.True(t, KindMotor.IsValid())
	assert.True(t, KindSensory.IsValid())
	assert.True(t, KindSpecial.IsValid())
	assert.False(t, NerveKind("mixed").IsValid())

	for _, c := range []NerveCategory{
		CategoryStandard, CategorySpecial, CategoryBrachialPlexus, CategoryRepetitive,
	} {
		assert.True(t, c.IsValid(), "category %s should be valid", c)
	}
	assert.False(t, NerveCategory("plexus").IsValid())
}

func TestNewBlankFinding(t *testing.T) {
	f := NewBlankFinding()

	assert.NotEmpty(t, f.ID)
	assert.Empty(t, f.Nerve)
	assert.Equal(t, SideLeft, f.Side)
	assert.Equal(t, KindMotor, f.Kind)
	assert.Equal(t, LevelNormal, f.Amplitude)
	assert.Equal(t, LevelNormal, f.Latency)
	assert.Equal(t, LevelNormal, f.Velocity)
	assert.Equal(t, VerdictUnclassified, f.AutoVerdict)
	assert.Nil(t, f.ManualOverride)
	assert.False(t, f.Conflict)
	assert.NoError(t, f.Validate())
}

func TestNewNormalFinding(t *testing.T) {
	motor := NewNormalFinding("Median Motor", SideLeft, KindMotor, CategoryStandard)
	assert.Equal(t, VerdictNormal, motor.AutoVerdict)
	assert.NotNil(t, motor.FWave, "motor nerves carry an F-wave channel")
	assert.NoError(t, motor.Validate())

	sensory := NewNormalFinding("Sural Sensory", SideRight, KindSensory, CategoryStandard)
	assert.Nil(t, sensory.FWave, "F-wave only applies to motor nerves")
	assert.NoError(t, sensory.Validate())
}

func TestFindingIDs_Unique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		f := NewBlankFinding()
		assert.False(t, seen[f.ID], "finding IDs must never repeat")
		seen[f.ID] = true
	}
}

func TestEffectiveVerdict(t *testing.T) {
	f := NewNormalFinding("Ulnar Motor", SideLeft, KindMotor, CategoryStandard)
	assert.Equal(t, VerdictNormal, f.EffectiveVerdict())

	override := VerdictAxonal
	f.ManualOverride = &override
	assert.Equal(t, VerdictAxonal, f.EffectiveVerdict())
	assert.True(t, f.InConflict())

	f.ManualOverride = nil
	assert.Equal(t, VerdictNormal, f.EffectiveVerdict())
	assert.False(t, f.InConflict())
}

func TestFindingClone_Independent(t *testing.T) {
	override := VerdictMixed
	f := NewBlankFinding()
	f.ManualOverride = &override

	c := f.Clone()
	newOverride := VerdictAxonal
	c.ManualOverride = &newOverride
	c.Amplitude = LevelAbsent
	*c.HWave = LevelDecreased

	assert.Equal(t, VerdictMixed, *f.ManualOverride)
	assert.Equal(t, LevelNormal, f.Amplitude)
	assert.Equal(t, LevelNormal, *f.HWave)
}

func TestFindingUpdate_Validate(t *testing.T) {
	badSide := Side("both")
	assert.Error(t, (&FindingUpdate{Side: &badSide}).Validate())

	badLevel := QualitativeLevel("high")
	assert.Error(t, (&FindingUpdate{Amplitude: &badLevel}).Validate())

	badFWave := FWaveLevel("decreased")
	assert.Error(t, (&FindingUpdate{FWave: &badFWave}).Validate())

	ok := LevelDecreased
	assert.NoError(t, (&FindingUpdate{Velocity: &ok}).Validate())
}

func TestFindingUpdate_TouchesOnlyOverride(t *testing.T) {
	override := VerdictAxonal
	assert.True(t, (&FindingUpdate{Override: &override}).TouchesOnlyOverride())
	assert.True(t, (&FindingUpdate{ClearOverride: true}).TouchesOnlyOverride())

	level := LevelDecreased
	assert.False(t, (&FindingUpdate{Override: &override, Velocity: &level}).TouchesOnlyOverride())
	assert.False(t, (&FindingUpdate{Velocity: &level}).TouchesOnlyOverride())
}

func TestPatientData_Clone(t *testing.T) {
	p := NewPatientData()
	p.History = "numbness in both feet"
	p.RiskFactors = []string{"Diabetes Mellitus"}
	p.Findings = append(p.Findings, NewNormalFinding("Tibial Motor", SideLeft, KindMotor, CategoryStandard))

	c := p.Clone()
	c.History = "changed"
	c.RiskFactors[0] = "changed"
	c.Findings[0].Nerve = "changed"

	assert.Equal(t, "numbness in both feet", p.History)
	assert.Equal(t, "Diabetes Mellitus", p.RiskFactors[0])
	assert.Equal(t, "Tibial Motor", p.Findings[0].Nerve)
}

func TestPatientData_FindingByID(t *testing.T) {
	p := NewPatientData()
	f := NewBlankFinding()
	p.Findings = append(p.Findings, f)

	assert.Equal(t, f, p.FindingByID(f.ID))
	assert.Nil(t, p.FindingByID("missing"))
}
