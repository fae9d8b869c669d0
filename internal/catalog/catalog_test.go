package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Birukzex/NCS/internal/domain"
)

func TestAll_NoDuplicateNames(t *testing.T) {
	seen := map[string]bool{}
	for _, e := range All() {
		assert.False(t, seen[e.Name], "duplicate catalog entry %q", e.Name)
		seen[e.Name] = true
	}
}

func TestAll_EntriesAreValid(t *testing.T) {
	for _, e := range All() {
		assert.NotEmpty(t, e.Name)
		assert.True(t, e.Kind.IsValid(), "entry %q has invalid kind", e.Name)
		assert.True(t, e.Category.IsValid(), "entry %q has invalid category", e.Name)
	}
}

func TestFWave_OnlyOnMotorEntries(t *testing.T) {
	for _, e := range All() {
		if e.HasFWave {
			assert.Equal(t, domain.KindMotor, e.Kind,
				"entry %q claims an F-wave but is not a motor study", e.Name)
		}
	}
}

func TestLookup(t *testing.T) {
	e, ok := Lookup("Median Motor")
	assert.True(t, ok)
	assert.Equal(t, domain.KindMotor, e.Kind)
	assert.True(t, e.HasFWave)
	assert.Equal(t, domain.CategoryStandard, e.Category)

	_, ok = Lookup("Vagus Motor")
	assert.False(t, ok)
}

func TestCategories_MatchGroup(t *testing.T) {
	for _, e := range StandardNerves {
		assert.Equal(t, domain.CategoryStandard, e.Category)
	}
	for _, e := range SpecialInvestigations {
		assert.Equal(t, domain.CategorySpecial, e.Category)
	}
	for _, e := range BrachialPlexusNerves {
		assert.Equal(t, domain.CategoryBrachialPlexus, e.Category)
	}
	for _, e := range RepetitiveStimulation {
		assert.Equal(t, domain.CategoryRepetitive, e.Category)
	}
}
