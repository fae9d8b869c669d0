package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Birukzex/NCS/internal/domain"
)

func createTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "session-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	store, err := NewSQLiteStore(filepath.Join(tmpDir, "test.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func samplePatientData() *domain.PatientData {
	data := domain.NewPatientData()
	data.History = "tingling in both hands, worse at night"
	data.RiskFactors = []string{"Diabetes Mellitus", "Thyroid Disease"}

	abnormal := domain.NewBlankFinding()
	abnormal.Nerve = "Median Motor"
	abnormal.Latency = domain.LevelIncreased
	abnormal.Reclassify()

	override := domain.VerdictAxonal
	overridden := domain.NewNormalFinding("Sural Sensory", domain.SideRight, domain.KindSensory, domain.CategoryStandard)
	overridden.ManualOverride = &override
	overridden.Reclassify()

	data.Findings = append(data.Findings, abnormal, overridden)
	return data
}

func TestNewSQLiteStore(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "session-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := NewSQLiteStore(dbPath, "")
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "Database file should exist")
}

func TestSQLiteStore_LoadAbsent(t *testing.T) {
	store := createTestStore(t)

	data, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, data, "absent slot loads as nil")
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	original := samplePatientData()
	require.NoError(t, store.Save(ctx, original))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	// Round-trip reproduces an equal aggregate: same findings, same order,
	// same field values.
	assert.Equal(t, original, loaded)
}

func TestSQLiteStore_SaveReplaces(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	first := samplePatientData()
	require.NoError(t, store.Save(ctx, first))

	second := domain.NewPatientData()
	second.History = "follow-up visit"
	require.NoError(t, store.Save(ctx, second))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "follow-up visit", loaded.History)
	assert.Empty(t, loaded.Findings)
}

func TestSQLiteStore_Clear(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, samplePatientData()))
	require.NoError(t, store.Clear(ctx))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded, "cleared slot no longer yields the previous data")
}

func TestSQLiteStore_MalformedPayload(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	_, err := store.db.ExecContext(ctx,
		"INSERT INTO sessions (slot, payload) VALUES (?, ?)",
		store.slot, "{not json",
	)
	require.NoError(t, err)

	// Malformed input must not surface as an error; it is treated as absent.
	data, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "session-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, "test.db")
	ctx := context.Background()

	store, err := NewSQLiteStore(dbPath, "")
	require.NoError(t, err)
	original := samplePatientData()
	require.NoError(t, store.Save(ctx, original))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(dbPath, "")
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, original, loaded, "data survives process restart")
}
