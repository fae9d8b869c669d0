package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectPing()
	store, err := NewPostgresStore(db, "")
	require.NoError(t, err)

	return store, mock
}

func TestNewPostgresStore_NilDB(t *testing.T) {
	_, err := NewPostgresStore(nil, "")
	assert.Error(t, err)
}

func TestPostgresStore_LoadAbsent(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM sessions WHERE slot = $1")).
		WithArgs(DefaultSlot).
		WillReturnError(sql.ErrNoRows)

	data, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, data)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_LoadRoundTrip(t *testing.T) {
	store, mock := newMockStore(t)

	original := samplePatientData()
	payload, err := json.Marshal(original)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM sessions WHERE slot = $1")).
		WithArgs(DefaultSlot).
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(string(payload)))

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_LoadMalformed(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM sessions WHERE slot = $1")).
		WithArgs(DefaultSlot).
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow("{not json"))

	// Malformed payloads load as absent, never as an error.
	data, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, data)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveUpserts(t *testing.T) {
	store, mock := newMockStore(t)

	data := samplePatientData()
	payload, err := json.Marshal(data)
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sessions")).
		WithArgs(DefaultSlot, string(payload)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Save(context.Background(), data))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Clear(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sessions WHERE slot = $1")).
		WithArgs(DefaultSlot).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Clear(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
