package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-cookie-sync/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestSettingsRepo(t *testing.T) (*settingsRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	l := logger.Nop()
	repo := &settingsRepository{
		db:     &DB{DB: db, logger: l},
		now:    func() time.Time { return fixedNow },
		logger: l,
	}
	return repo, mock
}

// ── Get ─────────────────────────────────────────────────────────────────────

func TestSettingsGet_Success(t *testing.T) {
	repo, mock := newTestSettingsRepo(t)

	rows := sqlmock.NewRows([]string{"key", "value", "version", "updated_at"}).
		AddRow("preferences", `{"filters":{}}`, 3, fixedNow)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT key, value, version, updated_at FROM settings WHERE key = ?")).
		WithArgs("preferences").
		WillReturnRows(rows)

	s, err := repo.Get(context.Background(), "preferences")
	require.NoError(t, err)
	assert.Equal(t, "preferences", s.Key)
	assert.Equal(t, `{"filters":{}}`, s.Value)
	assert.Equal(t, int64(3), s.Version)
	assert.Equal(t, fixedNow, s.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsGet_NotFound(t *testing.T) {
	repo, mock := newTestSettingsRepo(t)

	mock.ExpectQuery("SELECT key, value, version, updated_at FROM settings").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSettingNotFound)
}

func TestSettingsGet_DBError(t *testing.T) {
	repo, mock := newTestSettingsRepo(t)

	mock.ExpectQuery("SELECT key, value, version, updated_at FROM settings").
		WillReturnError(errors.New("disk I/O error"))

	_, err := repo.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrScanningRow)
}

// ── Set ─────────────────────────────────────────────────────────────────────

func TestSettingsSet_Upserts(t *testing.T) {
	repo, mock := newTestSettingsRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO settings (key,value,version,updated_at) VALUES (?,?,?,?) ON CONFLICT(key) DO UPDATE")).
		WithArgs("token", "ghp_x", 1, fixedNow).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Set(context.Background(), "token", "ghp_x"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsSet_ExecError(t *testing.T) {
	repo, mock := newTestSettingsRepo(t)

	mock.ExpectExec("INSERT INTO settings").WillReturnError(errors.New("readonly database"))

	err := repo.Set(context.Background(), "token", "x")
	assert.ErrorIs(t, err, ErrExecutingStatement)
}

// ── CompareAndSwap ──────────────────────────────────────────────────────────

func TestSettingsCompareAndSwap_UpdatesMatchingVersion(t *testing.T) {
	repo, mock := newTestSettingsRepo(t)

	mock.ExpectExec(`UPDATE settings SET value = \?, version = version \+ 1, updated_at = \? WHERE \(?key = \? AND version = \?\)?`).
		WithArgs("new", fixedNow, "sync_meta", int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.CompareAndSwap(context.Background(), "sync_meta", "new", 4))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsCompareAndSwap_StaleVersion(t *testing.T) {
	repo, mock := newTestSettingsRepo(t)

	mock.ExpectExec("UPDATE settings SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.CompareAndSwap(context.Background(), "sync_meta", "new", 4)
	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestSettingsCompareAndSwap_InsertWhenAbsent(t *testing.T) {
	repo, mock := newTestSettingsRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO settings (key,value,version,updated_at) VALUES (?,?,?,?) ON CONFLICT(key) DO NOTHING")).
		WithArgs("sync_meta", "v", 1, fixedNow).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.CompareAndSwap(context.Background(), "sync_meta", "v", 0))
}

func TestSettingsCompareAndSwap_InsertRaced(t *testing.T) {
	repo, mock := newTestSettingsRepo(t)

	mock.ExpectExec("ON CONFLICT\\(key\\) DO NOTHING").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.CompareAndSwap(context.Background(), "sync_meta", "v", 0)
	assert.ErrorIs(t, err, ErrVersionConflict)
}

// ── Delete ──────────────────────────────────────────────────────────────────

func TestSettingsDelete(t *testing.T) {
	repo, mock := newTestSettingsRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM settings WHERE key IN (?,?)")).
		WithArgs("sync_meta", "token").
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.Delete(context.Background(), "sync_meta", "token"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsDelete_NoKeysIsNoop(t *testing.T) {
	repo, mock := newTestSettingsRepo(t)

	require.NoError(t, repo.Delete(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
