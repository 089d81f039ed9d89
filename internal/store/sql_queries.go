package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

const (
	settingsTable = "settings"

	colKey       = "key"
	colValue     = "value"
	colVersion   = "version"
	colUpdatedAt = "updated_at"
)

// sqlite builds statements with "?" placeholders.
var sqlite = sq.StatementBuilder.PlaceholderFormat(sq.Question)

func buildGetSettingQuery(key string) (string, []any, error) {
	return sqlite.
		Select(colKey, colValue, colVersion, colUpdatedAt).
		From(settingsTable).
		Where(sq.Eq{colKey: key}).
		ToSql()
}

func buildUpsertSettingQuery(key, value string, now time.Time) (string, []any, error) {
	return sqlite.
		Insert(settingsTable).
		Columns(colKey, colValue, colVersion, colUpdatedAt).
		Values(key, value, 1, now).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, version = settings.version + 1, updated_at = excluded.updated_at").
		ToSql()
}

func buildInsertSettingIfAbsentQuery(key, value string, now time.Time) (string, []any, error) {
	return sqlite.
		Insert(settingsTable).
		Columns(colKey, colValue, colVersion, colUpdatedAt).
		Values(key, value, 1, now).
		Suffix("ON CONFLICT(key) DO NOTHING").
		ToSql()
}

func buildCompareAndSwapQuery(key, value string, version int64, now time.Time) (string, []any, error) {
	return sqlite.
		Update(settingsTable).
		Set(colValue, value).
		Set(colVersion, sq.Expr(colVersion+" + 1")).
		Set(colUpdatedAt, now).
		Where(sq.Eq{colKey: key, colVersion: version}).
		ToSql()
}

func buildDeleteSettingsQuery(keys []string) (string, []any, error) {
	return sqlite.
		Delete(settingsTable).
		Where(sq.Eq{colKey: keys}).
		ToSql()
}
