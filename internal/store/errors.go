package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrSettingNotFound is returned when no row exists for the requested key.
	ErrSettingNotFound = errors.New("setting not found")

	// ErrVersionConflict is returned when a compare-and-swap finds a version
	// other than the one the caller read, meaning another writer got there
	// first.
	ErrVersionConflict = errors.New("setting version conflict occurred")

	// ErrTooManyConflicts is returned when an update keeps losing the
	// compare-and-swap race.
	ErrTooManyConflicts = errors.New("setting update retried too many times")

	// ErrCorruptSetting is returned when a stored value cannot be decoded.
	ErrCorruptSetting = errors.New("stored setting is corrupt")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing an INSERT, UPDATE or
	// DELETE fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning a settings row fails.
	ErrScanningRow = errors.New("failed to scan settings row")
)
