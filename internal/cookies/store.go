package cookies

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-cookie-sync/models"
)

//go:generate mockgen -source=store.go -destination=../mock/cookie_store_mock.go -package=mock

// Store is the local cookie jar.
type Store interface {
	// ListAll returns every unexpired cookie in the jar.
	ListAll(ctx context.Context) ([]models.Cookie, error)

	// Apply writes cookies into the jar, replacing records with the same
	// (domain, path, name). A record that cannot be written is counted in
	// ApplyResult.Failed and does not stop the others. The error is reserved
	// for failures that lose the whole batch.
	Apply(ctx context.Context, cookies []models.Cookie) (ApplyResult, error)
}

// ApplyResult counts the outcome of one [Store.Apply] call.
type ApplyResult struct {
	Applied int
	Failed  int
}

// Format names a jar format.
type Format string

const (
	FormatAuto     Format = "auto"
	FormatNetscape Format = "netscape"
	FormatFirefox  Format = "firefox"
)

var (
	ErrNoJarPath      = errors.New("cookie jar path is not configured")
	ErrUnknownFormat  = errors.New("unsupported cookie jar format")
	ErrInvalidCookie  = errors.New("cookie cannot be stored in this jar")
	ErrJarIsDirectory = errors.New("cookie jar path is a directory")
)

// cookieKey identifies a record inside a jar.
type cookieKey struct {
	domain, path, name string
}

func keyOf(c models.Cookie) cookieKey {
	return cookieKey{domain: c.Domain, path: c.Path, name: c.Name}
}
