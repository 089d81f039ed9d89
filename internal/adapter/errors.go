package adapter

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by [RemoteStore] implementations. Callers should
// match them with [errors.Is]; the wrapped message carries the response body.
var (
	ErrRemoteNotFound     = errors.New("remote object not found")
	ErrNotModified        = errors.New("remote object not modified")
	ErrPreconditionFailed = errors.New("remote object was modified concurrently")
	ErrUnauthorized       = errors.New("remote store rejected the token")
	ErrRateLimited        = errors.New("remote store rate limit exhausted")
	ErrBadRequest         = errors.New("bad request")
	ErrServerError        = errors.New("remote store internal error")
	ErrMissingETag        = errors.New("no etag returned by remote store")
	ErrEmptyAddress       = errors.New("empty address")
	ErrUnexpectedResponse = errors.New("unexpected remote store response")
)

// ErrRemoteEmpty means the object exists but holds no pushed data yet. It
// matches [ErrRemoteNotFound] too.
var ErrRemoteEmpty = fmt.Errorf("%w: nothing was pushed yet", ErrRemoteNotFound)
