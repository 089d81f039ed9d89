package service

import "errors"

var (
	// ErrCredentialsMissing is returned before any network or crypto work
	// when the token or the passphrase is not available.
	ErrCredentialsMissing = errors.New("credentials missing")

	// ErrCannotDecrypt covers both a wrong passphrase and a corrupted remote
	// blob. The two are deliberately not told apart.
	ErrCannotDecrypt = errors.New("cannot decrypt remote data: wrong passphrase or corrupted blob")

	// ErrRemoteChanged means another device pushed after our last pull.
	ErrRemoteChanged = errors.New("remote data changed since last sync, pull first")

	ErrInvalidToken      = errors.New("remote store token is invalid or lacks gist scope")
	ErrRateLimited       = errors.New("remote store rate limit exhausted, try again later")
	ErrRemoteUnavailable = errors.New("remote store is unavailable")

	ErrInvalidDirection = errors.New("invalid sync direction")
	ErrSyncInProgress   = errors.New("a sync is already in progress")
	ErrEmptyToken       = errors.New("token is empty")
	ErrEmptyPassphrase  = errors.New("passphrase is empty")
)
