// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the remote blob store the sync service talks to.
//
// The abstraction is [RemoteStore]: one logical object holding one encrypted
// file, read and written with optimistic concurrency on an opaque ETag. The
// package ships a GitHub Gist implementation ([NewGistAdapter]).
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrPreconditionFailed] for 412, [ErrRemoteNotFound]
// for 404).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-cookie-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_store_mock.go -package=mock

// RemoteStore is versioned single-object storage. Every call takes the
// access token so the store holds no credentials of its own.
type RemoteStore interface {
	// Locate finds an existing remote object. It never creates one and
	// returns [ErrRemoteNotFound] when nothing matches.
	Locate(ctx context.Context, token string) (models.RemoteObject, error)

	// Create makes a new remote object holding placeholder content.
	Create(ctx context.Context, token string) (models.RemoteObject, error)

	// LocateOrCreate locates the remote object, creating it when none exists.
	LocateOrCreate(ctx context.Context, token string) (models.RemoteObject, error)

	// Fetch downloads the object content. When knownETag is set and still
	// current it returns [ErrNotModified]. A missing object, a missing file
	// or placeholder-only content yield [ErrRemoteNotFound].
	Fetch(ctx context.Context, token, objectID, knownETag string) (models.RemoteBlob, error)

	// Push replaces the object content and returns the new ETag. When
	// knownETag is set the write is conditional and fails with
	// [ErrPreconditionFailed] if someone else wrote first. An empty
	// knownETag writes unconditionally.
	Push(ctx context.Context, token, objectID, knownETag string, blob []byte) (string, error)
}
