// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-cookie-sync/internal/adapter"
	"github.com/MKhiriev/go-cookie-sync/internal/crypto"
)

// mapSyncError translates adapter and crypto errors into the service errors
// shown to the user. The original error stays in the chain, so callers can
// still match adapter sentinels with errors.Is.
func mapSyncError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, adapter.ErrPreconditionFailed):
		return fmt.Errorf("%w: %w", ErrRemoteChanged, err)

	case errors.Is(err, adapter.ErrUnauthorized):
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)

	case errors.Is(err, adapter.ErrRateLimited):
		return fmt.Errorf("%w: %w", ErrRateLimited, err)

	case errors.Is(err, adapter.ErrServerError):
		return fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)

	// wrong passphrase and tampering must look the same
	case errors.Is(err, crypto.ErrAuthenticationFailed):
		return ErrCannotDecrypt
	}

	return err
}
