// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "errors"

var (
	// ErrAuthenticationFailed means the GCM tag did not verify: either the
	// passphrase is wrong or the ciphertext was altered. The two cases are
	// indistinguishable.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrUnsupportedVersion means the envelope carries a version this build
	// cannot read.
	ErrUnsupportedVersion = errors.New("unsupported envelope version")

	// ErrNoPassphrase is returned by [Session] when it has been cleared or
	// was never unlocked.
	ErrNoPassphrase = errors.New("passphrase is not set")
)
