// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crypto implements password-based authenticated encryption of cookie
// dumps and the change-detection hash.
//
// Scheme:
//
//	salt, iv   = random(16), random(12)            fresh on every Encrypt
//	key        = PBKDF2-HMAC-SHA256(passphrase, salt, iter, 32)
//	ciphertext = AES-256-GCM(key, iv, plaintext)   tag appended
//	envelope   = {v, iter, salt, iv, ciphertext}
//
// The iteration count travels in the envelope, so the default can be raised
// without breaking blobs written earlier.
package crypto

import "github.com/MKhiriev/go-cookie-sync/models"

//go:generate mockgen -source=interfaces.go -destination=../mock/crypto_engine_mock.go -package=mock

// Engine encrypts and decrypts dump payloads and hashes dumps for change
// detection. It knows nothing about the network or the settings store.
type Engine interface {
	// DeriveKey stretches passphrase with salt into a 256-bit key using
	// PBKDF2-HMAC-SHA256 and the given iteration count.
	DeriveKey(passphrase string, salt []byte, iterations int) []byte

	// Encrypt seals plaintext under a key derived from passphrase. Salt and
	// IV are freshly random on every call.
	Encrypt(passphrase string, plaintext []byte) (models.Envelope, error)

	// Decrypt opens env. A wrong passphrase and a corrupted blob both yield
	// [ErrAuthenticationFailed]; an unknown envelope version yields
	// [ErrUnsupportedVersion].
	Decrypt(passphrase string, env models.Envelope) ([]byte, error)

	// HashDump returns a deterministic digest of dump's canonical form,
	// ignoring its creation time.
	HashDump(dump models.Dump) (string, error)
}
