// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"

	"github.com/MKhiriev/go-cookie-sync/internal/codec"
	"github.com/MKhiriev/go-cookie-sync/internal/utils"
	"github.com/MKhiriev/go-cookie-sync/models"
)

const (
	// DefaultIterations is the PBKDF2 round count for new envelopes and the
	// assumed count for envelopes that predate the iter field.
	DefaultIterations = 600_000
	// MaxIterations bounds the work an attacker-supplied envelope can demand.
	MaxIterations = 10_000_000

	SaltLen = 16
	IVLen   = 12
	KeyLen  = 32
)

// engine is the private implementation of [Engine].
type engine struct {
	iterations int
	random     io.Reader
}

// NewEngine constructs an [Engine] that encrypts with the given PBKDF2
// iteration count. A non-positive count selects [DefaultIterations].
// Decryption always honours the count stored in the envelope.
func NewEngine(iterations int) Engine {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return &engine{iterations: iterations, random: rand.Reader}
}

// DeriveKey implements [Engine].
func (e *engine) DeriveKey(passphrase string, salt []byte, iterations int) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, iterations, KeyLen, sha256.New)
}

// Encrypt implements [Engine]. A new salt and IV are read from the CSPRNG on
// every call, so the same (key, IV) pair is never reused.
func (e *engine) Encrypt(passphrase string, plaintext []byte) (models.Envelope, error) {
	salt := make([]byte, SaltLen)
	if _, err := io.ReadFull(e.random, salt); err != nil {
		return models.Envelope{}, fmt.Errorf("generate salt: %w", err)
	}
	iv := make([]byte, IVLen)
	if _, err := io.ReadFull(e.random, iv); err != nil {
		return models.Envelope{}, fmt.Errorf("generate iv: %w", err)
	}

	gcm, err := newGCM(e.DeriveKey(passphrase, salt, e.iterations))
	if err != nil {
		return models.Envelope{}, err
	}

	return models.Envelope{
		Version:    models.EnvelopeVersion,
		Iterations: e.iterations,
		Salt:       salt,
		IV:         iv,
		Ciphertext: gcm.Seal(nil, iv, plaintext, nil),
	}, nil
}

// Decrypt implements [Engine].
func (e *engine) Decrypt(passphrase string, env models.Envelope) ([]byte, error) {
	if env.Version != models.EnvelopeVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
	}

	iterations := env.Iterations
	if iterations == 0 {
		iterations = DefaultIterations
	}
	if iterations < 0 || iterations > MaxIterations {
		return nil, fmt.Errorf("%w: iteration count %d out of range", codec.ErrMalformedPayload, env.Iterations)
	}
	if len(env.Salt) == 0 {
		return nil, fmt.Errorf("%w: empty salt", codec.ErrMalformedPayload)
	}
	if len(env.IV) != IVLen {
		return nil, fmt.Errorf("%w: iv must be %d bytes, got %d", codec.ErrMalformedPayload, IVLen, len(env.IV))
	}

	gcm, err := newGCM(e.DeriveKey(passphrase, env.Salt, iterations))
	if err != nil {
		return nil, err
	}
	if len(env.Ciphertext) < gcm.Overhead() {
		return nil, ErrAuthenticationFailed
	}

	plaintext, err := gcm.Open(nil, env.IV, env.Ciphertext, nil)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}

	return plaintext, nil
}

// HashDump implements [Engine]. The digest is SHA-256 over the canonical
// serialization with Created zeroed, base64 encoded.
func (e *engine) HashDump(dump models.Dump) (string, error) {
	dump.Created = 0
	data, err := codec.Serialize(dump)
	if err != nil {
		return "", fmt.Errorf("serialize dump for hash: %w", err)
	}

	return utils.HashBase64(data), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}
