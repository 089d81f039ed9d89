// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-cookie-sync/internal/codec"
	"github.com/MKhiriev/go-cookie-sync/models"
)

// wireEnvelope accepts every ciphertext field name that has been written to
// remote blobs: "ciphertext", and the older "cipher" and "ct".
type wireEnvelope struct {
	Version    *int   `json:"v"`
	Iterations int    `json:"iter"`
	Salt       string `json:"salt"`
	IV         string `json:"iv"`
	Ciphertext string `json:"ciphertext"`
	Cipher     string `json:"cipher"`
	CT         string `json:"ct"`
}

// MarshalEnvelope renders env as the remote blob text.
func MarshalEnvelope(env models.Envelope) ([]byte, error) {
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return data, nil
}

// ParseEnvelope decodes remote blob text. Structural problems are reported
// as [codec.ErrMalformedPayload]; version checks are left to Decrypt.
func ParseEnvelope(data []byte) (models.Envelope, error) {
	var w wireEnvelope
	if err := json.Unmarshal(data, &w); err != nil {
		return models.Envelope{}, fmt.Errorf("%w: envelope: %v", codec.ErrMalformedPayload, err)
	}
	if w.Version == nil {
		return models.Envelope{}, fmt.Errorf("%w: envelope has no version", codec.ErrMalformedPayload)
	}

	ct := w.Ciphertext
	if ct == "" {
		ct = w.Cipher
	}
	if ct == "" {
		ct = w.CT
	}

	salt, err := base64.StdEncoding.DecodeString(w.Salt)
	if err != nil {
		return models.Envelope{}, fmt.Errorf("%w: salt: %v", codec.ErrMalformedPayload, err)
	}
	iv, err := base64.StdEncoding.DecodeString(w.IV)
	if err != nil {
		return models.Envelope{}, fmt.Errorf("%w: iv: %v", codec.ErrMalformedPayload, err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(ct)
	if err != nil {
		return models.Envelope{}, fmt.Errorf("%w: ciphertext: %v", codec.ErrMalformedPayload, err)
	}

	return models.Envelope{
		Version:    *w.Version,
		Iterations: w.Iterations,
		Salt:       salt,
		IV:         iv,
		Ciphertext: ciphertext,
	}, nil
}

// EncryptDump serializes dump and seals it with engine, returning the blob
// text ready for the remote store.
func EncryptDump(engine Engine, passphrase string, dump models.Dump) ([]byte, error) {
	plaintext, err := codec.Serialize(dump)
	if err != nil {
		return nil, err
	}
	env, err := engine.Encrypt(passphrase, plaintext)
	if err != nil {
		return nil, err
	}
	return MarshalEnvelope(env)
}

// DecryptDump is the inverse of EncryptDump.
func DecryptDump(engine Engine, passphrase string, blob []byte) (models.Dump, error) {
	env, err := ParseEnvelope(blob)
	if err != nil {
		return models.Dump{}, err
	}
	plaintext, err := engine.Decrypt(passphrase, env)
	if err != nil {
		return models.Dump{}, err
	}
	return codec.Deserialize(plaintext)
}
