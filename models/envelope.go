// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// EnvelopeVersion is the encrypted envelope format this build produces.
const EnvelopeVersion = 1

// Envelope is the remote blob content: a password-encrypted dump.
//
// Binary fields are standard base64 on the wire (encoding/json does this for
// []byte). Iterations is the PBKDF2 round count used for this blob; zero
// means the blob predates the field and the legacy default applies.
type Envelope struct {
	Version    int    `json:"v"`
	Iterations int    `json:"iter,omitempty"`
	Salt       []byte `json:"salt"`
	IV         []byte `json:"iv"`
	Ciphertext []byte `json:"ciphertext"`
}
