// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "sync"

// Session holds the passphrase in process memory for the lifetime of one
// unlocked session. It is never written anywhere. The zero value is a locked
// session.
type Session struct {
	mu         sync.RWMutex
	passphrase []byte
}

// NewSession returns a session unlocked with passphrase.
func NewSession(passphrase string) *Session {
	s := &Session{}
	s.Unlock(passphrase)
	return s
}

// Unlock replaces the held passphrase.
func (s *Session) Unlock(passphrase string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wipe()
	if passphrase != "" {
		s.passphrase = []byte(passphrase)
	}
}

// Passphrase returns the held passphrase or [ErrNoPassphrase].
func (s *Session) Passphrase() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.passphrase) == 0 {
		return "", ErrNoPassphrase
	}
	return string(s.passphrase), nil
}

// Unlocked reports whether a passphrase is held.
func (s *Session) Unlocked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.passphrase) > 0
}

// Clear overwrites and drops the held passphrase.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wipe()
}

func (s *Session) wipe() {
	for i := range s.passphrase {
		s.passphrase[i] = 0
	}
	s.passphrase = nil
}
