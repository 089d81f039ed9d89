// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_ZeroValueIsLocked(t *testing.T) {
	var s Session
	assert.False(t, s.Unlocked())

	_, err := s.Passphrase()
	assert.ErrorIs(t, err, ErrNoPassphrase)
}

func TestSession_UnlockAndClear(t *testing.T) {
	s := NewSession("pw")
	require.True(t, s.Unlocked())

	got, err := s.Passphrase()
	require.NoError(t, err)
	assert.Equal(t, "pw", got)

	held := s.passphrase
	s.Clear()

	assert.False(t, s.Unlocked())
	assert.Equal(t, []byte{0, 0}, held, "cleared passphrase bytes must be zeroed")
}

func TestSession_UnlockEmptyLocks(t *testing.T) {
	s := NewSession("pw")
	s.Unlock("")
	assert.False(t, s.Unlocked())
}
