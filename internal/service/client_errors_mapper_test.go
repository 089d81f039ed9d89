package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/MKhiriev/go-cookie-sync/internal/adapter"
	"github.com/MKhiriev/go-cookie-sync/internal/codec"
	"github.com/MKhiriev/go-cookie-sync/internal/crypto"
	"github.com/stretchr/testify/assert"
)

func TestMapSyncError(t *testing.T) {
	other := errors.New("other")

	tests := []struct {
		name    string
		in      error
		want    error
		keepsIn bool
	}{
		{name: "precondition", in: fmt.Errorf("push: %w", adapter.ErrPreconditionFailed), want: ErrRemoteChanged, keepsIn: true},
		{name: "unauthorized", in: adapter.ErrUnauthorized, want: ErrInvalidToken, keepsIn: true},
		{name: "rate limited", in: adapter.ErrRateLimited, want: ErrRateLimited, keepsIn: true},
		{name: "server error", in: adapter.ErrServerError, want: ErrRemoteUnavailable, keepsIn: true},
		{name: "auth failed", in: fmt.Errorf("decrypt: %w", crypto.ErrAuthenticationFailed), want: ErrCannotDecrypt},
		{name: "malformed", in: codec.ErrMalformedPayload, want: codec.ErrMalformedPayload, keepsIn: true},
		{name: "unknown", in: other, want: other, keepsIn: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapSyncError(tt.in)

			assert.ErrorIs(t, got, tt.want)
			if tt.keepsIn {
				assert.ErrorIs(t, got, tt.in)
			}
		})
	}

	assert.NoError(t, mapSyncError(nil))
}

func TestMapSyncError_HidesDecryptCause(t *testing.T) {
	got := mapSyncError(crypto.ErrAuthenticationFailed)

	assert.Equal(t, ErrCannotDecrypt, got)
	assert.NotErrorIs(t, got, crypto.ErrAuthenticationFailed)
}
