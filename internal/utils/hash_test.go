package utils

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHash_MatchesSHA256(t *testing.T) {
	data := []byte(`{"v":1,"created":0,"cookies":[]}`)
	want := sha256.Sum256(data)

	assert.Equal(t, want[:], Hash(data))
	assert.Equal(t, base64.StdEncoding.EncodeToString(want[:]), HashBase64(data))
	assert.Equal(t, hex.EncodeToString(want[:]), HashHex(data))
}

func TestHash_Deterministic(t *testing.T) {
	assert.Equal(t, Hash([]byte("a")), Hash([]byte("a")))
	assert.NotEqual(t, Hash([]byte("a")), Hash([]byte("b")))
}

// TestHash_Concurrent exercises the pooled hashers from many goroutines.
func TestHash_Concurrent(t *testing.T) {
	want := HashHex([]byte("payload"))

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, HashHex([]byte("payload")))
		}()
	}
	wg.Wait()
}
