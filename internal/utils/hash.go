package utils

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"hash"
	"sync"
)

var hasherPool = sync.Pool{
	New: func() any {
		return sha256.New()
	},
}

// Hash returns the SHA-256 digest of data using a pooled hasher.
func Hash(data []byte) []byte {
	h := hasherPool.Get().(hash.Hash)
	h.Reset()

	h.Write(data)
	sum := h.Sum(nil)

	h.Reset()
	hasherPool.Put(h)

	return sum
}

// HashBase64 returns the standard base64 form of Hash(data).
func HashBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(Hash(data))
}

// HashHex returns the lowercase hex form of Hash(data).
func HashHex(data []byte) string {
	return hex.EncodeToString(Hash(data))
}
