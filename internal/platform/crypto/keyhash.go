// Package crypto keeps caller identifiers out of the flow guard stores.
package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

const hashedPrefix = "h1:"

type KeyHasher struct {
	secret []byte
}

// NewKeyHasher accepts a hex, base64 or raw secret. An empty secret yields a
// hasher that passes keys through unchanged.
func NewKeyHasher(secret string) (*KeyHasher, error) {
	if secret == "" {
		return &KeyHasher{}, nil
	}
	decoded := decodeKey(secret)
	if len(decoded) < 16 {
		return nil, fmt.Errorf("FLOW_GUARD_KEY_SECRET must be at least 16 bytes after decoding")
	}
	return &KeyHasher{secret: decoded}, nil
}

func (h *KeyHasher) Configured() bool {
	return h != nil && len(h.secret) > 0
}

// Hash returns the HMAC-SHA256 of key, hex encoded and prefixed with "h1:".
func (h *KeyHasher) Hash(key string) string {
	if !h.Configured() || key == "" {
		return key
	}
	mac := hmac.New(sha256.New, h.secret)
	mac.Write([]byte(key))
	return hashedPrefix + hex.EncodeToString(mac.Sum(nil))
}

func decodeKey(raw string) []byte {
	if len(raw) == 64 {
		if decoded, err := hex.DecodeString(raw); err == nil {
			return decoded
		}
	}
	if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
		return decoded
	}
	if decoded, err := base64.RawStdEncoding.DecodeString(raw); err == nil {
		return decoded
	}
	return []byte(raw)
}
