package domain

import (
	"encoding/hex"

	dErrors "fairtrace/pkg/domain-errors"
)

// HashSize is the fixed length of evidence and verification hashes.
const HashSize = 32

// Hash is a fixed 32-byte digest. The all-zero value is an explicit "no hash"
// sentinel, distinct from an omitted field at the transport layer.
type Hash [HashSize]byte

// ZeroHash is the absent-hash sentinel.
var ZeroHash = Hash{}

func (h Hash) IsZero() bool {
	return h == ZeroHash
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// ParseHash decodes a 64-character hex string into a Hash. An empty input
// yields ZeroHash so callers can treat "no hash provided" uniformly.
func ParseHash(s string) (Hash, error) {
	if s == "" {
		return ZeroHash, nil
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return ZeroHash, dErrors.New(dErrors.CodeInvalidInput, "hash must be hex encoded")
	}
	if len(raw) != HashSize {
		return ZeroHash, dErrors.New(dErrors.CodeInvalidInput, "hash must be exactly 32 bytes")
	}
	var h Hash
	copy(h[:], raw)
	return h, nil
}

// MarshalText renders the hash as hex for JSON responses.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText accepts hex input, including the empty string for ZeroHash.
func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := ParseHash(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
