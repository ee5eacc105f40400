package project

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest is a SHA-256 content fingerprint.
type Digest [32]byte

// Hex returns the lowercase hex form.
func (d Digest) Hex() string {
	return hex.EncodeToString(d[:])
}

// IsZero reports whether the digest is all zeros.
func (d Digest) IsZero() bool {
	var z Digest
	return d == z
}

// HashBytes fingerprints a byte slice.
func HashBytes(b []byte) Digest {
	return sha256.Sum256(b)
}

// HashParts fingerprints an ordered list of byte slices with length framing,
// so ("ab","c") and ("a","bc") produce different digests.
func HashParts(parts ...[]byte) Digest {
	h := sha256.New()
	var frame [8]byte
	for _, p := range parts {
		n := uint64(len(p))
		for i := 0; i < 8; i++ {
			frame[i] = byte(n >> (8 * i))
		}
		h.Write(frame[:])
		h.Write(p)
	}
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}
