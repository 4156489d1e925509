package license

import (
	"io"

	"golang.org/x/crypto/sha3"
	"lukechampine.com/blake3"
)

// SeedExpander deterministically stretches a seed into size bytes.
type SeedExpander interface {
	Expand(seed []byte, size int) []byte
}

// Shake256Expander reads size bytes from SHAKE256(seed).
type Shake256Expander struct{}

func (Shake256Expander) Expand(seed []byte, size int) []byte {
	out := make([]byte, size)
	sha3.ShakeSum256(out, seed)
	return out
}

// Blake3Expander reads size bytes from the BLAKE3 extendable output of seed.
type Blake3Expander struct{}

func (Blake3Expander) Expand(seed []byte, size int) []byte {
	h := blake3.New(32, nil)
	_, _ = h.Write(seed)
	out := make([]byte, size)
	_, _ = io.ReadFull(h.XOF(), out)
	return out
}
