package license

import "fmt"

// ByteCheck asserts that selected payload bytes equal the hash of the magic
// chunk at the same position.
type ByteCheck struct {
	positions []int
}

func NewByteCheck(magic *Magic, positions ...int) (*ByteCheck, error) {
	for _, p := range positions {
		if p < 0 || p >= magic.Len() {
			return nil, fmt.Errorf("%w: position %d, magic table has %d chunks", ErrInvalidByteCheckPosition, p, magic.Len())
		}
	}
	return &ByteCheck{positions: append([]int(nil), positions...)}, nil
}

func (bc *ByteCheck) Positions() []int { return append([]int(nil), bc.positions...) }

func (bc *ByteCheck) Validate(payload, seed []byte, hasher PayloadHasher, magic *Magic) bool {
	for _, p := range bc.positions {
		if p >= len(payload) {
			return false
		}
		chunk, ok := magic.Chunk(p)
		if !ok {
			return false
		}
		if payload[p] != hasher.Hash(seed, chunk) {
			return false
		}
	}
	return true
}
