package license

import "encoding/binary"

const adler32Mod = 0xFFF1

// Adler32 runs the Adler-32 recurrence over data with the accumulators
// seeded from left (a) and right (b). The result is (b << 16) | a.
func Adler32(data []byte, left, right uint32) uint32 {
	a, b := uint64(left), uint64(right)
	for _, x := range data {
		a = (a + uint64(x)) % adler32Mod
		b = (b + a) % adler32Mod
	}
	return uint32(b)<<16 | uint32(a)
}

// Adler32Checksum is the default ChecksumFunc. The 8 byte magic is split into
// two big-endian halves that seed a and b, so the salt never enters the data.
func Adler32Checksum(data, magic []byte) ([]byte, error) {
	if len(magic) != 8 {
		return nil, ErrInvalidChecksumInit
	}
	left := binary.BigEndian.Uint32(magic[:4])
	right := binary.BigEndian.Uint32(magic[4:])
	return binary.BigEndian.AppendUint32(nil, Adler32(data, left, right)), nil
}
