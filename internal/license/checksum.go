package license

import "fmt"

// ChecksumFunc computes an integrity code over data salted with magic.
type ChecksumFunc func(data, magic []byte) ([]byte, error)

type Checksum struct {
	magic    []byte
	byteSize int
	fn       ChecksumFunc
}

func NewChecksum(magic []byte, byteSize int, fn ChecksumFunc) *Checksum {
	return &Checksum{magic: append([]byte(nil), magic...), byteSize: byteSize, fn: fn}
}

// NewAdler32Checksum validates the initializer eagerly instead of on first use.
func NewAdler32Checksum(magic []byte) (*Checksum, error) {
	if len(magic) != 8 {
		return nil, ErrInvalidChecksumInit
	}
	return NewChecksum(magic, 4, Adler32Checksum), nil
}

func DefaultChecksum(magic [8]byte) *Checksum {
	return NewChecksum(magic[:], 4, Adler32Checksum)
}

func (c *Checksum) Execute(data []byte) ([]byte, error) {
	sum, err := c.fn(data, c.magic)
	if err != nil {
		return nil, err
	}
	if len(sum) != c.byteSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrChecksumSize, len(sum), c.byteSize)
	}
	return sum, nil
}

func (c *Checksum) Magic() []byte { return append([]byte(nil), c.magic...) }

func (c *Checksum) ByteSize() int { return c.byteSize }
