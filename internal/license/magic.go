package license

import (
	"fmt"
	"io"
)

// Magic is the ordered table of chunks that parameterizes the payload. It is
// never part of the token, so generator and validator must share it.
type Magic struct {
	chunks [][]byte
}

func NewMagic(chunks ...[]byte) *Magic {
	m := &Magic{chunks: make([][]byte, 0, len(chunks))}
	for _, c := range chunks {
		m.Push(c)
	}
	return m
}

// RandomMagic builds a table of size chunks of count bytes each from r.
func RandomMagic(r io.Reader, size, count int) (*Magic, error) {
	m := &Magic{}
	if err := m.Randomize(r, size, count); err != nil {
		return nil, err
	}
	return m, nil
}

// Randomize replaces the table contents. Tables drawn this way are only good
// for demos; real deployments distribute a fixed table out of band.
func (m *Magic) Randomize(r io.Reader, size, count int) error {
	if size < 0 || count < 0 {
		return fmt.Errorf("%w: size %d, count %d", ErrInvalidMagicSize, size, count)
	}
	chunks := make([][]byte, 0, size)
	for i := 0; i < size; i++ {
		c := make([]byte, count)
		if _, err := io.ReadFull(r, c); err != nil {
			return fmt.Errorf("read magic chunk %d: %w", i, err)
		}
		chunks = append(chunks, c)
	}
	m.chunks = chunks
	return nil
}

func (m *Magic) Push(chunk []byte) {
	m.chunks = append(m.chunks, append([]byte(nil), chunk...))
}

// PayloadSize is the total number of magic bytes across all chunks.
func (m *Magic) PayloadSize() int {
	n := 0
	for _, c := range m.chunks {
		n += len(c)
	}
	return n
}

func (m *Magic) Len() int { return len(m.chunks) }

func (m *Magic) Chunk(i int) ([]byte, bool) {
	if i < 0 || i >= len(m.chunks) {
		return nil, false
	}
	return m.chunks[i], true
}

func (m *Magic) Chunks() [][]byte {
	out := make([][]byte, len(m.chunks))
	for i, c := range m.chunks {
		out[i] = append([]byte(nil), c...)
	}
	return out
}

func (m *Magic) clone() *Magic {
	return &Magic{chunks: m.Chunks()}
}
