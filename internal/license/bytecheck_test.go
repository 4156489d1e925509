package license

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewByteCheckBounds(t *testing.T) {
	m := NewMagic([]byte{2}, []byte{5}, []byte{2, 3})

	bc, err := NewByteCheck(m, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, bc.Positions())

	_, err = NewByteCheck(m, 3)
	assert.ErrorIs(t, err, ErrInvalidByteCheckPosition)
	_, err = NewByteCheck(m, -1)
	assert.ErrorIs(t, err, ErrInvalidByteCheckPosition)
	_, err = NewByteCheck(NewMagic(), 0)
	assert.ErrorIs(t, err, ErrInvalidByteCheckPosition)
}

func TestByteCheckValidate(t *testing.T) {
	m := NewMagic([]byte{2}, []byte{5}, []byte{2, 3})
	seed := []byte{1, 2, 3}
	h := DefaultSerializer{}
	payload := []byte{6, 5, 18}

	bc, err := NewByteCheck(m, 0, 1, 2)
	require.NoError(t, err)
	assert.True(t, bc.Validate(payload, seed, h, m))
	assert.False(t, bc.Validate([]byte{6, 4, 18}, seed, h, m))
	assert.False(t, bc.Validate(payload[:2], seed, h, m))
}
