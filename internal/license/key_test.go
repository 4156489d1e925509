package license

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeserialize(t *testing.T) {
	raw := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x0B, 0x0C}
	p := Properties{KeySize: 4, PayloadSize: 4, ChecksumSize: 4}

	k, err := Deserialize(raw, p)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, k.Key)
	assert.Equal(t, []byte{0x05, 0x06, 0x07, 0x08}, k.Payload)
	assert.Equal(t, []byte{0x09, 0x0A, 0x0B, 0x0C}, k.Checksum)
	assert.Equal(t, raw, k.SerializedKey)
	assert.Equal(t, 12, k.Properties.Size())
}

func TestDeserializeTooShort(t *testing.T) {
	p := Properties{KeySize: 4, PayloadSize: 4, ChecksumSize: 4}
	_, err := Deserialize(make([]byte, 11), p)
	assert.ErrorIs(t, err, ErrDeserializeTooShort)

	_, err = LicenseKey{Properties: p}.Deserialize()
	assert.ErrorIs(t, err, ErrDeserializeTooShort)

	_, err = Deserialize(make([]byte, 4), Properties{KeySize: -1, PayloadSize: 4})
	assert.ErrorIs(t, err, ErrDeserializeTooShort)
}

func TestEmptyLicenseKey(t *testing.T) {
	var k LicenseKey
	assert.Empty(t, k.SerializedKey)
	assert.Equal(t, 0, k.Properties.Size())

	d, err := k.Deserialize()
	require.NoError(t, err)
	assert.Empty(t, d.Key)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "valid", Valid.String())
	assert.Equal(t, "invalid", Invalid.String())
	assert.Equal(t, "blacklisted", Blacklisted.String())

	b, err := Blacklisted.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "blacklisted", string(b))
}
