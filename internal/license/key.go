package license

import "fmt"

// Properties holds the byte widths of the three token fields.
type Properties struct {
	KeySize      int `json:"key_size"`
	PayloadSize  int `json:"payload_size"`
	ChecksumSize int `json:"checksum_size"`
}

func (p Properties) Size() int { return p.KeySize + p.PayloadSize + p.ChecksumSize }

// LicenseKey is a token split into its fields. When SerializedKey is set it
// equals Key || Payload || Checksum.
type LicenseKey struct {
	Key           []byte
	Payload       []byte
	Checksum      []byte
	Properties    Properties
	SerializedKey []byte
}

// Deserialize splits raw according to p. Bytes beyond p.Size() are ignored.
func Deserialize(raw []byte, p Properties) (LicenseKey, error) {
	if p.KeySize < 0 || p.PayloadSize < 0 || p.ChecksumSize < 0 {
		return LicenseKey{}, fmt.Errorf("%w: negative field size in %+v", ErrDeserializeTooShort, p)
	}
	if len(raw) < p.Size() {
		return LicenseKey{}, fmt.Errorf("%w: have %d bytes, need %d", ErrDeserializeTooShort, len(raw), p.Size())
	}
	k, pl := p.KeySize, p.KeySize+p.PayloadSize
	return LicenseKey{
		Key:           append([]byte(nil), raw[:k]...),
		Payload:       append([]byte(nil), raw[k:pl]...),
		Checksum:      append([]byte(nil), raw[pl:p.Size()]...),
		Properties:    p,
		SerializedKey: append([]byte(nil), raw[:p.Size()]...),
	}, nil
}

func (k LicenseKey) Deserialize() (LicenseKey, error) {
	return Deserialize(k.SerializedKey, k.Properties)
}

type Status int

const (
	Invalid Status = iota
	Valid
	Blacklisted
)

func (s Status) String() string {
	switch s {
	case Valid:
		return "valid"
	case Blacklisted:
		return "blacklisted"
	default:
		return "invalid"
	}
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
