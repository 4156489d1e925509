package license

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidChecksumInit      = errors.New("checksum initializer must be exactly 8 bytes")
	ErrKeyTooSmall              = errors.New("license key size too small")
	ErrDeserializeTooShort      = errors.New("serialized license key shorter than its properties")
	ErrInvalidByteCheckPosition = errors.New("byte check position outside magic table")
	ErrChecksumSize             = errors.New("checksum output width does not match declared size")
	ErrInvalidKeyString         = errors.New("license key string is not valid hex")
	ErrMissingChecksum          = errors.New("license operator requires a checksum")
	ErrInvalidMagicSize         = errors.New("magic table size and chunk width must not be negative")
)

// KeyTooSmallError reports the smallest key size the current layout accepts.
type KeyTooSmallError struct {
	Required int
	KeySize  int
}

func (e *KeyTooSmallError) Error() string {
	return fmt.Sprintf("cannot generate license key with key size %d, must be larger than %d", e.KeySize, e.Required)
}

func (e *KeyTooSmallError) Unwrap() error { return ErrKeyTooSmall }
