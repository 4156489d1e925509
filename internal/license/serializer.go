package license

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// PayloadHasher maps the expanded seed and one magic chunk to a payload byte.
// Implementations must be deterministic.
type PayloadHasher interface {
	Hash(seed, magic []byte) byte
}

// KeySerializer converts a raw token to and from its display form.
type KeySerializer interface {
	SerializeKey(key []byte) string
	DeserializeKey(key string) ([]byte, error)
}

type Serializer interface {
	PayloadHasher
	KeySerializer
}

// HexSerializer renders tokens as uppercase hex, split into Groups dash
// separated groups when Groups > 1.
type HexSerializer struct {
	Groups int
}

func (s HexSerializer) SerializeKey(key []byte) string {
	return groupString(strings.ToUpper(hex.EncodeToString(key)), s.Groups)
}

func (s HexSerializer) DeserializeKey(key string) ([]byte, error) {
	key = strings.ReplaceAll(strings.TrimSpace(key), "-", "")
	raw, err := hex.DecodeString(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyString, err)
	}
	return raw, nil
}

// groupString splits s into n groups of len(s)/n; any remainder becomes one
// trailing group.
func groupString(s string, n int) string {
	if n <= 1 || len(s) < n {
		return s
	}
	size := len(s) / n
	parts := make([]string, 0, n+1)
	for i := 0; i < n; i++ {
		parts = append(parts, s[i*size:(i+1)*size])
	}
	if rem := s[n*size:]; rem != "" {
		parts = append(parts, rem)
	}
	return strings.Join(parts, "-")
}

// DefaultSerializer is fine for demos. Production setups should bring their
// own PayloadHasher.
type DefaultSerializer struct {
	HexSerializer
}

func (DefaultSerializer) Hash(seed, magic []byte) byte {
	var h byte
	for _, m := range magic {
		switch {
		case m == 3 || m == 7:
			h *= m
		case m%2 == 0:
			for _, s := range seed {
				h += s
			}
		default:
			h ^= m
		}
	}
	return h
}

// AlternateSerializer multiplies on 1 and 3, folds seed-1 on even bytes and
// subtracts odd bytes.
type AlternateSerializer struct {
	HexSerializer
}

func (AlternateSerializer) Hash(seed, magic []byte) byte {
	var h byte
	for _, m := range magic {
		switch {
		case m == 1 || m == 3:
			h *= m
		case m%2 == 0:
			for _, s := range seed {
				h += s - 1
			}
		default:
			h -= m
		}
	}
	return h
}
