package license

import (
	"bytes"
	"crypto/rand"
	"io"

	"go.uber.org/zap"
)

const (
	// MinKeyBytes is the smallest seed-derived key field a token may carry.
	MinKeyBytes = 8
	// MinChecksumBytes is the smallest checksum field a token may carry.
	MinChecksumBytes = 4
	DefaultKeySize   = 16
)

type operatorOptions struct {
	magic       *Magic
	randomSize  int
	randomCount int
	random      io.Reader
	serializer  Serializer
	expander    SeedExpander
	blacklist   *Blacklist
	byteCheck   []int
	lg          *zap.SugaredLogger
}

type Option func(*operatorOptions)

// WithMagic sets an explicit magic table. It takes precedence over WithRandomMagic.
func WithMagic(m *Magic) Option {
	return func(o *operatorOptions) { o.magic = m }
}

// WithRandomMagic draws size chunks of count bytes at construction time.
func WithRandomMagic(size, count int) Option {
	return func(o *operatorOptions) { o.randomSize, o.randomCount = size, count }
}

// WithRandom sets the source WithRandomMagic reads from. Defaults to crypto/rand.
func WithRandom(r io.Reader) Option {
	return func(o *operatorOptions) { o.random = r }
}

func WithSerializer(s Serializer) Option {
	return func(o *operatorOptions) { o.serializer = s }
}

func WithExpander(e SeedExpander) Option {
	return func(o *operatorOptions) { o.expander = e }
}

func WithBlacklist(b *Blacklist) Option {
	return func(o *operatorOptions) { o.blacklist = b }
}

func WithByteCheck(positions ...int) Option {
	return func(o *operatorOptions) { o.byteCheck = append(o.byteCheck, positions...) }
}

func WithLogger(lg *zap.SugaredLogger) Option {
	return func(o *operatorOptions) { o.lg = lg }
}

// Operator generates and validates license keys for one configuration. Generate
// and Validate only read state; the blacklist is the single mutable part.
type Operator struct {
	keySize    int
	magic      *Magic
	serializer Serializer
	expander   SeedExpander
	checksum   *Checksum
	blacklist  *Blacklist
	byteCheck  *ByteCheck
	lg         *zap.SugaredLogger
}

func NewOperator(keySize int, checksum *Checksum, opts ...Option) (*Operator, error) {
	if checksum == nil {
		return nil, ErrMissingChecksum
	}
	o := operatorOptions{
		random:     rand.Reader,
		serializer: DefaultSerializer{},
		expander:   Shake256Expander{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	var magic *Magic
	switch {
	case o.magic != nil:
		magic = o.magic.clone()
	case o.randomSize > 0 && o.randomCount > 0:
		m, err := RandomMagic(o.random, o.randomSize, o.randomCount)
		if err != nil {
			return nil, err
		}
		magic = m
	default:
		magic = NewMagic()
	}

	op := &Operator{
		keySize:    keySize,
		magic:      magic,
		serializer: o.serializer,
		expander:   o.expander,
		checksum:   checksum,
		blacklist:  o.blacklist,
		lg:         o.lg,
	}
	if op.blacklist == nil {
		op.blacklist = NewBlacklist()
	}
	if op.lg == nil {
		op.lg = zap.NewNop().Sugar()
	}
	if err := op.checkSize(); err != nil {
		return nil, err
	}
	if len(o.byteCheck) > 0 {
		bc, err := NewByteCheck(magic, o.byteCheck...)
		if err != nil {
			return nil, err
		}
		op.byteCheck = bc
	}
	return op, nil
}

// Default builds a demo operator: 16 byte keys, a random magic table and the
// Adler-32 checksum salted with checksumMagic.
func Default(magicSize, magicCount int, checksumMagic [8]byte) (*Operator, error) {
	return NewOperator(DefaultKeySize, DefaultChecksum(checksumMagic), WithRandomMagic(magicSize, magicCount))
}

func (op *Operator) requiredSize() int {
	cs := op.checksum.ByteSize()
	if cs < MinChecksumBytes {
		cs = MinChecksumBytes
	}
	return MinKeyBytes + op.magic.PayloadSize() + cs
}

func (op *Operator) checkSize() error {
	if req := op.requiredSize(); op.keySize <= req {
		return &KeyTooSmallError{Required: req, KeySize: op.keySize}
	}
	return nil
}

// HashSize is the width of the seed-derived key field.
func (op *Operator) HashSize() int {
	return op.keySize - op.checksum.ByteSize() - op.magic.PayloadSize()
}

func (op *Operator) KeySize() int { return op.keySize }

func (op *Operator) Magic() *Magic { return op.magic.clone() }

func (op *Operator) Blacklist() *Blacklist { return op.blacklist }

// Properties returns the field layout of tokens this operator generates.
func (op *Operator) Properties() Properties {
	return Properties{
		KeySize:      op.HashSize(),
		PayloadSize:  op.magic.Len(),
		ChecksumSize: op.checksum.ByteSize(),
	}
}

func (op *Operator) GenerateLicenseKey(seed []byte) (LicenseKey, error) {
	if err := op.checkSize(); err != nil {
		return LicenseKey{}, err
	}
	key := op.expander.Expand(seed, op.HashSize())

	payload := make([]byte, 0, op.magic.Len())
	for _, chunk := range op.magic.chunks {
		payload = append(payload, op.serializer.Hash(key, chunk))
	}

	serialized := make([]byte, 0, len(key)+len(payload)+op.checksum.ByteSize())
	serialized = append(serialized, key...)
	serialized = append(serialized, payload...)
	sum, err := op.checksum.Execute(serialized)
	if err != nil {
		return LicenseKey{}, err
	}
	serialized = append(serialized, sum...)

	return LicenseKey{
		Key:      key,
		Payload:  payload,
		Checksum: sum,
		Properties: Properties{
			KeySize:      len(key),
			PayloadSize:  len(payload),
			ChecksumSize: len(sum),
		},
		SerializedKey: serialized,
	}, nil
}

// ValidateLicenseKey re-derives the checksum from the token itself. A corrupted
// token is Invalid, never Blacklisted. The token must carry this operator's
// layout; any other split is Invalid.
func (op *Operator) ValidateLicenseKey(key LicenseKey) Status {
	if key.Properties != op.Properties() {
		op.lg.Debugw("license key rejected", "reason", "layout", "properties", key.Properties)
		return Invalid
	}
	k, err := key.Deserialize()
	if err != nil {
		op.lg.Debugw("license key rejected", "reason", "deserialize", "error", err)
		return Invalid
	}

	data := make([]byte, 0, len(k.Key)+len(k.Payload))
	data = append(data, k.Key...)
	data = append(data, k.Payload...)
	sum, err := op.checksum.Execute(data)
	if err != nil {
		op.lg.Debugw("license key rejected", "reason", "checksum", "error", err)
		return Invalid
	}
	if !bytes.Equal(sum, k.Checksum) {
		op.lg.Debugw("license key rejected", "reason", "checksum mismatch")
		return Invalid
	}

	if op.blacklist.Contains(k.Key) {
		op.lg.Debugw("license key rejected", "reason", "blacklisted")
		return Blacklisted
	}

	if op.byteCheck != nil && !op.byteCheck.Validate(k.Payload, k.Key, op.serializer, op.magic) {
		op.lg.Debugw("license key rejected", "reason", "byte check")
		return Invalid
	}
	return Valid
}

// AddSeedToBlacklist revokes every key generated from seed under this
// configuration. It returns the blacklisted fragment.
func (op *Operator) AddSeedToBlacklist(seed []byte) []byte {
	fragment := op.expander.Expand(seed, op.HashSize())
	op.blacklist.Add(fragment)
	return fragment
}

func (op *Operator) AddKeyToBlacklist(fragment []byte) bool {
	return op.blacklist.Add(fragment)
}

// SeedFragment is the key field a seed expands to under this configuration.
func (op *Operator) SeedFragment(seed []byte) []byte {
	return op.expander.Expand(seed, op.HashSize())
}

func (op *Operator) SerializedKey(key LicenseKey) string {
	return op.serializer.SerializeKey(key.SerializedKey)
}

// ParseKey decodes a display string and attaches this operator's layout.
func (op *Operator) ParseKey(s string) (LicenseKey, error) {
	raw, err := op.serializer.DeserializeKey(s)
	if err != nil {
		return LicenseKey{}, err
	}
	return LicenseKey{SerializedKey: raw, Properties: op.Properties()}, nil
}

func (op *Operator) ValidateString(s string) Status {
	k, err := op.ParseKey(s)
	if err != nil {
		op.lg.Debugw("license key rejected", "reason", "parse", "error", err)
		return Invalid
	}
	return op.ValidateLicenseKey(k)
}
