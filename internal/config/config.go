package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"offlinelicense/internal/license"
)

// Config is the process configuration read from the environment.
type Config struct {
	DatabaseDriver string
	DatabaseURL    string
	HTTPPort       string
	JWTSecret      string
	JWTExpiresIn   time.Duration
	LogLevel       string
	ProfilePath    string
	AdminEmail     string
	AdminPassword  string
}

// Load reads an optional .env file and then the environment.
func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		DatabaseDriver: getenv("DATABASE_DRIVER", "postgres"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		HTTPPort:       getenv("HTTP_PORT", "8080"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTExpiresIn:   24 * time.Hour,
		LogLevel:       getenv("LOG_LEVEL", "info"),
		ProfilePath:    os.Getenv("LICENSE_PROFILE"),
		AdminEmail:     strings.ToLower(getenv("ADMIN_EMAIL", "admin@offlinelicense.local")),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
	}
	if s := os.Getenv("JWT_EXPIRES_IN"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			cfg.JWTExpiresIn = d
		}
	}
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Profile describes one license key configuration. Generator and validator
// must load the same profile.
type Profile struct {
	KeySize       int      `yaml:"key_size"`
	MagicSize     int      `yaml:"magic_size"`
	MagicCount    int      `yaml:"magic_count"`
	Magic         []string `yaml:"magic,omitempty"`
	ChecksumMagic string   `yaml:"checksum_magic"`
	ByteChecks    []int    `yaml:"byte_checks,omitempty"`
	Hasher        string   `yaml:"hasher"`
	Expander      string   `yaml:"expander"`
	Groups        int      `yaml:"groups"`
	Blacklist     []string `yaml:"blacklist,omitempty"`
}

func DefaultProfile() Profile {
	p := Profile{}
	setDefaults(&p)
	return p
}

// LoadProfile reads a YAML profile. An empty path yields the default profile.
func LoadProfile(path string) (Profile, error) {
	if path == "" {
		return DefaultProfile(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read license profile: %w", err)
	}
	return ParseProfile(data)
}

func ParseProfile(data []byte) (Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parse license profile: %w", err)
	}
	setDefaults(&p)
	return p, nil
}

func setDefaults(p *Profile) {
	if p.KeySize == 0 {
		p.KeySize = license.DefaultKeySize
	}
	if p.MagicSize == 0 && len(p.Magic) == 0 {
		p.MagicSize = 1
	}
	if p.MagicCount == 0 && len(p.Magic) == 0 {
		p.MagicCount = 3
	}
	if p.ChecksumMagic == "" {
		p.ChecksumMagic = "0102030405060708"
	}
	if p.Hasher == "" {
		p.Hasher = "default"
	}
	if p.Expander == "" {
		p.Expander = "shake256"
	}
	if p.Groups == 0 {
		p.Groups = 4
	}
}

// RandomMagic reports whether the profile relies on a magic table drawn at startup.
func (p Profile) RandomMagic() bool { return len(p.Magic) == 0 }

func (p Profile) serializer() (license.Serializer, error) {
	hs := license.HexSerializer{Groups: p.Groups}
	switch strings.ToLower(p.Hasher) {
	case "default":
		return license.DefaultSerializer{HexSerializer: hs}, nil
	case "alternate":
		return license.AlternateSerializer{HexSerializer: hs}, nil
	default:
		return nil, fmt.Errorf("unsupported hasher %q", p.Hasher)
	}
}

func (p Profile) expander() (license.SeedExpander, error) {
	switch strings.ToLower(p.Expander) {
	case "shake256":
		return license.Shake256Expander{}, nil
	case "blake3":
		return license.Blake3Expander{}, nil
	default:
		return nil, fmt.Errorf("unsupported expander %q", p.Expander)
	}
}

// Operator builds the license operator the profile describes.
func (p Profile) Operator(lg *zap.SugaredLogger) (*license.Operator, error) {
	salt, err := hex.DecodeString(p.ChecksumMagic)
	if err != nil {
		return nil, fmt.Errorf("checksum_magic: %w", err)
	}
	checksum, err := license.NewAdler32Checksum(salt)
	if err != nil {
		return nil, fmt.Errorf("checksum_magic: %w", err)
	}
	ser, err := p.serializer()
	if err != nil {
		return nil, err
	}
	exp, err := p.expander()
	if err != nil {
		return nil, err
	}

	blacklist := license.NewBlacklist()
	for i, s := range p.Blacklist {
		frag, err := hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("blacklist[%d]: %w", i, err)
		}
		blacklist.Add(frag)
	}

	opts := []license.Option{
		license.WithSerializer(ser),
		license.WithExpander(exp),
		license.WithBlacklist(blacklist),
		license.WithLogger(lg),
	}
	if len(p.ByteChecks) > 0 {
		opts = append(opts, license.WithByteCheck(p.ByteChecks...))
	}
	if p.RandomMagic() {
		opts = append(opts, license.WithRandomMagic(p.MagicSize, p.MagicCount))
	} else {
		magic := license.NewMagic()
		for i, s := range p.Magic {
			chunk, err := hex.DecodeString(s)
			if err != nil {
				return nil, fmt.Errorf("magic[%d]: %w", i, err)
			}
			magic.Push(chunk)
		}
		opts = append(opts, license.WithMagic(magic))
	}
	return license.NewOperator(p.KeySize, checksum, opts...)
}

// MagicYAML renders a magic table in profile form.
func MagicYAML(m *license.Magic) ([]byte, error) {
	chunks := make([]string, 0, m.Len())
	for _, c := range m.Chunks() {
		chunks = append(chunks, hexUpper(c))
	}
	return yaml.Marshal(struct {
		Magic []string `yaml:"magic"`
	}{chunks})
}

func hexUpper(b []byte) string { return strings.ToUpper(hex.EncodeToString(b)) }
