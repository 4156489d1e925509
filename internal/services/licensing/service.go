// Package licensing puts a license.Operator behind a lock and persists issued
// keys, revocations and audit entries.
package licensing

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/sha3"
	"gorm.io/gorm"

	"offlinelicense/internal/license"
	"offlinelicense/internal/models"
)

var (
	ErrEmptySeed  = errors.New("seed is required")
	ErrInvalidKey = errors.New("license key is invalid")
)

const (
	ActionIssue    = "LICENSE_ISSUE"
	ActionValidate = "LICENSE_VALIDATE"
	ActionRevoke   = "LICENSE_REVOKE"
)

// Service is safe for concurrent use. Generate and validate share a read
// lock; revocations take the write lock since they mutate the blacklist.
type Service struct {
	db *gorm.DB
	lg *zap.SugaredLogger

	mu sync.RWMutex
	op *license.Operator
}

// New loads persisted blacklist entries into op.
func New(ctx context.Context, db *gorm.DB, op *license.Operator, lg *zap.SugaredLogger) (*Service, error) {
	if lg == nil {
		lg = zap.NewNop().Sugar()
	}
	var entries []models.BlacklistEntry
	if err := db.WithContext(ctx).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("load blacklist: %w", err)
	}
	for _, e := range entries {
		frag, err := hex.DecodeString(e.Fragment)
		if err != nil {
			lg.Warnw("skipping malformed blacklist entry", "id", e.ID, "error", err)
			continue
		}
		op.AddKeyToBlacklist(frag)
	}
	lg.Infow("licensing service ready", "blacklisted", op.Blacklist().Len(), "key_size", op.KeySize())
	return &Service{db: db, lg: lg, op: op}, nil
}

func SeedDigest(seed []byte) string {
	sum := sha3.Sum256(seed)
	return hex.EncodeToString(sum[:])
}

func fragmentHex(b []byte) string { return strings.ToUpper(hex.EncodeToString(b)) }

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (s *Service) Issue(ctx context.Context, seed []byte, issuedBy string) (models.IssuedKey, error) {
	if len(seed) == 0 {
		return models.IssuedKey{}, ErrEmptySeed
	}
	s.mu.RLock()
	key, err := s.op.GenerateLicenseKey(seed)
	s.mu.RUnlock()
	if err != nil {
		return models.IssuedKey{}, err
	}
	display := s.op.SerializedKey(key)

	rec := models.IssuedKey{
		Fragment:   fragmentHex(key.Key),
		DisplayKey: display,
		SeedDigest: SeedDigest(seed),
		IssuedBy:   optional(issuedBy),
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return models.IssuedKey{}, fmt.Errorf("store issued key: %w", err)
	}
	s.audit(ctx, issuedBy, ActionIssue, map[string]any{"issued_key_id": rec.ID, "fragment": rec.Fragment})
	s.lg.Infow("license issued", "id", rec.ID, "fragment", rec.Fragment)
	return rec, nil
}

// Validate checks a display-form key. Anonymous calls (empty userID) are not audited.
func (s *Service) Validate(ctx context.Context, display, userID string) license.Status {
	s.mu.RLock()
	status := s.op.ValidateString(display)
	s.mu.RUnlock()
	if userID != "" {
		s.audit(ctx, userID, ActionValidate, map[string]any{"status": status.String()})
	}
	return status
}

func (s *Service) RevokeSeed(ctx context.Context, seed []byte, by, reason string) (models.BlacklistEntry, error) {
	if len(seed) == 0 {
		return models.BlacklistEntry{}, ErrEmptySeed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revoke(ctx, s.op.SeedFragment(seed), by, reason)
}

// RevokeKey blacklists the key field of a presented token. Tokens that fail
// the checksum are rejected rather than stored.
func (s *Service) RevokeKey(ctx context.Context, display, by, reason string) (models.BlacklistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	parsed, err := s.op.ParseKey(display)
	if err != nil {
		return models.BlacklistEntry{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if s.op.ValidateLicenseKey(parsed) == license.Invalid {
		return models.BlacklistEntry{}, ErrInvalidKey
	}
	k, err := parsed.Deserialize()
	if err != nil {
		return models.BlacklistEntry{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return s.revoke(ctx, k.Key, by, reason)
}

// revoke must run under the write lock.
func (s *Service) revoke(ctx context.Context, fragment []byte, by, reason string) (models.BlacklistEntry, error) {
	entry := models.BlacklistEntry{}
	err := s.db.WithContext(ctx).
		Where(models.BlacklistEntry{Fragment: fragmentHex(fragment)}).
		Attrs(models.BlacklistEntry{Reason: reason, RevokedBy: optional(by)}).
		FirstOrCreate(&entry).Error
	if err != nil {
		return models.BlacklistEntry{}, fmt.Errorf("store blacklist entry: %w", err)
	}
	added := s.op.AddKeyToBlacklist(fragment)
	s.audit(ctx, by, ActionRevoke, map[string]any{"fragment": entry.Fragment, "new": added})
	s.lg.Infow("license revoked", "fragment", entry.Fragment, "new", added)
	return entry, nil
}

func (s *Service) ListBlacklist(ctx context.Context) ([]models.BlacklistEntry, error) {
	var out []models.BlacklistEntry
	err := s.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}

func (s *Service) ListIssued(ctx context.Context, limit int) ([]models.IssuedKey, error) {
	if limit <= 0 || limit > 200 {
		limit = 200
	}
	var out []models.IssuedKey
	err := s.db.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&out).Error
	return out, err
}

func (s *Service) IsBlacklisted(fragment []byte) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.op.Blacklist().Contains(fragment)
}

func (s *Service) audit(ctx context.Context, userID, action string, md map[string]any) {
	entry := models.AuditLog{UserID: optional(userID), Action: action, Metadata: models.NewJSONB(md)}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		s.lg.Warnw("audit write failed", "action", action, "error", err)
	}
}
