package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdministrator = "Administrator"
	RoleIssuer        = "Issuer"
)

type Role struct {
	ID   int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	Roles        []Role    `gorm:"many2many:user_roles" json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (u User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

type Session struct {
	JTI       string     `gorm:"primaryKey;size:64" json:"jti"`
	UserID    string     `gorm:"size:36;index;not null" json:"user_id"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// IssuedKey records a generated license. The seed is kept only as a digest.
type IssuedKey struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Fragment   string    `gorm:"index;not null" json:"fragment"`
	DisplayKey string    `gorm:"not null" json:"key"`
	SeedDigest string    `gorm:"index;not null" json:"seed_digest"`
	IssuedBy   *string   `gorm:"size:36" json:"issued_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (k *IssuedKey) BeforeCreate(*gorm.DB) error {
	if k.ID == "" {
		k.ID = uuid.NewString()
	}
	return nil
}

// BlacklistEntry persists one revoked key fragment (hex encoded).
type BlacklistEntry struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Fragment  string    `gorm:"uniqueIndex;not null" json:"fragment"`
	Reason    string    `json:"reason,omitempty"`
	RevokedBy *string   `gorm:"size:36" json:"revoked_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type AuditLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *string   `gorm:"size:36;index" json:"user_id,omitempty"`
	Action    string    `gorm:"not null" json:"action"`
	Metadata  JSONB     `gorm:"type:jsonb" json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
}

// All lists every model for AutoMigrate.
func All() []any {
	return []any{&Role{}, &User{}, &Session{}, &IssuedKey{}, &BlacklistEntry{}, &AuditLog{}}
}
