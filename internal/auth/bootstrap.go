package auth

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"offlinelicense/internal/models"
)

// EnsureUser creates an active user with the given roles unless the email is
// already taken. It reports whether a user was created.
func EnsureUser(db *gorm.DB, email, password string, roles ...string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	hash, err := HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	var rs []models.Role
	if len(roles) > 0 {
		if err := db.Where("name IN ?", roles).Find(&rs).Error; err != nil {
			return false, err
		}
	}
	u := models.User{Email: email, PasswordHash: hash, IsActive: true, Roles: rs}
	if err := db.Create(&u).Error; err != nil {
		return false, err
	}
	return true, nil
}
