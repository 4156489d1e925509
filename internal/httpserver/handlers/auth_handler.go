package handlers

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"offlinelicense/internal/auth"
	"offlinelicense/internal/models"
)

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Login(db *gorm.DB, signer *auth.Signer, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginReq
		if !decodeJSON(w, r, &req) {
			return
		}
		var u models.User
		if err := db.WithContext(r.Context()).Preload("Roles").First(&u, "email = ?", strings.ToLower(strings.TrimSpace(req.Email))).Error; err != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		if !u.IsActive || auth.CheckPassword(u.PasswordHash, req.Password) != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		tok, jti, err := signer.Sign(u.ID, u.RoleNames())
		if err != nil {
			http.Error(w, "token error", http.StatusInternalServerError)
			return
		}
		sess := models.Session{JTI: jti, UserID: u.ID, ExpiresAt: time.Now().Add(signer.TTL())}
		if err := db.WithContext(r.Context()).Create(&sess).Error; err != nil {
			http.Error(w, "session error", http.StatusInternalServerError)
			return
		}
		lg.Infow("user logged in", "user_id", u.ID)
		respondJSON(w, map[string]any{"token": tok, "expires_at": sess.ExpiresAt})
	}
}

func Logout(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jti := auth.FromContext(r.Context()).JWTID
		now := time.Now()
		if err := db.WithContext(r.Context()).Model(&models.Session{}).Where("jti = ?", jti).Update("revoked_at", &now).Error; err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		respondJSON(w, map[string]any{"logged_out": true})
	}
}

func Me(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var u models.User
		if err := db.WithContext(r.Context()).Preload("Roles").First(&u, "id = ?", auth.Subject(r.Context())).Error; err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		respondJSON(w, map[string]any{"id": u.ID, "email": u.Email, "roles": u.RoleNames(), "is_active": u.IsActive})
	}
}
