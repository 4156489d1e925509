package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"offlinelicense/internal/auth"
	"offlinelicense/internal/models"
)

// MyLogs returns recent audit logs. Administrators can pass ?all=1 to see
// everyone's, including anonymous validations.
func MyLogs(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.FromContext(r.Context())
		q := db.WithContext(r.Context()).Order("id desc").Limit(200)
		if !(r.URL.Query().Get("all") == "1" && claims.HasRole(models.RoleAdministrator)) {
			q = q.Where("user_id = ?", claims.Subject)
		}
		logs := []models.AuditLog{}
		if err := q.Find(&logs).Error; err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		respondJSON(w, logs)
	}
}
