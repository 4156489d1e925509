package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"offlinelicense/internal/auth"
	"offlinelicense/internal/httpserver/handlers"
	"offlinelicense/internal/models"
	"offlinelicense/internal/services/licensing"
)

func NewRouter(db *gorm.DB, svc *licensing.Service, signer *auth.Signer, lg *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, middleware.Logger)
	r.Post("/v1/auth/login", handlers.Login(db, signer, lg))
	r.Post("/v1/licenses/validate", handlers.ValidateLicense(svc))
	r.Group(func(protected chi.Router) {
		protected.Use(auth.JWTAuth(db, signer))
		protected.Get("/v1/me", handlers.Me(db, lg))
		protected.Post("/v1/auth/logout", handlers.Logout(db))
		protected.Get("/v1/logs", handlers.MyLogs(db))
		protected.Group(func(issuer chi.Router) {
			issuer.Use(auth.RequireRole(models.RoleIssuer))
			issuer.Post("/v1/licenses", handlers.GenerateLicense(svc, lg))
			issuer.Get("/v1/licenses", handlers.ListLicenses(svc))
		})
		protected.Group(func(admin chi.Router) {
			admin.Use(auth.RequireRole(models.RoleAdministrator))
			admin.Post("/v1/blacklist", handlers.RevokeLicense(svc, lg))
			admin.Get("/v1/blacklist", handlers.ListBlacklist(svc))
		})
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	return r
}
