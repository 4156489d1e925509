package main

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"offlinelicense/internal/auth"
	"offlinelicense/internal/config"
	"offlinelicense/internal/database"
	"offlinelicense/internal/httpserver"
	"offlinelicense/internal/logger"
	"offlinelicense/internal/models"
	"offlinelicense/internal/services/licensing"
)

func main() {
	cfg := config.Load()
	lg := logger.New(cfg.LogLevel)
	defer lg.Sync()

	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseURL, cfg.LogLevel == "debug")
	if err != nil {
		lg.Fatalw("database init failed", "error", err)
	}
	seedDefaultAdmin(db, cfg, lg)

	profile, err := config.LoadProfile(cfg.ProfilePath)
	if err != nil {
		lg.Fatalw("license profile load failed", "error", err)
	}
	if profile.RandomMagic() {
		lg.Warnw("license profile has no magic table, using a random one; keys will not validate after restart",
			"magic_size", profile.MagicSize, "magic_count", profile.MagicCount)
	}
	op, err := profile.Operator(lg.Named("license"))
	if err != nil {
		lg.Fatalw("license operator init failed", "error", err)
	}
	svc, err := licensing.New(context.Background(), db, op, lg)
	if err != nil {
		lg.Fatalw("licensing service init failed", "error", err)
	}

	if cfg.JWTSecret == "" {
		lg.Fatalw("JWT_SECRET is empty")
	}
	signer := auth.NewSigner(cfg.JWTSecret, cfg.JWTExpiresIn)
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           httpserver.NewRouter(db, svc, signer, lg),
		ReadHeaderTimeout: 10 * time.Second,
	}
	lg.Infow("listening", "port", cfg.HTTPPort)
	if err := srv.ListenAndServe(); err != nil {
		lg.Fatalw("http server stopped", "error", err)
	}
}

func seedDefaultAdmin(db *gorm.DB, cfg config.Config, lg *zap.SugaredLogger) {
	if cfg.AdminPassword == "" {
		return
	}
	created, err := auth.EnsureUser(db, cfg.AdminEmail, cfg.AdminPassword, models.RoleAdministrator, models.RoleIssuer)
	if err != nil {
		lg.Errorw("seed default admin failed", "error", err)
		return
	}
	if created {
		lg.Infow("seeded default admin", "email", cfg.AdminEmail)
	}
}
