package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"offlinelicense/internal/auth"
	"offlinelicense/internal/models"
	"offlinelicense/internal/services/licensing"
)

type revokeReq struct {
	Seed   string `json:"seed,omitempty"`
	Key    string `json:"key,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// RevokeLicense blacklists either a seed or a presented key, exactly one of them.
func RevokeLicense(svc *licensing.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req revokeReq
		if !decodeJSON(w, r, &req) {
			return
		}
		if (req.Seed == "") == (req.Key == "") {
			http.Error(w, "exactly one of seed or key is required", http.StatusBadRequest)
			return
		}
		uid := auth.Subject(r.Context())
		var (
			entry models.BlacklistEntry
			err   error
		)
		if req.Seed != "" {
			entry, err = svc.RevokeSeed(r.Context(), []byte(req.Seed), uid, req.Reason)
		} else {
			entry, err = svc.RevokeKey(r.Context(), req.Key, uid, req.Reason)
		}
		switch {
		case errors.Is(err, licensing.ErrInvalidKey):
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		case err != nil:
			lg.Errorw("revoke license failed", "error", err)
			http.Error(w, "revoke failed", http.StatusInternalServerError)
			return
		}
		respondJSON(w, entry)
	}
}

func ListBlacklist(svc *licensing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListBlacklist(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		respondJSON(w, map[string]any{"data": rows, "count": len(rows)})
	}
}
