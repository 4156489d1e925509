package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"offlinelicense/internal/auth"
	"offlinelicense/internal/license"
	"offlinelicense/internal/services/licensing"
)

type generateReq struct {
	Seed string `json:"seed"`
}

type validateReq struct {
	Key string `json:"key"`
}

// GenerateLicense issues a key for the seed (typically a customer email).
func GenerateLicense(svc *licensing.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateReq
		if !decodeJSON(w, r, &req) {
			return
		}
		rec, err := svc.Issue(r.Context(), []byte(req.Seed), auth.Subject(r.Context()))
		switch {
		case errors.Is(err, licensing.ErrEmptySeed):
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		case err != nil:
			lg.Errorw("issue license failed", "error", err)
			http.Error(w, "issue failed", http.StatusInternalServerError)
			return
		}
		respondJSON(w, map[string]any{"id": rec.ID, "key": rec.DisplayKey, "fragment": rec.Fragment})
	}
}

// ValidateLicense is public: the answer is the same one an offline client computes.
func ValidateLicense(svc *licensing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req validateReq
		if !decodeJSON(w, r, &req) {
			return
		}
		status := svc.Validate(r.Context(), req.Key, "")
		respondJSON(w, map[string]license.Status{"status": status})
	}
}

func ListLicenses(svc *licensing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		rows, err := svc.ListIssued(r.Context(), limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		respondJSON(w, map[string]any{"data": rows, "count": len(rows)})
	}
}
