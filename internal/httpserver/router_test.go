package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"offlinelicense/internal/auth"
	"offlinelicense/internal/models"
	"offlinelicense/internal/services/licensing"
	"offlinelicense/internal/testutil"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	h, _ := newTestServer(t)
	return h
}

func newTestServer(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()
	db := testutil.OpenDB(t)
	_, err := auth.EnsureUser(db, "admin@example.com", "admin-pw", models.RoleAdministrator, models.RoleIssuer)
	require.NoError(t, err)
	_, err = auth.EnsureUser(db, "issuer@example.com", "issuer-pw", models.RoleIssuer)
	require.NoError(t, err)

	svc, err := licensing.New(context.Background(), db, testutil.Operator(t), nil)
	require.NoError(t, err)
	signer := auth.NewSigner("0123456789abcdef0123456789abcdef", time.Hour)
	return NewRouter(db, svc, signer, zap.NewNop().Sugar()), db
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func login(t *testing.T, h http.Handler, email, pw string) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/v1/auth/login", "", map[string]string{"email": email, "password": pw})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	tok, _ := decode(t, rec)["token"].(string)
	require.NotEmpty(t, tok)
	return tok
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	h := newTestRouter(t)
	rec := do(t, h, http.MethodPost, "/v1/auth/login", "", map[string]string{"email": "admin@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = do(t, h, http.MethodPost, "/v1/auth/login", "", map[string]string{"email": "ghost@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestIssueValidateRevokeFlow(t *testing.T) {
	h, db := newTestServer(t)
	seed := map[string]string{"seed": "sample.name@sample.domain.com"}

	rec := do(t, h, http.MethodPost, "/v1/licenses", "", seed)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	issuer := login(t, h, "issuer@example.com", "issuer-pw")
	rec = do(t, h, http.MethodPost, "/v1/licenses", issuer, seed)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	key, _ := decode(t, rec)["key"].(string)
	require.NotEmpty(t, key)

	rec = do(t, h, http.MethodPost, "/v1/licenses", issuer, map[string]string{"seed": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/licenses/validate", "", map[string]string{"key": key})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "valid", decode(t, rec)["status"])

	rec = do(t, h, http.MethodPost, "/v1/licenses/validate", "", map[string]string{"key": "0000-0000"})
	assert.Equal(t, "invalid", decode(t, rec)["status"])

	var validations int64
	require.NoError(t, db.Model(&models.AuditLog{}).Where("action = ?", licensing.ActionValidate).Count(&validations).Error)
	assert.Zero(t, validations)

	rec = do(t, h, http.MethodGet, "/v1/licenses", issuer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode(t, rec)["count"])

	rec = do(t, h, http.MethodPost, "/v1/blacklist", issuer, seed)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := login(t, h, "admin@example.com", "admin-pw")
	rec = do(t, h, http.MethodPost, "/v1/blacklist", admin, map[string]string{"seed": "a", "key": key})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, h, http.MethodPost, "/v1/blacklist", admin, map[string]string{"key": "ABCD"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/blacklist", admin, map[string]string{"key": key, "reason": "leaked"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "leaked", decode(t, rec)["reason"])

	rec = do(t, h, http.MethodPost, "/v1/licenses/validate", "", map[string]string{"key": key})
	assert.Equal(t, "blacklisted", decode(t, rec)["status"])

	rec = do(t, h, http.MethodGet, "/v1/blacklist", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode(t, rec)["count"])
}

func TestMeLogsAndLogout(t *testing.T) {
	h := newTestRouter(t)
	tok := login(t, h, "issuer@example.com", "issuer-pw")

	rec := do(t, h, http.MethodGet, "/v1/me", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "issuer@example.com", decode(t, rec)["email"])

	rec = do(t, h, http.MethodPost, "/v1/licenses", tok, map[string]string{"seed": "someone@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/logs", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var logs []models.AuditLog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &logs))
	require.Len(t, logs, 1)
	assert.Equal(t, licensing.ActionIssue, logs[0].Action)

	rec = do(t, h, http.MethodPost, "/v1/auth/logout", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h, http.MethodGet, "/v1/me", tok, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
