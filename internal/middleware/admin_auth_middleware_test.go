package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/towerline/society-service/internal/utils"
)

func newTestKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func signToken(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func adminClaims(sub string) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":  sub,
		"role": "admin",
		"iss":  TokenIssuer,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
}

func runMiddleware(key *rsa.PrivateKey, req *http.Request) (*httptest.ResponseRecorder, string) {
	var gotUserID string
	handler := AdminAuthMiddleware(&key.PublicKey)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if v, ok := r.Context().Value(ContextKeyUserID).(string); ok {
			gotUserID = v
		}
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr, gotUserID
}

func decodeErrorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body utils.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return body.Code
}

func TestAdminAuthMiddleware_ValidBearerToken(t *testing.T) {
	key := newTestKey(t)
	adminID := uuid.New().String()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cleanup/status", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, key, adminClaims(adminID)))

	rr, gotUserID := runMiddleware(key, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, adminID, gotUserID)
}

func TestAdminAuthMiddleware_CookieToken(t *testing.T) {
	key := newTestKey(t)
	adminID := uuid.New().String()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cleanup/status", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: signToken(t, key, adminClaims(adminID))})

	rr, gotUserID := runMiddleware(key, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, adminID, gotUserID)
}

func TestAdminAuthMiddleware_MissingToken(t *testing.T) {
	key := newTestKey(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cleanup/status", nil)

	rr, _ := runMiddleware(key, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, utils.ErrCodeUnauthorized, decodeErrorCode(t, rr))
}

func TestAdminAuthMiddleware_ExpiredToken(t *testing.T) {
	key := newTestKey(t)
	claims := adminClaims(uuid.New().String())
	claims["exp"] = time.Now().Add(-time.Hour).Unix()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cleanup/status", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, key, claims))

	rr, _ := runMiddleware(key, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, utils.ErrCodeTokenExpired, decodeErrorCode(t, rr))
}

func TestAdminAuthMiddleware_WrongIssuer(t *testing.T) {
	key := newTestKey(t)
	claims := adminClaims(uuid.New().String())
	claims["iss"] = "someone-else"

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cleanup/status", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, key, claims))

	rr, _ := runMiddleware(key, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAdminAuthMiddleware_NonAdminRole(t *testing.T) {
	key := newTestKey(t)
	claims := adminClaims(uuid.New().String())
	claims["role"] = "resident"

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cleanup/status", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, key, claims))

	rr, _ := runMiddleware(key, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestAdminAuthMiddleware_TokenSignedWithOtherKey(t *testing.T) {
	key := newTestKey(t)
	otherKey := newTestKey(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cleanup/status", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, otherKey, adminClaims(uuid.New().String())))

	rr, _ := runMiddleware(key, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, utils.ErrCodeUnauthorized, decodeErrorCode(t, rr))
}

func TestAdminAuthMiddleware_MalformedAuthorizationHeader(t *testing.T) {
	key := newTestKey(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cleanup/status", nil)
	req.Header.Set("Authorization", "Token abc123")

	rr, _ := runMiddleware(key, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
