package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/padelpoint/booking-backend/internal/api"
	"github.com/padelpoint/booking-backend/internal/auth"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "open-sesame"
)

func newLoginRouter(t *testing.T) (*gin.Engine, *auth.JWTManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// Low cost keeps the test fast; the handler only compares.
	hasher := auth.NewBcryptPasswordHasher(4)
	hash, err := hasher.Hash(adminPassword)
	require.NoError(t, err)

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	h := api.NewAdminHandler(adminEmail, hash, hasher, jwtManager)

	r := gin.New()
	r.POST("/admin/login", h.Login)
	return r, jwtManager
}

func postLogin(r *gin.Engine, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(body)

	req := httptest.NewRequest(http.MethodPost, "/admin/login", &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminLogin(t *testing.T) {
	r, jwtManager := newLoginRouter(t)

	w := postLogin(r, gin.H{"email": adminEmail, "password": adminPassword})
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.AdminLoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Bearer", resp.TokenType)

	claims, err := jwtManager.ParseAndValidate(resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, adminEmail, claims.Email)
}

func TestAdminLoginRejected(t *testing.T) {
	r, _ := newLoginRouter(t)

	tests := []struct {
		name       string
		body       gin.H
		wantStatus int
	}{
		{"wrong password", gin.H{"email": adminEmail, "password": "guess"}, http.StatusUnauthorized},
		{"unknown email", gin.H{"email": "other@example.com", "password": adminPassword}, http.StatusUnauthorized},
		{"missing password", gin.H{"email": adminEmail}, http.StatusBadRequest},
		{"missing email", gin.H{"password": adminPassword}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postLogin(r, tt.body)
			require.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
