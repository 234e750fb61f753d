package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timvest/intake-server-go/internal/model"
	"github.com/timvest/intake-server-go/internal/repository"
	"github.com/timvest/intake-server-go/internal/service"
)

const testSecret = "middleware-test-secret-that-is-long-enough"

func newTestAuthService(t *testing.T) *service.AuthService {
	t.Helper()
	admins, err := repository.NewSeededAdminRepository()
	require.NoError(t, err)
	return service.NewAuthService(admins, testSecret, 24*time.Hour)
}

func protectedRouter(auth *service.AuthService) http.Handler {
	r := chi.NewRouter()
	r.Use(NewAuthMiddleware(auth).Handler)
	r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
		principal := GetPrincipal(r.Context())
		w.Write([]byte(principal.Email))
	})
	r.With(RequireRole(model.RoleAdmin)).Get("/admin", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

func decodeCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	code, _ := body["code"].(string)
	return code
}

func TestAuthMiddleware(t *testing.T) {
	auth := newTestAuthService(t)
	router := protectedRouter(auth)

	adminToken, err := auth.IssueToken(model.Principal{ID: 1, Email: "admin@timvest.co.za", Role: model.RoleAdmin})
	require.NoError(t, err)
	viewerToken, err := auth.IssueToken(model.Principal{ID: 2, Email: "viewer@timvest.co.za", Role: "viewer"})
	require.NoError(t, err)

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantCode   string
	}{
		{"missing header", "/admin", "", http.StatusUnauthorized, "MISSING_TOKEN"},
		{"wrong scheme", "/admin", "Basic " + adminToken, http.StatusUnauthorized, "MISSING_TOKEN"},
		{"garbage token", "/admin", "Bearer not-a-jwt", http.StatusForbidden, "INVALID_TOKEN"},
		{"non-admin role", "/admin", "Bearer " + viewerToken, http.StatusForbidden, "ACCESS_DENIED"},
		{"admin passes", "/admin", "Bearer " + adminToken, http.StatusNoContent, ""},
		{"any role may read itself", "/me", "Bearer " + viewerToken, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeCode(t, rec))
			}
		})
	}
}

func TestAuthMiddleware_PrincipalInContext(t *testing.T) {
	auth := newTestAuthService(t)
	token, err := auth.IssueToken(model.Principal{ID: 7, Email: "viewer@timvest.co.za", Role: "viewer"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protectedRouter(auth).ServeHTTP(rec, req)

	assert.Equal(t, "viewer@timvest.co.za", rec.Body.String())
}

func TestRequireRole_WithoutAuthentication(t *testing.T) {
	handler := RequireRole(model.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetPrincipal_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, GetPrincipal(req.Context()))
}

func TestBodyLimitMiddleware(t *testing.T) {
	m := NewBodyLimitMiddleware(16)
	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("rejects oversized body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 32)))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Equal(t, "PAYLOAD_TOO_LARGE", decodeCode(t, rec))
	})

	t.Run("allows small body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("non-positive size uses default", func(t *testing.T) {
		assert.Equal(t, int64(DefaultMaxBodySize), NewBodyLimitMiddleware(0).maxSize)
	})
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	rec := httptest.NewRecorder()
	NewSecurityHeadersMiddleware(false).Handler(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))

	rec = httptest.NewRecorder()
	NewSecurityHeadersMiddleware(true).Handler(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestNewCORS(t *testing.T) {
	handler := NewCORS([]string{"https://portal.example.com"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/admin/stats", nil)
	req.Header.Set("Origin", "https://portal.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "https://portal.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLogger(t *testing.T) {
	handler := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
