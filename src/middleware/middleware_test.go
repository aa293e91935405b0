package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fire-server/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(UserID(r.Context()) + "|" + Username(r.Context())))
	})
}

func TestJWTAuthMiddleware(t *testing.T) {
	user := models.User{ID: "abc-123", Username: "maria", DisplayName: "María"}
	token, err := IssueToken(secret, user, time.Now())
	require.NoError(t, err)

	handler := JWTAuthMiddleware(secret)(echoUser())

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid", "Bearer " + token, http.StatusOK, "abc-123|maria"},
		{"missing", "", http.StatusUnauthorized, ""},
		{"garbage", "Bearer nope", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/months", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestJWTRejectsOtherSecretAndExpired(t *testing.T) {
	user := models.User{ID: "abc-123", Username: "maria"}
	handler := JWTAuthMiddleware(secret)(echoUser())

	other, err := IssueToken("other", user, time.Now())
	require.NoError(t, err)
	expired, err := IssueToken(secret, user, time.Now().Add(-2*TokenTTL))
	require.NoError(t, err)

	for _, token := range []string{other, expired} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
}

func TestCORSMiddleware(t *testing.T) {
	handler := CORSMiddleware([]string{"https://fire.example"})(echoUser())

	req := httptest.NewRequest(http.MethodOptions, "/api/months", nil)
	req.Header.Set("Origin", "https://fire.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://fire.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/months", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestDemoModeMiddleware(t *testing.T) {
	handler := DemoModeMiddleware(true)(echoUser())

	tests := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/api/months", http.StatusOK},
		{http.MethodPost, "/api/login", http.StatusOK},
		{http.MethodPut, "/api/config", http.StatusForbidden},
		{http.MethodPost, "/api/import", http.StatusForbidden},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, tt.want, rec.Code, tt.method+" "+tt.path)
	}

	rec := httptest.NewRecorder()
	DemoModeMiddleware(false)(echoUser()).ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/config", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestLoggerPassesThrough(t *testing.T) {
	handler := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
