package middleware_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/minjae-ok/todo-sync/internal/middleware"
)

func signedToken(t *testing.T, privKey *rsa.PrivateKey, kid string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(privKey)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func jwksServer(t *testing.T, kid string, privKey *rsa.PrivateKey) *httptest.Server {
	t.Helper()
	jwks := map[string]any{
		"keys": []map[string]any{
			{
				"kty": "RSA",
				"kid": kid,
				"use": "sig",
				"alg": "RS256",
				"n":   base64.RawURLEncoding.EncodeToString(privKey.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(privKey.E)).Bytes()),
			},
		},
	}
	data, _ := json.Marshal(jwks)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// subResolver maps subs to user ids in memory.
type subResolver map[string]string

func (r subResolver) ResolveUserID(ctx context.Context, sub string) (string, error) {
	id, ok := r[sub]
	if !ok {
		return "", middleware.ErrUserNotFound
	}
	return id, nil
}

func newAuth(t *testing.T, cfg middleware.AuthConfig) *middleware.Auth {
	t.Helper()
	auth, err := middleware.NewAuth(cfg)
	if err != nil {
		t.Fatalf("NewAuth: %v", err)
	}
	return auth
}

func TestAuth_DevMode(t *testing.T) {
	auth := newAuth(t, middleware.AuthConfig{DevMode: true})

	var capturedUserID string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedUserID = middleware.GetUserID(r)
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		userIDHdr  string
		wantStatus int
		wantUserID string
	}{
		{"with X-User-ID", "dev-user-1", http.StatusOK, "dev-user-1"},
		{"without X-User-ID", "", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			capturedUserID = ""
			req := httptest.NewRequest(http.MethodGet, "/api/v1/todos", nil)
			if tt.userIDHdr != "" {
				req.Header.Set("X-User-ID", tt.userIDHdr)
			}
			w := httptest.NewRecorder()

			auth.Middleware(inner).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if tt.wantStatus == http.StatusOK && capturedUserID != tt.wantUserID {
				t.Errorf("expected userID=%q, got %q", tt.wantUserID, capturedUserID)
			}
		})
	}
}

func TestAuth_SkipsUnauthenticatedPaths(t *testing.T) {
	auth := newAuth(t, middleware.AuthConfig{DevMode: true})

	var called bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	paths := []string{
		"/health",
		"/api/v1/auth/login",
		"/api/v1/auth/refresh",
		"/api/v1/auth/logout",
	}

	for _, path := range paths {
		called = false
		req := httptest.NewRequest(http.MethodPost, path, nil)
		w := httptest.NewRecorder()

		auth.Middleware(inner).ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, w.Code)
		}
		if !called {
			t.Errorf("%s: inner handler was not called", path)
		}
	}
}

func TestAuth_JWTModeRequiresDependencies(t *testing.T) {
	if _, err := middleware.NewAuth(middleware.AuthConfig{DevMode: false}); err == nil {
		t.Error("expected error when JWT mode lacks JWKSClient and UserResolver")
	}
}

func TestAuth_JWT_Valid(t *testing.T) {
	privKey, _ := rsa.GenerateKey(rand.Reader, 2048)
	kid := "jwt-test-kid"
	srv := jwksServer(t, kid, privKey)

	auth := newAuth(t, middleware.AuthConfig{
		DevMode:      false,
		JWKSClient:   middleware.NewJWKSClient(srv.URL),
		Issuer:       "https://cognito-idp.ap-northeast-1.amazonaws.com/pool-1",
		AppClientID:  "client-1",
		UserResolver: subResolver{"sub-123": "user-1"},
	})

	var capturedUserID string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedUserID = middleware.GetUserID(r)
		w.WriteHeader(http.StatusOK)
	})

	token := signedToken(t, privKey, kid, jwt.MapClaims{
		"sub": "sub-123",
		"iss": "https://cognito-idp.ap-northeast-1.amazonaws.com/pool-1",
		"aud": "client-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/todos", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	auth.Middleware(inner).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d (body: %s)", w.Code, w.Body.String())
	}
	if capturedUserID != "user-1" {
		t.Errorf("expected userID=user-1, got %q", capturedUserID)
	}
}

func TestAuth_JWT_Rejections(t *testing.T) {
	privKey, _ := rsa.GenerateKey(rand.Reader, 2048)
	kid := "jwt-test-kid"
	srv := jwksServer(t, kid, privKey)

	auth := newAuth(t, middleware.AuthConfig{
		DevMode:      false,
		JWKSClient:   middleware.NewJWKSClient(srv.URL),
		Issuer:       "https://cognito-idp.ap-northeast-1.amazonaws.com/pool-1",
		AppClientID:  "client-1",
		UserResolver: subResolver{"sub-123": "user-1"},
	})

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	expired := signedToken(t, privKey, kid, jwt.MapClaims{
		"sub": "sub-123",
		"iss": "https://cognito-idp.ap-northeast-1.amazonaws.com/pool-1",
		"aud": "client-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	unknownUser := signedToken(t, privKey, kid, jwt.MapClaims{
		"sub": "sub-unknown",
		"iss": "https://cognito-idp.ap-northeast-1.amazonaws.com/pool-1",
		"aud": "client-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
		{"expired token", "Bearer " + expired},
		{"unknown user", "Bearer " + unknownUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/todos", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			auth.Middleware(inner).ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", w.Code)
			}
		})
	}
}
