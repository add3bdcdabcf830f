package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/config"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/log"
)

func newTestEnv() *env.Env {
	secret := config.AppSecretValue("0123456789abcdef0123456789abcdef")
	return &env.Env{
		Logger: log.NullLogger(),
		Config: config.Config{
			Env:        config.EnvDev,
			HostOrigin: "http://localhost:8080",
			AppSecret: config.AppSecret{
				Value:   &secret,
				Version: "1",
			},
		},
	}
}

func TestRequireAuth(t *testing.T) {
	testEnv := newTestEnv()

	var gotUserID int64
	handler := InjectEnv(testEnv)(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = token.UserIDFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})))

	t.Run("valid session passes through with the user id", func(t *testing.T) {
		accessToken, err := token.CreateAccessToken(7, testEnv)
		if err != nil {
			t.Fatalf("failed to create access token: %v", err)
		}

		r := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		r.AddCookie(&http.Cookie{Name: "access", Value: accessToken})
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		if gotUserID != 7 {
			t.Errorf("user id = %d, want 7", gotUserID)
		}
	})

	t.Run("missing cookie is unauthorized", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})

	t.Run("garbage token is unauthorized", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		r.AddCookie(&http.Cookie{Name: "access", Value: "not.a.jwt"})
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})
}

func TestOptionalAuth(t *testing.T) {
	testEnv := newTestEnv()

	var gotUserID int64
	handler := InjectEnv(testEnv)(OptionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = token.OptionalUserIDFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})))

	t.Run("anonymous request passes through", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		if gotUserID != 0 {
			t.Errorf("user id = %d, want 0", gotUserID)
		}
	})

	t.Run("valid session is attached", func(t *testing.T) {
		accessToken, err := token.CreateAccessToken(7, testEnv)
		if err != nil {
			t.Fatalf("failed to create access token: %v", err)
		}

		r := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
		r.AddCookie(&http.Cookie{Name: "access", Value: accessToken})
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		if gotUserID != 7 {
			t.Errorf("user id = %d, want 7", gotUserID)
		}
	})

	t.Run("invalid session stays anonymous", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
		r.AddCookie(&http.Cookie{Name: "access", Value: "expired.or.garbage"})
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		if gotUserID != 0 {
			t.Errorf("user id = %d, want 0", gotUserID)
		}
	})
}

func TestAddCors(t *testing.T) {
	testEnv := newTestEnv()

	handler := InjectEnv(testEnv)(AddCors(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	t.Run("dev mode echoes the request origin", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
		r.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
			t.Errorf("Access-Control-Allow-Origin = %q", got)
		}
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodOptions, "/api/recipes", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		if w.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", w.Code)
		}
	})
}
