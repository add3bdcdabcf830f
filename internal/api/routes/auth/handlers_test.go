package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"go.uber.org/mock/gomock"

	"github.com/matt-dz/foodgram/internal/argon2id"
	"github.com/matt-dz/foodgram/internal/config"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/log"
)

func newTestEnv(mockDB *database.MockQuerier) *env.Env {
	secret := config.AppSecretValue("0123456789abcdef0123456789abcdef")
	return &env.Env{
		Logger:   log.NullLogger(),
		Database: &database.Database{Querier: mockDB},
		Config: config.Config{
			Env: config.EnvDev,
			AppSecret: config.AppSecret{
				Value:   &secret,
				Version: "1",
			},
		},
	}
}

func TestHandleLogin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := database.NewMockQuerier(ctrl)
	testEnv := newTestEnv(mockDB)

	passwd := "k9#Lm2$vQx7!pR"
	hash, err := argon2id.EncodeHash(passwd, argon2id.DefaultParams)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := database.User{ID: 7, Email: "alice@example.com", PasswordHash: hash}

	tests := []struct {
		name       string
		body       string
		setup      func()
		wantStatus int
		wantCookie bool
	}{
		{
			name: "successful login sets the access cookie",
			body: `{"email": "alice@example.com", "password": "` + passwd + `"}`,
			setup: func() {
				mockDB.EXPECT().
					GetUserByEmail(gomock.Any(), "alice@example.com").
					Return(user, nil)
			},
			wantStatus: http.StatusOK,
			wantCookie: true,
		},
		{
			name: "unknown email",
			body: `{"email": "nobody@example.com", "password": "` + passwd + `"}`,
			setup: func() {
				mockDB.EXPECT().
					GetUserByEmail(gomock.Any(), "nobody@example.com").
					Return(database.User{}, pgx.ErrNoRows)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "wrong password",
			body: `{"email": "alice@example.com", "password": "not-the-password"}`,
			setup: func() {
				mockDB.EXPECT().
					GetUserByEmail(gomock.Any(), "alice@example.com").
					Return(user, nil)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing password",
			body:       `{"email": "alice@example.com"}`,
			setup:      func() {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()

			r := httptest.NewRequest(http.MethodPost, "/api/auth/token/login", strings.NewReader(tt.body))
			r = r.WithContext(env.WithCtx(r.Context(), testEnv))
			w := httptest.NewRecorder()
			HandleLogin(w, r)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if !tt.wantCookie {
				return
			}

			var resp LoginResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.AuthToken == "" {
				t.Error("expected a token in the response body")
			}

			cookies := w.Result().Cookies()
			if len(cookies) != 1 {
				t.Fatalf("got %d cookies, want 1", len(cookies))
			}
			if cookies[0].Name != "access" || cookies[0].Value != resp.AuthToken {
				t.Errorf("cookie = %+v", cookies[0])
			}
		})
	}
}

func TestHandleLogout(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/auth/token/logout", nil)
	r = r.WithContext(env.WithCtx(r.Context(), &env.Env{Logger: log.NullLogger()}))
	w := httptest.NewRecorder()
	HandleLogout(w, r)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}
	if cookies[0].MaxAge != -1 {
		t.Errorf("MaxAge = %d, want -1", cookies[0].MaxAge)
	}
}
