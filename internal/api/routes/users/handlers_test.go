package users

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/mock/gomock"

	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/argon2id"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/log"
)

func newTestEnv(mockDB *database.MockQuerier) *env.Env {
	return &env.Env{
		Logger:   log.NullLogger(),
		Database: &database.Database{Querier: mockDB},
	}
}

func newRequest(t *testing.T, e *env.Env, method, target, body string) *http.Request {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return r.WithContext(env.WithCtx(r.Context(), e))
}

func withPathID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestHandleCreateUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := database.NewMockQuerier(ctrl)
	testEnv := newTestEnv(mockDB)

	validBody := `{
		"email": "alice@example.com",
		"username": "alice",
		"first_name": "Alice",
		"last_name": "Ivanova",
		"password": "k9#Lm2$vQx7!pR"
	}`

	tests := []struct {
		name       string
		body       string
		setup      func()
		wantStatus int
		wantCode   string
	}{
		{
			name: "successful registration",
			body: validBody,
			setup: func() {
				mockDB.EXPECT().
					CreateUser(gomock.Any(), gomock.Any()).
					Return(database.User{
						ID:        1,
						Email:     "alice@example.com",
						Username:  "alice",
						FirstName: "Alice",
						LastName:  "Ivanova",
					}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "malformed body",
			body:       `{"email":`,
			setup:      func() {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
		},
		{
			name:       "missing required fields",
			body:       `{"email": "alice@example.com"}`,
			setup:      func() {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
		},
		{
			name: "weak password",
			body: `{
				"email": "alice@example.com",
				"username": "alice",
				"first_name": "Alice",
				"last_name": "Ivanova",
				"password": "password12"
			}`,
			setup:      func() {},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "weak_password",
		},
		{
			name: "email already in use",
			body: validBody,
			setup: func() {
				mockDB.EXPECT().
					CreateUser(gomock.Any(), gomock.Any()).
					Return(database.User{}, &pgconn.PgError{
						Code:           "23505",
						ConstraintName: "users_email_key",
					})
			},
			wantStatus: http.StatusConflict,
			wantCode:   "email_conflict",
		},
		{
			name: "username already in use",
			body: validBody,
			setup: func() {
				mockDB.EXPECT().
					CreateUser(gomock.Any(), gomock.Any()).
					Return(database.User{}, &pgconn.PgError{
						Code:           "23505",
						ConstraintName: "users_username_key",
					})
			},
			wantStatus: http.StatusConflict,
			wantCode:   "username_conflict",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()

			r := newRequest(t, testEnv, http.MethodPost, "/api/users", tt.body)
			w := httptest.NewRecorder()
			HandleCreateUser(w, r)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantCode != "" {
				var errResp struct {
					Code string `json:"code"`
				}
				if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
					t.Fatalf("failed to decode error response: %v", err)
				}
				if errResp.Code != tt.wantCode {
					t.Errorf("code = %q, want %q", errResp.Code, tt.wantCode)
				}
				return
			}

			var resp UserResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Username != "alice" || resp.IsSubscribed {
				t.Errorf("response = %+v", resp)
			}
		})
	}
}

func TestHandleGetUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := database.NewMockQuerier(ctrl)
	testEnv := newTestEnv(mockDB)

	t.Run("profile of another user shows subscription state", func(t *testing.T) {
		mockDB.EXPECT().
			GetUserByID(gomock.Any(), int64(2)).
			Return(database.User{ID: 2, Username: "bob"}, nil)
		mockDB.EXPECT().
			IsSubscribed(gomock.Any(), database.SubscriptionParams{FollowerID: 7, AuthorID: 2}).
			Return(true, nil)

		r := newRequest(t, testEnv, http.MethodGet, "/api/users/2", "")
		r = r.WithContext(token.UserIDWithCtx(r.Context(), 7))
		r = withPathID(r, "2")
		w := httptest.NewRecorder()
		HandleGetUser(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		var resp UserResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if !resp.IsSubscribed {
			t.Error("expected is_subscribed to be true")
		}
	})

	t.Run("anonymous viewer never sees a subscription", func(t *testing.T) {
		mockDB.EXPECT().
			GetUserByID(gomock.Any(), int64(2)).
			Return(database.User{ID: 2, Username: "bob"}, nil)

		r := withPathID(newRequest(t, testEnv, http.MethodGet, "/api/users/2", ""), "2")
		w := httptest.NewRecorder()
		HandleGetUser(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		var resp UserResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.IsSubscribed {
			t.Error("expected is_subscribed to be false")
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		mockDB.EXPECT().
			GetUserByID(gomock.Any(), int64(99)).
			Return(database.User{}, pgx.ErrNoRows)

		r := withPathID(newRequest(t, testEnv, http.MethodGet, "/api/users/99", ""), "99")
		w := httptest.NewRecorder()
		HandleGetUser(w, r)

		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", w.Code)
		}
	})
}

func TestHandleSetPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := database.NewMockQuerier(ctrl)
	testEnv := newTestEnv(mockDB)

	currentPassword := "k9#Lm2$vQx7!pR"
	hash, err := argon2id.EncodeHash(currentPassword, argon2id.DefaultParams)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := database.User{ID: 7, Username: "alice", PasswordHash: hash}

	t.Run("successful change", func(t *testing.T) {
		mockDB.EXPECT().
			GetUserByID(gomock.Any(), int64(7)).
			Return(user, nil)
		mockDB.EXPECT().
			UpdateUserPassword(gomock.Any(), gomock.Any()).
			Return(nil)

		body := `{"current_password": "` + currentPassword + `", "new_password": "Zw4&Nt8@Hk3%yB"}`
		r := newRequest(t, testEnv, http.MethodPost, "/api/users/set_password", body)
		r = r.WithContext(token.UserIDWithCtx(r.Context(), 7))
		w := httptest.NewRecorder()
		HandleSetPassword(w, r)

		if w.Code != http.StatusNoContent {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
	})

	t.Run("wrong current password", func(t *testing.T) {
		mockDB.EXPECT().
			GetUserByID(gomock.Any(), int64(7)).
			Return(user, nil)

		body := `{"current_password": "not-the-password", "new_password": "Zw4&Nt8@Hk3%yB"}`
		r := newRequest(t, testEnv, http.MethodPost, "/api/users/set_password", body)
		r = r.WithContext(token.UserIDWithCtx(r.Context(), 7))
		w := httptest.NewRecorder()
		HandleSetPassword(w, r)

		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", w.Code)
		}
	})
}

func TestHandleSubscribe(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := database.NewMockQuerier(ctrl)
	testEnv := newTestEnv(mockDB)

	t.Run("self subscription is a bad request", func(t *testing.T) {
		r := newRequest(t, testEnv, http.MethodPost, "/api/users/7/subscribe", "")
		r = r.WithContext(token.UserIDWithCtx(r.Context(), 7))
		r = withPathID(r, "7")
		w := httptest.NewRecorder()
		HandleSubscribe(w, r)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})

	t.Run("duplicate subscription is a conflict", func(t *testing.T) {
		mockDB.EXPECT().
			GetUserByID(gomock.Any(), int64(2)).
			Return(database.User{ID: 2}, nil)
		mockDB.EXPECT().
			CreateSubscription(gomock.Any(), gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "unique_subscription"})

		r := newRequest(t, testEnv, http.MethodPost, "/api/users/2/subscribe", "")
		r = r.WithContext(token.UserIDWithCtx(r.Context(), 7))
		r = withPathID(r, "2")
		w := httptest.NewRecorder()
		HandleSubscribe(w, r)

		if w.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", w.Code)
		}
	})

	t.Run("successful subscription echoes the author", func(t *testing.T) {
		mockDB.EXPECT().
			GetUserByID(gomock.Any(), int64(2)).
			Return(database.User{ID: 2, Username: "chef"}, nil)
		mockDB.EXPECT().
			CreateSubscription(gomock.Any(), database.SubscriptionParams{FollowerID: 7, AuthorID: 2}).
			Return(nil)
		mockDB.EXPECT().
			GetUserByID(gomock.Any(), int64(2)).
			Return(database.User{ID: 2, Username: "chef"}, nil)
		mockDB.EXPECT().
			CountRecipesByAuthor(gomock.Any(), int64(2)).
			Return(int64(3), nil)

		r := newRequest(t, testEnv, http.MethodPost, "/api/users/2/subscribe", "")
		r = r.WithContext(token.UserIDWithCtx(r.Context(), 7))
		r = withPathID(r, "2")
		w := httptest.NewRecorder()
		HandleSubscribe(w, r)

		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		var resp AuthorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Username != "chef" || resp.RecipesCount != 3 || !resp.IsSubscribed {
			t.Errorf("response = %+v", resp)
		}
	})
}
