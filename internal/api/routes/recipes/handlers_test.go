package recipes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/mock/gomock"

	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/filestore"
	"github.com/matt-dz/foodgram/internal/log"
)

func newTestEnv(t *testing.T, mockDB *database.MockQuerier) *env.Env {
	t.Helper()
	return &env.Env{
		Logger:    log.NullLogger(),
		Database:  &database.Database{Querier: mockDB},
		FileStore: filestore.NewLocal(t.TempDir(), filestore.DefaultURLPrefix, "http://localhost:8080"),
	}
}

func authedRequest(e *env.Env, userID int64, method, target, pathID string) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	ctx := env.WithCtx(r.Context(), e)
	if userID != 0 {
		ctx = token.UserIDWithCtx(ctx, userID)
	}
	if pathID != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", pathID)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return r.WithContext(ctx)
}

func TestHandleFavorite(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := database.NewMockQuerier(ctrl)
	testEnv := newTestEnv(t, mockDB)

	t.Run("adds the recipe and echoes a summary", func(t *testing.T) {
		mockDB.EXPECT().
			GetRecipe(gomock.Any(), int64(42)).
			Return(database.Recipe{
				ID:          42,
				Name:        "Борщ",
				Image:       "/files/recipes/01ABC.png",
				CookingTime: 90,
			}, nil)
		mockDB.EXPECT().
			AddRecipeToCollection(gomock.Any(), database.CollectionEntryParams{
				Kind:     database.CollectionFavorites,
				UserID:   7,
				RecipeID: 42,
			}).
			Return(nil)

		r := authedRequest(testEnv, 7, http.MethodPost, "/api/recipes/42/favorite", "42")
		w := httptest.NewRecorder()
		HandleFavorite(w, r)

		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		var resp RecipeSummaryResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.ID != 42 || resp.Image != "http://localhost:8080/files/recipes/01ABC.png" {
			t.Errorf("response = %+v", resp)
		}
	})

	t.Run("missing recipe", func(t *testing.T) {
		mockDB.EXPECT().
			GetRecipe(gomock.Any(), int64(42)).
			Return(database.Recipe{}, pgx.ErrNoRows)

		r := authedRequest(testEnv, 7, http.MethodPost, "/api/recipes/42/favorite", "42")
		w := httptest.NewRecorder()
		HandleFavorite(w, r)

		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", w.Code)
		}
	})

	t.Run("double favorite is a conflict", func(t *testing.T) {
		mockDB.EXPECT().
			GetRecipe(gomock.Any(), int64(42)).
			Return(database.Recipe{ID: 42}, nil)
		mockDB.EXPECT().
			AddRecipeToCollection(gomock.Any(), gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "unique_favorite_recipe"})

		r := authedRequest(testEnv, 7, http.MethodPost, "/api/recipes/42/favorite", "42")
		w := httptest.NewRecorder()
		HandleFavorite(w, r)

		if w.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", w.Code)
		}
	})
}

func TestHandleRemoveFromCart(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := database.NewMockQuerier(ctrl)
	testEnv := newTestEnv(t, mockDB)

	t.Run("removes the entry", func(t *testing.T) {
		mockDB.EXPECT().
			RemoveRecipeFromCollection(gomock.Any(), database.CollectionEntryParams{
				Kind:     database.CollectionShoppingCart,
				UserID:   7,
				RecipeID: 42,
			}).
			Return(int64(1), nil)

		r := authedRequest(testEnv, 7, http.MethodDelete, "/api/recipes/42/shopping_cart", "42")
		w := httptest.NewRecorder()
		HandleRemoveFromCart(w, r)

		if w.Code != http.StatusNoContent {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
	})

	t.Run("entry was never added", func(t *testing.T) {
		mockDB.EXPECT().
			RemoveRecipeFromCollection(gomock.Any(), gomock.Any()).
			Return(int64(0), nil)

		r := authedRequest(testEnv, 7, http.MethodDelete, "/api/recipes/42/shopping_cart", "42")
		w := httptest.NewRecorder()
		HandleRemoveFromCart(w, r)

		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", w.Code)
		}
	})
}

func TestHandleDeleteRecipe(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := database.NewMockQuerier(ctrl)
	testEnv := newTestEnv(t, mockDB)

	t.Run("only the author may delete", func(t *testing.T) {
		mockDB.EXPECT().
			GetRecipe(gomock.Any(), int64(42)).
			Return(database.Recipe{ID: 42, AuthorID: 1}, nil)

		r := authedRequest(testEnv, 7, http.MethodDelete, "/api/recipes/42", "42")
		w := httptest.NewRecorder()
		HandleDeleteRecipe(w, r)

		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", w.Code)
		}
	})

	t.Run("author deletes their recipe", func(t *testing.T) {
		mockDB.EXPECT().
			GetRecipe(gomock.Any(), int64(42)).
			Return(database.Recipe{ID: 42, AuthorID: 7, Image: "/files/recipes/01ABC.png"}, nil)
		mockDB.EXPECT().
			DeleteRecipe(gomock.Any(), int64(42)).
			Return(nil)

		r := authedRequest(testEnv, 7, http.MethodDelete, "/api/recipes/42", "42")
		w := httptest.NewRecorder()
		HandleDeleteRecipe(w, r)

		if w.Code != http.StatusNoContent {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
	})
}

func TestHandleDownloadShoppingCart(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := database.NewMockQuerier(ctrl)
	testEnv := newTestEnv(t, mockDB)

	t.Run("renders the aggregated list as an attachment", func(t *testing.T) {
		mockDB.EXPECT().
			CountCartEntries(gomock.Any(), int64(7)).
			Return(int64(2), nil)
		mockDB.EXPECT().
			GetCartIngredients(gomock.Any(), int64(7)).
			Return([]database.CartIngredientRow{
				{Name: "Картофель", MeasurementUnit: "г", Total: 700},
			}, nil)
		mockDB.EXPECT().
			GetUserByID(gomock.Any(), int64(7)).
			Return(database.User{ID: 7, Username: "alice"}, nil)

		r := authedRequest(testEnv, 7, http.MethodGet, "/api/recipes/download_shopping_cart", "")
		w := httptest.NewRecorder()
		HandleDownloadShoppingCart(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		if ct := w.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
			t.Errorf("Content-Type = %q", ct)
		}
		if cd := w.Header().Get("Content-Disposition"); cd != `attachment; filename="alice_items_to_buy.txt"` {
			t.Errorf("Content-Disposition = %q", cd)
		}

		wantLine := "1. Картофель - 700 г.\n"
		body := w.Body.String()
		wantHeader := "Дата: " + time.Now().Format("02/01/2006") + "\n"
		if body != wantHeader+wantLine {
			t.Errorf("body = %q, want %q", body, wantHeader+wantLine)
		}
	})

	t.Run("empty cart is a bad request", func(t *testing.T) {
		mockDB.EXPECT().
			CountCartEntries(gomock.Any(), int64(7)).
			Return(int64(0), nil)

		r := authedRequest(testEnv, 7, http.MethodGet, "/api/recipes/download_shopping_cart", "")
		w := httptest.NewRecorder()
		HandleDownloadShoppingCart(w, r)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})
}
