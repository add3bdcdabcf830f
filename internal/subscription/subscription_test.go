package subscription

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/mock/gomock"

	"github.com/matt-dz/foodgram/internal/apperr"
	"github.com/matt-dz/foodgram/internal/database"
)

func TestSubscribe(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := database.NewMockQuerier(ctrl)
	registry := NewRegistry(mockDB)

	tests := []struct {
		name         string
		followerID   int64
		authorID     int64
		setup        func()
		wantErr      error
		wantNotFound bool
		wantConflict bool
	}{
		{
			name:       "successful subscription",
			followerID: 1,
			authorID:   2,
			setup: func() {
				mockDB.EXPECT().
					GetUserByID(gomock.Any(), int64(2)).
					Return(database.User{ID: 2}, nil)
				mockDB.EXPECT().
					CreateSubscription(gomock.Any(), database.SubscriptionParams{
						FollowerID: 1,
						AuthorID:   2,
					}).
					Return(nil)
			},
		},
		{
			name:       "self subscription is rejected before touching the store",
			followerID: 1,
			authorID:   1,
			setup:      func() {},
			wantErr:    apperr.ErrSelfSubscription,
		},
		{
			name:       "author does not exist",
			followerID: 1,
			authorID:   2,
			setup: func() {
				mockDB.EXPECT().
					GetUserByID(gomock.Any(), int64(2)).
					Return(database.User{}, pgx.ErrNoRows)
			},
			wantNotFound: true,
		},
		{
			name:       "duplicate subscription",
			followerID: 1,
			authorID:   2,
			setup: func() {
				mockDB.EXPECT().
					GetUserByID(gomock.Any(), int64(2)).
					Return(database.User{ID: 2}, nil)
				mockDB.EXPECT().
					CreateSubscription(gomock.Any(), gomock.Any()).
					Return(&pgconn.PgError{Code: "23505", ConstraintName: "unique_subscription"})
			},
			wantConflict: true,
		},
		{
			name:       "check constraint backstops the self subscription guard",
			followerID: 1,
			authorID:   2,
			setup: func() {
				mockDB.EXPECT().
					GetUserByID(gomock.Any(), int64(2)).
					Return(database.User{ID: 2}, nil)
				mockDB.EXPECT().
					CreateSubscription(gomock.Any(), gomock.Any()).
					Return(&pgconn.PgError{Code: "23514", ConstraintName: "no_self_subscription"})
			},
			wantErr: apperr.ErrSelfSubscription,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()

			err := registry.Subscribe(context.Background(), tt.followerID, tt.authorID)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if tt.wantNotFound {
				if !apperr.IsNotFound(err) {
					t.Fatalf("expected NotFoundError, got %v", err)
				}
				return
			}
			if tt.wantConflict {
				if !apperr.IsAlreadyExists(err) {
					t.Fatalf("expected AlreadyExistsError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestUnsubscribe(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := database.NewMockQuerier(ctrl)
	registry := NewRegistry(mockDB)

	t.Run("successful unsubscription", func(t *testing.T) {
		mockDB.EXPECT().
			DeleteSubscription(gomock.Any(), database.SubscriptionParams{
				FollowerID: 1,
				AuthorID:   2,
			}).
			Return(int64(1), nil)

		if err := registry.Unsubscribe(context.Background(), 1, 2); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("subscription was never created", func(t *testing.T) {
		mockDB.EXPECT().
			DeleteSubscription(gomock.Any(), gomock.Any()).
			Return(int64(0), nil)

		err := registry.Unsubscribe(context.Background(), 1, 2)
		if !apperr.IsNotFound(err) {
			t.Fatalf("expected NotFoundError, got %v", err)
		}
	})
}

func TestIsSubscribed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := database.NewMockQuerier(ctrl)
	registry := NewRegistry(mockDB)

	t.Run("anonymous follower is never subscribed", func(t *testing.T) {
		ok, err := registry.IsSubscribed(context.Background(), 0, 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			t.Error("expected false for anonymous follower")
		}
	})

	t.Run("membership is read from the store", func(t *testing.T) {
		mockDB.EXPECT().
			IsSubscribed(gomock.Any(), database.SubscriptionParams{
				FollowerID: 1,
				AuthorID:   2,
			}).
			Return(true, nil)

		ok, err := registry.IsSubscribed(context.Background(), 1, 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			t.Error("expected subscription")
		}
	})
}

func TestGetAuthor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := database.NewMockQuerier(ctrl)
	registry := NewRegistry(mockDB)

	author := database.User{ID: 2, Username: "chef", Email: "chef@example.com"}

	t.Run("recipes are listed up to the limit", func(t *testing.T) {
		mockDB.EXPECT().
			GetUserByID(gomock.Any(), int64(2)).
			Return(author, nil)
		mockDB.EXPECT().
			CountRecipesByAuthor(gomock.Any(), int64(2)).
			Return(int64(5), nil)
		mockDB.EXPECT().
			ListRecipesByAuthor(gomock.Any(), database.ListRecipesByAuthorParams{
				AuthorID: 2,
				Limit:    3,
			}).
			Return([]database.Recipe{{ID: 10}, {ID: 9}, {ID: 8}}, nil)

		got, err := registry.GetAuthor(context.Background(), 2, 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.User.ID != 2 || got.RecipeCount != 5 || len(got.Recipes) != 3 {
			t.Errorf("author = %+v", got)
		}
	})

	t.Run("limit zero skips the recipe listing", func(t *testing.T) {
		mockDB.EXPECT().
			GetUserByID(gomock.Any(), int64(2)).
			Return(author, nil)
		mockDB.EXPECT().
			CountRecipesByAuthor(gomock.Any(), int64(2)).
			Return(int64(5), nil)

		got, err := registry.GetAuthor(context.Background(), 2, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Recipes != nil {
			t.Errorf("expected no recipes, got %d", len(got.Recipes))
		}
	})

	t.Run("author does not exist", func(t *testing.T) {
		mockDB.EXPECT().
			GetUserByID(gomock.Any(), int64(2)).
			Return(database.User{}, pgx.ErrNoRows)

		_, err := registry.GetAuthor(context.Background(), 2, 3)
		if !apperr.IsNotFound(err) {
			t.Fatalf("expected NotFoundError, got %v", err)
		}
	})
}

func TestListAuthors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := database.NewMockQuerier(ctrl)
	registry := NewRegistry(mockDB)

	mockDB.EXPECT().
		ListSubscribedAuthors(gomock.Any(), database.ListSubscribedAuthorsParams{
			FollowerID: 1,
			Limit:      6,
			Offset:     0,
		}).
		Return([]database.User{{ID: 2}, {ID: 3}}, nil)
	mockDB.EXPECT().
		CountSubscribedAuthors(gomock.Any(), int64(1)).
		Return(int64(2), nil)
	mockDB.EXPECT().
		CountRecipesByAuthor(gomock.Any(), int64(2)).
		Return(int64(4), nil)
	mockDB.EXPECT().
		CountRecipesByAuthor(gomock.Any(), int64(3)).
		Return(int64(0), nil)
	mockDB.EXPECT().
		ListRecipesByAuthor(gomock.Any(), database.ListRecipesByAuthorParams{
			AuthorID: 2,
			Limit:    2,
		}).
		Return([]database.Recipe{{ID: 10}, {ID: 9}}, nil)
	mockDB.EXPECT().
		ListRecipesByAuthor(gomock.Any(), database.ListRecipesByAuthorParams{
			AuthorID: 3,
			Limit:    2,
		}).
		Return(nil, nil)

	authors, total, err := registry.ListAuthors(context.Background(), ListAuthorsParams{
		FollowerID:   1,
		Limit:        6,
		RecipesLimit: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
	if len(authors) != 2 {
		t.Fatalf("got %d authors, want 2", len(authors))
	}
	if authors[0].RecipeCount != 4 || len(authors[0].Recipes) != 2 {
		t.Errorf("authors[0] = %+v", authors[0])
	}
}
