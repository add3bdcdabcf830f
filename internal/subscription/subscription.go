// Package subscription manages follower→author edges.
package subscription

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/matt-dz/foodgram/internal/apperr"
	"github.com/matt-dz/foodgram/internal/database"
)

type Registry struct {
	db database.Querier
}

func NewRegistry(db database.Querier) *Registry {
	return &Registry{db: db}
}

// Author is a subscribed-to user annotated with their recipe count and a
// capped list of their most recent recipes.
type Author struct {
	User        database.User
	RecipeCount int64
	Recipes     []database.Recipe
}

// Subscribe creates the follower→author edge. Subscribing to yourself and
// subscribing twice are both rejected; the duplicate is caught by the
// store's unique constraint so concurrent subscribes cannot race past it.
func (r *Registry) Subscribe(ctx context.Context, followerID, authorID int64) error {
	if followerID == authorID {
		return apperr.ErrSelfSubscription
	}

	if _, err := r.db.GetUserByID(ctx, authorID); errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("user", authorID)
	} else if err != nil {
		return fmt.Errorf("getting author: %w", err)
	}

	err := r.db.CreateSubscription(ctx, database.SubscriptionParams{
		FollowerID: followerID,
		AuthorID:   authorID,
	})
	if database.IsUniqueViolation(err) {
		return apperr.AlreadyExists("subscription")
	} else if database.IsCheckViolation(err) {
		return apperr.ErrSelfSubscription
	} else if err != nil {
		return fmt.Errorf("creating subscription: %w", err)
	}
	return nil
}

// Unsubscribe removes the edge, signalling NotFoundError when it does
// not exist.
func (r *Registry) Unsubscribe(ctx context.Context, followerID, authorID int64) error {
	deleted, err := r.db.DeleteSubscription(ctx, database.SubscriptionParams{
		FollowerID: followerID,
		AuthorID:   authorID,
	})
	if err != nil {
		return fmt.Errorf("deleting subscription: %w", err)
	}
	if deleted == 0 {
		return apperr.NotFound("subscription", authorID)
	}
	return nil
}

// IsSubscribed reports whether follower subscribes to author. Anonymous
// users (followerID 0) are never subscribed and the store is not queried.
func (r *Registry) IsSubscribed(ctx context.Context, followerID, authorID int64) (bool, error) {
	if followerID == 0 {
		return false, nil
	}
	return r.db.IsSubscribed(ctx, database.SubscriptionParams{
		FollowerID: followerID,
		AuthorID:   authorID,
	})
}

// GetAuthor loads one author with their recipe count and up to
// recipesLimit recipes (0 disables the listing).
func (r *Registry) GetAuthor(ctx context.Context, authorID int64, recipesLimit int32) (Author, error) {
	user, err := r.db.GetUserByID(ctx, authorID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Author{}, apperr.NotFound("user", authorID)
	} else if err != nil {
		return Author{}, fmt.Errorf("getting author: %w", err)
	}

	count, err := r.db.CountRecipesByAuthor(ctx, authorID)
	if err != nil {
		return Author{}, fmt.Errorf("counting author recipes: %w", err)
	}

	author := Author{User: user, RecipeCount: count}
	if recipesLimit > 0 {
		recipes, err := r.db.ListRecipesByAuthor(ctx, database.ListRecipesByAuthorParams{
			AuthorID: authorID,
			Limit:    recipesLimit,
		})
		if err != nil {
			return Author{}, fmt.Errorf("listing author recipes: %w", err)
		}
		author.Recipes = recipes
	}
	return author, nil
}

type ListAuthorsParams struct {
	FollowerID   int64
	Limit        int32
	Offset       int32
	RecipesLimit int32
}

// ListAuthors returns the authors the follower subscribes to, each with
// their recipe count and up to RecipesLimit recipes (0 disables the list).
func (r *Registry) ListAuthors(ctx context.Context, params ListAuthorsParams) ([]Author, int64, error) {
	users, err := r.db.ListSubscribedAuthors(ctx, database.ListSubscribedAuthorsParams{
		FollowerID: params.FollowerID,
		Limit:      params.Limit,
		Offset:     params.Offset,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("listing subscribed authors: %w", err)
	}
	total, err := r.db.CountSubscribedAuthors(ctx, params.FollowerID)
	if err != nil {
		return nil, 0, fmt.Errorf("counting subscribed authors: %w", err)
	}

	authors := make([]Author, 0, len(users))
	for _, u := range users {
		count, err := r.db.CountRecipesByAuthor(ctx, u.ID)
		if err != nil {
			return nil, 0, fmt.Errorf("counting author recipes: %w", err)
		}
		author := Author{User: u, RecipeCount: count}
		if params.RecipesLimit > 0 {
			recipes, err := r.db.ListRecipesByAuthor(ctx, database.ListRecipesByAuthorParams{
				AuthorID: u.ID,
				Limit:    params.RecipesLimit,
			})
			if err != nil {
				return nil, 0, fmt.Errorf("listing author recipes: %w", err)
			}
			author.Recipes = recipes
		}
		authors = append(authors, author)
	}
	return authors, total, nil
}
