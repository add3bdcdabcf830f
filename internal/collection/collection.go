// Package collection implements the favorite and shopping-cart toggles.
// The two sets are structurally identical, so one parametrized component
// serves both; they stay distinct in storage.
package collection

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/matt-dz/foodgram/internal/apperr"
	"github.com/matt-dz/foodgram/internal/database"
)

type Kind = database.CollectionKind

const (
	Favorites    = database.CollectionFavorites
	ShoppingCart = database.CollectionShoppingCart
)

// Summary is the compact recipe view returned after a successful add.
type Summary struct {
	ID          int64
	Name        string
	Image       string
	CookingTime int32
}

type Toggler struct {
	db database.Querier
}

func NewToggler(db database.Querier) *Toggler {
	return &Toggler{db: db}
}

// Add puts the recipe into the user's set of the given kind. A pair that
// is already present surfaces as AlreadyExistsError. The store's unique
// constraint is the sole correctness mechanism, so a concurrent duplicate
// add fails the same way instead of silently succeeding.
func (t *Toggler) Add(ctx context.Context, kind Kind, userID, recipeID int64) (Summary, error) {
	row, err := t.db.GetRecipe(ctx, recipeID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Summary{}, apperr.NotFound("recipe", recipeID)
	} else if err != nil {
		return Summary{}, fmt.Errorf("getting recipe: %w", err)
	}

	err = t.db.AddRecipeToCollection(ctx, database.CollectionEntryParams{
		Kind:     kind,
		UserID:   userID,
		RecipeID: recipeID,
	})
	if database.IsUniqueViolation(err) {
		return Summary{}, apperr.AlreadyExists(string(kind) + " entry")
	} else if err != nil {
		return Summary{}, fmt.Errorf("adding recipe to %s: %w", kind, err)
	}

	return Summary{
		ID:          row.ID,
		Name:        row.Name,
		Image:       row.Image,
		CookingTime: row.CookingTime,
	}, nil
}

// Remove deletes the pair, signalling NotFoundError when there was
// nothing to delete.
func (t *Toggler) Remove(ctx context.Context, kind Kind, userID, recipeID int64) error {
	deleted, err := t.db.RemoveRecipeFromCollection(ctx, database.CollectionEntryParams{
		Kind:     kind,
		UserID:   userID,
		RecipeID: recipeID,
	})
	if err != nil {
		return fmt.Errorf("removing recipe from %s: %w", kind, err)
	}
	if deleted == 0 {
		return apperr.NotFound(string(kind)+" entry", recipeID)
	}
	return nil
}

// Contains reports set membership for the exact (user, recipe) pair being
// serialized. Anonymous users (userID 0) are never members; the store is
// not consulted for them.
func (t *Toggler) Contains(ctx context.Context, kind Kind, userID, recipeID int64) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	return t.db.RecipeInCollection(ctx, database.CollectionEntryParams{
		Kind:     kind,
		UserID:   userID,
		RecipeID: recipeID,
	})
}
