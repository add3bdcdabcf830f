package database

import (
	"context"
	"fmt"
)

// CollectionKind selects one of the two uniqueness-constrained
// (user, recipe) sets. They are structurally identical but persisted
// separately: favorites feed display, the shopping cart feeds aggregation.
type CollectionKind string

const (
	CollectionFavorites    CollectionKind = "favorites"
	CollectionShoppingCart CollectionKind = "shopping_cart"
)

func (k CollectionKind) table() (string, error) {
	switch k {
	case CollectionFavorites, CollectionShoppingCart:
		return string(k), nil
	}
	return "", fmt.Errorf("unknown collection kind %q", k)
}

type CollectionEntryParams struct {
	Kind     CollectionKind
	UserID   int64
	RecipeID int64
}

// AddRecipeToCollection inserts the (user, recipe) pair. The table's unique
// constraint rejects a duplicate; callers detect it with IsUniqueViolation.
func (q *Queries) AddRecipeToCollection(ctx context.Context, arg CollectionEntryParams) error {
	table, err := arg.Kind.table()
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`INSERT INTO %s (user_id, recipe_id) VALUES ($1, $2)`, table)
	_, err = q.db.Exec(ctx, query, arg.UserID, arg.RecipeID)
	return err
}

// RemoveRecipeFromCollection deletes the pair and reports how many rows
// went away, so callers can distinguish a no-op from a real removal.
func (q *Queries) RemoveRecipeFromCollection(ctx context.Context, arg CollectionEntryParams) (int64, error) {
	table, err := arg.Kind.table()
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1 AND recipe_id = $2`, table)
	tag, err := q.db.Exec(ctx, query, arg.UserID, arg.RecipeID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (q *Queries) RecipeInCollection(ctx context.Context, arg CollectionEntryParams) (bool, error) {
	table, err := arg.Kind.table()
	if err != nil {
		return false, err
	}
	query := fmt.Sprintf(`SELECT EXISTS (
		SELECT FROM %s WHERE user_id = $1 AND recipe_id = $2
	)`, table)
	var exists bool
	err = q.db.QueryRow(ctx, query, arg.UserID, arg.RecipeID).Scan(&exists)
	return exists, err
}

const countCartEntries = `SELECT count(*) FROM shopping_cart WHERE user_id = $1`

func (q *Queries) CountCartEntries(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countCartEntries, userID).Scan(&count)
	return count, err
}

// getCartIngredients sums ingredient amounts across every recipe in the
// user's cart, merging the same ingredient from different recipes into one
// row. Ordered by name so a given cart snapshot always lists the same way.
const getCartIngredients = `SELECT i.name, i.measurement_unit, sum(ri.amount)::bigint AS total
FROM recipe_ingredients ri
JOIN ingredients i ON i.id = ri.ingredient_id
JOIN shopping_cart sc ON sc.recipe_id = ri.recipe_id
WHERE sc.user_id = $1
GROUP BY i.id, i.name, i.measurement_unit
ORDER BY i.name`

func (q *Queries) GetCartIngredients(ctx context.Context, userID int64) ([]CartIngredientRow, error) {
	rows, err := q.db.Query(ctx, getCartIngredients, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []CartIngredientRow{}
	for rows.Next() {
		var item CartIngredientRow
		if err := rows.Scan(&item.Name, &item.MeasurementUnit, &item.Total); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
