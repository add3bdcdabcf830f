package database

import (
	"context"
	"fmt"
)

const insertRecipe = `INSERT INTO recipes (author_id, name, image, text, cooking_time)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, author_id, name, image, text, cooking_time, created_at`

const insertRecipeTags = `INSERT INTO recipe_tags (recipe_id, tag_id)
SELECT $1, unnest($2::bigint[])`

const insertRecipeIngredients = `INSERT INTO recipe_ingredients (recipe_id, ingredient_id, amount)
SELECT $1, ingredient_id, amount
FROM unnest($2::bigint[], $3::int[]) AS spec (ingredient_id, amount)`

type IngredientAmount struct {
	IngredientID int64
	Amount       int32
}

type CreateRecipeParams struct {
	AuthorID    int64
	Name        string
	Image       string
	Text        string
	CookingTime int32
	TagIDs      []int64
	Ingredients []IngredientAmount
}

func splitIngredientAmounts(specs []IngredientAmount) (ids []int64, amounts []int32) {
	ids = make([]int64, len(specs))
	amounts = make([]int32, len(specs))
	for i, spec := range specs {
		ids[i] = spec.IngredientID
		amounts[i] = spec.Amount
	}
	return ids, amounts
}

// CreateRecipeWithAssociations inserts the recipe row, its tag set and its
// quantified-ingredient set in a single transaction. A failure anywhere,
// including a constraint violation on the association tables, rolls the
// whole write back.
func (q *Queries) CreateRecipeWithAssociations(ctx context.Context, arg CreateRecipeParams) (Recipe, error) {
	tx, err := q.db.Begin(ctx)
	if err != nil {
		return Recipe{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var r Recipe
	err = tx.QueryRow(ctx, insertRecipe,
		arg.AuthorID, arg.Name, arg.Image, arg.Text, arg.CookingTime).
		Scan(&r.ID, &r.AuthorID, &r.Name, &r.Image, &r.Text, &r.CookingTime, &r.CreatedAt)
	if err != nil {
		return Recipe{}, fmt.Errorf("inserting recipe: %w", err)
	}

	if _, err := tx.Exec(ctx, insertRecipeTags, r.ID, arg.TagIDs); err != nil {
		return Recipe{}, fmt.Errorf("inserting recipe tags: %w", err)
	}

	ids, amounts := splitIngredientAmounts(arg.Ingredients)
	if _, err := tx.Exec(ctx, insertRecipeIngredients, r.ID, ids, amounts); err != nil {
		return Recipe{}, fmt.Errorf("inserting recipe ingredients: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Recipe{}, fmt.Errorf("committing transaction: %w", err)
	}
	return r, nil
}

const updateRecipeScalars = `UPDATE recipes
SET name = $2, image = $3, text = $4, cooking_time = $5
WHERE id = $1`

const deleteRecipeTags = `DELETE FROM recipe_tags WHERE recipe_id = $1`

const deleteRecipeIngredients = `DELETE FROM recipe_ingredients WHERE recipe_id = $1`

type UpdateRecipeParams struct {
	ID          int64
	Name        string
	Image       string
	Text        string
	CookingTime int32
	TagIDs      []int64
	Ingredients []IngredientAmount
}

// UpdateRecipeWithAssociations updates the recipe's scalar fields and fully
// replaces both association sets. The replace is delete-then-bulk-insert
// inside one transaction, so the store never holds a partial mix of the old
// and new sets.
func (q *Queries) UpdateRecipeWithAssociations(ctx context.Context, arg UpdateRecipeParams) error {
	tx, err := q.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, updateRecipeScalars,
		arg.ID, arg.Name, arg.Image, arg.Text, arg.CookingTime)
	if err != nil {
		return fmt.Errorf("updating recipe: %w", err)
	}

	if _, err := tx.Exec(ctx, deleteRecipeTags, arg.ID); err != nil {
		return fmt.Errorf("deleting recipe tags: %w", err)
	}
	if _, err := tx.Exec(ctx, deleteRecipeIngredients, arg.ID); err != nil {
		return fmt.Errorf("deleting recipe ingredients: %w", err)
	}

	if _, err := tx.Exec(ctx, insertRecipeTags, arg.ID, arg.TagIDs); err != nil {
		return fmt.Errorf("inserting recipe tags: %w", err)
	}
	ids, amounts := splitIngredientAmounts(arg.Ingredients)
	if _, err := tx.Exec(ctx, insertRecipeIngredients, arg.ID, ids, amounts); err != nil {
		return fmt.Errorf("inserting recipe ingredients: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

const getRecipe = `SELECT id, author_id, name, image, text, cooking_time, created_at
FROM recipes WHERE id = $1`

func (q *Queries) GetRecipe(ctx context.Context, id int64) (Recipe, error) {
	row := q.db.QueryRow(ctx, getRecipe, id)
	var r Recipe
	err := row.Scan(&r.ID, &r.AuthorID, &r.Name, &r.Image,
		&r.Text, &r.CookingTime, &r.CreatedAt)
	return r, err
}

const deleteRecipe = `DELETE FROM recipes WHERE id = $1`

func (q *Queries) DeleteRecipe(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, deleteRecipe, id)
	return err
}

const checkRecipeOwnership = `SELECT EXISTS (
	SELECT FROM recipes WHERE id = $1 AND author_id = $2
)`

type CheckRecipeOwnershipParams struct {
	ID       int64
	AuthorID int64
}

func (q *Queries) CheckRecipeOwnership(ctx context.Context, arg CheckRecipeOwnershipParams) (bool, error) {
	var owns bool
	err := q.db.QueryRow(ctx, checkRecipeOwnership, arg.ID, arg.AuthorID).Scan(&owns)
	return owns, err
}

const getRecipeTags = `SELECT t.id, t.name, t.color, t.slug
FROM tags t
JOIN recipe_tags rt ON rt.tag_id = t.id
WHERE rt.recipe_id = $1
ORDER BY t.id`

func (q *Queries) GetRecipeTags(ctx context.Context, recipeID int64) ([]Tag, error) {
	rows, err := q.db.Query(ctx, getRecipeTags, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []Tag{}
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.Slug); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

const getRecipeIngredients = `SELECT i.id, i.name, i.measurement_unit, ri.amount
FROM recipe_ingredients ri
JOIN ingredients i ON i.id = ri.ingredient_id
WHERE ri.recipe_id = $1
ORDER BY i.name`

func (q *Queries) GetRecipeIngredients(ctx context.Context, recipeID int64) ([]RecipeIngredientRow, error) {
	rows, err := q.db.Query(ctx, getRecipeIngredients, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ingredients := []RecipeIngredientRow{}
	for rows.Next() {
		var ri RecipeIngredientRow
		if err := rows.Scan(&ri.IngredientID, &ri.Name,
			&ri.MeasurementUnit, &ri.Amount); err != nil {
			return nil, err
		}
		ingredients = append(ingredients, ri)
	}
	return ingredients, rows.Err()
}

// Recipe listing filters are all optional: a zero AuthorID, empty TagSlugs
// and zero FavoritedBy/InCartOf disable the corresponding predicate.
const listRecipes = `SELECT id, author_id, name, image, text, cooking_time, created_at
FROM recipes r
WHERE ($1::bigint = 0 OR r.author_id = $1)
  AND (cardinality($2::text[]) = 0 OR EXISTS (
	SELECT FROM recipe_tags rt
	JOIN tags t ON t.id = rt.tag_id
	WHERE rt.recipe_id = r.id AND t.slug = ANY($2)
  ))
  AND ($3::bigint = 0 OR EXISTS (
	SELECT FROM favorites f WHERE f.recipe_id = r.id AND f.user_id = $3
  ))
  AND ($4::bigint = 0 OR EXISTS (
	SELECT FROM shopping_cart sc WHERE sc.recipe_id = r.id AND sc.user_id = $4
  ))
ORDER BY r.created_at DESC, r.id DESC
LIMIT $5 OFFSET $6`

type ListRecipesParams struct {
	AuthorID    int64
	TagSlugs    []string
	FavoritedBy int64
	InCartOf    int64
	Limit       int32
	Offset      int32
}

func (q *Queries) ListRecipes(ctx context.Context, arg ListRecipesParams) ([]Recipe, error) {
	rows, err := q.db.Query(ctx, listRecipes,
		arg.AuthorID, arg.TagSlugs, arg.FavoritedBy, arg.InCartOf, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := []Recipe{}
	for rows.Next() {
		var r Recipe
		if err := rows.Scan(&r.ID, &r.AuthorID, &r.Name, &r.Image,
			&r.Text, &r.CookingTime, &r.CreatedAt); err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}

const countRecipes = `SELECT count(*)
FROM recipes r
WHERE ($1::bigint = 0 OR r.author_id = $1)
  AND (cardinality($2::text[]) = 0 OR EXISTS (
	SELECT FROM recipe_tags rt
	JOIN tags t ON t.id = rt.tag_id
	WHERE rt.recipe_id = r.id AND t.slug = ANY($2)
  ))
  AND ($3::bigint = 0 OR EXISTS (
	SELECT FROM favorites f WHERE f.recipe_id = r.id AND f.user_id = $3
  ))
  AND ($4::bigint = 0 OR EXISTS (
	SELECT FROM shopping_cart sc WHERE sc.recipe_id = r.id AND sc.user_id = $4
  ))`

type CountRecipesParams struct {
	AuthorID    int64
	TagSlugs    []string
	FavoritedBy int64
	InCartOf    int64
}

func (q *Queries) CountRecipes(ctx context.Context, arg CountRecipesParams) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countRecipes,
		arg.AuthorID, arg.TagSlugs, arg.FavoritedBy, arg.InCartOf).Scan(&count)
	return count, err
}

const listRecipesByAuthor = `SELECT id, author_id, name, image, text, cooking_time, created_at
FROM recipes WHERE author_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2`

type ListRecipesByAuthorParams struct {
	AuthorID int64
	Limit    int32
}

func (q *Queries) ListRecipesByAuthor(ctx context.Context, arg ListRecipesByAuthorParams) ([]Recipe, error) {
	rows, err := q.db.Query(ctx, listRecipesByAuthor, arg.AuthorID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := []Recipe{}
	for rows.Next() {
		var r Recipe
		if err := rows.Scan(&r.ID, &r.AuthorID, &r.Name, &r.Image,
			&r.Text, &r.CookingTime, &r.CreatedAt); err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}

const countRecipesByAuthor = `SELECT count(*) FROM recipes WHERE author_id = $1`

func (q *Queries) CountRecipesByAuthor(ctx context.Context, authorID int64) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countRecipesByAuthor, authorID).Scan(&count)
	return count, err
}
