// Package recipe composes recipes: it validates and atomically writes a
// recipe together with its tag set and quantified-ingredient set.
package recipe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/matt-dz/foodgram/internal/apperr"
	"github.com/matt-dz/foodgram/internal/database"
)

type Composer struct {
	db database.Querier
}

func NewComposer(db database.Querier) *Composer {
	return &Composer{db: db}
}

// IngredientSpec names an ingredient and how much of it a recipe uses.
type IngredientSpec struct {
	IngredientID int64
	Amount       int32
}

type CreateParams struct {
	AuthorID    int64
	Name        string
	Image       string
	Text        string
	CookingTime int32
	TagIDs      []int64
	Ingredients []IngredientSpec
}

// UpdateParams carries a full-replace update. Scalar fields are optional
// and fall back to the stored value when nil; TagIDs and Ingredients are
// mandatory by contract: the supplied sets replace the stored ones
// entirely, never merged.
type UpdateParams struct {
	RecipeID    int64
	Name        *string
	Image       *string
	Text        *string
	CookingTime *int32
	TagIDs      []int64
	Ingredients []IngredientSpec
}

type IngredientDetail struct {
	ID              int64
	Name            string
	MeasurementUnit string
	Amount          int32
}

// Detail is the fully composed recipe: resolved author, tags and
// ingredient listing, ready for display without a read-back step.
type Detail struct {
	ID          int64
	Author      database.User
	Tags        []database.Tag
	Ingredients []IngredientDetail
	Name        string
	Image       string
	Text        string
	CookingTime int32
	CreatedAt   time.Time
}

// Create validates the inputs, resolves every referenced tag and
// ingredient, and writes the recipe with both association sets in one
// transaction. Nothing is persisted if any part fails.
func (c *Composer) Create(ctx context.Context, params CreateParams) (Detail, error) {
	if err := validateScalars(params.Name, params.Text, params.CookingTime); err != nil {
		return Detail{}, err
	}
	if err := validateAssociations(params.TagIDs, params.Ingredients); err != nil {
		return Detail{}, err
	}

	tags, err := c.resolveTags(ctx, params.TagIDs)
	if err != nil {
		return Detail{}, err
	}
	ingredients, err := c.resolveIngredients(ctx, params.Ingredients)
	if err != nil {
		return Detail{}, err
	}
	author, err := c.db.GetUserByID(ctx, params.AuthorID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Detail{}, apperr.NotFound("user", params.AuthorID)
	} else if err != nil {
		return Detail{}, fmt.Errorf("getting author: %w", err)
	}

	row, err := c.db.CreateRecipeWithAssociations(ctx, database.CreateRecipeParams{
		AuthorID:    params.AuthorID,
		Name:        params.Name,
		Image:       params.Image,
		Text:        params.Text,
		CookingTime: params.CookingTime,
		TagIDs:      params.TagIDs,
		Ingredients: toAmounts(params.Ingredients),
	})
	if err != nil {
		return Detail{}, translateWriteError(err)
	}

	return compose(row, author, params.TagIDs, tags, ingredients, params.Ingredients), nil
}

// Update replaces the recipe's association sets with the supplied ones and
// patches its scalar fields, atomically. The previous tag and ingredient
// rows leave no residue.
func (c *Composer) Update(ctx context.Context, params UpdateParams) (Detail, error) {
	current, err := c.db.GetRecipe(ctx, params.RecipeID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Detail{}, apperr.NotFound("recipe", params.RecipeID)
	} else if err != nil {
		return Detail{}, fmt.Errorf("getting recipe: %w", err)
	}

	name := current.Name
	if params.Name != nil {
		name = *params.Name
	}
	image := current.Image
	if params.Image != nil {
		image = *params.Image
	}
	text := current.Text
	if params.Text != nil {
		text = *params.Text
	}
	cookingTime := current.CookingTime
	if params.CookingTime != nil {
		cookingTime = *params.CookingTime
	}

	if err := validateScalars(name, text, cookingTime); err != nil {
		return Detail{}, err
	}
	if err := validateAssociations(params.TagIDs, params.Ingredients); err != nil {
		return Detail{}, err
	}

	tags, err := c.resolveTags(ctx, params.TagIDs)
	if err != nil {
		return Detail{}, err
	}
	ingredients, err := c.resolveIngredients(ctx, params.Ingredients)
	if err != nil {
		return Detail{}, err
	}
	author, err := c.db.GetUserByID(ctx, current.AuthorID)
	if err != nil {
		return Detail{}, fmt.Errorf("getting author: %w", err)
	}

	err = c.db.UpdateRecipeWithAssociations(ctx, database.UpdateRecipeParams{
		ID:          params.RecipeID,
		Name:        name,
		Image:       image,
		Text:        text,
		CookingTime: cookingTime,
		TagIDs:      params.TagIDs,
		Ingredients: toAmounts(params.Ingredients),
	})
	if err != nil {
		return Detail{}, translateWriteError(err)
	}

	updated := current
	updated.Name = name
	updated.Image = image
	updated.Text = text
	updated.CookingTime = cookingTime
	return compose(updated, author, params.TagIDs, tags, ingredients, params.Ingredients), nil
}

// Get loads the fully composed recipe for display.
func (c *Composer) Get(ctx context.Context, recipeID int64) (Detail, error) {
	row, err := c.db.GetRecipe(ctx, recipeID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Detail{}, apperr.NotFound("recipe", recipeID)
	} else if err != nil {
		return Detail{}, fmt.Errorf("getting recipe: %w", err)
	}
	return c.Compose(ctx, row)
}

// Compose resolves the author, tags and ingredient listing for an already
// loaded recipe row.
func (c *Composer) Compose(ctx context.Context, row database.Recipe) (Detail, error) {
	author, err := c.db.GetUserByID(ctx, row.AuthorID)
	if err != nil {
		return Detail{}, fmt.Errorf("getting author: %w", err)
	}
	tags, err := c.db.GetRecipeTags(ctx, row.ID)
	if err != nil {
		return Detail{}, fmt.Errorf("getting recipe tags: %w", err)
	}
	rows, err := c.db.GetRecipeIngredients(ctx, row.ID)
	if err != nil {
		return Detail{}, fmt.Errorf("getting recipe ingredients: %w", err)
	}

	ingredients := make([]IngredientDetail, 0, len(rows))
	for _, r := range rows {
		ingredients = append(ingredients, IngredientDetail{
			ID:              r.IngredientID,
			Name:            r.Name,
			MeasurementUnit: r.MeasurementUnit,
			Amount:          r.Amount,
		})
	}

	return Detail{
		ID:          row.ID,
		Author:      author,
		Tags:        tags,
		Ingredients: ingredients,
		Name:        row.Name,
		Image:       row.Image,
		Text:        row.Text,
		CookingTime: row.CookingTime,
		CreatedAt:   row.CreatedAt,
	}, nil
}

func (c *Composer) resolveTags(ctx context.Context, tagIDs []int64) (map[int64]database.Tag, error) {
	tags, err := c.db.GetTagsByIDs(ctx, tagIDs)
	if err != nil {
		return nil, fmt.Errorf("getting tags: %w", err)
	}
	byID := make(map[int64]database.Tag, len(tags))
	for _, t := range tags {
		byID[t.ID] = t
	}
	for _, id := range tagIDs {
		if _, ok := byID[id]; !ok {
			return nil, apperr.NotFound("tag", id)
		}
	}
	return byID, nil
}

func (c *Composer) resolveIngredients(ctx context.Context, specs []IngredientSpec) (map[int64]database.Ingredient, error) {
	ids := make([]int64, 0, len(specs))
	for _, spec := range specs {
		ids = append(ids, spec.IngredientID)
	}
	ingredients, err := c.db.GetIngredientsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("getting ingredients: %w", err)
	}
	byID := make(map[int64]database.Ingredient, len(ingredients))
	for _, i := range ingredients {
		byID[i.ID] = i
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, apperr.NotFound("ingredient", id)
		}
	}
	return byID, nil
}

func toAmounts(specs []IngredientSpec) []database.IngredientAmount {
	amounts := make([]database.IngredientAmount, 0, len(specs))
	for _, spec := range specs {
		amounts = append(amounts, database.IngredientAmount{
			IngredientID: spec.IngredientID,
			Amount:       spec.Amount,
		})
	}
	return amounts
}

func compose(row database.Recipe, author database.User, tagIDs []int64,
	tags map[int64]database.Tag, ingredients map[int64]database.Ingredient,
	specs []IngredientSpec,
) Detail {
	detail := Detail{
		ID:          row.ID,
		Author:      author,
		Tags:        make([]database.Tag, 0, len(tagIDs)),
		Ingredients: make([]IngredientDetail, 0, len(specs)),
		Name:        row.Name,
		Image:       row.Image,
		Text:        row.Text,
		CookingTime: row.CookingTime,
		CreatedAt:   row.CreatedAt,
	}
	for _, id := range tagIDs {
		detail.Tags = append(detail.Tags, tags[id])
	}
	for _, spec := range specs {
		ingredient := ingredients[spec.IngredientID]
		detail.Ingredients = append(detail.Ingredients, IngredientDetail{
			ID:              ingredient.ID,
			Name:            ingredient.Name,
			MeasurementUnit: ingredient.MeasurementUnit,
			Amount:          spec.Amount,
		})
	}
	return detail
}

func translateWriteError(err error) error {
	switch {
	case database.IsForeignKeyViolation(err):
		return apperr.NotFound("ingredient", 0)
	case database.IsUniqueViolation(err):
		return apperr.AlreadyExists("recipe ingredient")
	}
	return fmt.Errorf("writing recipe: %w", err)
}
