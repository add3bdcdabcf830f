package recipes

import (
	"github.com/matt-dz/foodgram/internal/collection"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/recipe"
)

type AuthorResponse struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

type TagResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

type RecipeIngredientResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int32  `json:"amount"`
}

type RecipeResponse struct {
	ID               int64                      `json:"id"`
	Tags             []TagResponse              `json:"tags"`
	Author           AuthorResponse             `json:"author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int32                      `json:"cooking_time"`
}

// membership carries the viewer-specific flags resolved for the exact
// recipe row being serialized.
type membership struct {
	favorited    bool
	inCart       bool
	authorFollow bool
}

func newRecipeResponse(e *env.Env, detail recipe.Detail, m membership) RecipeResponse {
	tags := make([]TagResponse, 0, len(detail.Tags))
	for _, t := range detail.Tags {
		tags = append(tags, TagResponse{
			ID:    t.ID,
			Name:  t.Name,
			Color: t.Color,
			Slug:  t.Slug,
		})
	}
	ingredients := make([]RecipeIngredientResponse, 0, len(detail.Ingredients))
	for _, i := range detail.Ingredients {
		ingredients = append(ingredients, RecipeIngredientResponse{
			ID:              i.ID,
			Name:            i.Name,
			MeasurementUnit: i.MeasurementUnit,
			Amount:          i.Amount,
		})
	}
	return RecipeResponse{
		ID:   detail.ID,
		Tags: tags,
		Author: AuthorResponse{
			ID:           detail.Author.ID,
			Email:        detail.Author.Email,
			Username:     detail.Author.Username,
			FirstName:    detail.Author.FirstName,
			LastName:     detail.Author.LastName,
			IsSubscribed: m.authorFollow,
		},
		Ingredients:      ingredients,
		IsFavorited:      m.favorited,
		IsInShoppingCart: m.inCart,
		Name:             detail.Name,
		Image:            e.FileStore.FileURL(detail.Image),
		Text:             detail.Text,
		CookingTime:      detail.CookingTime,
	}
}

type RecipeSummaryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int32  `json:"cooking_time"`
}

func newRecipeSummaryResponse(e *env.Env, s collection.Summary) RecipeSummaryResponse {
	return RecipeSummaryResponse{
		ID:          s.ID,
		Name:        s.Name,
		Image:       e.FileStore.FileURL(s.Image),
		CookingTime: s.CookingTime,
	}
}
