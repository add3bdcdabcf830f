package recipes

type RecipeIngredientRequest struct {
	ID     int64 `json:"id" validate:"required"`
	Amount int32 `json:"amount" validate:"required,min=1"`
}

type CreateRecipeRequest struct {
	Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
	Tags        []int64                   `json:"tags" validate:"required,min=1"`
	Image       string                    `json:"image" validate:"required"`
	Name        string                    `json:"name" validate:"required,max=200"`
	Text        string                    `json:"text" validate:"required"`
	CookingTime int32                     `json:"cooking_time" validate:"required,min=1"`
}

// UpdateRecipeRequest is a full-replace update for the association sets
// and an optional patch for the scalar fields.
type UpdateRecipeRequest struct {
	Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
	Tags        []int64                   `json:"tags" validate:"required,min=1"`
	Image       *string                   `json:"image"`
	Name        *string                   `json:"name" validate:"omitempty,max=200"`
	Text        *string                   `json:"text"`
	CookingTime *int32                    `json:"cooking_time" validate:"omitempty,min=1"`
}
