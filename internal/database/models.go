package database

import "time"

type User struct {
	ID           int64
	Email        string
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string
	CreatedAt    time.Time
}

type Ingredient struct {
	ID              int64
	Name            string
	MeasurementUnit string
}

type Tag struct {
	ID    int64
	Name  string
	Color string
	Slug  string
}

type Recipe struct {
	ID          int64
	AuthorID    int64
	Name        string
	Image       string
	Text        string
	CookingTime int32
	CreatedAt   time.Time
}

// RecipeIngredientRow is a recipe_ingredients row joined with its ingredient.
type RecipeIngredientRow struct {
	IngredientID    int64
	Name            string
	MeasurementUnit string
	Amount          int32
}

// CartIngredientRow is one line of the shopping-cart aggregation:
// the summed amount of a single ingredient across every recipe in a cart.
type CartIngredientRow struct {
	Name            string
	MeasurementUnit string
	Total           int64
}
