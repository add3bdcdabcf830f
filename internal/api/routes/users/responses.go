package users

import (
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/subscription"
)

type UserResponse struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

func NewUserResponse(u database.User, isSubscribed bool) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
	}
}

type RecipeSummaryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int32  `json:"cooking_time"`
}

// AuthorResponse is a subscribed-to user annotated with a capped recipe
// listing and the total recipe count.
type AuthorResponse struct {
	UserResponse
	Recipes      []RecipeSummaryResponse `json:"recipes"`
	RecipesCount int64                   `json:"recipes_count"`
}

func newAuthorResponse(e *env.Env, a subscription.Author) AuthorResponse {
	recipes := make([]RecipeSummaryResponse, 0, len(a.Recipes))
	for _, rec := range a.Recipes {
		recipes = append(recipes, RecipeSummaryResponse{
			ID:          rec.ID,
			Name:        rec.Name,
			Image:       e.FileStore.FileURL(rec.Image),
			CookingTime: rec.CookingTime,
		})
	}
	return AuthorResponse{
		UserResponse: NewUserResponse(a.User, true),
		Recipes:      recipes,
		RecipesCount: a.RecipeCount,
	}
}
