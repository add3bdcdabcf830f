package database

import "context"

//go:generate mockgen -source=querier.go -destination=mock_querier.go -package=database

// Querier is the query surface the rest of the service depends on.
// *Database implements it; tests substitute the generated MockQuerier.
type Querier interface {
	// Schema
	CheckUsersTableExists(ctx context.Context) (bool, error)
	EnsureSchema(ctx context.Context) error

	// Users
	CreateUser(ctx context.Context, arg CreateUserParams) (User, error)
	GetUserByID(ctx context.Context, id int64) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context, arg ListUsersParams) ([]User, error)
	CountUsers(ctx context.Context) (int64, error)
	UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) error

	// Ingredients
	CreateIngredient(ctx context.Context, arg CreateIngredientParams) (Ingredient, error)
	GetIngredient(ctx context.Context, id int64) (Ingredient, error)
	GetIngredientsByIDs(ctx context.Context, ids []int64) ([]Ingredient, error)
	ListIngredients(ctx context.Context, namePrefix string) ([]Ingredient, error)

	// Tags
	CreateTag(ctx context.Context, arg CreateTagParams) (Tag, error)
	GetTag(ctx context.Context, id int64) (Tag, error)
	GetTagsByIDs(ctx context.Context, ids []int64) ([]Tag, error)
	ListTags(ctx context.Context) ([]Tag, error)

	// Recipes
	CreateRecipeWithAssociations(ctx context.Context, arg CreateRecipeParams) (Recipe, error)
	UpdateRecipeWithAssociations(ctx context.Context, arg UpdateRecipeParams) error
	GetRecipe(ctx context.Context, id int64) (Recipe, error)
	DeleteRecipe(ctx context.Context, id int64) error
	CheckRecipeOwnership(ctx context.Context, arg CheckRecipeOwnershipParams) (bool, error)
	GetRecipeTags(ctx context.Context, recipeID int64) ([]Tag, error)
	GetRecipeIngredients(ctx context.Context, recipeID int64) ([]RecipeIngredientRow, error)
	ListRecipes(ctx context.Context, arg ListRecipesParams) ([]Recipe, error)
	CountRecipes(ctx context.Context, arg CountRecipesParams) (int64, error)
	ListRecipesByAuthor(ctx context.Context, arg ListRecipesByAuthorParams) ([]Recipe, error)
	CountRecipesByAuthor(ctx context.Context, authorID int64) (int64, error)

	// Favorites / shopping cart
	AddRecipeToCollection(ctx context.Context, arg CollectionEntryParams) error
	RemoveRecipeFromCollection(ctx context.Context, arg CollectionEntryParams) (int64, error)
	RecipeInCollection(ctx context.Context, arg CollectionEntryParams) (bool, error)
	CountCartEntries(ctx context.Context, userID int64) (int64, error)
	GetCartIngredients(ctx context.Context, userID int64) ([]CartIngredientRow, error)

	// Subscriptions
	CreateSubscription(ctx context.Context, arg SubscriptionParams) error
	DeleteSubscription(ctx context.Context, arg SubscriptionParams) (int64, error)
	IsSubscribed(ctx context.Context, arg SubscriptionParams) (bool, error)
	ListSubscribedAuthors(ctx context.Context, arg ListSubscribedAuthorsParams) ([]User, error)
	CountSubscribedAuthors(ctx context.Context, followerID int64) (int64, error)
}
