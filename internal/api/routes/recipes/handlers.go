// Package recipes contains handlers for the recipes endpoint.
package recipes

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"

	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/collection"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/form"
	fgJson "github.com/matt-dz/foodgram/internal/json"
	"github.com/matt-dz/foodgram/internal/pagination"
	"github.com/matt-dz/foodgram/internal/recipe"
	"github.com/matt-dz/foodgram/internal/shoppinglist"
	"github.com/matt-dz/foodgram/internal/subscription"
)

func toIngredientSpecs(reqs []RecipeIngredientRequest) []recipe.IngredientSpec {
	specs := make([]recipe.IngredientSpec, 0, len(reqs))
	for _, r := range reqs {
		specs = append(specs, recipe.IngredientSpec{
			IngredientID: r.ID,
			Amount:       r.Amount,
		})
	}
	return specs
}

// resolveMembership computes the viewer-specific flags for the exact
// recipe row being serialized. Anonymous viewers get all-false without
// store queries.
func resolveMembership(r *http.Request, viewerID int64, detail recipe.Detail) (membership, error) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	toggler := collection.NewToggler(env.Database)

	favorited, err := toggler.Contains(ctx, collection.Favorites, viewerID, detail.ID)
	if err != nil {
		return membership{}, err
	}
	inCart, err := toggler.Contains(ctx, collection.ShoppingCart, viewerID, detail.ID)
	if err != nil {
		return membership{}, err
	}
	follows, err := subscription.NewRegistry(env.Database).IsSubscribed(ctx, viewerID, detail.Author.ID)
	if err != nil {
		return membership{}, err
	}
	return membership{favorited: favorited, inCart: inCart, authorFollow: follows}, nil
}

func writeRecipeImage(r *http.Request, dataURI string) (string, error) {
	env := env.EnvFromCtx(r.Context())
	file, err := form.DecodeDataURI(dataURI)
	if err != nil {
		return "", err
	}
	imageID := ulid.Make().String()
	return env.FileStore.WriteRecipeImage(r.Context(), imageID, file.Suffix, file.Data)
}

// HandleListRecipes godoc
//
//	@Summary	List recipes, newest first.
//	@Tags		Recipes
//	@Produce	json
//	@Param		page				query	int		false	"Page number"
//	@Param		limit				query	int		false	"Page size"
//	@Param		author				query	int		false	"Filter by author id"
//	@Param		tags				query	string	false	"Filter by tag slug, repeatable"
//	@Param		is_favorited		query	int		false	"Only the viewer's favorites"
//	@Param		is_in_shopping_cart	query	int		false	"Only the viewer's cart"
//
//	@Success	200	{object}	pagination.Envelope[RecipeResponse]
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Router		/api/recipes [GET]
func HandleListRecipes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)
	viewerID := token.OptionalUserIDFromCtx(ctx)

	window := pagination.Parse(r)
	query := r.URL.Query()

	params := database.ListRecipesParams{
		TagSlugs: query["tags"],
		Limit:    window.Limit,
		Offset:   window.Offset(),
	}
	if raw := query.Get("author"); raw != "" {
		authorID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			env.Logger.ErrorContext(ctx, "Failed to parse author filter", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.BadRequest, "invalid author filter", requestID)
			return
		}
		params.AuthorID = authorID
	}
	// Membership filters only make sense for an authenticated viewer.
	if query.Get("is_favorited") == "1" && viewerID != 0 {
		params.FavoritedBy = viewerID
	}
	if query.Get("is_in_shopping_cart") == "1" && viewerID != 0 {
		params.InCartOf = viewerID
	}

	env.Logger.DebugContext(ctx, "Listing recipes")
	rows, err := env.Database.ListRecipes(ctx, params)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to list recipes", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	count, err := env.Database.CountRecipes(ctx, database.CountRecipesParams{
		AuthorID:    params.AuthorID,
		TagSlugs:    params.TagSlugs,
		FavoritedBy: params.FavoritedBy,
		InCartOf:    params.InCartOf,
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to count recipes", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	composer := recipe.NewComposer(env.Database)
	results := make([]RecipeResponse, 0, len(rows))
	for _, row := range rows {
		detail, err := composer.Compose(ctx, row)
		if err != nil {
			env.Logger.ErrorContext(ctx, "Failed to compose recipe", slog.Any("error", err))
			_ = apiError.EncodeInternalError(w, requestID)
			return
		}
		m, err := resolveMembership(r, viewerID, detail)
		if err != nil {
			env.Logger.ErrorContext(ctx, "Failed to resolve membership", slog.Any("error", err))
			_ = apiError.EncodeInternalError(w, requestID)
			return
		}
		results = append(results, newRecipeResponse(env, detail, m))
	}

	response := pagination.Envelop(r, window, count, results)
	if err := fgJson.EncodeResponse(w, http.StatusOK, response); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to write response", slog.Any("error", err))
	}
}

// HandleGetRecipe godoc
//
//	@Summary	Get a single recipe.
//	@Tags		Recipes
//	@Produce	json
//	@Param		id	path	int	true	"Recipe ID"
//
//	@Success	200	{object}	RecipeResponse
//	@Failure	404	{object}	apiError.Error	"Recipe not found"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Router		/api/recipes/{id} [GET]
func HandleGetRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)
	viewerID := token.OptionalUserIDFromCtx(ctx)

	recipeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to parse recipe id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid recipe id", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Getting recipe")
	detail, err := recipe.NewComposer(env.Database).Get(ctx, recipeID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to get recipe", slog.Any("error", err))
		if !apiError.EncodeDomainError(w, err, requestID) {
			_ = apiError.EncodeInternalError(w, requestID)
		}
		return
	}

	m, err := resolveMembership(r, viewerID, detail)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to resolve membership", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if err := fgJson.EncodeResponse(w, http.StatusOK, newRecipeResponse(env, detail, m)); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to write response", slog.Any("error", err))
	}
}

// HandleCreateRecipe godoc
//
//	@Summary	Create a recipe.
//	@Tags		Recipes
//	@Accept		json
//	@Produce	json
//	@Param		request	body	CreateRecipeRequest	true	"Create Recipe Request"
//
//	@Success	201	{object}	RecipeResponse
//	@Failure	400	{object}	apiError.Error	"Bad request"
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	404	{object}	apiError.Error	"Referenced tag or ingredient not found"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//
//	@Security	AccessTokenCookie
//	@Router		/api/recipes [POST]
func HandleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Decode JSON
	var request CreateRecipeRequest
	env.Logger.DebugContext(ctx, "Reading request body")
	defer func() { _ = r.Body.Close() }()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := fgJson.DecodeJSON(&request, decoder); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid request body", requestID)
		return
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(request); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to validate request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid request body", requestID)
		return
	}

	// Store the image
	env.Logger.DebugContext(ctx, "Writing recipe image")
	imagePath, err := writeRecipeImage(r, request.Image)
	if errors.Is(err, form.ErrUnsupportedMimeType) || errors.Is(err, form.ErrInvalidDataURI) {
		env.Logger.ErrorContext(ctx, "Invalid image", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid image", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to write recipe image", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Create recipe
	env.Logger.DebugContext(ctx, "Creating recipe")
	detail, err := recipe.NewComposer(env.Database).Create(ctx, recipe.CreateParams{
		AuthorID:    userID,
		Name:        request.Name,
		Image:       imagePath,
		Text:        request.Text,
		CookingTime: request.CookingTime,
		TagIDs:      request.Tags,
		Ingredients: toIngredientSpecs(request.Ingredients),
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to create recipe", slog.Any("error", err))
		// The orphaned image is removed so a failed create leaves no residue.
		if delErr := env.FileStore.DeleteURLPath(ctx, imagePath); delErr != nil {
			env.Logger.ErrorContext(ctx, "Failed to delete orphaned image", slog.Any("error", delErr))
		}
		if !apiError.EncodeDomainError(w, err, requestID) {
			_ = apiError.EncodeInternalError(w, requestID)
		}
		return
	}

	m := membership{}
	if err := fgJson.EncodeResponse(w, http.StatusCreated, newRecipeResponse(env, detail, m)); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to write response", slog.Any("error", err))
	}
}

// HandleUpdateRecipe godoc
//
//	@Summary	Update a recipe. The tag and ingredient sets are replaced wholesale.
//	@Tags		Recipes
//	@Accept		json
//	@Produce	json
//	@Param		id		path	int					true	"Recipe ID"
//	@Param		request	body	UpdateRecipeRequest	true	"Update Recipe Request"
//
//	@Success	200	{object}	RecipeResponse
//	@Failure	400	{object}	apiError.Error	"Bad request"
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	403	{object}	apiError.Error	"User does not own recipe"
//	@Failure	404	{object}	apiError.Error	"Recipe, tag, or ingredient not found"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//
//	@Security	AccessTokenCookie
//	@Router		/api/recipes/{id} [PATCH]
func HandleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	recipeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to parse recipe id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid recipe id", requestID)
		return
	}

	// Check recipe ownership
	env.Logger.DebugContext(ctx, "checking recipe ownership")
	current, err := env.Database.GetRecipe(ctx, recipeID)
	if errors.Is(err, pgx.ErrNoRows) {
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to get recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if current.AuthorID != userID {
		env.Logger.ErrorContext(ctx, "user does not own recipe")
		_ = apiError.EncodeError(w, apiError.RecipeNotOwned, "user does not own recipe", requestID)
		return
	}

	// Decode JSON
	var request UpdateRecipeRequest
	env.Logger.DebugContext(ctx, "Reading request body")
	defer func() { _ = r.Body.Close() }()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := fgJson.DecodeJSON(&request, decoder); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid request body", requestID)
		return
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(request); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to validate request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid request body", requestID)
		return
	}

	// Store the replacement image, if one was supplied
	var imagePath *string
	if request.Image != nil {
		env.Logger.DebugContext(ctx, "Writing recipe image")
		path, err := writeRecipeImage(r, *request.Image)
		if errors.Is(err, form.ErrUnsupportedMimeType) || errors.Is(err, form.ErrInvalidDataURI) {
			env.Logger.ErrorContext(ctx, "Invalid image", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.BadRequest, "invalid image", requestID)
			return
		} else if err != nil {
			env.Logger.ErrorContext(ctx, "Failed to write recipe image", slog.Any("error", err))
			_ = apiError.EncodeInternalError(w, requestID)
			return
		}
		imagePath = &path
	}

	// Update recipe
	env.Logger.DebugContext(ctx, "Updating recipe")
	detail, err := recipe.NewComposer(env.Database).Update(ctx, recipe.UpdateParams{
		RecipeID:    recipeID,
		Name:        request.Name,
		Image:       imagePath,
		Text:        request.Text,
		CookingTime: request.CookingTime,
		TagIDs:      request.Tags,
		Ingredients: toIngredientSpecs(request.Ingredients),
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to update recipe", slog.Any("error", err))
		if imagePath != nil {
			if delErr := env.FileStore.DeleteURLPath(ctx, *imagePath); delErr != nil {
				env.Logger.ErrorContext(ctx, "Failed to delete orphaned image", slog.Any("error", delErr))
			}
		}
		if !apiError.EncodeDomainError(w, err, requestID) {
			_ = apiError.EncodeInternalError(w, requestID)
		}
		return
	}

	// Drop the superseded image file
	if imagePath != nil && current.Image != "" && current.Image != *imagePath {
		if err := env.FileStore.DeleteURLPath(ctx, current.Image); err != nil {
			env.Logger.ErrorContext(ctx, "Failed to delete previous image", slog.Any("error", err))
		}
	}

	m, err := resolveMembership(r, userID, detail)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to resolve membership", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if err := fgJson.EncodeResponse(w, http.StatusOK, newRecipeResponse(env, detail, m)); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to write response", slog.Any("error", err))
	}
}

// HandleDeleteRecipe godoc
//
//	@Summary	Delete a recipe.
//	@Tags		Recipes
//	@Param		id	path	int	true	"Recipe ID"
//
//	@Success	204
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	403	{object}	apiError.Error	"User does not own recipe"
//	@Failure	404	{object}	apiError.Error	"Recipe not found"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//
//	@Security	AccessTokenCookie
//	@Router		/api/recipes/{id} [DELETE]
func HandleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	recipeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to parse recipe id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid recipe id", requestID)
		return
	}

	// Check recipe ownership
	env.Logger.DebugContext(ctx, "checking recipe ownership")
	current, err := env.Database.GetRecipe(ctx, recipeID)
	if errors.Is(err, pgx.ErrNoRows) {
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to get recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if current.AuthorID != userID {
		env.Logger.ErrorContext(ctx, "user does not own recipe")
		_ = apiError.EncodeError(w, apiError.RecipeNotOwned, "user does not own recipe", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Deleting recipe")
	if err := env.Database.DeleteRecipe(ctx, recipeID); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to delete recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if current.Image != "" {
		if err := env.FileStore.DeleteURLPath(ctx, current.Image); err != nil {
			env.Logger.ErrorContext(ctx, "Failed to delete recipe image", slog.Any("error", err))
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func handleCollectionAdd(w http.ResponseWriter, r *http.Request, kind collection.Kind) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	recipeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to parse recipe id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid recipe id", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Adding recipe to collection", slog.String("kind", string(kind)))
	summary, err := collection.NewToggler(env.Database).Add(ctx, kind, userID, recipeID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to add recipe", slog.Any("error", err))
		if !apiError.EncodeDomainError(w, err, requestID) {
			_ = apiError.EncodeInternalError(w, requestID)
		}
		return
	}

	if err := fgJson.EncodeResponse(w, http.StatusCreated, newRecipeSummaryResponse(env, summary)); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to write response", slog.Any("error", err))
	}
}

func handleCollectionRemove(w http.ResponseWriter, r *http.Request, kind collection.Kind) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	recipeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to parse recipe id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid recipe id", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Removing recipe from collection", slog.String("kind", string(kind)))
	if err := collection.NewToggler(env.Database).Remove(ctx, kind, userID, recipeID); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to remove recipe", slog.Any("error", err))
		if !apiError.EncodeDomainError(w, err, requestID) {
			_ = apiError.EncodeInternalError(w, requestID)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleFavorite godoc
//
//	@Summary	Add a recipe to the viewer's favorites.
//	@Tags		Recipes, Favorites
//	@Produce	json
//	@Param		id	path	int	true	"Recipe ID"
//
//	@Success	201	{object}	RecipeSummaryResponse
//	@Failure	404	{object}	apiError.Error	"Recipe not found"
//	@Failure	409	{object}	apiError.Error	"Already favorited"
//
//	@Security	AccessTokenCookie
//	@Router		/api/recipes/{id}/favorite [POST]
func HandleFavorite(w http.ResponseWriter, r *http.Request) {
	handleCollectionAdd(w, r, collection.Favorites)
}

// HandleUnfavorite godoc
//
//	@Summary	Remove a recipe from the viewer's favorites.
//	@Tags		Recipes, Favorites
//	@Param		id	path	int	true	"Recipe ID"
//
//	@Success	204
//	@Failure	404	{object}	apiError.Error	"Recipe was not favorited"
//
//	@Security	AccessTokenCookie
//	@Router		/api/recipes/{id}/favorite [DELETE]
func HandleUnfavorite(w http.ResponseWriter, r *http.Request) {
	handleCollectionRemove(w, r, collection.Favorites)
}

// HandleAddToCart godoc
//
//	@Summary	Add a recipe to the viewer's shopping cart.
//	@Tags		Recipes, ShoppingCart
//	@Produce	json
//	@Param		id	path	int	true	"Recipe ID"
//
//	@Success	201	{object}	RecipeSummaryResponse
//	@Failure	404	{object}	apiError.Error	"Recipe not found"
//	@Failure	409	{object}	apiError.Error	"Already in cart"
//
//	@Security	AccessTokenCookie
//	@Router		/api/recipes/{id}/shopping_cart [POST]
func HandleAddToCart(w http.ResponseWriter, r *http.Request) {
	handleCollectionAdd(w, r, collection.ShoppingCart)
}

// HandleRemoveFromCart godoc
//
//	@Summary	Remove a recipe from the viewer's shopping cart.
//	@Tags		Recipes, ShoppingCart
//	@Param		id	path	int	true	"Recipe ID"
//
//	@Success	204
//	@Failure	404	{object}	apiError.Error	"Recipe was not in cart"
//
//	@Security	AccessTokenCookie
//	@Router		/api/recipes/{id}/shopping_cart [DELETE]
func HandleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	handleCollectionRemove(w, r, collection.ShoppingCart)
}

// HandleDownloadShoppingCart godoc
//
//	@Summary	Download the aggregated shopping list as a text file.
//	@Tags		Recipes, ShoppingCart
//	@Produce	plain
//
//	@Success	200	{string}	string			"Numbered ingredient list"
//	@Failure	400	{object}	apiError.Error	"Cart is empty"
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//
//	@Security	AccessTokenCookie
//	@Router		/api/recipes/download_shopping_cart [GET]
func HandleDownloadShoppingCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Compiling shopping list")
	items, err := shoppinglist.NewAggregator(env.Database).Compile(ctx, userID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to compile shopping list", slog.Any("error", err))
		if !apiError.EncodeDomainError(w, err, requestID) {
			_ = apiError.EncodeInternalError(w, requestID)
		}
		return
	}

	user, err := env.Database.GetUserByID(ctx, userID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to get user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	body := shoppinglist.Render(items, time.Now())
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition",
		`attachment; filename="`+shoppinglist.Filename(user.Username)+`"`)
	if _, err := w.Write([]byte(body)); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to write response", slog.Any("error", err))
	}
}
