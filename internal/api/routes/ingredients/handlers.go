// Package ingredients contains handlers for the ingredient reference data.
package ingredients

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
	fgJson "github.com/matt-dz/foodgram/internal/json"
)

type IngredientResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

func newIngredientResponse(i database.Ingredient) IngredientResponse {
	return IngredientResponse{
		ID:              i.ID,
		Name:            i.Name,
		MeasurementUnit: i.MeasurementUnit,
	}
}

// HandleListIngredients godoc
//
//	@Summary	List ingredients, optionally filtered by name prefix.
//	@Tags		Ingredients
//	@Produce	json
//	@Param		name	query	string	false	"Name prefix filter"
//
//	@Success	200	{array}		IngredientResponse
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Router		/api/ingredients [GET]
func HandleListIngredients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)

	env.Logger.DebugContext(ctx, "Listing ingredients")
	ingredients, err := env.Database.ListIngredients(ctx, r.URL.Query().Get("name"))
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to list ingredients", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	response := make([]IngredientResponse, 0, len(ingredients))
	for _, i := range ingredients {
		response = append(response, newIngredientResponse(i))
	}
	if err := fgJson.EncodeResponse(w, http.StatusOK, response); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to write response", slog.Any("error", err))
	}
}

// HandleGetIngredient godoc
//
//	@Summary	Get a single ingredient.
//	@Tags		Ingredients
//	@Produce	json
//	@Param		id	path	int	true	"Ingredient ID"
//
//	@Success	200	{object}	IngredientResponse
//	@Failure	404	{object}	apiError.Error	"Ingredient not found"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Router		/api/ingredients/{id} [GET]
func HandleGetIngredient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)

	ingredientID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to parse ingredient id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid ingredient id", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Getting ingredient")
	ingredient, err := env.Database.GetIngredient(ctx, ingredientID)
	if errors.Is(err, pgx.ErrNoRows) {
		_ = apiError.EncodeError(w, apiError.IngredientNotFound, "ingredient not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to get ingredient", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	if err := fgJson.EncodeResponse(w, http.StatusOK, newIngredientResponse(ingredient)); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to write response", slog.Any("error", err))
	}
}
