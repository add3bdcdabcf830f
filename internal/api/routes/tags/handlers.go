// Package tags contains handlers for the tag reference data.
package tags

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

type TagResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

func newTagResponse(t database.Tag) TagResponse {
	return TagResponse{
		ID:    t.ID,
		Name:  t.Name,
		Color: t.Color,
		Slug:  t.Slug,
	}
}

// HandleListTags godoc
//
//	@Summary	List every tag.
//	@Tags		Tags
//	@Produce	json
//
//	@Success	200	{array}		TagResponse
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Router		/api/tags [GET]
func HandleListTags(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)

	env.Logger.DebugContext(ctx, "Listing tags")
	tags, err := env.Database.ListTags(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to list tags", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	response := make([]TagResponse, 0, len(tags))
	for _, t := range tags {
		response = append(response, newTagResponse(t))
	}
	if err := fgJson.EncodeResponse(w, http.StatusOK, response); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to write response", slog.Any("error", err))
	}
}

// HandleGetTag godoc
//
//	@Summary	Get a single tag.
//	@Tags		Tags
//	@Produce	json
//	@Param		id	path	int	true	"Tag ID"
//
//	@Success	200	{object}	TagResponse
//	@Failure	404	{object}	apiError.Error	"Tag not found"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Router		/api/tags/{id} [GET]
func HandleGetTag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)

	tagID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to parse tag id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid tag id", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Getting tag")
	tag, err := env.Database.GetTag(ctx, tagID)
	if errors.Is(err, pgx.ErrNoRows) {
		_ = apiError.EncodeError(w, apiError.TagNotFound, "tag not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to get tag", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	if err := fgJson.EncodeResponse(w, http.StatusOK, newTagResponse(tag)); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to write response", slog.Any("error", err))
	}
}
