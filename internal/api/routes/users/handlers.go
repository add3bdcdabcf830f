// Package users contains handlers for the user resource.
package users

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"

	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/argon2id"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
	fgJson "github.com/matt-dz/foodgram/internal/json"
	"github.com/matt-dz/foodgram/internal/pagination"
	"github.com/matt-dz/foodgram/internal/password"
	"github.com/matt-dz/foodgram/internal/subscription"
)

const (
	emailUniqueConstraint    = "users_email_key"
	usernameUniqueConstraint = "users_username_key"
)

// HandleCreateUser godoc
//
//	@Summary	Register a new user.
//	@Tags		Users
//
//	@Accept		json
//	@Produce	json
//	@Param		request	body	CreateUserRequest	true	"Create User Request"
//
//	@Success	201	{object}	UserResponse
//	@Failure	400	{object}	apiError.Error	"Bad request"
//	@Failure	409	{object}	apiError.Error	"Email or username already in use"
//	@Failure	422	{object}	apiError.Error	"Weak password"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Router		/api/users [POST]
func HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)

	// Decode JSON
	var request CreateUserRequest
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

	// Ensure password strength
	env.Logger.DebugContext(ctx, "Validating password")
	if err := password.ValidatePassword(request.Password); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to validate password", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.WeakPassword, err.Error(), requestID) // OK to share the error with client.
		return
	}

	// Hash password
	env.Logger.DebugContext(ctx, "Hashing password")
	hash, err := argon2id.EncodeHash(request.Password, argon2id.DefaultParams)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Create user
	env.Logger.DebugContext(ctx, "Creating user")
	user, err := env.Database.CreateUser(ctx, database.CreateUserParams{
		Email:        request.Email,
		Username:     request.Username,
		FirstName:    request.FirstName,
		LastName:     request.LastName,
		PasswordHash: hash,
	})
	switch database.UniqueConstraint(err) {
	case "":
	case emailUniqueConstraint:
		env.Logger.ErrorContext(ctx, "User with email already exists", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.EmailConflict, "email already in use", requestID)
		return
	case usernameUniqueConstraint:
		env.Logger.ErrorContext(ctx, "User with username already exists", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.UsernameConflict, "username already in use", requestID)
		return
	}
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to create user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Write response
	env.Logger.DebugContext(ctx, "Writing response")
	if err := fgJson.EncodeResponse(w, http.StatusCreated, NewUserResponse(user, false)); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to write response", slog.Any("error", err))
	}
}

// HandleListUsers godoc
//
//	@Summary	List users.
//	@Tags		Users
//	@Produce	json
//	@Param		page	query	int	false	"Page number"
//	@Param		limit	query	int	false	"Page size"
//
//	@Success	200	{object}	pagination.Envelope[UserResponse]
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Router		/api/users [GET]
func HandleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)
	viewerID := token.OptionalUserIDFromCtx(ctx)

	window := pagination.Parse(r)
	env.Logger.DebugContext(ctx, "Listing users")
	users, err := env.Database.ListUsers(ctx, database.ListUsersParams{
		Limit:  window.Limit,
		Offset: window.Offset(),
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to list users", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	count, err := env.Database.CountUsers(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to count users", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	registry := subscription.NewRegistry(env.Database)
	results := make([]UserResponse, 0, len(users))
	for _, u := range users {
		subscribed, err := registry.IsSubscribed(ctx, viewerID, u.ID)
		if err != nil {
			env.Logger.ErrorContext(ctx, "Failed to check subscription", slog.Any("error", err))
			_ = apiError.EncodeInternalError(w, requestID)
			return
		}
		results = append(results, NewUserResponse(u, subscribed))
	}

	response := pagination.Envelop(r, window, count, results)
	if err := fgJson.EncodeResponse(w, http.StatusOK, response); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to write response", slog.Any("error", err))
	}
}

// HandleGetMe godoc
//
//	@Summary	Get the authenticated user's profile.
//	@Tags		Users
//	@Produce	json
//
//	@Success	200	{object}	UserResponse
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//
//	@Security	AccessTokenCookie
//	@Router		/api/users/me [GET]
func HandleGetMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	user, err := env.Database.GetUserByID(ctx, userID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to get user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	if err := fgJson.EncodeResponse(w, http.StatusOK, NewUserResponse(user, false)); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to write response", slog.Any("error", err))
	}
}

// HandleGetUser godoc
//
//	@Summary	Get a user's profile.
//	@Tags		Users
//	@Produce	json
//	@Param		id	path	int	true	"User ID"
//
//	@Success	200	{object}	UserResponse
//	@Failure	404	{object}	apiError.Error	"User not found"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Router		/api/users/{id} [GET]
func HandleGetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)
	viewerID := token.OptionalUserIDFromCtx(ctx)

	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to parse user id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid user id", requestID)
		return
	}

	user, err := env.Database.GetUserByID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to get user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	subscribed, err := subscription.NewRegistry(env.Database).IsSubscribed(ctx, viewerID, userID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to check subscription", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	if err := fgJson.EncodeResponse(w, http.StatusOK, NewUserResponse(user, subscribed)); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to write response", slog.Any("error", err))
	}
}

// HandleSetPassword godoc
//
//	@Summary	Change the authenticated user's password.
//	@Tags		Users
//	@Accept		json
//	@Param		request	body	SetPasswordRequest	true	"Set Password Request"
//
//	@Success	204
//	@Failure	400	{object}	apiError.Error	"Bad request"
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	422	{object}	apiError.Error	"Wrong current password or weak new password"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//
//	@Security	AccessTokenCookie
//	@Router		/api/users/set_password [POST]
func HandleSetPassword(w http.ResponseWriter, r *http.Request) {
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
	var request SetPasswordRequest
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

	// Verify the current password
	user, err := env.Database.GetUserByID(ctx, userID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to get user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	match, err := argon2id.ComparePasswordAndHash(request.CurrentPassword, user.PasswordHash)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to compare password", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if !match {
		env.Logger.ErrorContext(ctx, "Current password mismatch")
		_ = apiError.EncodeError(w, apiError.InvalidPassword, "current password is incorrect", requestID)
		return
	}

	// Validate and store the new one
	if err := password.ValidatePassword(request.NewPassword); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to validate new password", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.WeakPassword, err.Error(), requestID)
		return
	}
	hash, err := argon2id.EncodeHash(request.NewPassword, argon2id.DefaultParams)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if err := env.Database.UpdateUserPassword(ctx, database.UpdateUserPasswordParams{
		ID:           userID,
		PasswordHash: hash,
	}); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to update password", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func recipesLimit(r *http.Request) int32 {
	raw := r.URL.Query().Get("recipes_limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || limit < 0 {
		return 0
	}
	return int32(limit)
}

// HandleListSubscriptions godoc
//
//	@Summary	List the authors the authenticated user subscribes to.
//	@Tags		Users, Subscriptions
//	@Produce	json
//	@Param		page			query	int	false	"Page number"
//	@Param		limit			query	int	false	"Page size"
//	@Param		recipes_limit	query	int	false	"Cap on recipes returned per author"
//
//	@Success	200	{object}	pagination.Envelope[AuthorResponse]
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//
//	@Security	AccessTokenCookie
//	@Router		/api/users/subscriptions [GET]
func HandleListSubscriptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	window := pagination.Parse(r)
	env.Logger.DebugContext(ctx, "Listing subscriptions")
	authors, count, err := subscription.NewRegistry(env.Database).ListAuthors(ctx, subscription.ListAuthorsParams{
		FollowerID:   userID,
		Limit:        window.Limit,
		Offset:       window.Offset(),
		RecipesLimit: recipesLimit(r),
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to list subscriptions", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	results := make([]AuthorResponse, 0, len(authors))
	for _, a := range authors {
		results = append(results, newAuthorResponse(env, a))
	}
	response := pagination.Envelop(r, window, count, results)
	if err := fgJson.EncodeResponse(w, http.StatusOK, response); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to write response", slog.Any("error", err))
	}
}

// HandleSubscribe godoc
//
//	@Summary	Subscribe to an author.
//	@Tags		Users, Subscriptions
//	@Produce	json
//	@Param		id				path	int	true	"Author ID"
//	@Param		recipes_limit	query	int	false	"Cap on recipes returned for the author"
//
//	@Success	201	{object}	AuthorResponse
//	@Failure	400	{object}	apiError.Error	"Self subscription"
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	404	{object}	apiError.Error	"Author not found"
//	@Failure	409	{object}	apiError.Error	"Already subscribed"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//
//	@Security	AccessTokenCookie
//	@Router		/api/users/{id}/subscribe [POST]
func HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	authorID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to parse author id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid user id", requestID)
		return
	}

	registry := subscription.NewRegistry(env.Database)
	env.Logger.DebugContext(ctx, "Creating subscription")
	if err := registry.Subscribe(ctx, userID, authorID); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to subscribe", slog.Any("error", err))
		if !apiError.EncodeDomainError(w, err, requestID) {
			_ = apiError.EncodeInternalError(w, requestID)
		}
		return
	}

	// Echo the author back the same way the subscription listing does.
	author, err := registry.GetAuthor(ctx, authorID, recipesLimit(r))
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to get author", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	if err := fgJson.EncodeResponse(w, http.StatusCreated, newAuthorResponse(env, author)); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to write response", slog.Any("error", err))
	}
}

// HandleUnsubscribe godoc
//
//	@Summary	Unsubscribe from an author.
//	@Tags		Users, Subscriptions
//	@Param		id	path	int	true	"Author ID"
//
//	@Success	204
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	404	{object}	apiError.Error	"Subscription not found"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//
//	@Security	AccessTokenCookie
//	@Router		/api/users/{id}/subscribe [DELETE]
func HandleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	authorID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to parse author id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid user id", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Deleting subscription")
	if err := subscription.NewRegistry(env.Database).Unsubscribe(ctx, userID, authorID); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to unsubscribe", slog.Any("error", err))
		if !apiError.EncodeDomainError(w, err, requestID) {
			_ = apiError.EncodeInternalError(w, requestID)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
