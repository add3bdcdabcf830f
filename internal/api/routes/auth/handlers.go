// Package auth contains handlers for the auth endpoints
package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"

	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/argon2id"
	"github.com/matt-dz/foodgram/internal/env"
	fgJson "github.com/matt-dz/foodgram/internal/json"
)

// HandleLogin godoc
//
//	@Summary	Exchange credentials for a session.
//	@Tags		Auth
//
//	@Accept		json
//	@Produce	json
//	@Param		request	body	LoginRequest	true	"Login Request"
//
//	@Success	200	{object}	LoginResponse
//	@Failure	400	{object}	apiError.Error	"Bad request"
//	@Failure	401	{object}	apiError.Error	"Invalid credentials"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Router		/api/auth/token/login [POST]
func HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)

	// Decode JSON
	var request LoginRequest
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

	// Look up user
	env.Logger.DebugContext(ctx, "Looking up user")
	user, err := env.Database.GetUserByEmail(ctx, request.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		env.Logger.ErrorContext(ctx, "User not found", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.InvalidCredentials, "invalid credentials", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to get user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Verify password
	env.Logger.DebugContext(ctx, "Verifying password")
	match, err := argon2id.ComparePasswordAndHash(request.Password, user.PasswordHash)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to compare password", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if !match {
		env.Logger.ErrorContext(ctx, "Password mismatch")
		_ = apiError.EncodeError(w, apiError.InvalidCredentials, "invalid credentials", requestID)
		return
	}

	// Issue session
	env.Logger.DebugContext(ctx, "Issuing access token")
	accessToken, err := token.CreateAccessToken(user.ID, env)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to create access token", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	http.SetCookie(w, token.NewAccessTokenCookie(accessToken, env))

	// Write response
	env.Logger.DebugContext(ctx, "Writing response")
	if err := fgJson.EncodeResponse(w, http.StatusOK, LoginResponse{AuthToken: accessToken}); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to write response", slog.Any("error", err))
	}
}

// HandleLogout godoc
//
//	@Summary	Drop the current session.
//	@Tags		Auth
//
//	@Success	204
//	@Router		/api/auth/token/logout [POST]
func HandleLogout(w http.ResponseWriter, r *http.Request) {
	env := env.EnvFromCtx(r.Context())
	http.SetCookie(w, token.ExpiredAccessTokenCookie(env))
	w.WriteHeader(http.StatusNoContent)
}
