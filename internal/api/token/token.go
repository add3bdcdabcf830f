// Package token contains utilities for http tokens.
package token

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/matt-dz/foodgram/internal/config"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/jwt"
)

const (
	accessTokenLifetime = 60 * 60 * 24 // 24 hours, matches jwt.JWTDuration
)

var ErrNoUserID = errors.New("no user id in context")

type userIDKeyType struct{}

var userIDKey userIDKeyType

func AccessTokenName(env *env.Env) string {
	if env.Config.Env == config.EnvProd {
		return "__Host-Http-access"
	}
	return "access"
}

func CreateAccessToken(userID int64, env *env.Env) (string, error) {
	if env.Config.AppSecret.Value == nil {
		return "", errors.New("app secret not loaded")
	}
	secret := string(*env.Config.AppSecret.Value)

	version := env.Config.AppSecret.Version
	if version == "" {
		version = jwt.DefaultKID
	}

	token, err := jwt.GenerateJWT(jwt.JWTParams{
		UserID: strconv.FormatInt(userID, 10),
	}, []byte(secret), version)
	if err != nil {
		return "", fmt.Errorf("generating access token: %w", err)
	}
	return token, nil
}

func NewAccessTokenCookie(token string, env *env.Env) *http.Cookie {
	return &http.Cookie{
		Name:     AccessTokenName(env),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   accessTokenLifetime,
		SameSite: http.SameSiteLaxMode,
		Secure:   env.Config.Env == config.EnvProd,
	}
}

// ExpiredAccessTokenCookie overwrites the access cookie so the browser
// drops it.
func ExpiredAccessTokenCookie(env *env.Env) *http.Cookie {
	return &http.Cookie{
		Name:     AccessTokenName(env),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
		SameSite: http.SameSiteLaxMode,
		Secure:   env.Config.Env == config.EnvProd,
	}
}

// UserIDWithCtx injects the authenticated user's id into a context.
func UserIDWithCtx(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromCtx extracts the authenticated user's id from a context.
func UserIDFromCtx(ctx context.Context) (int64, error) {
	if v, ok := ctx.Value(userIDKey).(int64); ok {
		return v, nil
	}
	return 0, ErrNoUserID
}

// OptionalUserIDFromCtx extracts the user's id if a session was presented,
// and 0 for an anonymous request.
func OptionalUserIDFromCtx(ctx context.Context) int64 {
	if v, ok := ctx.Value(userIDKey).(int64); ok {
		return v
	}
	return 0
}
