// Package middleware contains middleware functions for the API
package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/httplog/v3"
	"github.com/golang-jwt/jwt/v5"

	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/config"
	"github.com/matt-dz/foodgram/internal/env"
	fgJwt "github.com/matt-dz/foodgram/internal/jwt"
	"github.com/matt-dz/foodgram/internal/log"

	"github.com/oklog/ulid/v2"
)

// InjectEnv injects an environment struct into the request context.
func InjectEnv(environment *env.Env) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(env.WithCtx(r.Context(), environment)))
		})
	}
}

func LogRequest(logger *slog.Logger) func(http.Handler) http.Handler {
	return httplog.RequestLogger(logger, &httplog.Options{
		LogExtraAttrs: func(r *http.Request, reqBody string, respStatus int) []slog.Attr {
			if id := requestid.ExtractRequestID(r.Context()); id != 0 {
				return []slog.Attr{slog.Uint64("log_id", id)}
			}
			return []slog.Attr{slog.String("log_id", "N/A")}
		},
	})
}

// AddRequestID adds a request ID to the request context.
func AddRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := ulid.Now()
		r = r.WithContext(log.AppendCtx(r.Context(), slog.Uint64("log_id", requestID)))
		r = r.WithContext(requestid.InjectRequestID(r.Context(), requestID))
		next.ServeHTTP(w, r)
	})
}

// AddCors adds the necessary CORS headers to the response.
func AddCors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e := env.EnvFromCtx(r.Context())
		origin := r.Header.Get("Origin")
		hostOrigin := e.Config.HostOrigin
		isProd := e.Config.Env == config.EnvProd

		// Determine allowed origin based on the incoming Origin header
		var allowedOrigin string
		if isProd {
			allowedOrigin = hostOrigin
		} else if origin != "" {
			// In dev mode, allow all origins
			allowedOrigin = origin
		}

		if allowedOrigin == "" {
			allowedOrigin = hostOrigin
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func validateSession(r *http.Request) (int64, error) {
	e := env.EnvFromCtx(r.Context())

	accessToken, err := r.Cookie(token.AccessTokenName(e))
	if err != nil {
		return 0, err
	}

	if e.Config.AppSecret.Value == nil {
		return 0, errors.New("app secret not loaded")
	}
	secret := string(*e.Config.AppSecret.Value)
	secretVersion := e.Config.AppSecret.Version
	if secretVersion == "" {
		secretVersion = fgJwt.DefaultKID
	}

	accessJwt, err := fgJwt.ValidateJWT(accessToken.Value, secretVersion, []byte(secret))
	if err != nil {
		return 0, err
	}

	sub, err := accessJwt.Claims.GetSubject()
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(sub, 10, 64)
}

// RequireAuth validates the access token cookie and injects the user id
// into the request context. Requests without a valid session are rejected.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e := env.EnvFromCtx(r.Context())
		requestID := requestid.String(r.Context())

		userID, err := validateSession(r)
		if errors.Is(err, jwt.ErrTokenExpired) {
			e.Logger.ErrorContext(r.Context(), "access token expired", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.ExpiredAccessToken, "access token expired", requestID)
			return
		} else if err != nil {
			e.Logger.ErrorContext(r.Context(), "invalid access token", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.InvalidAccessToken, "invalid access token", requestID)
			return
		}

		r = r.WithContext(log.AppendCtx(r.Context(), slog.Int64("user-id", userID)))
		r = r.WithContext(token.UserIDWithCtx(r.Context(), userID))
		next.ServeHTTP(w, r)
	})
}

// OptionalAuth injects the user id when a valid session is presented and
// lets the request through anonymously otherwise. Membership flags on
// public listings depend on this distinction.
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := validateSession(r)
		if err == nil {
			r = r.WithContext(log.AppendCtx(r.Context(), slog.Int64("user-id", userID)))
			r = r.WithContext(token.UserIDWithCtx(r.Context(), userID))
		}
		next.ServeHTTP(w, r)
	})
}
