// Package env provides a structure for managing application-wide dependencies.
package env

import (
	"context"
	"log/slog"

	"github.com/matt-dz/foodgram/internal/config"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/filestore"
)

type Env struct {
	Logger    *slog.Logger
	Database  *database.Database
	FileStore filestore.FileStore
	Config    config.Config
}

type envKeyType struct{}

var envKey envKeyType

// WithCtx injects the environment into a context.
func WithCtx(ctx context.Context, env *Env) context.Context {
	return context.WithValue(ctx, envKey, env)
}

// EnvFromCtx extracts the environment from a context. A context without
// one yields an empty environment rather than a nil dereference.
func EnvFromCtx(ctx context.Context) *Env {
	if env, ok := ctx.Value(envKey).(*Env); ok {
		return env
	}
	return &Env{}
}
