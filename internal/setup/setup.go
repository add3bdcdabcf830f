// Package setup is responsible for setting up components.
package setup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matt-dz/foodgram/internal/config"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/filestore"
)

func Database(ctx context.Context, conf config.Config) (*database.Database, error) {
	if conf.Database.User == "" {
		return nil, NewConfigValueMissingError("database.user")
	}
	if conf.Database.Password == "" {
		return nil, NewConfigValueMissingError("database.password")
	}
	if conf.Database.Database == "" {
		return nil, NewConfigValueMissingError("database.database")
	}

	dbString := fmt.Sprintf("postgresql://%s:%s@%s:%d/%s",
		conf.Database.User, conf.Database.Password,
		conf.Database.Host, conf.Database.Port, conf.Database.Database)

	pool, err := pgxpool.New(ctx, dbString)
	if err != nil {
		return nil, fmt.Errorf("creating database pool: %w", err)
	}

	db := database.NewDatabase(pool)
	if err := db.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	return db, nil
}

func FileStore(ctx context.Context, conf config.Config) (filestore.FileStore, error) {
	if conf.Fileserver.Backend == config.FilestoreS3 {
		if conf.Fileserver.S3.Endpoint == "" {
			return nil, NewConfigValueMissingError("fileserver.s3.endpoint")
		}
		fs, err := filestore.NewS3(filestore.S3Params{
			Endpoint:  conf.Fileserver.S3.Endpoint,
			AccessKey: conf.Fileserver.S3.AccessKey,
			SecretKey: conf.Fileserver.S3.SecretKey,
			Bucket:    conf.Fileserver.S3.Bucket,
			UseSSL:    conf.Fileserver.S3.UseSSL,
			Host:      conf.HostOrigin,
		})
		if err != nil {
			return nil, fmt.Errorf("creating s3 filestore: %w", err)
		}
		if err := fs.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("ensuring bucket: %w", err)
		}
		return fs, nil
	}

	if conf.Fileserver.Volume == "" {
		return nil, NewConfigValueMissingError("fileserver.volume")
	}
	fileserverPath, err := filepath.Abs(conf.Fileserver.Volume)
	if err != nil {
		return nil, fmt.Errorf("creating fileserver path: %w", err)
	}
	urlPrefix := conf.Fileserver.URLPrefix
	if urlPrefix == "" {
		urlPrefix = filestore.DefaultURLPrefix
	}
	return filestore.NewLocal(fileserverPath, urlPrefix, conf.HostOrigin), nil
}

type seedFile struct {
	Tags []struct {
		Name  string `yaml:"name"`
		Color string `yaml:"color"`
		Slug  string `yaml:"slug"`
	} `yaml:"tags"`
	Ingredients []struct {
		Name            string `yaml:"name"`
		MeasurementUnit string `yaml:"measurement_unit"`
	} `yaml:"ingredients"`
}

// Seed loads reference tags and ingredients from the configured fixture.
// Rows that already exist are skipped, so reseeding is harmless.
func Seed(ctx context.Context, e *env.Env) error {
	path := e.Config.Seed.Path
	if path == "" {
		e.Logger.InfoContext(ctx, "no seed file configured, skipping seeding")
		return nil
	}

	contents, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		e.Logger.InfoContext(ctx, "seed file does not exist, skipping seeding")
		return nil
	} else if err != nil {
		return fmt.Errorf("reading seed file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(contents, &seed); err != nil {
		return fmt.Errorf("unmarshaling seed file: %w", err)
	}

	for _, t := range seed.Tags {
		_, err := e.Database.CreateTag(ctx, database.CreateTagParams{
			Name:  t.Name,
			Color: t.Color,
			Slug:  t.Slug,
		})
		if database.IsUniqueViolation(err) {
			continue
		} else if err != nil {
			return fmt.Errorf("seeding tag %q: %w", t.Name, err)
		}
	}

	for _, i := range seed.Ingredients {
		_, err := e.Database.CreateIngredient(ctx, database.CreateIngredientParams{
			Name:            i.Name,
			MeasurementUnit: i.MeasurementUnit,
		})
		if database.IsUniqueViolation(err) {
			continue
		} else if err != nil {
			return fmt.Errorf("seeding ingredient %q: %w", i.Name, err)
		}
	}

	e.Logger.InfoContext(ctx, "seeded reference data")
	return nil
}
