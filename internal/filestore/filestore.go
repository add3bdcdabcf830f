// Package filestore stores recipe images behind a backend-neutral
// interface: a local volume served by the fileserver package, or an
// S3-compatible bucket.
package filestore

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/matt-dz/foodgram/internal/fileserver"
)

const (
	recipesDir = "recipes"
)

const (
	DefaultURLPrefix = "/files"
)

type FileStore interface {
	// WriteRecipeImage persists the image bytes under the given opaque id
	// and returns the URL path clients use to fetch it. The id is assigned
	// before the recipe row exists, so it is not the recipe id.
	WriteRecipeImage(ctx context.Context, imageID, suffix string, data []byte) (urlPath string, err error)

	// DeleteURLPath removes the file a previously returned URL path points at.
	DeleteURLPath(ctx context.Context, urlPath string) error

	// FileURL resolves a URL path to an absolute URL.
	FileURL(urlPath string) string
}

// Local keeps files on a mounted volume.
type Local struct {
	urlPathPrefix string
	host          string
	fs            fileserver.FileServerInterface
}

var _ FileStore = (*Local)(nil)

func NewLocal(baseDirectory, urlPathPrefix, host string) *Local {
	return &Local{
		urlPathPrefix: urlPathPrefix,
		host:          strings.TrimRight(host, "/"),
		fs:            fileserver.New(baseDirectory),
	}
}

func (f *Local) WriteRecipeImage(_ context.Context, imageID, suffix string, data []byte) (string, error) {
	path := recipeImagePath(imageID, suffix)
	fullpath, _, err := f.fs.Write(path, data)
	if err != nil {
		return "", err
	}
	return absPathToURLPath(fullpath, f.fs.BaseDirectory(), f.urlPathPrefix), nil
}

func (f *Local) DeleteURLPath(_ context.Context, urlpath string) error {
	return f.fs.Delete(trimURLPathPrefix(urlpath, f.urlPathPrefix))
}

func (f *Local) FileURL(urlpath string) string {
	return f.host + "/" + strings.TrimLeft(urlpath, "/")
}

// BaseDirectory exposes the volume root so the API can serve it.
func (f *Local) BaseDirectory() string {
	return f.fs.BaseDirectory()
}

// URLPrefix exposes the mount point the API serves files under.
func (f *Local) URLPrefix() string {
	return f.urlPathPrefix
}

func recipeImagePath(imageID, suffix string) string {
	return filepath.Join(recipesDir, imageID+suffix)
}

func absPathToURLPath(fullpath string, baseDir string, prefix string) (urlpath string) {
	pathPrefix := strings.Trim(prefix, "/")
	relPath := strings.TrimLeft(trimBaseDir(fullpath, baseDir), "/")
	return "/" + pathPrefix + "/" + relPath
}

func trimBaseDir(path string, baseDir string) string {
	path = filepath.Clean(path)
	baseDir = filepath.Clean(baseDir)
	return strings.TrimPrefix(path, baseDir)
}

func trimURLPathPrefix(path string, prefix string) string {
	urlpath := strings.Trim(path, "/")
	pathPrefix := strings.Trim(prefix, "/")
	urlpath = strings.TrimPrefix(urlpath, pathPrefix)
	return strings.TrimLeft(urlpath, "/")
}
