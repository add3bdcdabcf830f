package filestore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestLocal(t *testing.T) (*Local, string) {
	t.Helper()
	baseDir := t.TempDir()
	return NewLocal(baseDir, DefaultURLPrefix, "http://localhost:8080"), baseDir
}

func TestNewLocal_HostWithTrailingSlash(t *testing.T) {
	store := NewLocal(t.TempDir(), DefaultURLPrefix, "http://localhost:8080/")

	expected := "http://localhost:8080"
	if store.host != expected {
		t.Errorf("host = %q, want %q (trailing slash should be trimmed)", store.host, expected)
	}
}

func TestWriteRecipeImage(t *testing.T) {
	store, baseDir := newTestLocal(t)
	data := []byte("test image data")

	urlPath, err := store.WriteRecipeImage(context.Background(), "01ABC", ".jpg", data)
	if err != nil {
		t.Fatalf("WriteRecipeImage() error = %v", err)
	}

	if urlPath != "/files/recipes/01ABC.jpg" {
		t.Errorf("urlPath = %q, want %q", urlPath, "/files/recipes/01ABC.jpg")
	}

	content, err := os.ReadFile(filepath.Join(baseDir, "recipes", "01ABC.jpg"))
	if err != nil {
		t.Fatalf("failed to read written file: %v", err)
	}
	if string(content) != string(data) {
		t.Errorf("file content = %q, want %q", content, data)
	}
}

func TestDeleteURLPath(t *testing.T) {
	store, baseDir := newTestLocal(t)

	urlPath, err := store.WriteRecipeImage(context.Background(), "01ABC", ".jpg", []byte("test"))
	if err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	if err := store.DeleteURLPath(context.Background(), urlPath); err != nil {
		t.Fatalf("DeleteURLPath() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(baseDir, "recipes", "01ABC.jpg")); !os.IsNotExist(err) {
		t.Errorf("expected file to be deleted, got err = %v", err)
	}
}

func TestDeleteURLPath_NonExistent(t *testing.T) {
	store, _ := newTestLocal(t)

	// Deleting a missing file is not an error; the URL path may point at a
	// file already cleaned up.
	if err := store.DeleteURLPath(context.Background(), "/files/recipes/missing.jpg"); err != nil {
		t.Errorf("DeleteURLPath() error = %v", err)
	}
}

func TestFileURL(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		urlPath  string
		expected string
	}{
		{
			name:     "simple path",
			host:     "http://localhost:8080",
			urlPath:  "/files/recipes/abc123.jpg",
			expected: "http://localhost:8080/files/recipes/abc123.jpg",
		},
		{
			name:     "path without leading slash",
			host:     "http://localhost:8080",
			urlPath:  "files/recipes/abc123.jpg",
			expected: "http://localhost:8080/files/recipes/abc123.jpg",
		},
		{
			name:     "production host",
			host:     "https://foodgram.example.com",
			urlPath:  "/files/recipes/xyz789.png",
			expected: "https://foodgram.example.com/files/recipes/xyz789.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewLocal(t.TempDir(), DefaultURLPrefix, tt.host)

			got := store.FileURL(tt.urlPath)
			if got != tt.expected {
				t.Errorf("FileURL() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestRecipeImagePath(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		suffix   string
		expected string
	}{
		{
			name:     "jpg image",
			id:       "abc123",
			suffix:   ".jpg",
			expected: filepath.Join("recipes", "abc123.jpg"),
		},
		{
			name:     "no extension",
			id:       "test",
			suffix:   "",
			expected: filepath.Join("recipes", "test"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := recipeImagePath(tt.id, tt.suffix)
			if got != tt.expected {
				t.Errorf("recipeImagePath() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestTrimURLPathPrefix(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		prefix   string
		expected string
	}{
		{
			name:     "trim leading prefix",
			path:     "/files/recipes/123.jpg",
			prefix:   "/files",
			expected: "recipes/123.jpg",
		},
		{
			name:     "path without leading slash",
			path:     "files/recipes/123.jpg",
			prefix:   "/files",
			expected: "recipes/123.jpg",
		},
		{
			name:     "trailing slash in path",
			path:     "/files/recipes/123.jpg/",
			prefix:   "/files",
			expected: "recipes/123.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := trimURLPathPrefix(tt.path, tt.prefix)
			if got != tt.expected {
				t.Errorf("trimURLPathPrefix() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAbsPathToURLPath(t *testing.T) {
	got := absPathToURLPath("/data/volume/recipes/123.jpg", "/data/volume", "/files")
	if got != "/files/recipes/123.jpg" {
		t.Errorf("absPathToURLPath() = %q, want %q", got, "/files/recipes/123.jpg")
	}
}

func TestIntegration_WriteAndDelete(t *testing.T) {
	store, baseDir := newTestLocal(t)

	urlPath, err := store.WriteRecipeImage(context.Background(), "01XYZ", ".png", []byte("image"))
	if err != nil {
		t.Fatalf("WriteRecipeImage() error = %v", err)
	}
	if !strings.HasPrefix(urlPath, DefaultURLPrefix) {
		t.Errorf("urlPath = %q, should start with %q", urlPath, DefaultURLPrefix)
	}

	filePath := filepath.Join(baseDir, "recipes", "01XYZ.png")
	if _, err := os.Stat(filePath); err != nil {
		t.Fatalf("file should exist after write: %v", err)
	}

	if err := store.DeleteURLPath(context.Background(), urlPath); err != nil {
		t.Fatalf("DeleteURLPath() error = %v", err)
	}
	if _, err := os.Stat(filePath); !os.IsNotExist(err) {
		t.Errorf("file should not exist after delete")
	}
}
