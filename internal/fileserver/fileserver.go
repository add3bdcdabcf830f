// Package fileserver writes and removes files under a base directory.
package fileserver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	directoryPerms = 0o755
)

type FileServerInterface interface {
	Write(path string, data []byte) (location string, n int, err error)
	Delete(path string) error
	Exists(path string) (bool, error)
	BaseDirectory() string
}

type FileServer struct {
	baseDir string
}

var _ FileServerInterface = (*FileServer)(nil)

func New(baseDir string) *FileServer {
	return &FileServer{
		baseDir: baseDir,
	}
}

func (f *FileServer) BaseDirectory() string {
	if f == nil {
		return ""
	}
	return f.baseDir
}

func (f *FileServer) Write(path string, data []byte) (location string, n int, err error) {
	if f == nil {
		return "", 0, nil
	}

	fullpath := filepath.Join(f.baseDir, path)
	if err := os.MkdirAll(filepath.Dir(fullpath), directoryPerms); err != nil {
		return "", 0, fmt.Errorf("creating parent directories: %w", err)
	}

	file, err := os.Create(fullpath)
	if err != nil {
		return "", 0, fmt.Errorf("creating file: %w", err)
	}
	defer func() { _ = file.Close() }()

	n, err = file.Write(data)
	if err != nil {
		return "", 0, fmt.Errorf("writing file: %w", err)
	}

	return fullpath, n, nil
}

func (f *FileServer) Delete(path string) error {
	if f == nil {
		return nil
	}

	fullpath := filepath.Join(f.baseDir, path)
	// Refuse paths that escape the base directory.
	if !strings.HasPrefix(filepath.Clean(fullpath), filepath.Clean(f.baseDir)) {
		return fmt.Errorf("path %q outside base directory", path)
	}
	if err := os.Remove(fullpath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing file: %w", err)
	}
	return nil
}

func (f *FileServer) Exists(path string) (bool, error) {
	if f == nil {
		return false, nil
	}
	_, err := os.Stat(filepath.Join(f.baseDir, path))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
