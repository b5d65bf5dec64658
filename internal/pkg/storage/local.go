package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LocalStorage serves a directory on disk as the folder. File ids are the
// file names relative to basePath.
type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	// Create base directory if not exists
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage directory: %w", err)
	}

	return &LocalStorage{basePath: abs}, nil
}

func (s *LocalStorage) resolve(id string) (string, error) {
	cleanPath := filepath.Clean(id)
	fullPath := filepath.Join(s.basePath, cleanPath)

	// Ensure file is within basePath
	if !strings.HasPrefix(fullPath, s.basePath+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid file path: %s", id)
	}
	return fullPath, nil
}

func (s *LocalStorage) List(ctx context.Context) ([]Object, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage directory: %w", err)
	}

	objects := make([]Object, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasSuffix(e.Name(), ".tmp") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", e.Name(), err)
		}
		objects = append(objects, Object{
			ID:         e.Name(),
			Name:       e.Name(),
			ModifiedAt: info.ModTime(),
			Size:       info.Size(),
		})
	}

	sort.Slice(objects, func(i, j int) bool { return objects[i].Name < objects[j].Name })
	return objects, nil
}

func (s *LocalStorage) Download(ctx context.Context, id string) (io.ReadCloser, error) {
	fullPath, err := s.resolve(id)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

func (s *LocalStorage) Upload(ctx context.Context, id string, content io.Reader, contentType string) error {
	fullPath, err := s.resolve(id)
	if err != nil {
		return err
	}
	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("failed to stat file: %w", err)
	}

	return s.write(fullPath, content)
}

func (s *LocalStorage) Create(ctx context.Context, name string, content io.Reader, contentType string) (Object, error) {
	fullPath, err := s.resolve(name)
	if err != nil {
		return Object{}, err
	}
	if strings.ContainsRune(filepath.Clean(name), os.PathSeparator) {
		return Object{}, fmt.Errorf("invalid file name: %s", name)
	}
	if _, err := os.Stat(fullPath); err == nil {
		return Object{}, fmt.Errorf("file already exists: %s", name)
	}

	if err := s.write(fullPath, content); err != nil {
		return Object{}, err
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		return Object{}, fmt.Errorf("failed to stat file: %w", err)
	}
	return Object{ID: info.Name(), Name: info.Name(), ModifiedAt: info.ModTime(), Size: info.Size()}, nil
}

// write replaces fullPath through a sibling temp file.
func (s *LocalStorage) write(fullPath string, content io.Reader) error {
	tmpPath := fullPath + ".tmp"
	dst, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(dst, content); err != nil {
		dst.Close()
		// Cleanup on error
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace file: %w", err)
	}

	return nil
}
