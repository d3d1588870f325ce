package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	rootstorage "nerdhub/internal/storage"
)

// AssetStorage отдает и принимает статические файлы каталога (изображения товаров).
// Пути в базе относительные: "imagens/imagem_produtos_home/forza.jpg".
type AssetStorage interface {
	Save(ctx context.Context, relativePath string, src io.Reader) (int64, error)
	Resolve(relativePath string) (string, error)
	Exists(relativePath string) bool
	BaseDir() string
}

var _ AssetStorage = (*LocalFileStorage)(nil)

// LocalFileStorage реализация для локальной файловой системы
type LocalFileStorage struct {
	baseDir string // каталог, внутри которого лежит "imagens/"
}

func NewLocalFileStorage(baseDir string) (*LocalFileStorage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, err
	}

	return &LocalFileStorage{baseDir: abs}, nil
}

// Resolve maps a stored relative path to a file under the base directory.
// Absolute paths and paths escaping the base are rejected.
func (s *LocalFileStorage) Resolve(relativePath string) (string, error) {
	rel := filepath.FromSlash(strings.TrimSpace(relativePath))
	if rel == "" || filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: %q", rootstorage.ErrInvalidPath, relativePath)
	}

	clean := filepath.Clean(rel)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", rootstorage.ErrInvalidPath, relativePath)
	}

	return filepath.Join(s.baseDir, clean), nil
}

func (s *LocalFileStorage) Exists(relativePath string) bool {
	full, err := s.Resolve(relativePath)
	if err != nil {
		return false
	}

	info, err := os.Stat(full)
	return err == nil && !info.IsDir()
}

// Save writes src to relativePath, creating directories as needed.
// A partially written file is removed on failure or cancellation.
func (s *LocalFileStorage) Save(ctx context.Context, relativePath string, src io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	full, err := s.Resolve(relativePath)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create directories: %w", err)
	}

	dst, err := os.Create(full)
	if err != nil {
		return 0, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	done := make(chan struct{})
	var size int64
	var copyErr error

	go func() {
		size, copyErr = io.Copy(dst, src)
		close(done)
	}()

	select {
	case <-done:
		if copyErr != nil {
			_ = os.Remove(full)
			return 0, fmt.Errorf("failed to copy file: %w", copyErr)
		}
	case <-ctx.Done():
		_ = os.Remove(full)
		return 0, ctx.Err()
	}

	return size, nil
}

// Open returns the asset for reading.
func (s *LocalFileStorage) Open(relativePath string) (*os.File, error) {
	full, err := s.Resolve(relativePath)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", rootstorage.ErrFileNotFound, relativePath)
		}
		return nil, err
	}

	return f, nil
}

func (s *LocalFileStorage) BaseDir() string {
	return s.baseDir
}
