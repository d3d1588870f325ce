// Package sqlite owns the single database file: opening it, bringing the schema
// up to date and loading the initial catalog.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

type Storage struct {
	db  *sql.DB
	log *slog.Logger
}

func New(ctx context.Context, log *slog.Logger, storagePath string) (*Storage, error) {
	const op = "storage.sqlite.New"

	if dir := filepath.Dir(storagePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn(storagePath))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// один файл, один процесс
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		db:  db,
		log: log,
	}, nil
}

func dsn(path string) string {
	return fmt.Sprintf("file:%s?_busy_timeout=5000&_txlock=immediate", path)
}

// DB exposes the handle for the repositories.
func (s *Storage) DB() *sql.DB {
	return s.db
}

func (s *Storage) Stop() error {
	return s.db.Close()
}
