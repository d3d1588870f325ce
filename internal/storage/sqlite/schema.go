package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"

	"nerdhub/internal/domain/models"
	"nerdhub/internal/lib/logger/sl"
	"nerdhub/internal/lib/money"
	"nerdhub/internal/metrics"
)

const (
	usersTable    = "users"
	productsTable = "products"
	cartTable     = "cart"
)

var baseTables = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		phone TEXT,
		birth_date TEXT,
		created_at TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		price TEXT NOT NULL,
		image TEXT,
		category TEXT DEFAULT 'geral',
		description TEXT DEFAULT '` + models.DefaultDescription + `',
		price_cents INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS cart (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		product_id INTEGER NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 1,
		added_at TIMESTAMP,
		UNIQUE(user_id, product_id)
	)`,
}

// columnMigration adds one column to a table that predates it.
// backfill runs in the same transaction as the ALTER.
type columnMigration struct {
	table      string
	column     string
	definition string
	backfill   func(ctx context.Context, tx *sql.Tx) error
}

func (s *Storage) migrations() []columnMigration {
	return []columnMigration{
		{table: usersTable, column: "phone", definition: "TEXT"},
		{table: usersTable, column: "birth_date", definition: "TEXT"},
		{table: usersTable, column: "created_at", definition: "TIMESTAMP", backfill: backfillNow(usersTable, "created_at")},
		{table: productsTable, column: "category", definition: "TEXT DEFAULT 'geral'"},
		{table: productsTable, column: "description", definition: "TEXT DEFAULT '" + models.DefaultDescription + "'"},
		{table: productsTable, column: "price_cents", definition: "INTEGER", backfill: s.backfillPriceCents},
		{table: cartTable, column: "quantity", definition: "INTEGER NOT NULL DEFAULT 1"},
		{table: cartTable, column: "added_at", definition: "TIMESTAMP", backfill: backfillNow(cartTable, "added_at")},
	}
}

// EnsureSchema creates missing tables and applies every additive column
// migration whose column is absent. Only a failure to create a base table is
// returned; a failing migration is logged and the next one is attempted.
func (s *Storage) EnsureSchema(ctx context.Context) error {
	const op = "storage.sqlite.EnsureSchema"

	log := s.log.With(slog.String("op", op))

	for _, stmt := range baseTables {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	for _, m := range s.migrations() {
		applied, err := s.applyColumn(ctx, m)
		if err != nil {
			log.Error("migration failed",
				slog.String("table", m.table),
				slog.String("column", m.column),
				sl.Err(err),
			)
			metrics.SchemaMigrations.WithLabelValues(m.table, metrics.ResultError).Inc()
			continue
		}
		if applied {
			metrics.SchemaMigrations.WithLabelValues(m.table, metrics.ResultSuccess).Inc()
			log.Info("column added", slog.String("table", m.table), slog.String("column", m.column))
		}
	}

	// старые базы могли создать cart без UNIQUE, без индекса upsert не работает
	if err := s.ensureCartUnique(ctx); err != nil {
		log.Error("failed to ensure cart unique index", sl.Err(err))
		metrics.SchemaMigrations.WithLabelValues(cartTable, metrics.ResultError).Inc()
	}

	return nil
}

// ensureCartUnique складывает повторные строки (user_id, product_id) старой корзины
// в строку с наименьшим id и создает уникальный индекс, все в одной транзакции.
func (s *Storage) ensureCartUnique(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	merged, err := tx.ExecContext(ctx, `
		UPDATE cart SET quantity = (
			SELECT SUM(COALESCE(d.quantity, 1)) FROM cart d
			WHERE d.user_id = cart.user_id AND d.product_id = cart.product_id
		)
		WHERE id IN (
			SELECT MIN(id) FROM cart GROUP BY user_id, product_id HAVING COUNT(*) > 1
		)`)
	if err != nil {
		return fmt.Errorf("merge duplicates: %w", err)
	}

	deleted, err := tx.ExecContext(ctx, `
		DELETE FROM cart WHERE id NOT IN (
			SELECT MIN(id) FROM cart GROUP BY user_id, product_id
		)`)
	if err != nil {
		return fmt.Errorf("delete duplicates: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_user_product ON cart(user_id, product_id)`,
	); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	if n, _ := deleted.RowsAffected(); n > 0 {
		lines, _ := merged.RowsAffected()
		s.log.Info("duplicate cart rows merged", slog.Int64("lines", lines), slog.Int64("removed", n))
		metrics.SchemaMigrations.WithLabelValues(cartTable, metrics.ResultSuccess).Inc()
	}

	return nil
}

func (s *Storage) applyColumn(ctx context.Context, m columnMigration) (bool, error) {
	cols, err := s.columns(ctx, m.table)
	if err != nil {
		return false, err
	}
	if _, ok := cols[m.column]; ok {
		return false, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", m.table, m.column, m.definition)
	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return false, err
	}

	if m.backfill != nil {
		if err := m.backfill(ctx, tx); err != nil {
			return false, fmt.Errorf("backfill: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}

	return true, nil
}

// columns reads the column set of table via PRAGMA table_info.
func (s *Storage) columns(ctx context.Context, table string) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := make(map[string]struct{})
	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dfltValue, &pk); err != nil {
			return nil, err
		}
		cols[name] = struct{}{}
	}

	return cols, rows.Err()
}

func backfillNow(table, column string) func(ctx context.Context, tx *sql.Tx) error {
	return func(ctx context.Context, tx *sql.Tx) error {
		query, args, err := sq.Update(table).
			Set(column, time.Now().UTC()).
			Where(sq.Eq{column: nil}).
			ToSql()
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, query, args...)
		return err
	}
}

func (s *Storage) backfillPriceCents(ctx context.Context, tx *sql.Tx) error {
	_, err := s.fillPriceCents(ctx, tx)
	return err
}

// fillPriceCents computes price_cents for every row where it is NULL.
// Prices outside the strict format fall back to ParseLegacy with a warning;
// rows that still do not parse stay NULL and are reported.
func (s *Storage) fillPriceCents(ctx context.Context, tx *sql.Tx) (int, error) {
	query, args, err := sq.Select("id", "price").
		From(productsTable).
		Where(sq.Eq{"price_cents": nil}).
		ToSql()
	if err != nil {
		return 0, err
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	type pending struct {
		id    int64
		cents int64
	}

	var todo []pending
	for rows.Next() {
		var (
			id    int64
			price string
		)
		if err := rows.Scan(&id, &price); err != nil {
			rows.Close()
			return 0, err
		}

		cents, err := money.Parse(price)
		if err != nil {
			cents, err = money.ParseLegacy(price)
			if err != nil {
				s.log.Warn("price does not parse, product left unpriced",
					slog.Int64("product_id", id), slog.String("price", price))
				continue
			}
			s.log.Warn("legacy price format",
				slog.Int64("product_id", id), slog.String("price", price), slog.Int64("price_cents", cents))
		}
		todo = append(todo, pending{id: id, cents: cents})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, err
	}
	rows.Close()

	for _, p := range todo {
		query, args, err := sq.Update(productsTable).
			Set("price_cents", p.cents).
			Where(sq.Eq{"id": p.id}).
			ToSql()
		if err != nil {
			return 0, err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, err
		}
	}

	return len(todo), nil
}

// BackfillPriceCents fills price_cents for rows written without it.
func (s *Storage) BackfillPriceCents(ctx context.Context) (int, error) {
	const op = "storage.sqlite.BackfillPriceCents"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	n, err := s.fillPriceCents(ctx, tx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

const (
	legacyImagePrefix  = "nerd_hub.kv/imagens/"
	currentImagePrefix = "imagens/"
)

// NormalizeLegacyPaths rewrites image paths stored with the old bundle prefix.
func (s *Storage) NormalizeLegacyPaths(ctx context.Context) (int64, error) {
	const op = "storage.sqlite.NormalizeLegacyPaths"

	query, args, err := sq.Update(productsTable).
		Set("image", sq.Expr("? || substr(image, ?)", currentImagePrefix, len(legacyImagePrefix)+1)).
		// substr, а не LIKE: "_" в префиксе не шаблон, регистр важен
		Where(sq.Expr("substr(image, 1, ?) = ?", len(legacyImagePrefix), legacyImagePrefix)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}
