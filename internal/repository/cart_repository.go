package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"nerdhub/internal/domain/models"
)

type CartRepo struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

func NewCartRepository(db *sql.DB) *CartRepo {
	return &CartRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
}

// Add inserts the pair with quantity 1 or bumps the existing row by one.
// One statement, so a double add can never produce two rows.
func (r *CartRepo) Add(ctx context.Context, userID, productID int64) error {
	const op = "repository.cart_repository.Add"

	query, args, err := r.sb.Insert("cart").
		Columns("user_id", "product_id", "quantity", "added_at").
		Values(userID, productID, 1, time.Now().UTC()).
		Suffix("ON CONFLICT(user_id, product_id) DO UPDATE SET quantity = cart.quantity + 1, added_at = excluded.added_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Remove deletes the whole line regardless of quantity.
func (r *CartRepo) Remove(ctx context.Context, userID, productID int64) (bool, error) {
	const op = "repository.cart_repository.Remove"

	query, args, err := r.sb.Delete("cart").
		Where(sq.Eq{"user_id": userID, "product_id": productID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return n > 0, nil
}

// Items lists the cart, most recently added first.
func (r *CartRepo) Items(ctx context.Context, userID int64) ([]models.CartItem, error) {
	const op = "repository.cart_repository.Items"

	query, args, err := r.sb.Select(
		"p.id",
		"p.title",
		"p.price",
		"COALESCE(p.price_cents, 0)",
		"p.price_cents IS NULL",
		"COALESCE(p.image, '')",
		"c.quantity",
		"c.added_at",
	).
		From("cart c").
		Join("products p ON c.product_id = p.id").
		Where(sq.Eq{"c.user_id": userID}).
		OrderBy("c.added_at DESC", "c.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	items := make([]models.CartItem, 0)
	for rows.Next() {
		var (
			item    models.CartItem
			addedAt sql.NullTime
		)
		if err := rows.Scan(
			&item.ProductID,
			&item.Title,
			&item.Price,
			&item.PriceCents,
			&item.Unpriced,
			&item.Image,
			&item.Quantity,
			&addedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		item.AddedAt = addedAt.Time
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

func (r *CartRepo) Clear(ctx context.Context, userID int64) (int64, error) {
	const op = "repository.cart_repository.Clear"

	query, args, err := r.sb.Delete("cart").Where(sq.Eq{"user_id": userID}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}
