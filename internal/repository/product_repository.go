package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"nerdhub/internal/domain/models"
)

type ProductRepo struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

func NewProductRepository(db *sql.DB) *ProductRepo {
	return &ProductRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
}

func (r *ProductRepo) Products(ctx context.Context) ([]models.Product, error) {
	const op = "repository.product_repository.Products"

	products, err := r.list(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return products, nil
}

func (r *ProductRepo) ProductsByCategory(ctx context.Context, category models.Category) ([]models.Product, error) {
	const op = "repository.product_repository.ProductsByCategory"

	products, err := r.list(ctx, sq.Eq{"category": category.String()})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return products, nil
}

func (r *ProductRepo) list(ctx context.Context, where sq.Sqlizer) ([]models.Product, error) {
	builder := r.sb.Select("id", "title", "price", "COALESCE(image, '')").
		From("products").
		OrderBy("id")
	if where != nil {
		builder = builder.Where(where)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("can't build sql: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]models.Product, 0)
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Title, &p.Price, &p.Image); err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

// ProductByID returns nil, nil when there is no such product.
func (r *ProductRepo) ProductByID(ctx context.Context, id int64) (*models.ProductDetail, error) {
	const op = "repository.product_repository.ProductByID"

	query, args, err := r.sb.Select(
		"id",
		"title",
		"price",
		"COALESCE(image, '')",
		"COALESCE(category, 'geral')",
		"COALESCE(description, '')",
		"COALESCE(price_cents, 0)",
		"price_cents IS NULL",
	).
		From("products").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var (
		p        models.ProductDetail
		category string
	)
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&p.Title,
		&p.Price,
		&p.Image,
		&category,
		&p.Description,
		&p.PriceCents,
		&p.Unpriced,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// в старых базах категория - произвольный текст
	p.Category = models.Category(category)

	return &p, nil
}

func (r *ProductRepo) SaveProduct(ctx context.Context, p models.ProductDetail) (int64, error) {
	const op = "repository.product_repository.SaveProduct"

	columns := []string{"title", "price", "image", "category", "price_cents"}
	values := []any{p.Title, p.Price, p.Image, p.Category.String(), p.PriceCents}
	if p.Description != "" {
		columns = append(columns, "description")
		values = append(values, p.Description)
	}

	query, args, err := r.sb.Insert("products").Columns(columns...).Values(values...).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}
