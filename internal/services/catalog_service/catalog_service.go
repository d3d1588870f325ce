package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"nerdhub/internal/domain/models"
	"nerdhub/internal/lib/apperr"
	"nerdhub/internal/lib/logger/sl"
	"nerdhub/internal/lib/money"
	"nerdhub/internal/transport/http/dto"
)

type ProductRepository interface {
	Products(ctx context.Context) ([]models.Product, error)
	ProductsByCategory(ctx context.Context, category models.Category) ([]models.Product, error)
	ProductByID(ctx context.Context, id int64) (*models.ProductDetail, error)
	SaveProduct(ctx context.Context, p models.ProductDetail) (int64, error)
}

type CatalogService struct {
	log      *slog.Logger
	repo     ProductRepository
	validate *validator.Validate
}

func NewCatalogService(log *slog.Logger, repo ProductRepository) *CatalogService {
	return &CatalogService{
		log:      log,
		repo:     repo,
		validate: apperr.NewValidator(),
	}
}

func (s *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	const op = "services.CatalogService.List"

	products, err := s.repo.Products(ctx)
	if err != nil {
		s.log.Error("failed to list products", slog.String("op", op), sl.Err(err))
		return nil, apperr.Storage(op, err)
	}

	return products, nil
}

func (s *CatalogService) ListByCategory(ctx context.Context, category models.Category) ([]models.Product, error) {
	const op = "services.CatalogService.ListByCategory"

	log := s.log.With(slog.String("op", op), slog.String("category", category.String()))

	if _, err := models.ParseCategory(category.String()); err != nil {
		log.Warn("unknown category")
		return nil, apperr.Validation(op, err)
	}

	products, err := s.repo.ProductsByCategory(ctx, category)
	if err != nil {
		log.Error("failed to list products", sl.Err(err))
		return nil, apperr.Storage(op, err)
	}

	log.Debug("products listed", slog.Int("count", len(products)))

	return products, nil
}

// Get returns nil, nil for an unknown id. An empty description is replaced by
// the category text.
func (s *CatalogService) Get(ctx context.Context, id int64) (*models.ProductDetail, error) {
	const op = "services.CatalogService.Get"

	p, err := s.repo.ProductByID(ctx, id)
	if err != nil {
		s.log.Error("failed to get product", slog.String("op", op), slog.Int64("product_id", id), sl.Err(err))
		return nil, apperr.Storage(op, err)
	}
	if p == nil {
		return nil, nil
	}

	if strings.TrimSpace(p.Description) == "" {
		p.Description = models.FallbackDescription(p.Title, p.Category)
	}

	return p, nil
}

// Add inserts a catalog entry. Category defaults to geral; the price must parse.
func (s *CatalogService) Add(ctx context.Context, input dto.AddProductInput) (int64, error) {
	const op = "services.CatalogService.Add"

	log := s.log.With(slog.String("op", op), slog.String("title", input.Title))

	if err := s.validate.Struct(input); err != nil {
		log.Warn("invalid product", sl.Err(err))
		return 0, apperr.Validation(op, err)
	}

	category := models.CategoryGeneral
	if strings.TrimSpace(input.Category) != "" {
		c, err := models.ParseCategory(input.Category)
		if err != nil {
			log.Warn("unknown category", slog.String("category", input.Category))
			return 0, apperr.Validation(op, err)
		}
		category = c
	}

	cents, err := money.Parse(input.Price)
	if err != nil {
		log.Warn("invalid price", slog.String("price", input.Price))
		return 0, apperr.Validation(op, err)
	}

	id, err := s.repo.SaveProduct(ctx, models.ProductDetail{
		Product: models.Product{
			Title: strings.TrimSpace(input.Title),
			Price: money.Format(cents),
			Image: strings.TrimSpace(input.Image),
		},
		Category:   category,
		PriceCents: cents,
	})
	if err != nil {
		log.Error("failed to save product", sl.Err(err))
		return 0, apperr.Storage(op, err)
	}

	log.Info("product added", slog.Int64("product_id", id))

	return id, nil
}
