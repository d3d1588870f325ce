package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"nerdhub/internal/domain/models"
	"nerdhub/internal/lib/apperr"
	"nerdhub/internal/lib/logger/sl"
	"nerdhub/internal/lib/money"
	"nerdhub/internal/metrics"
	"nerdhub/internal/session"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductUnpriced = errors.New("product has no valid price")
)

type CartRepository interface {
	Add(ctx context.Context, userID, productID int64) error
	Remove(ctx context.Context, userID, productID int64) (bool, error)
	Items(ctx context.Context, userID int64) ([]models.CartItem, error)
	Clear(ctx context.Context, userID int64) (int64, error)
}

type ProductProvider interface {
	ProductByID(ctx context.Context, id int64) (*models.ProductDetail, error)
}

// CartService scopes every operation to the user of the given session.
type CartService struct {
	log      *slog.Logger
	repo     CartRepository
	products ProductProvider
}

func NewCartService(log *slog.Logger, repo CartRepository, products ProductProvider) *CartService {
	return &CartService{
		log:      log,
		repo:     repo,
		products: products,
	}
}

func (s *CartService) Add(ctx context.Context, sess *session.Session, productID int64) error {
	const op = "services.CartService.Add"

	user, err := sess.Require()
	if err != nil {
		metrics.CartOperations.WithLabelValues("add", metrics.ResultInvalid).Inc()
		return fmt.Errorf("%s: %w", op, err)
	}

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("user_id", user.ID),
		slog.Int64("product_id", productID),
	)

	p, err := s.products.ProductByID(ctx, productID)
	if err != nil {
		log.Error("failed to check product", sl.Err(err))
		metrics.CartOperations.WithLabelValues("add", metrics.ResultError).Inc()
		return apperr.Storage(op, err)
	}
	if p == nil {
		log.Warn("product not found")
		metrics.CartOperations.WithLabelValues("add", metrics.ResultInvalid).Inc()
		return fmt.Errorf("%s: %w", op, ErrProductNotFound)
	}
	if p.Unpriced {
		log.Warn("product has no parsable price", slog.String("price", p.Price))
		metrics.CartOperations.WithLabelValues("add", metrics.ResultInvalid).Inc()
		return fmt.Errorf("%s: %w", op, ErrProductUnpriced)
	}

	if err := s.repo.Add(ctx, user.ID, productID); err != nil {
		log.Error("failed to add to cart", sl.Err(err))
		metrics.CartOperations.WithLabelValues("add", metrics.ResultError).Inc()
		return apperr.Storage(op, err)
	}

	log.Info("product added to cart")
	metrics.CartOperations.WithLabelValues("add", metrics.ResultSuccess).Inc()

	return nil
}

// Remove drops the whole line. Returns false when the product was not in the cart.
func (s *CartService) Remove(ctx context.Context, sess *session.Session, productID int64) (bool, error) {
	const op = "services.CartService.Remove"

	user, err := sess.Require()
	if err != nil {
		metrics.CartOperations.WithLabelValues("remove", metrics.ResultInvalid).Inc()
		return false, fmt.Errorf("%s: %w", op, err)
	}

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("user_id", user.ID),
		slog.Int64("product_id", productID),
	)

	removed, err := s.repo.Remove(ctx, user.ID, productID)
	if err != nil {
		log.Error("failed to remove from cart", sl.Err(err))
		metrics.CartOperations.WithLabelValues("remove", metrics.ResultError).Inc()
		return false, apperr.Storage(op, err)
	}

	log.Info("product removed from cart", slog.Bool("removed", removed))
	metrics.CartOperations.WithLabelValues("remove", metrics.ResultSuccess).Inc()

	return removed, nil
}

func (s *CartService) List(ctx context.Context, sess *session.Session) ([]models.CartItem, error) {
	const op = "services.CartService.List"

	user, err := sess.Require()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items, err := s.repo.Items(ctx, user.ID)
	if err != nil {
		s.log.Error("failed to list cart", slog.String("op", op), slog.Int64("user_id", user.ID), sl.Err(err))
		return nil, apperr.Storage(op, err)
	}

	return items, nil
}

func (s *CartService) Clear(ctx context.Context, sess *session.Session) error {
	const op = "services.CartService.Clear"

	user, err := sess.Require()
	if err != nil {
		metrics.CartOperations.WithLabelValues("clear", metrics.ResultInvalid).Inc()
		return fmt.Errorf("%s: %w", op, err)
	}

	log := s.log.With(slog.String("op", op), slog.Int64("user_id", user.ID))

	n, err := s.repo.Clear(ctx, user.ID)
	if err != nil {
		log.Error("failed to clear cart", sl.Err(err))
		metrics.CartOperations.WithLabelValues("clear", metrics.ResultError).Inc()
		return apperr.Storage(op, err)
	}

	log.Info("cart cleared", slog.Int64("lines", n))
	metrics.CartOperations.WithLabelValues("clear", metrics.ResultSuccess).Inc()

	return nil
}

// Summary returns the cart with its total. Arithmetic is done on centavos only.
func (s *CartService) Summary(ctx context.Context, sess *session.Session) (*models.CartSummary, error) {
	const op = "services.CartService.Summary"

	items, err := s.List(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return Summarize(items), nil
}

func Summarize(items []models.CartItem) *models.CartSummary {
	if items == nil {
		items = []models.CartItem{}
	}

	var (
		total    int64
		unpriced int
	)
	for _, it := range items {
		if it.Unpriced {
			unpriced++
			continue
		}
		total += it.Subtotal()
	}

	// без цены хотя бы у одной строки сумму не называем
	if unpriced > 0 {
		return &models.CartSummary{
			Items:         items,
			UnpricedItems: unpriced,
		}
	}

	return &models.CartSummary{
		Items:      items,
		TotalCents: total,
		Total:      money.Format(total),
	}
}
