package repository

import (
	"context"

	"nerdhub/internal/domain/models"
)

type UserRepository interface {
	SaveUser(ctx context.Context, name, email, passwordHash string) (int64, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, userID int64) (models.User, error)
	UpdateProfile(ctx context.Context, userID int64, upd models.ProfileUpdate) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	Users(ctx context.Context) ([]models.UserRef, error)
}

type ProductRepository interface {
	Products(ctx context.Context) ([]models.Product, error)
	ProductsByCategory(ctx context.Context, category models.Category) ([]models.Product, error)
	ProductByID(ctx context.Context, id int64) (*models.ProductDetail, error)
	SaveProduct(ctx context.Context, p models.ProductDetail) (int64, error)
}

type CartRepository interface {
	Add(ctx context.Context, userID, productID int64) error
	Remove(ctx context.Context, userID, productID int64) (bool, error)
	Items(ctx context.Context, userID int64) ([]models.CartItem, error)
	Clear(ctx context.Context, userID int64) (int64, error)
}

var (
	_ UserRepository    = (*UserRepo)(nil)
	_ ProductRepository = (*ProductRepo)(nil)
	_ CartRepository    = (*CartRepo)(nil)
)
