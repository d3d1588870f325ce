package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nerdhub/internal/domain/models"
	"nerdhub/internal/lib/apperr"
	"nerdhub/internal/lib/logger/handlers/slogdiscard"
	"nerdhub/internal/transport/http/dto"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Products(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) ProductsByCategory(ctx context.Context, category models.Category) ([]models.Product, error) {
	args := m.Called(ctx, category)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) ProductByID(ctx context.Context, id int64) (*models.ProductDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductDetail), args.Error(1)
}

func (m *MockProductRepository) SaveProduct(ctx context.Context, p models.ProductDetail) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func TestCatalogService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	service := NewCatalogService(slogdiscard.NewDiscardLogger(), repo)

	products := []models.Product{{ID: 1, Title: "FORZA - Xbox Series X", Price: "R$ 179,00"}}
	repo.On("Products", ctx).Return(products, nil).Once()

	got, err := service.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, products, got)

	repo.On("Products", ctx).Return([]models.Product(nil), errors.New("io")).Once()
	_, err = service.List(ctx)
	assert.ErrorIs(t, err, apperr.ErrStorage)
}

func TestCatalogService_ListByCategory(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	service := NewCatalogService(slogdiscard.NewDiscardLogger(), repo)

	repo.On("ProductsByCategory", ctx, models.CategoryMarvel).Return([]models.Product{{ID: 6}}, nil).Once()

	got, err := service.ListByCategory(ctx, models.CategoryMarvel)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = service.ListByCategory(ctx, models.Category("pokemon"))
	assert.ErrorIs(t, err, apperr.ErrValidation)

	repo.AssertExpectations(t)
}

func TestCatalogService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("missing product is not an error", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewCatalogService(slogdiscard.NewDiscardLogger(), repo)

		repo.On("ProductByID", ctx, int64(404)).Return(nil, nil).Once()

		p, err := service.Get(ctx, 404)
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("empty description falls back to category text", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewCatalogService(slogdiscard.NewDiscardLogger(), repo)

		repo.On("ProductByID", ctx, int64(10)).Return(&models.ProductDetail{
			Product:  models.Product{ID: 10, Title: "LEGO Disney Castle - 43222"},
			Category: models.CategoryDisney,
		}, nil).Once()

		p, err := service.Get(ctx, 10)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.True(t, strings.HasPrefix(p.Description, "LEGO Disney Castle - 43222 - Um produto mágico"))
	})

	t.Run("stored description kept", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewCatalogService(slogdiscard.NewDiscardLogger(), repo)

		repo.On("ProductByID", ctx, int64(1)).Return(&models.ProductDetail{
			Product:     models.Product{ID: 1},
			Description: models.DefaultDescription,
		}, nil).Once()

		p, err := service.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, models.DefaultDescription, p.Description)
	})
}

func TestCatalogService_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults category and normalizes price", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewCatalogService(slogdiscard.NewDiscardLogger(), repo)

		repo.On("SaveProduct", ctx, models.ProductDetail{
			Product:    models.Product{Title: "Caneca", Price: "R$ 1.049,00", Image: "imagens/caneca.jpg"},
			Category:   models.CategoryGeneral,
			PriceCents: 104900,
		}).Return(int64(21), nil).Once()

		id, err := service.Add(ctx, dto.AddProductInput{Title: "Caneca", Price: "1049", Image: "imagens/caneca.jpg"})
		require.NoError(t, err)
		assert.Equal(t, int64(21), id)
		repo.AssertExpectations(t)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewCatalogService(slogdiscard.NewDiscardLogger(), repo)

		for _, in := range []dto.AddProductInput{
			{Title: "", Price: "R$ 1,00", Image: "x.jpg"},
			{Title: "X", Price: "um real", Image: "x.jpg"},
			{Title: "X", Price: "R$ 1,00", Image: "x.jpg", Category: "pokemon"},
		} {
			_, err := service.Add(ctx, in)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		}

		repo.AssertNotCalled(t, "SaveProduct", mock.Anything, mock.Anything)
	})
}
