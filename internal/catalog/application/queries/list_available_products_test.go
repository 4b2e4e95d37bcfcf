package queries

import (
	"context"
	"errors"
	"testing"

	"github.com/comanda-app/comanda/internal/catalog/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockCatalog is a mock implementation of domain.Catalog.
type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) ListAvailable(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func TestListAvailableProductsHandler_Handle(t *testing.T) {
	t.Run("lists active products", func(t *testing.T) {
		catalog := new(mockCatalog)
		handler := NewListAvailableProductsHandler(catalog)

		beer := domain.Product{ID: uuid.New(), Name: "Beer", Price: 1200, Active: true}
		burger := domain.Product{ID: uuid.New(), Name: "Burger", Price: 3500, Active: true}
		catalog.On("ListAvailable", mock.Anything).Return([]domain.Product{beer, burger}, nil)

		result, err := handler.Handle(context.Background(), ListAvailableProductsQuery{})

		require.NoError(t, err)
		require.Len(t, result, 2)
		assert.Equal(t, "Beer", result[0].Name)
		assert.Equal(t, int64(1200), result[0].Price)
		assert.Equal(t, "Burger", result[1].Name)
	})

	t.Run("drops inactive products", func(t *testing.T) {
		catalog := new(mockCatalog)
		handler := NewListAvailableProductsHandler(catalog)

		catalog.On("ListAvailable", mock.Anything).Return([]domain.Product{
			{ID: uuid.New(), Name: "Beer", Price: 1200, Active: true},
			{ID: uuid.New(), Name: "Retired special", Price: 900, Active: false},
		}, nil)

		result, err := handler.Handle(context.Background(), ListAvailableProductsQuery{})

		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, "Beer", result[0].Name)
	})

	t.Run("returns empty list for an empty catalog", func(t *testing.T) {
		catalog := new(mockCatalog)
		handler := NewListAvailableProductsHandler(catalog)

		catalog.On("ListAvailable", mock.Anything).Return([]domain.Product{}, nil)

		result, err := handler.Handle(context.Background(), ListAvailableProductsQuery{})

		require.NoError(t, err)
		assert.Empty(t, result)
	})

	t.Run("propagates catalog failures", func(t *testing.T) {
		catalog := new(mockCatalog)
		handler := NewListAvailableProductsHandler(catalog)

		catalog.On("ListAvailable", mock.Anything).Return(nil, errors.New("database error"))

		result, err := handler.Handle(context.Background(), ListAvailableProductsQuery{})

		assert.Error(t, err)
		assert.Nil(t, result)
	})
}
