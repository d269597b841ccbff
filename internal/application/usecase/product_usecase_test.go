package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pluckd-api/internal/application/dto"
	"github.com/jhoicas/pluckd-api/internal/application/usecase"
	"github.com/jhoicas/pluckd-api/internal/domain"
	"github.com/jhoicas/pluckd-api/internal/infrastructure/memory"
)

func TestProductUseCase_CRUD(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewProductUseCase(memory.NewStore().Products())

	created, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Rosa", Price: decimal.RequireFromString("12.50"), Category: "flores"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "Gratis", Price: decimal.NewFromInt(-1)})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	price := decimal.NewFromInt(15)
	updated, err := uc.Update(ctx, created.ID, dto.UpdateProductRequest{Price: &price})
	require.NoError(t, err)
	assert.True(t, price.Equal(updated.Price))
	assert.Equal(t, "Rosa", updated.Name)

	list, err := uc.List(ctx, "flores", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 20, list.Page.Limit)

	list, err = uc.List(ctx, "plantas", dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)

	require.NoError(t, uc.Delete(ctx, created.ID))
	_, err = uc.GetByID(ctx, created.ID)
	assert.True(t, errors.Is(err, domain.ErrProductNotFound))
}
