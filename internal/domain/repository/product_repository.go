package repository

import (
	"context"

	"github.com/jhoicas/pluckd-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID es el accesor de catálogo que usan las órdenes dentro de su transacción.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, category string, limit, offset int) ([]*entity.Product, error)
	Delete(ctx context.Context, id int64) error
}
