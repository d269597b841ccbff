package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pluckd-api/internal/domain/entity"
)

// Campos por los que se puede ordenar el listado de órdenes de un usuario.
const (
	OrderSortCreatedAt   = "createdAt"
	OrderSortTotalAmount = "totalAmount"
)

// OrderFilter criterios ya normalizados para listar órdenes de un usuario.
// Status vacío = todos los estados. CreatedFrom es inclusivo y CreatedBefore exclusivo.
type OrderFilter struct {
	Status        entity.OrderStatus
	CreatedFrom   *time.Time
	CreatedBefore *time.Time
	SortBy        string // OrderSortCreatedAt | OrderSortTotalAmount
	Desc          bool
}

// OrderRepository define el puerto de persistencia para Order y sus líneas.
// Las lecturas devuelven órdenes hidratadas (líneas + producto vigente).
type OrderRepository interface {
	// Create inserta la cabecera y todas las líneas; asigna IDs. Debe ejecutarse dentro de una transacción.
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	List(ctx context.Context) ([]*entity.Order, error)
	ListByUser(ctx context.Context, userID int64, filter OrderFilter) ([]*entity.Order, error)
	// UpdateStatus devuelve domain.ErrNotFound si la orden no existe.
	UpdateStatus(ctx context.Context, id int64, status entity.OrderStatus, updatedAt time.Time) error
	// Delete devuelve domain.ErrNotFound si la orden no existe. Las líneas se eliminan en cascada.
	Delete(ctx context.Context, id int64) error
}
