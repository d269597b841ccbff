package ordering

import (
	"context"

	"github.com/jhoicas/pluckd-api/internal/domain/entity"
	"github.com/jhoicas/pluckd-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repositorios atados a ella.
// Si fn retorna error, nada de lo escrito se confirma.
type TxRunner interface {
	RunOrder(ctx context.Context, fn func(
		users repository.UserRepository,
		products repository.ProductRepository,
		orders repository.OrderRepository,
	) error) error
}

// NotificationKind tipo de correo a enviar.
type NotificationKind string

const (
	OrderConfirmation NotificationKind = "order_confirmation"
	StatusUpdate      NotificationKind = "status_update"
)

// Notifier entrega notificaciones de órdenes. Se invoca solo después del commit
// y sus errores nunca alteran la respuesta al cliente.
type Notifier interface {
	Send(ctx context.Context, order *entity.Order, address string, kind NotificationKind) error
}

// ReceiptGenerator genera el comprobante PDF de una orden.
type ReceiptGenerator interface {
	Generate(order *entity.Order) ([]byte, error)
}

// Metrics contadores del ciclo de vida. NopMetrics cuando no hay métricas.
type Metrics interface {
	OrderCreated(order *entity.Order)
	StatusChanged(from, to entity.OrderStatus)
	NotificationFailed(kind NotificationKind)
}

// NopMetrics implementación vacía de Metrics.
type NopMetrics struct{}

func (NopMetrics) OrderCreated(*entity.Order) {}

func (NopMetrics) StatusChanged(entity.OrderStatus, entity.OrderStatus) {}

func (NopMetrics) NotificationFailed(NotificationKind) {}
