package ordering

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/pluckd-api/internal/application/dto"
	"github.com/jhoicas/pluckd-api/internal/domain"
	"github.com/jhoicas/pluckd-api/internal/domain/entity"
	"github.com/jhoicas/pluckd-api/internal/domain/repository"
	"github.com/jhoicas/pluckd-api/pkg/logger"
)

// Config reglas del ciclo de vida.
type Config struct {
	// StrictTransitions limita UpdateStatus a la secuencia de avance (ver entity.OrderStatus.CanAdvanceTo).
	StrictTransitions bool
	// NotifyTimeout límite de cada envío de notificación.
	NotifyTimeout time.Duration
}

// OrderUseCase controla el ciclo de vida de las órdenes: creación transaccional,
// consultas con autorización, cambios de estado y notificaciones posteriores al commit.
type OrderUseCase struct {
	orders   repository.OrderRepository
	users    repository.UserRepository
	tx       TxRunner
	notifier Notifier
	receipts ReceiptGenerator
	metrics  Metrics
	log      *logger.Logger
	cfg      Config
	now      func() time.Time
}

// NewOrderUseCase construye el caso de uso. notifier, metrics y log pueden ser nil.
func NewOrderUseCase(
	orders repository.OrderRepository,
	users repository.UserRepository,
	tx TxRunner,
	notifier Notifier,
	receipts ReceiptGenerator,
	metrics Metrics,
	log *logger.Logger,
	cfg Config,
) *OrderUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = 15 * time.Second
	}
	return &OrderUseCase{
		orders:   orders,
		users:    users,
		tx:       tx,
		notifier: notifier,
		receipts: receipts,
		metrics:  metrics,
		log:      log.Named("ordering"),
		cfg:      cfg,
		now:      time.Now,
	}
}

// Create valida la entrada y crea la orden con sus líneas en una sola transacción.
// El precio de cada línea y el total se toman del catálogo; los precios enviados por el cliente se ignoran.
// Un producto inexistente aborta todo (ErrProductNotFound) sin escribir nada.
func (uc *OrderUseCase) Create(ctx context.Context, caller *entity.Identity, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if caller == nil {
		return nil, domain.ErrMissingToken
	}
	buyerName := strings.TrimSpace(in.BuyerName)
	buyerContact := strings.TrimSpace(in.BuyerContact)
	address := strings.TrimSpace(in.DeliveryAddress)
	if buyerName == "" || buyerContact == "" || address == "" {
		return nil, fmt.Errorf("%w: buyerName, buyerContact y deliveryAddress son obligatorios", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la orden debe tener al menos un ítem", domain.ErrInvalidInput)
	}
	for i, it := range in.Items {
		if it.ProductID <= 0 {
			return nil, fmt.Errorf("%w: items[%d].productId inválido", domain.ErrInvalidInput, i)
		}
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: items[%d].quantity debe ser mayor a 0", domain.ErrInvalidInput, i)
		}
	}
	userID := in.UserID
	switch {
	case userID != nil && *userID != caller.ID && !caller.IsAdmin():
		return nil, domain.ErrForbidden
	case userID == nil && !caller.IsAdmin():
		// Sin userId la orden es del cliente autenticado; solo un admin registra órdenes de invitado.
		id := caller.ID
		userID = &id
	}

	now := uc.now()
	order := &entity.Order{
		BuyerName:       buyerName,
		BuyerContact:    buyerContact,
		DeliveryAddress: address,
		Status:          entity.OrderStatusPending,
		UserID:          userID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	var notifyTo string

	err := uc.tx.RunOrder(ctx, func(users repository.UserRepository, products repository.ProductRepository, orders repository.OrderRepository) error {
		if order.UserID != nil {
			user, err := users.GetByID(ctx, *order.UserID)
			if err != nil {
				return err
			}
			if user == nil {
				return fmt.Errorf("%w: id %d", domain.ErrUserNotFound, *order.UserID)
			}
			notifyTo = user.Email
		}

		byID := make(map[int64]*entity.Product, len(in.Items))
		items := make([]*entity.OrderItem, 0, len(in.Items))
		for _, it := range in.Items {
			p, ok := byID[it.ProductID]
			if !ok {
				var err error
				p, err = products.GetByID(ctx, it.ProductID)
				if err != nil {
					return err
				}
				if p == nil {
					return fmt.Errorf("%w: id %d", domain.ErrProductNotFound, it.ProductID)
				}
				byID[it.ProductID] = p
			}
			pid := p.ID
			items = append(items, &entity.OrderItem{
				ProductID:   &pid,
				ProductName: p.Name,
				Quantity:    it.Quantity,
				Price:       p.Price,
				Product:     p,
			})
		}
		order.Items = items
		order.TotalAmount = entity.ComputeTotal(items)
		return orders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.OrderCreated(order)
	uc.log.Info().
		Int64("order_id", order.ID).
		Int64("caller_id", caller.ID).
		Str("total", order.TotalAmount.StringFixed(2)).
		Int("items", len(order.Items)).
		Msg("orden creada")

	uc.notify(ctx, order, notifyTo, OrderConfirmation)
	return ToOrderResponse(order), nil
}

// Get devuelve la orden si el llamador puede verla: admin o dueño. Las órdenes de invitado solo las ve un admin.
// En cualquier otro caso responde como si no existiera (nil, nil).
func (uc *OrderUseCase) Get(ctx context.Context, caller *entity.Identity, id int64) (*dto.OrderResponse, error) {
	order, err := uc.visibleOrder(ctx, caller, id)
	if err != nil || order == nil {
		return nil, err
	}
	return ToOrderResponse(order), nil
}

func (uc *OrderUseCase) visibleOrder(ctx context.Context, caller *entity.Identity, id int64) (*entity.Order, error) {
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, nil
	}
	if caller.IsAdmin() || (caller != nil && order.BelongsTo(caller.ID)) {
		return order, nil
	}
	uc.log.Debug().Int64("order_id", id).Msg("orden ajena solicitada, se responde como inexistente")
	return nil, nil
}

// ListAll devuelve todas las órdenes, más recientes primero. La restricción a admin se aplica en el router.
func (uc *OrderUseCase) ListAll(ctx context.Context) ([]dto.OrderResponse, error) {
	list, err := uc.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	return toOrderResponses(list), nil
}

// ListByUser devuelve las órdenes de userID. El llamador debe ser ese usuario o un admin.
func (uc *OrderUseCase) ListByUser(ctx context.Context, caller *entity.Identity, userID int64, q dto.OrderListQuery) ([]dto.OrderResponse, error) {
	if caller == nil {
		return nil, domain.ErrMissingToken
	}
	if caller.ID != userID && !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	filter, err := ParseListQuery(q)
	if err != nil {
		return nil, err
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: usuario %d", domain.ErrNotFound, userID)
	}
	list, err := uc.orders.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	return toOrderResponses(list), nil
}

// UpdateStatus cambia el estado de la orden. rawStatus se compara sin distinguir mayúsculas.
// Un valor fuera de la enumeración se rechaza sin tocar la orden.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, id int64, rawStatus string) (*dto.OrderResponse, error) {
	if strings.TrimSpace(rawStatus) == "" {
		return nil, fmt.Errorf("%w: status es obligatorio", domain.ErrInvalidInput)
	}
	target, ok := entity.ParseOrderStatus(rawStatus)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, rawStatus)
	}
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: orden %d", domain.ErrNotFound, id)
	}
	from := order.Status
	if uc.cfg.StrictTransitions && !from.CanAdvanceTo(target) {
		return nil, fmt.Errorf("%w: %s → %s", domain.ErrConflict, from, target)
	}

	now := uc.now()
	if err := uc.orders.UpdateStatus(ctx, id, target, now); err != nil {
		return nil, err
	}
	order.Status = target
	order.UpdatedAt = now

	uc.metrics.StatusChanged(from, target)
	uc.log.Info().Int64("order_id", id).Str("from", string(from)).Str("to", string(target)).Msg("estado de orden actualizado")

	if order.UserID != nil {
		user, err := uc.users.GetByID(ctx, *order.UserID)
		if err != nil {
			uc.log.Warn().Err(err).Int64("order_id", id).Msg("no se pudo resolver el destinatario de la notificación")
		} else if user != nil {
			uc.notify(ctx, order, user.Email, StatusUpdate)
		}
	}
	return ToOrderResponse(order), nil
}

// Delete elimina la orden y sus líneas. La restricción a admin se aplica en el router.
func (uc *OrderUseCase) Delete(ctx context.Context, id int64) error {
	if err := uc.orders.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Int64("order_id", id).Msg("orden eliminada")
	return nil
}

// Receipt genera el PDF de una orden visible para el llamador. Devuelve ErrNotFound si no lo es.
func (uc *OrderUseCase) Receipt(ctx context.Context, caller *entity.Identity, id int64) ([]byte, error) {
	if uc.receipts == nil {
		return nil, fmt.Errorf("generador de comprobantes no configurado")
	}
	order, err := uc.visibleOrder(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: orden %d", domain.ErrNotFound, id)
	}
	return uc.receipts.Generate(order)
}

// notify envía la notificación con un contexto desligado de la petición. Los errores se registran y se descartan.
func (uc *OrderUseCase) notify(ctx context.Context, order *entity.Order, address string, kind NotificationKind) {
	if uc.notifier == nil || address == "" {
		return
	}
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.cfg.NotifyTimeout)
	defer cancel()
	if err := uc.notifier.Send(nctx, order, address, kind); err != nil {
		uc.metrics.NotificationFailed(kind)
		uc.log.Warn().Err(err).Int64("order_id", order.ID).Str("kind", string(kind)).Msg("fallo al enviar notificación")
	}
}
