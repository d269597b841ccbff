package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alitto/pond"

	"github.com/jhoicas/pluckd-api/internal/application/ordering"
	"github.com/jhoicas/pluckd-api/internal/domain/entity"
	"github.com/jhoicas/pluckd-api/pkg/logger"
)

var (
	// ErrQueueFull todos los workers ocupados y la cola llena.
	ErrQueueFull = errors.New("notify: cola de notificaciones llena")
	// ErrClosed Send después de Close.
	ErrClosed = errors.New("notify: despachador cerrado")
)

var _ ordering.Notifier = (*AsyncNotifier)(nil)

// AsyncNotifier entrega las notificaciones en un pool acotado de workers.
// Send nunca bloquea: con la cola llena devuelve ErrQueueFull.
type AsyncNotifier struct {
	next    ordering.Notifier
	pool    *pond.WorkerPool
	timeout time.Duration
	metrics ordering.Metrics
	log     *logger.Logger
}

// NewAsyncNotifier crea el pool con hasta workers goroutines y una cola de 2×workers. timeout limita cada entrega.
func NewAsyncNotifier(next ordering.Notifier, workers int, timeout time.Duration, metrics ordering.Metrics, log *logger.Logger) *AsyncNotifier {
	if metrics == nil {
		metrics = ordering.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if workers <= 0 {
		workers = 1
	}
	pool := pond.New(workers, workers*2, pond.PanicHandler(func(v interface{}) {
		log.Error().Interface("panic", v).Msg("pánico en worker de notificaciones")
	}))
	return &AsyncNotifier{next: next, pool: pool, timeout: timeout, metrics: metrics, log: log}
}

// Send encola la entrega. El contexto de la petición no se propaga: cada entrega tiene su propio plazo.
func (n *AsyncNotifier) Send(ctx context.Context, order *entity.Order, address string, kind ordering.NotificationKind) error {
	if n.pool.Stopped() {
		return fmt.Errorf("notify: encolar %s de la orden %d: %w", kind, order.ID, ErrClosed)
	}
	snapshot := *order
	base := context.WithoutCancel(ctx)
	ok := n.pool.TrySubmit(func() {
		jctx, cancel := context.WithTimeout(base, n.timeout)
		defer cancel()
		if err := n.next.Send(jctx, &snapshot, address, kind); err != nil {
			n.metrics.NotificationFailed(kind)
			n.log.Warn().Err(err).Int64("order_id", snapshot.ID).Str("kind", string(kind)).Msg("fallo al entregar notificación")
		}
	})
	if !ok {
		return fmt.Errorf("notify: encolar %s de la orden %d: %w", kind, order.ID, ErrQueueFull)
	}
	return nil
}

// Close espera las entregas pendientes.
func (n *AsyncNotifier) Close() {
	n.pool.StopAndWait()
}
