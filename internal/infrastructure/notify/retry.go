package notify

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/jhoicas/pluckd-api/internal/application/ordering"
	"github.com/jhoicas/pluckd-api/internal/domain/entity"
	"github.com/jhoicas/pluckd-api/pkg/logger"
)

var _ ordering.Notifier = (*RetryNotifier)(nil)

// RetryNotifier reintenta el envío hasta retries veces con backoff exponencial.
type RetryNotifier struct {
	next    ordering.Notifier
	retries int
	backoff time.Duration
	log     *logger.Logger
}

// NewRetryNotifier envuelve next. retries = 0 desactiva los reintentos.
func NewRetryNotifier(next ordering.Notifier, retries int, backoff time.Duration, log *logger.Logger) *RetryNotifier {
	if retries < 0 {
		retries = 0
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RetryNotifier{next: next, retries: retries, backoff: backoff, log: log}
}

func (n *RetryNotifier) Send(ctx context.Context, order *entity.Order, address string, kind ordering.NotificationKind) error {
	attempt := 0
	op := func() error {
		attempt++
		return n.next.Send(ctx, order, address, kind)
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(exponential(n.backoff), uint64(n.retries)), ctx)
	return backoff.RetryNotify(op, policy, func(err error, wait time.Duration) {
		n.log.Debug().Err(err).Int64("order_id", order.ID).Int("attempt", attempt).Dur("retry_in", wait).Msg("reintentando notificación")
	})
}

// exponential espera initial, 2×initial, 4×initial... sin jitter ni límite de tiempo total.
func exponential(initial time.Duration) *backoff.ExponentialBackOff {
	if initial <= 0 {
		initial = time.Second
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initial
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = time.Minute
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}
