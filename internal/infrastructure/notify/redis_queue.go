package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/pluckd-api/internal/application/ordering"
	"github.com/jhoicas/pluckd-api/internal/domain/entity"
	"github.com/jhoicas/pluckd-api/pkg/logger"
)

var _ ordering.Notifier = (*RedisQueue)(nil)

// ListClient subconjunto de *redis.Client que usa la cola.
type ListClient interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	BRPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
}

type job struct {
	Order   *entity.Order             `json:"order"`
	Address string                    `json:"address"`
	Kind    ordering.NotificationKind `json:"kind"`
}

// RedisQueue persiste las notificaciones en una lista Redis (LPUSH) y las entrega
// con consumidores en proceso (BRPOP) a través del notificador envuelto.
// Las notificaciones encoladas sobreviven a un reinicio del proceso.
type RedisQueue struct {
	rdb     ListClient
	key     string
	next    ordering.Notifier
	timeout time.Duration
	metrics ordering.Metrics
	log     *logger.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRedisQueue construye la cola. Start lanza los consumidores.
func NewRedisQueue(rdb ListClient, key string, next ordering.Notifier, timeout time.Duration, metrics ordering.Metrics, log *logger.Logger) *RedisQueue {
	if metrics == nil {
		metrics = ordering.NopMetrics{}
	}
	return &RedisQueue{rdb: rdb, key: key, next: next, timeout: timeout, metrics: metrics, log: log}
}

// Send encola la notificación.
func (q *RedisQueue) Send(ctx context.Context, order *entity.Order, address string, kind ordering.NotificationKind) error {
	payload, err := json.Marshal(job{Order: order, Address: address, Kind: kind})
	if err != nil {
		return fmt.Errorf("notify/redis: serializar: %w", err)
	}
	if err := q.rdb.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("notify/redis: push: %w", err)
	}
	return nil
}

// Start lanza workers consumidores hasta que ctx termine o se llame Close.
func (q *RedisQueue) Start(ctx context.Context, workers int) {
	if workers <= 0 {
		workers = 1
	}
	ctx, q.cancel = context.WithCancel(ctx)
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.consume(ctx)
	}
}

// Close detiene los consumidores y espera a que terminen la entrega en curso.
func (q *RedisQueue) Close() {
	if q.cancel != nil {
		q.cancel()
	}
	q.wg.Wait()
}

func (q *RedisQueue) consume(ctx context.Context) {
	defer q.wg.Done()
	for {
		if ctx.Err() != nil {
			return
		}
		res, err := q.rdb.BRPop(ctx, 5*time.Second, q.key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			q.log.Warn().Err(err).Msg("notify/redis: pop")
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		if len(res) < 2 {
			continue
		}
		q.deliver(ctx, []byte(res[1]))
	}
}

func (q *RedisQueue) deliver(ctx context.Context, payload []byte) {
	var j job
	if err := json.Unmarshal(payload, &j); err != nil || j.Order == nil {
		q.log.Error().Err(err).Msg("notify/redis: job inválido descartado")
		return
	}
	jctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), q.timeout)
	defer cancel()
	if err := q.next.Send(jctx, j.Order, j.Address, j.Kind); err != nil {
		q.metrics.NotificationFailed(j.Kind)
		q.log.Warn().Err(err).Int64("order_id", j.Order.ID).Str("kind", string(j.Kind)).Msg("fallo al entregar notificación")
	}
}
