package notify

import (
	"context"

	"github.com/jhoicas/pluckd-api/internal/application/ordering"
	"github.com/jhoicas/pluckd-api/internal/domain/entity"
	"github.com/jhoicas/pluckd-api/pkg/logger"
)

var _ ordering.Notifier = (*LogNotifier)(nil)

// LogNotifier registra la notificación en el log en lugar de enviarla (SMTP no configurado).
type LogNotifier struct {
	renderer *Renderer
	log      *logger.Logger
}

// NewLogNotifier construye el notificador de log.
func NewLogNotifier(renderer *Renderer, log *logger.Logger) *LogNotifier {
	return &LogNotifier{renderer: renderer, log: log}
}

func (n *LogNotifier) Send(_ context.Context, order *entity.Order, address string, kind ordering.NotificationKind) error {
	subject, _, err := n.renderer.Render(order, kind)
	if err != nil {
		return err
	}
	n.log.Info().
		Int64("order_id", order.ID).
		Str("to", address).
		Str("kind", string(kind)).
		Str("subject", subject).
		Msg("notificación (SMTP no configurado)")
	return nil
}
