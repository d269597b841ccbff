package notify

import (
	"context"
	"fmt"
	"io"

	"github.com/jhoicas/pluckd-api/internal/application/ordering"
	"github.com/jhoicas/pluckd-api/internal/domain/entity"
	"github.com/jhoicas/pluckd-api/pkg/config"
	"github.com/jhoicas/pluckd-api/pkg/logger"
	"gopkg.in/gomail.v2"
)

var _ ordering.Notifier = (*SMTPNotifier)(nil)

// Sender abstrae el envío de mensajes gomail (gomail.Dialer en producción).
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPNotifier envía las notificaciones por correo. Las confirmaciones llevan el comprobante PDF adjunto.
type SMTPNotifier struct {
	sender   Sender
	from     string
	fromName string
	renderer *Renderer
	receipts ordering.ReceiptGenerator
	log      *logger.Logger
}

// NewSMTPNotifier construye el notificador con un gomail.Dialer a partir de la configuración.
func NewSMTPNotifier(cfg config.SMTPConfig, renderer *Renderer, receipts ordering.ReceiptGenerator, log *logger.Logger) *SMTPNotifier {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return NewSMTPNotifierWithSender(dialer, cfg.From, cfg.FromName, renderer, receipts, log)
}

// NewSMTPNotifierWithSender permite inyectar el Sender (tests).
func NewSMTPNotifierWithSender(sender Sender, from, fromName string, renderer *Renderer, receipts ordering.ReceiptGenerator, log *logger.Logger) *SMTPNotifier {
	return &SMTPNotifier{sender: sender, from: from, fromName: fromName, renderer: renderer, receipts: receipts, log: log}
}

func (n *SMTPNotifier) Send(ctx context.Context, order *entity.Order, address string, kind ordering.NotificationKind) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	subject, body, err := n.renderer.Render(order, kind)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", n.from, n.fromName)
	m.SetHeader("To", address)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if kind == ordering.OrderConfirmation && n.receipts != nil {
		pdf, err := n.receipts.Generate(order)
		if err != nil {
			// El correo sale igual, sin adjunto.
			n.log.Warn().Err(err).Int64("order_id", order.ID).Msg("no se pudo generar el comprobante para el correo")
		} else {
			m.Attach(fmt.Sprintf("pedido-%d.pdf", order.ID), gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(pdf)
				return err
			}), gomail.SetHeader(map[string][]string{"Content-Type": {"application/pdf"}}))
		}
	}

	// gomail no acepta contexto: el envío corre aparte y se abandona si vence el plazo.
	done := make(chan error, 1)
	go func() { done <- n.sender.DialAndSend(m) }()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("notify: enviar correo a %s: %w", address, err)
		}
	case <-ctx.Done():
		return fmt.Errorf("notify: enviar correo a %s: %w", address, ctx.Err())
	}
	n.log.Debug().Int64("order_id", order.ID).Str("kind", string(kind)).Msg("correo enviado")
	return nil
}
