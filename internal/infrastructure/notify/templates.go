package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/jhoicas/pluckd-api/internal/application/ordering"
	"github.com/jhoicas/pluckd-api/internal/domain/entity"
	"github.com/jhoicas/pluckd-api/pkg/money"
)

var statusLabels = map[entity.OrderStatus]string{
	entity.OrderStatusPending:    "Pendiente",
	entity.OrderStatusConfirmed:  "Confirmada",
	entity.OrderStatusProcessing: "En preparación",
	entity.OrderStatusDelivered:  "Entregada",
	entity.OrderStatusCancelled:  "Cancelada",
}

// StatusLabel etiqueta legible de un estado.
func StatusLabel(s entity.OrderStatus) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

const confirmationHTML = `<h2>Confirmación de tu pedido</h2>
<p>¡Gracias por tu compra, {{.BuyerName}}!</p>
<h3>Detalle del pedido</h3>
<p>Pedido N.º {{.ID}}</p>
<p>Estado: {{.Status}}</p>
<table>
{{range .Items}}<tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{.Subtotal}}</td></tr>
{{end}}</table>
<p>Total: {{.Total}}</p>
<p>Dirección de entrega: {{.DeliveryAddress}}</p>
<p>Puedes seguir tu pedido en <a href="{{.TrackURL}}">{{.TrackURL}}</a></p>
`

const statusUpdateHTML = `<h2>Actualización de tu pedido</h2>
<p>El estado de tu pedido cambió.</p>
<h3>Detalle del pedido</h3>
<p>Pedido N.º {{.ID}}</p>
<p>Nuevo estado: {{.Status}}</p>
<p>Puedes seguir tu pedido en <a href="{{.TrackURL}}">{{.TrackURL}}</a></p>
`

var (
	confirmationTmpl = template.Must(template.New("confirmation").Parse(confirmationHTML))
	statusUpdateTmpl = template.Must(template.New("status_update").Parse(statusUpdateHTML))
)

type itemView struct {
	Name     string
	Quantity int
	Subtotal string
}

type orderView struct {
	ID              int64
	BuyerName       string
	Status          string
	Items           []itemView
	Total           string
	DeliveryAddress string
	TrackURL        string
}

// Renderer arma asunto y cuerpo HTML de cada notificación.
type Renderer struct {
	frontendURL string
	money       *money.Formatter
	appName     string
}

// NewRenderer construye el renderer. frontendURL es la base del enlace de seguimiento.
func NewRenderer(appName, frontendURL string, fmtr *money.Formatter) *Renderer {
	return &Renderer{appName: appName, frontendURL: strings.TrimRight(frontendURL, "/"), money: fmtr}
}

// Render devuelve asunto y HTML para el tipo de notificación.
func (r *Renderer) Render(order *entity.Order, kind ordering.NotificationKind) (string, string, error) {
	view := orderView{
		ID:              order.ID,
		BuyerName:       order.BuyerName,
		Status:          StatusLabel(order.Status),
		Total:           r.money.Format(order.TotalAmount),
		DeliveryAddress: order.DeliveryAddress,
		TrackURL:        fmt.Sprintf("%s/track?order=%d", r.frontendURL, order.ID),
	}
	for _, it := range order.Items {
		view.Items = append(view.Items, itemView{Name: it.ProductName, Quantity: it.Quantity, Subtotal: r.money.Format(it.Subtotal())})
	}

	var (
		tmpl    *template.Template
		subject string
	)
	switch kind {
	case ordering.OrderConfirmation:
		tmpl, subject = confirmationTmpl, fmt.Sprintf("Confirmación de pedido #%d - %s", order.ID, r.appName)
	case ordering.StatusUpdate:
		tmpl, subject = statusUpdateTmpl, fmt.Sprintf("Tu pedido #%d está %s - %s", order.ID, strings.ToLower(view.Status), r.appName)
	default:
		return "", "", fmt.Errorf("notify: tipo de notificación desconocido %q", kind)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return "", "", fmt.Errorf("notify: render %s: %w", kind, err)
	}
	return subject, buf.String(), nil
}
