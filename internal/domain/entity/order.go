package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order representa la cabecera de un pedido.
// TotalAmount es una foto tomada al crear la orden: cambios posteriores de precio no la alteran.
type Order struct {
	ID              int64
	BuyerName       string
	BuyerContact    string
	DeliveryAddress string
	Status          OrderStatus
	TotalAmount     decimal.Decimal
	UserID          *int64 // nil = orden de invitado
	Items           []*OrderItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem representa una línea del pedido. Se crea junto con la orden y no se edita.
type OrderItem struct {
	ID          int64
	OrderID     int64
	ProductID   *int64 // nil si el producto fue eliminado del catálogo después
	ProductName string // nombre al momento de la compra
	Quantity    int
	Price       decimal.Decimal // precio unitario al momento de la compra
	Product     *Product        // producto vigente (nil si ya no existe)
}

// Subtotal devuelve precio × cantidad de la línea.
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ComputeTotal suma los subtotales de las líneas.
func ComputeTotal(items []*OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// BelongsTo indica si la orden está asociada al usuario dado.
func (o *Order) BelongsTo(userID int64) bool {
	return o.UserID != nil && *o.UserID == userID
}

// IsGuest indica si la orden no tiene usuario asociado.
func (o *Order) IsGuest() bool { return o.UserID == nil }
