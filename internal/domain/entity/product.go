package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un artículo del catálogo. El núcleo de órdenes solo lo lee.
type Product struct {
	ID          int64
	Name        string
	Price       decimal.Decimal // precio de venta vigente, no negativo
	Description string
	Image       string
	Category    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
