package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderItemRequest línea solicitada. Price es solo una referencia del cliente:
// el precio efectivo se toma del catálogo.
type CreateOrderItemRequest struct {
	ProductID int64            `json:"productId" validate:"required,gt=0"`
	Quantity  int              `json:"quantity" validate:"required,min=1"`
	Price     *decimal.Decimal `json:"price,omitempty"`
}

// CreateOrderRequest entrada para crear una orden. Sin UserID la orden es del llamador (o de invitado si la registra un admin).
// TotalAmount se acepta por compatibilidad pero se ignora: el total se recalcula.
type CreateOrderRequest struct {
	BuyerName       string                   `json:"buyerName" validate:"required,min=1,max=200"`
	BuyerContact    string                   `json:"buyerContact" validate:"required,min=1,max=200"`
	DeliveryAddress string                   `json:"deliveryAddress" validate:"required,min=1,max=500"`
	UserID          *int64                   `json:"userId,omitempty" validate:"omitempty,gt=0"`
	Items           []CreateOrderItemRequest `json:"items" validate:"required,min=1,dive"`
	TotalAmount     *decimal.Decimal         `json:"totalAmount,omitempty"`
}

// UpdateOrderStatusRequest cambio de estado (admin). Se compara sin distinguir mayúsculas.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderListQuery parámetros crudos del listado por usuario.
type OrderListQuery struct {
	Status    string `query:"status"`
	StartDate string `query:"startDate"`
	EndDate   string `query:"endDate"`
	SortBy    string `query:"sortBy"`
	SortOrder string `query:"sortOrder"`
}

// ProductSnapshot datos del producto vigente dentro de una línea.
type ProductSnapshot struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Category string          `json:"category"`
}

// OrderItemResponse línea de una orden.
type OrderItemResponse struct {
	ID          int64            `json:"id"`
	ProductID   *int64           `json:"productId"`
	ProductName string           `json:"productName"`
	Quantity    int              `json:"quantity"`
	Price       decimal.Decimal  `json:"price"`
	Subtotal    decimal.Decimal  `json:"subtotal"`
	Product     *ProductSnapshot `json:"product"`
}

// OrderResponse salida de una orden hidratada.
type OrderResponse struct {
	ID              int64               `json:"id"`
	BuyerName       string              `json:"buyerName"`
	BuyerContact    string              `json:"buyerContact"`
	DeliveryAddress string              `json:"deliveryAddress"`
	Status          string              `json:"status"`
	TotalAmount     decimal.Decimal     `json:"totalAmount"`
	UserID          *int64              `json:"userId"`
	Items           []OrderItemResponse `json:"items"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}
