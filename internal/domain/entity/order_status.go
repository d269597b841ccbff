package entity

import "strings"

// OrderStatus es la enumeración cerrada de estados de una orden.
// Los valores en mayúscula son los únicos que se persisten; cualquier etiqueta
// "Pending"/"Delivered" es asunto de presentación.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// OrderStatuses lista los estados en el orden del ciclo de vida.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// ParseOrderStatus normaliza s (trim + mayúsculas) y verifica pertenencia a la enumeración.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	if st.Valid() {
		return st, true
	}
	return "", false
}

// Valid indica si el estado pertenece a la enumeración.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal indica si desde este estado no hay avance posible.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// forward es la secuencia de avance normal; CANCELLED es alcanzable desde cualquier estado no terminal.
var forward = map[OrderStatus]OrderStatus{
	OrderStatusPending:    OrderStatusConfirmed,
	OrderStatusConfirmed:  OrderStatusProcessing,
	OrderStatusProcessing: OrderStatusDelivered,
}

// CanAdvanceTo indica si s → next respeta el ciclo PENDING → CONFIRMED → PROCESSING → DELIVERED
// (con CANCELLED desde cualquier estado no terminal). Repetir el estado actual se admite.
// Solo se aplica cuando el modo estricto de transiciones está activo.
func (s OrderStatus) CanAdvanceTo(next OrderStatus) bool {
	if !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	if s.Terminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	return forward[s] == next
}
