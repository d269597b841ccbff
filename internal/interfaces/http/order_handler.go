package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pluckd-api/internal/application/dto"
	"github.com/jhoicas/pluckd-api/internal/application/ordering"
	"github.com/jhoicas/pluckd-api/internal/domain"
	"github.com/jhoicas/pluckd-api/pkg/logger"
)

// OrderHandler rutas del ciclo de vida de órdenes. Todas pasan por AuthMiddleware.
type OrderHandler struct {
	uc  *ordering.OrderUseCase
	log *logger.Logger
}

// NewOrderHandler construye el handler de órdenes.
func NewOrderHandler(uc *ordering.OrderUseCase, log *logger.Logger) *OrderHandler {
	return &OrderHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear orden
// @Description  El precio de cada línea y el total se calculan con el catálogo vigente; totalAmount e items[].price se ignoran.
// @Tags         orders
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Comprador, dirección e ítems"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetIdentity(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar todas las órdenes (admin)
// @Tags         orders
// @Security     Cookie
// @Produce      json
// @Success      200  {array}   dto.OrderResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListAll(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden
// @Description  Devuelve null si la orden no existe o no es visible para el usuario.
// @Tags         orders
// @Security     Cookie
// @Produce      json
// @Param        id   path  int  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Get(c.UserContext(), GetIdentity(c), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if out == nil {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString("null")
	}
	return c.JSON(out)
}

// ListByUser godoc
// @Summary      Órdenes de un usuario
// @Tags         orders
// @Security     Cookie
// @Produce      json
// @Param        userId     path   int     true   "ID del usuario"
// @Param        status     query  string  false  "Estado (se ignora si no es válido)"
// @Param        startDate  query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        endDate    query  string  false  "Hasta, inclusive (RFC3339 o YYYY-MM-DD)"
// @Param        sortBy     query  string  false  "createdAt | totalAmount"
// @Param        sortOrder  query  string  false  "asc | desc"
// @Success      200  {array}   dto.OrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/user/{userId} [get]
func (h *OrderHandler) ListByUser(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return writeError(c, h.log, err)
	}
	var q dto.OrderListQuery
	if err := c.QueryParser(&q); err != nil {
		return writeError(c, h.log, fmt.Errorf("%w: parámetros de consulta inválidos", domain.ErrInvalidInput))
	}
	out, err := h.uc.ListByUser(c.UserContext(), GetIdentity(c), userID, q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado (admin)
// @Tags         orders
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID de la orden"
// @Param        body  body  dto.UpdateOrderStatusRequest  true  "PENDING | CONFIRMED | PROCESSING | DELIVERED | CANCELLED"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	var in dto.UpdateOrderStatusRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), id, in.Status)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar orden (admin)
// @Tags         orders
// @Security     Cookie
// @Produce      json
// @Param        id   path  int  true  "ID de la orden"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.MessageResponse{Message: "orden eliminada"})
}

// Receipt godoc
// @Summary      Comprobante PDF
// @Tags         orders
// @Security     Cookie
// @Produce      application/pdf
// @Param        id   path  int  true  "ID de la orden"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/receipt [get]
func (h *OrderHandler) Receipt(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	pdf, err := h.uc.Receipt(c.UserContext(), GetIdentity(c), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="pedido-%d.pdf"`, id))
	return c.Send(pdf)
}
