package http_test

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pluckd-api/internal/application/dto"
	"github.com/jhoicas/pluckd-api/internal/domain/entity"
)

func orderPayload(userID *int64, items ...map[string]any) map[string]any {
	p := map[string]any{
		"buyerName":       "Alice",
		"buyerContact":    "+57 300 000 0000",
		"deliveryAddress": "Calle 1 # 2-3",
		"items":           items,
	}
	if userID != nil {
		p["userId"] = *userID
	}
	return p
}

func line(p *entity.Product, qty int) map[string]any {
	return map[string]any{"productId": p.ID, "quantity": qty}
}

func (e *testEnv) createOrder(t *testing.T, owner *entity.User) dto.OrderResponse {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/orders", orderPayload(&owner.ID, line(e.rosa, 1)), e.cookieFor(t, owner))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.OrderResponse](t, resp)
}

func TestCreateOrder_Total25(t *testing.T) {
	env := newTestEnv(t)
	payload := orderPayload(&env.customer.ID, line(env.rosa, 2), line(env.tulip, 1))
	// Las pistas del cliente se aceptan pero se ignoran.
	payload["totalAmount"] = "1"
	payload["items"].([]map[string]any)[0]["price"] = "0.5"

	resp := env.do(t, http.MethodPost, "/api/orders", payload, env.cookieFor(t, env.customer))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	out := decode[dto.OrderResponse](t, resp)
	assert.True(t, decimal.NewFromInt(25).Equal(out.TotalAmount), "total %s", out.TotalAmount)
	assert.Equal(t, "PENDING", out.Status)
	require.Len(t, out.Items, 2)
	assert.True(t, decimal.NewFromInt(10).Equal(out.Items[0].Price))
}

func TestCreateOrder_NotificationFailureDoesNotChangeResponse(t *testing.T) {
	// newTestEnv usa un notifier que siempre falla.
	env := newTestEnv(t)
	out := env.createOrder(t, env.customer)
	assert.NotZero(t, out.ID)
}

func TestCreateOrder_UnknownProduct_WritesNothing(t *testing.T) {
	env := newTestEnv(t)
	ghost := &entity.Product{ID: 999}
	resp := env.do(t, http.MethodPost, "/api/orders",
		orderPayload(&env.customer.ID, line(env.rosa, 1), line(ghost, 1)), env.cookieFor(t, env.customer))

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "PRODUCT_NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)

	all, err := env.store.Orders().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateOrder_Validation(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.cookieFor(t, env.customer)

	unknownField := orderPayload(nil, line(env.rosa, 1))
	unknownField["coupon"] = "GRATIS"
	noItems := orderPayload(nil)
	zeroQty := orderPayload(nil, line(env.rosa, 0))
	noAddress := orderPayload(nil, line(env.rosa, 1))
	delete(noAddress, "deliveryAddress")

	cases := map[string]any{
		"unknown field": unknownField,
		"no items":      noItems,
		"zero quantity": zeroQty,
		"no address":    noAddress,
		"broken json":   `{"buyerName": `,
		"empty body":    "",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			resp := env.do(t, http.MethodPost, "/api/orders", body, cookie)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)
		})
	}
}

func TestCreateOrder_LargeQuantityAccepted(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/orders", orderPayload(nil, line(env.tulip, 5000)), env.cookieFor(t, env.customer))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	out := decode[dto.OrderResponse](t, resp)
	assert.True(t, decimal.NewFromInt(25000).Equal(out.TotalAmount), "total %s", out.TotalAmount)
}

func TestCreateOrder_WithoutUserIDBelongsToCaller(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/orders", orderPayload(nil, line(env.rosa, 1)), env.cookieFor(t, env.customer))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	out := decode[dto.OrderResponse](t, resp)
	require.NotNil(t, out.UserID)
	assert.Equal(t, env.customer.ID, *out.UserID)

	// La orden aparece en el listado propio y no es visible para otro cliente.
	resp = env.do(t, http.MethodGet, fmt.Sprintf("/api/orders/user/%d", env.customer.ID), nil, env.cookieFor(t, env.customer))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.OrderResponse](t, resp), 1)

	resp = env.do(t, http.MethodGet, fmt.Sprintf("/api/orders/%d", out.ID), nil, env.cookieFor(t, env.other))
	assert.Equal(t, "null", strings.TrimSpace(readBody(t, resp)))
}

func TestGetOrder_GuestOrderAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	// Solo un admin puede registrar una orden de invitado (sin userId).
	resp := env.do(t, http.MethodPost, "/api/orders", orderPayload(nil, line(env.rosa, 1)), env.cookieFor(t, env.admin))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	guest := decode[dto.OrderResponse](t, resp)
	assert.Nil(t, guest.UserID)
	path := fmt.Sprintf("/api/orders/%d", guest.ID)

	for _, u := range []*entity.User{env.customer, env.other} {
		resp = env.do(t, http.MethodGet, path, nil, env.cookieFor(t, u))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "null", strings.TrimSpace(readBody(t, resp)), u.Email)

		resp = env.do(t, http.MethodGet, path+"/receipt", nil, env.cookieFor(t, u))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	}

	resp = env.do(t, http.MethodGet, path, nil, env.cookieFor(t, env.admin))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, guest.ID, decode[dto.OrderResponse](t, resp).ID)
}

func TestCreateOrder_ForeignOrUnknownUser(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/orders", orderPayload(&env.other.ID, line(env.rosa, 1)), env.cookieFor(t, env.customer))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	missing := int64(4242)
	resp = env.do(t, http.MethodPost, "/api/orders", orderPayload(&missing, line(env.rosa, 1)), env.cookieFor(t, env.admin))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "USER_NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)
}

func TestCreateOrder_NoSession_Returns401(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/orders", orderPayload(nil, line(env.rosa, 1)), nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateOrder_StoreDown_Returns503(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.cookieFor(t, env.customer)
	env.store.SetUnavailable(true)

	resp := env.do(t, http.MethodPost, "/api/orders", orderPayload(nil, line(env.rosa, 1)), cookie)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "SERVICE_UNAVAILABLE", body.Code)
	assert.NotEmpty(t, body.Details)
}

func TestGetOrder_Visibility(t *testing.T) {
	env := newTestEnv(t)
	order := env.createOrder(t, env.customer)
	path := fmt.Sprintf("/api/orders/%d", order.ID)

	resp := env.do(t, http.MethodGet, path, nil, env.cookieFor(t, env.customer))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, order.ID, decode[dto.OrderResponse](t, resp).ID)

	resp = env.do(t, http.MethodGet, path, nil, env.cookieFor(t, env.admin))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Orden ajena: se responde como inexistente.
	resp = env.do(t, http.MethodGet, path, nil, env.cookieFor(t, env.other))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "null", strings.TrimSpace(readBody(t, resp)))

	resp = env.do(t, http.MethodGet, "/api/orders/7", nil, env.cookieFor(t, env.admin))
	assert.Equal(t, "null", strings.TrimSpace(readBody(t, resp)))

	resp = env.do(t, http.MethodGet, "/api/orders/abc", nil, env.cookieFor(t, env.admin))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListOrders_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	env.createOrder(t, env.customer)
	env.createOrder(t, env.other)

	resp := env.do(t, http.MethodGet, "/api/orders", nil, env.cookieFor(t, env.customer))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/orders", nil, env.cookieFor(t, env.admin))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.OrderResponse](t, resp), 2)
}

func TestListByUser(t *testing.T) {
	env := newTestEnv(t)
	mine := env.createOrder(t, env.customer)
	env.createOrder(t, env.other)
	own := fmt.Sprintf("/api/orders/user/%d", env.customer.ID)

	t.Run("only own orders", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, own+"?sortBy=bogus&sortOrder=asc", nil, env.cookieFor(t, env.customer))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		list := decode[[]dto.OrderResponse](t, resp)
		require.Len(t, list, 1)
		assert.Equal(t, mine.ID, list[0].ID)
		require.NotNil(t, list[0].UserID)
		assert.Equal(t, env.customer.ID, *list[0].UserID)
	})
	t.Run("other user 403", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, own, nil, env.cookieFor(t, env.other))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
	t.Run("admin sees any", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, own, nil, env.cookieFor(t, env.admin))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
	t.Run("unknown user 404", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/api/orders/user/4242", nil, env.cookieFor(t, env.admin))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
	t.Run("invalid date range 400", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, own+"?startDate=2024-05-10&endDate=2024-05-01", nil, env.cookieFor(t, env.customer))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_DATE_RANGE", decode[dto.ErrorResponse](t, resp).Code)
	})
	t.Run("unknown status ignored", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, own+"?status=enviado", nil, env.cookieFor(t, env.customer))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, decode[[]dto.OrderResponse](t, resp), 1)
	})
}

func TestUpdateStatus(t *testing.T) {
	env := newTestEnv(t)
	order := env.createOrder(t, env.customer)
	path := fmt.Sprintf("/api/orders/%d/status", order.ID)
	admin := env.cookieFor(t, env.admin)

	for _, s := range []string{"confirmed", "Processing", " DELIVERED ", "cancelled", "PENDING"} {
		resp := env.do(t, http.MethodPatch, path, map[string]string{"status": s}, admin)
		require.Equal(t, http.StatusOK, resp.StatusCode, s)
		out := decode[dto.OrderResponse](t, resp)
		assert.Equal(t, strings.ToUpper(strings.TrimSpace(s)), out.Status)
	}

	resp := env.do(t, http.MethodPatch, path, map[string]string{"status": "SHIPPED"}, admin)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_STATUS", decode[dto.ErrorResponse](t, resp).Code)

	resp = env.do(t, http.MethodPatch, path, map[string]string{}, admin)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	stored, err := env.store.Orders().GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPending, stored.Status)

	resp = env.do(t, http.MethodPatch, "/api/orders/7/status", map[string]string{"status": "CONFIRMED"}, admin)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, http.MethodPatch, path, map[string]string{"status": "CONFIRMED"}, env.cookieFor(t, env.customer))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestDeleteOrder(t *testing.T) {
	env := newTestEnv(t)
	order := env.createOrder(t, env.customer)
	path := fmt.Sprintf("/api/orders/%d", order.ID)

	resp := env.do(t, http.MethodDelete, path, nil, env.cookieFor(t, env.customer))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodDelete, path, nil, env.cookieFor(t, env.admin))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "orden eliminada", decode[dto.MessageResponse](t, resp).Message)

	resp = env.do(t, http.MethodDelete, path, nil, env.cookieFor(t, env.admin))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReceipt(t *testing.T) {
	env := newTestEnv(t)
	order := env.createOrder(t, env.customer)
	path := fmt.Sprintf("/api/orders/%d/receipt", order.ID)

	resp := env.do(t, http.MethodGet, path, nil, env.cookieFor(t, env.customer))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(readBody(t, resp), "%PDF-"))

	resp = env.do(t, http.MethodGet, path, nil, env.cookieFor(t, env.other))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
