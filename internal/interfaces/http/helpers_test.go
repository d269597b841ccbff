package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pluckd-api/internal/application/auth"
	"github.com/jhoicas/pluckd-api/internal/application/ordering"
	"github.com/jhoicas/pluckd-api/internal/application/usecase"
	"github.com/jhoicas/pluckd-api/internal/domain/entity"
	"github.com/jhoicas/pluckd-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/pluckd-api/internal/interfaces/http"
	"github.com/jhoicas/pluckd-api/pkg/config"
	"github.com/jhoicas/pluckd-api/pkg/logger"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "pluckd-test"
	testCookie    = "token"
)

type stubReceipts struct{}

func (stubReceipts) Generate(o *entity.Order) ([]byte, error) {
	return []byte("%PDF-1.7 pedido"), nil
}

type failingNotifier struct{}

func (failingNotifier) Send(context.Context, *entity.Order, string, ordering.NotificationKind) error {
	return io.ErrClosedPipe
}

// testEnv aplicación completa sobre el store en memoria.
type testEnv struct {
	app      *fiber.App
	store    *memory.Store
	sessions *auth.SessionService
	customer *entity.User
	other    *entity.User
	admin    *entity.User
	rosa     *entity.Product
	tulip    *entity.Product
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	log := logger.Nop()

	sessions := auth.NewSessionService(store.Users(), auth.JWTConfig{Secret: testJWTSecret, TTL: time.Hour, Issuer: testIssuer})
	authUC := auth.NewAuthUseCase(store.Users(), sessions, log)
	orderUC := ordering.NewOrderUseCase(store.Orders(), store.Users(), store, failingNotifier{}, stubReceipts{}, nil, log, ordering.Config{})

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	app.Use(apphttp.RequestID())
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:     authUC,
		Sessions:   sessions,
		ProductUC:  usecase.NewProductUseCase(store.Products()),
		OrderUC:    orderUC,
		Session:    config.SessionConfig{CookieName: testCookie, SameSite: "Lax"},
		Log:        log,
		LoginLimit: 3,
	})

	mkUser := func(name, email, role string) *entity.User {
		u := &entity.User{Name: name, Email: email, PasswordHash: "x", Role: role, CreatedAt: time.Now(), UpdatedAt: time.Now()}
		require.NoError(t, store.Users().Create(ctx, u))
		return u
	}
	mkProduct := func(name, price string) *entity.Product {
		p := &entity.Product{Name: name, Price: decimal.RequireFromString(price), Category: "flores"}
		require.NoError(t, store.Products().Create(ctx, p))
		return p
	}
	return &testEnv{
		app:      app,
		store:    store,
		sessions: sessions,
		customer: mkUser("Alice", "alice@example.com", entity.RoleCustomer),
		other:    mkUser("Bob", "bob@example.com", entity.RoleCustomer),
		admin:    mkUser("Admin", "admin@example.com", entity.RoleAdmin),
		rosa:     mkProduct("Rosa", "10.00"),
		tulip:    mkProduct("Tulipán", "5.00"),
	}
}

// cookieFor emite un token de sesión válido para el usuario.
func (e *testEnv) cookieFor(t *testing.T, u *entity.User) *http.Cookie {
	t.Helper()
	tok, _, err := e.sessions.Issue(u.ID)
	require.NoError(t, err)
	return &http.Cookie{Name: testCookie, Value: tok}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *http.Response {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}
