package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/jhoicas/pluckd-api/internal/application/auth"
	"github.com/jhoicas/pluckd-api/internal/application/dto"
	"github.com/jhoicas/pluckd-api/internal/application/ordering"
	"github.com/jhoicas/pluckd-api/internal/application/usecase"
	"github.com/jhoicas/pluckd-api/internal/domain/entity"
	"github.com/jhoicas/pluckd-api/pkg/config"
	"github.com/jhoicas/pluckd-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	Sessions  TokenVerifier
	ProductUC *usecase.ProductUseCase
	OrderUC   *ordering.OrderUseCase
	Session   config.SessionConfig
	Log       *logger.Logger

	// Intentos de login por IP dentro de LoginWindow. 0 usa el valor por defecto (10 por minuto).
	LoginLimit  int
	LoginWindow time.Duration
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	log = log.Named("http")
	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.Sessions, deps.Session.CookieName, log)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth (público salvo /me)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.Session, log)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", loginLimiter(deps.LoginLimit, deps.LoginWindow), authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/me", requireAuth, authHandler.Me)

	// Perfil (autenticado)
	users := api.Group("/users", requireAuth)
	userHandler := NewUserHandler(deps.AuthUC, log)
	users.Get("/profile", userHandler.Profile)
	users.Put("/profile", userHandler.UpdateProfile)
	users.Put("/password", userHandler.ChangePassword)

	// Products: lectura pública, escritura admin
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, log)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", requireAuth, adminOnly, productHandler.Create)
	products.Put("/:id", requireAuth, adminOnly, productHandler.Update)
	products.Delete("/:id", requireAuth, adminOnly, productHandler.Delete)

	// Orders (todas autenticadas)
	orders := api.Group("/orders", requireAuth)
	orderHandler := NewOrderHandler(deps.OrderUC, log)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", adminOnly, orderHandler.List)
	orders.Get("/user/:userId", orderHandler.ListByUser)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Get("/:id/receipt", orderHandler.Receipt)
	orders.Patch("/:id/status", adminOnly, orderHandler.UpdateStatus)
	orders.Delete("/:id", adminOnly, orderHandler.Delete)
}

func loginLimiter(max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:    "TOO_MANY_REQUESTS",
				Message: "demasiados intentos de inicio de sesión, intente más tarde",
			})
		},
	})
}
