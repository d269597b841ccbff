package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/pluckd-api/internal/application/auth"
	"github.com/jhoicas/pluckd-api/internal/application/ordering"
	"github.com/jhoicas/pluckd-api/internal/application/usecase"
	inframetrics "github.com/jhoicas/pluckd-api/internal/infrastructure/metrics"
	"github.com/jhoicas/pluckd-api/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/pluckd-api/internal/infrastructure/pdf"
	"github.com/jhoicas/pluckd-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/pluckd-api/internal/interfaces/http"
	"github.com/jhoicas/pluckd-api/pkg/config"
	"github.com/jhoicas/pluckd-api/pkg/logger"
	"github.com/jhoicas/pluckd-api/pkg/money"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := postgres.Connect(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, log); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	metrics := inframetrics.NewRegistry(true)
	formatter := money.NewFormatter(cfg.App.Locale, cfg.App.Currency)
	receipts := infrapdf.NewReceiptGenerator(cfg.App.Name, cfg.App.FrontendURL, formatter)

	// Notificaciones: SMTP (o log) → reintentos → cola (pool en memoria o Redis)
	renderer := notify.NewRenderer(cfg.App.Name, cfg.App.FrontendURL, formatter)
	var delivery ordering.Notifier
	if cfg.SMTP.Enabled() {
		delivery = notify.NewSMTPNotifier(cfg.SMTP, renderer, receipts, log.Named("smtp"))
	} else {
		log.Warn().Msg("SMTP_HOST vacío: las notificaciones solo se registran en el log")
		delivery = notify.NewLogNotifier(renderer, log.Named("notify"))
	}
	delivery = notify.NewRetryNotifier(delivery, cfg.Notify.RetryAttempts, cfg.Notify.RetryBackoff, log.Named("notify"))

	var notifier ordering.Notifier
	var closeNotifier func()
	switch cfg.Notify.Queue {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		queue := notify.NewRedisQueue(rdb, cfg.Notify.RedisKey, delivery, cfg.Notify.Timeout, metrics, log.Named("notify"))
		queue.Start(ctx, cfg.Notify.Workers)
		notifier = queue
		closeNotifier = func() {
			queue.Close()
			_ = rdb.Close()
		}
	default:
		async := notify.NewAsyncNotifier(delivery, cfg.Notify.Workers, cfg.Notify.Timeout, metrics, log.Named("notify"))
		notifier = async
		closeNotifier = async.Close
	}

	sessions := auth.NewSessionService(userRepo, auth.JWTConfig{
		Secret: cfg.JWT.Secret,
		TTL:    cfg.JWT.TTL(),
		Issuer: cfg.JWT.Issuer,
	})
	authUC := auth.NewAuthUseCase(userRepo, sessions, log.Named("auth"))
	productUC := usecase.NewProductUseCase(productRepo)
	orderUC := ordering.NewOrderUseCase(orderRepo, userRepo, txRunner, notifier, receipts, metrics, log, ordering.Config{
		StrictTransitions: cfg.Orders.StrictTransitions,
		NotifyTimeout:     cfg.Notify.Timeout,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log.Named("http")),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestID())
	app.Use(metrics.Middleware())
	app.Use(httpRouter.RequestLogger(log.Named("access")))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     joinOrigins(cfg.HTTP.CORSOriginList()),
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    cfg.App.Name + " API",
		}))
	} else {
		log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		pingCtx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name, "database": "down"})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "database": "up"})
	})
	app.Get("/metrics", metrics.Handler())

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		Sessions:    sessions,
		ProductUC:   productUC,
		OrderUC:     orderUC,
		Session:     cfg.Session,
		Log:         log,
		LoginLimit:  cfg.HTTP.LoginLimit,
		LoginWindow: cfg.HTTP.LoginWindow,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	// Las notificaciones en curso terminan antes de cerrar el pool de la base.
	stop()
	closeNotifier()

	log.Info().Msg("aplicación detenida")
}

func joinOrigins(origins []string) string {
	if len(origins) == 0 {
		return "http://localhost:3000"
	}
	return strings.Join(origins, ",")
}
