package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/sweetshop-api/internal/application/auth"
	"github.com/jhoicas/sweetshop-api/internal/application/inventory"
	"github.com/jhoicas/sweetshop-api/internal/application/ports"
	"github.com/jhoicas/sweetshop-api/internal/application/usecase"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
	"github.com/jhoicas/sweetshop-api/internal/infrastructure/memory"
	"github.com/jhoicas/sweetshop-api/internal/infrastructure/postgres"
	"github.com/jhoicas/sweetshop-api/internal/infrastructure/ws"
	httpRouter "github.com/jhoicas/sweetshop-api/internal/interfaces/http"
	"github.com/jhoicas/sweetshop-api/pkg/config"
	"github.com/jhoicas/sweetshop-api/pkg/jwt"
	"github.com/jhoicas/sweetshop-api/pkg/logger"
)

// storage repositorios y transacciones del backend elegido.
type storage struct {
	users  repository.UserRepository
	sweets repository.SweetRepository
	events repository.InventoryEventRepository
	tx     ports.TxRunner
	close  func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.App.Storage == config.StorageMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return &storage{
			users:  store.Users(),
			sweets: store.Sweets(),
			events: store.Events(),
			tx:     store.TxRunner(),
			close:  func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Ints64("versions", applied).Msg("migraciones aplicadas")
	}
	return &storage{
		users:  postgres.NewUserRepository(pool),
		sweets: postgres.NewSweetRepository(pool),
		events: postgres.NewInventoryEventRepository(pool),
		tx:     postgres.NewTxRunner(pool),
		close:  pool.Close,
	}, nil
}

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
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	hub := ws.NewHub(log.Named("ws"), 256)
	go hub.Run(ctx)

	authUC := auth.NewAuthUseCase(store.users, auth.Config{
		JWT: jwt.Issuer{
			Secret:            cfg.JWT.Secret,
			Issuer:            cfg.JWT.Issuer,
			AccessExpMinutes:  cfg.JWT.AccessExpiration,
			RefreshExpMinutes: cfg.JWT.RefreshExpiration,
		},
		BcryptCost: cfg.Auth.BcryptCost,
	}, log.Named("auth"))
	sweetUC := usecase.NewSweetUseCase(store.sweets, store.tx, log.Named("catalog"))
	inventoryUC := inventory.NewInventoryUseCase(store.tx, store.sweets, store.events, hub, log.Named("inventory"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log.Named("http")),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Named("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.HTTP.Swagger {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Sweet Shop API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "ws_clients": hub.Clients()})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		SweetUC:     sweetUC,
		InventoryUC: inventoryUC,
		Hub:         hub,
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
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
