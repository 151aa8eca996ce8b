package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sweetshop-api/internal/application/auth"
	"github.com/jhoicas/sweetshop-api/internal/application/inventory"
	"github.com/jhoicas/sweetshop-api/internal/application/usecase"
	"github.com/jhoicas/sweetshop-api/internal/infrastructure/ws"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	SweetUC     *usecase.SweetUseCase
	InventoryUC *inventory.InventoryUseCase
	Hub         *ws.Hub
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	authMW := AuthMiddleware(deps.AuthUC)
	admin := RequirePrivileged()

	// Auth (público salvo /me)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/token/refresh", authHandler.Refresh)
	authGroup.Get("/me", authMW, authHandler.Me)

	// Sweets (protegido). /search va antes de /:id.
	sweets := api.Group("/sweets", authMW)
	sweetHandler := NewSweetHandler(deps.SweetUC)
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	sweets.Get("/", sweetHandler.List)
	sweets.Get("/search", sweetHandler.Search)
	sweets.Post("/", admin, sweetHandler.Create)
	sweets.Get("/:id", sweetHandler.GetByID)
	sweets.Patch("/:id", admin, sweetHandler.Update)
	sweets.Delete("/:id", admin, sweetHandler.Delete)
	sweets.Post("/:id/purchase", inventoryHandler.Purchase)
	sweets.Post("/:id/restock", admin, inventoryHandler.Restock)
	sweets.Get("/:id/events", admin, inventoryHandler.Events)

	// Movimientos en vivo (solo administradores)
	if deps.Hub != nil {
		api.Get("/ws/inventory", requireUpgrade(), authMW, admin, InventoryStream(deps.Hub))
	}
}
