package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sweetshop-api/internal/infrastructure/ws"
)

// requireUpgrade responde 426 si la petición no es un upgrade websocket.
func requireUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

// InventoryStream godoc
// @Summary      Movimientos de inventario en vivo (websocket)
// @Description  Autenticación con Bearer o query param access_token. Solo administradores.
// @Tags         inventory
// @Param        access_token  query  string  false  "access token"
// @Success      101
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      426  {object}  dto.ErrorResponse
// @Router       /api/ws/inventory [get]
func InventoryStream(hub *ws.Hub) fiber.Handler {
	return websocket.New(hub.Serve)
}
