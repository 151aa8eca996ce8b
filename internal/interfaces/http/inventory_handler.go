package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/application/inventory"
)

// InventoryHandler maneja compras, reposiciones e historial (protegido).
type InventoryHandler struct {
	uc *inventory.InventoryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.InventoryUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// Purchase godoc
// @Summary      Comprar unidades de un producto
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del producto"
// @Param        body  body  dto.QuantityRequest  true  "quantity"
// @Success      200   {object}  dto.SweetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sweets/{id}/purchase [post]
func (h *InventoryHandler) Purchase(c *fiber.Ctx) error {
	var in dto.QuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Purchase(c.UserContext(), CurrentUser(c), c.Params("id"), in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out.Sweet)
}

// Restock godoc
// @Summary      Reponer stock (solo administradores)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del producto"
// @Param        body  body  dto.QuantityRequest  true  "quantity"
// @Success      200   {object}  dto.SweetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sweets/{id}/restock [post]
func (h *InventoryHandler) Restock(c *fiber.Ctx) error {
	var in dto.QuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Restock(c.UserContext(), CurrentUser(c), c.Params("id"), in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out.Sweet)
}

// Events godoc
// @Summary      Historial de movimientos de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        limit   query  int     false  "máximo de eventos (50 por defecto)"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {array}   dto.InventoryEventResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sweets/{id}/events [get]
func (h *InventoryHandler) Events(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit"), Offset: c.QueryInt("offset")}
	out, err := h.uc.ListEvents(c.UserContext(), CurrentUser(c), c.Params("id"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
