package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/application/usecase"
)

// SweetHandler maneja el catálogo (protegido).
type SweetHandler struct {
	uc *usecase.SweetUseCase
}

// NewSweetHandler construye el handler.
func NewSweetHandler(uc *usecase.SweetUseCase) *SweetHandler {
	return &SweetHandler{uc: uc}
}

// List godoc
// @Summary      Listar productos
// @Description  Los clientes solo ven productos con stock; los administradores ven todo.
// @Tags         sweets
// @Security     Bearer
// @Produce      json
// @Param        search     query  string  false  "texto en nombre o descripción"
// @Param        category   query  string  false  "chocolate, candy, bakery, gum, other"
// @Param        min_price  query  string  false  "precio mínimo"
// @Param        max_price  query  string  false  "precio máximo"
// @Success      200  {array}   dto.SweetResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sweets [get]
func (h *SweetHandler) List(c *fiber.Ctx) error {
	var q dto.ListSweetsQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.List(c.UserContext(), CurrentUser(c), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar productos por texto, nombre, categoría y rango de precio
// @Tags         sweets
// @Security     Bearer
// @Produce      json
// @Param        search     query  string  false  "texto en el nombre o la descripción"
// @Param        name       query  string  false  "texto solo en el nombre"
// @Param        category   query  string  false  "categoría"
// @Param        min_price  query  string  false  "precio mínimo"
// @Param        max_price  query  string  false  "precio máximo"
// @Success      200  {array}   dto.SweetResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sweets/search [get]
func (h *SweetHandler) Search(c *fiber.Ctx) error {
	q := dto.ListSweetsQuery{
		Search:   c.Query("search"),
		Name:     c.Query("name"),
		Category: c.Query("category"),
		MinPrice: c.Query("min_price"),
		MaxPrice: c.Query("max_price"),
	}
	out, err := h.uc.List(c.UserContext(), CurrentUser(c), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Detalle de producto
// @Tags         sweets
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.SweetResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sweets/{id} [get]
func (h *SweetHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), CurrentUser(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear producto
// @Tags         sweets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSweetRequest  true  "name, price, category, quantity_in_stock"
// @Success      201   {object}  dto.SweetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/sweets [post]
func (h *SweetHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSweetRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), CurrentUser(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar producto (parcial)
// @Tags         sweets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del producto"
// @Param        body  body  dto.UpdateSweetRequest  true  "campos a modificar"
// @Success      200   {object}  dto.SweetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sweets/{id} [patch]
func (h *SweetHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSweetRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), CurrentUser(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producto
// @Tags         sweets
// @Security     Bearer
// @Param        id   path  string  true  "ID del producto"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sweets/{id} [delete]
func (h *SweetHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), CurrentUser(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
