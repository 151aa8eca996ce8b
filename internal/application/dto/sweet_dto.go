package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSweetRequest alta de producto (solo privilegiados). La categoría se valida sin distinguir mayúsculas.
type CreateSweetRequest struct {
	Name            string           `json:"name" validate:"required,max=225"`
	Description     string           `json:"description"`
	Price           *decimal.Decimal `json:"price" validate:"required"`
	Category        string           `json:"category"`
	QuantityInStock *int             `json:"quantity_in_stock" validate:"omitempty,min=0"`
}

// UpdateSweetRequest actualización parcial; los campos nil no cambian.
// id, created_by y timestamps no son editables y se ignoran si vienen en el cuerpo.
type UpdateSweetRequest struct {
	Name            *string          `json:"name" validate:"omitempty,max=225"`
	Description     *string          `json:"description"`
	Price           *decimal.Decimal `json:"price"`
	Category        *string          `json:"category"`
	QuantityInStock *int             `json:"quantity_in_stock" validate:"omitempty,min=0"`
}

// ListSweetsQuery parámetros de listado y búsqueda. Los precios llegan como texto
// para poder reportar valores malformados como error de validación.
type ListSweetsQuery struct {
	Search   string `query:"search"`
	Name     string `query:"name"`
	Category string `query:"category"`
	MinPrice string `query:"min_price"`
	MaxPrice string `query:"max_price"`
}

// SweetResponse vista pública de un producto. Price se serializa con dos decimales.
type SweetResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Price           string    `json:"price"`
	Category        string    `json:"category"`
	QuantityInStock int       `json:"quantity_in_stock"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
