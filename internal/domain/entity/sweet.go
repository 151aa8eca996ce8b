package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de producto.
const (
	CategoryChocolate = "chocolate"
	CategoryCandy     = "candy"
	CategoryBakery    = "bakery"
	CategoryGum       = "gum"
	CategoryOther     = "other"
)

// Categories lista cerrada de categorías válidas.
var Categories = []string{CategoryChocolate, CategoryCandy, CategoryBakery, CategoryGum, CategoryOther}

// PriceScale decimales de la columna price (NUMERIC(6,2)).
const PriceScale = 2

// MaxPrice precio máximo representable (exclusivo).
var MaxPrice = decimal.NewFromInt(10000)

// IsValidCategory indica si c pertenece al conjunto de categorías.
func IsValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// Sweet producto del catálogo con su stock actual.
type Sweet struct {
	ID              string
	Name            string
	Description     string
	Price           decimal.Decimal
	QuantityInStock int
	Category        string
	CreatedBy       *string // nil si el creador fue eliminado
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// InStock indica si hay al menos una unidad disponible.
func (s *Sweet) InStock() bool {
	return s.QuantityInStock > 0
}
