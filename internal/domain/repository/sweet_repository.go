package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
)

// SweetFilter criterios de búsqueda del catálogo. Los campos vacíos no filtran.
type SweetFilter struct {
	Search      string // subcadena en nombre o descripción
	Name        string // subcadena solo en nombre
	Category    string // igualdad sin distinguir mayúsculas
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	InStockOnly bool
}

// SweetRepository puerto de persistencia del catálogo (usable con pool o tx).
type SweetRepository interface {
	// Create devuelve domain.ErrSweetNameAlreadyExists si el nombre ya existe.
	Create(ctx context.Context, sweet *entity.Sweet) error
	GetByID(ctx context.Context, id string) (*entity.Sweet, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Sweet, error)
	// ExistsByName compara sin distinguir mayúsculas, ignorando excludeID si no está vacío.
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	Update(ctx context.Context, sweet *entity.Sweet) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter SweetFilter) ([]*entity.Sweet, error)
	// AdjustStock suma delta al stock solo si el resultado no es negativo.
	// Devuelve domain.ErrNotFound o domain.ErrInsufficientStock sin modificar nada.
	AdjustStock(ctx context.Context, id string, delta int) (*entity.Sweet, error)
}
