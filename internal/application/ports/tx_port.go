package ports

import (
	"context"

	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción, pasando repositorios atados a ella.
// Si fn devuelve error (o entra en pánico) no queda ningún cambio persistido.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		sweets repository.SweetRepository,
		events repository.InventoryEventRepository,
	) error) error
}
