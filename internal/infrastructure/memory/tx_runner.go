package memory

import (
	"context"

	"github.com/jhoicas/sweetshop-api/internal/application/ports"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner serializa las transacciones con el lock exclusivo del Store. fn trabaja
// sobre una copia del estado que solo se publica si termina sin error.
type TxRunner struct {
	store *Store
}

// Run ejecuta fn de forma atómica. Un error o pánico descarta todos los cambios.
func (r *TxRunner) Run(ctx context.Context, fn func(
	sweets repository.SweetRepository,
	events repository.InventoryEventRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	work := r.store.st.clone()
	sc := scope{store: r.store, tx: work}
	if err := fn(&SweetRepo{sc}, &EventRepo{sc}); err != nil {
		return err
	}
	r.store.st = work
	return nil
}
