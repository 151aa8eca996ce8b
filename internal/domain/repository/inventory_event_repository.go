package repository

import (
	"context"

	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
)

// InventoryEventRepository puerto del historial de movimientos (solo anexar).
type InventoryEventRepository interface {
	Append(ctx context.Context, event *entity.InventoryEvent) error
	// ListBySweet devuelve los eventos del más reciente al más antiguo.
	ListBySweet(ctx context.Context, sweetID string, limit, offset int) ([]*entity.InventoryEvent, error)
}
