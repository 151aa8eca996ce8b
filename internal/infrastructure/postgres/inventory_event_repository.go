package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

var _ repository.InventoryEventRepository = (*InventoryEventRepo)(nil)

// InventoryEventRepo historial de inventario sobre PostgreSQL. No expone Update ni Delete.
type InventoryEventRepo struct {
	q Querier
}

// NewInventoryEventRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryEventRepository(q Querier) *InventoryEventRepo {
	return &InventoryEventRepo{q: q}
}

func (r *InventoryEventRepo) Append(ctx context.Context, e *entity.InventoryEvent) error {
	query := `
		INSERT INTO inventory_events (id, sweet_id, type, quantity, performed_by, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, e.ID, e.SweetID, e.Type, e.Quantity, e.PerformedBy, e.OccurredAt)
	if err != nil {
		return fmt.Errorf("insert inventory event: %w", mapError(err))
	}
	return nil
}

// ListBySweet devuelve los eventos del producto, del más reciente al más antiguo.
func (r *InventoryEventRepo) ListBySweet(ctx context.Context, sweetID string, limit, offset int) ([]*entity.InventoryEvent, error) {
	q := psql.
		Select("id", "sweet_id", "type", "quantity", "performed_by", "occurred_at").
		From("inventory_events").
		Where("sweet_id = ?", sweetID).
		OrderBy("occurred_at DESC", "id DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	if offset > 0 {
		q = q.Offset(uint64(offset))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list events: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory events: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.InventoryEvent, 0)
	for rows.Next() {
		var e entity.InventoryEvent
		if err := rows.Scan(&e.ID, &e.SweetID, &e.Type, &e.Quantity, &e.PerformedBy, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan inventory event: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
