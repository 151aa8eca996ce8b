package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

var _ repository.InventoryEventRepository = (*EventRepo)(nil)

// EventRepo historial de inventario en memoria.
type EventRepo struct {
	scope
}

func (r *EventRepo) Append(_ context.Context, event *entity.InventoryEvent) error {
	return r.write(func(st *state) error {
		if _, ok := st.sweets[event.SweetID]; !ok {
			return domain.ErrNotFound
		}
		st.events = append(st.events, copyEvent(event))
		return nil
	})
}

func (r *EventRepo) ListBySweet(_ context.Context, sweetID string, limit, offset int) ([]*entity.InventoryEvent, error) {
	var out []*entity.InventoryEvent
	err := r.read(func(st *state) error {
		for i := len(st.events) - 1; i >= 0; i-- {
			if e := st.events[i]; e.SweetID == sweetID {
				out = append(out, copyEvent(e))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OccurredAt.After(out[j].OccurredAt) })
	if offset >= len(out) {
		return []*entity.InventoryEvent{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}
