package dto

import "github.com/jhoicas/sweetshop-api/internal/domain/entity"

// SweetFromEntity construye la vista pública de un producto.
func SweetFromEntity(s *entity.Sweet) SweetResponse {
	return SweetResponse{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		Price:           s.Price.StringFixed(entity.PriceScale),
		Category:        s.Category,
		QuantityInStock: s.QuantityInStock,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// SweetsFromEntities mapea una lista; nunca devuelve nil para que el JSON sea [].
func SweetsFromEntities(list []*entity.Sweet) []SweetResponse {
	out := make([]SweetResponse, 0, len(list))
	for _, s := range list {
		out = append(out, SweetFromEntity(s))
	}
	return out
}

// EventFromEntity construye la vista de un movimiento.
func EventFromEntity(e *entity.InventoryEvent) InventoryEventResponse {
	return InventoryEventResponse{
		ID:          e.ID,
		SweetID:     e.SweetID,
		Type:        e.Type,
		Quantity:    e.Quantity,
		PerformedBy: e.PerformedBy,
		OccurredAt:  e.OccurredAt,
	}
}
