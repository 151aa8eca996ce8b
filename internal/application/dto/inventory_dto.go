package dto

import "time"

// QuantityRequest cuerpo de purchase y restock.
type QuantityRequest struct {
	Quantity int `json:"quantity"`
}

// InventoryEventResponse vista de un movimiento.
type InventoryEventResponse struct {
	ID          string    `json:"id"`
	SweetID     string    `json:"sweet_id"`
	Type        string    `json:"type"`
	Quantity    int       `json:"quantity"`
	PerformedBy *string   `json:"performed_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// StockChangeResponse resultado de purchase/restock: producto actualizado y evento creado.
type StockChangeResponse struct {
	Sweet SweetResponse          `json:"sweet"`
	Event InventoryEventResponse `json:"event"`
}
